package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/techrefresher/backend/internal/domain/catalog"
	"github.com/techrefresher/backend/internal/domain/shared"
)

// ItemService handles catalog item management. Receiving a purchase order
// increments linked item stock inside the order's transaction; this service
// only covers catalog CRUD and manual stock corrections.
type ItemService struct {
	itemRepo catalog.ItemRepository
}

// NewItemService creates a new ItemService
func NewItemService(itemRepo catalog.ItemRepository) *ItemService {
	return &ItemService{itemRepo: itemRepo}
}

// Create adds a new catalog item with zero stock
func (s *ItemService) Create(ctx context.Context, groupID uuid.UUID, req CreateItemRequest) (*ItemResponse, error) {
	item, err := catalog.NewItem(groupID, req.Category, req.Name, req.Brand, req.Model, req.Color, req.Notes)
	if err != nil {
		return nil, err
	}

	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}

	response := ToItemResponse(item)
	return &response, nil
}

// GetByID retrieves a catalog item by ID
func (s *ItemService) GetByID(ctx context.Context, groupID, itemID uuid.UUID) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, groupID, itemID)
	if err != nil {
		return nil, err
	}
	response := ToItemResponse(item)
	return &response, nil
}

// List retrieves catalog items with filtering and pagination
func (s *ItemService) List(ctx context.Context, groupID uuid.UUID, filter ItemListFilter) ([]ItemResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	domainFilter.Search = filter.Search
	if filter.Brand != "" {
		domainFilter.Filters["brand"] = filter.Brand
	}
	if filter.InStock {
		domainFilter.Filters["in_stock"] = true
	}

	var (
		items []catalog.Item
		err   error
	)
	if filter.Category != nil {
		domainFilter.Filters["category"] = filter.Category.String()
		items, err = s.itemRepo.FindByCategory(ctx, groupID, *filter.Category, domainFilter)
	} else {
		items, err = s.itemRepo.FindAll(ctx, groupID, domainFilter)
	}
	if err != nil {
		return nil, 0, err
	}

	total, err := s.itemRepo.Count(ctx, groupID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToItemResponses(items), total, nil
}

// Update changes the descriptive fields of a catalog item
func (s *ItemService) Update(ctx context.Context, groupID, itemID uuid.UUID, req UpdateItemRequest) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, groupID, itemID)
	if err != nil {
		return nil, err
	}

	if err := item.Update(req.Name, req.Brand, req.Model, req.Color, req.Notes); err != nil {
		return nil, err
	}

	if err := s.itemRepo.SaveWithLock(ctx, item); err != nil {
		return nil, err
	}

	response := ToItemResponse(item)
	return &response, nil
}

// AddStock applies a manual upward stock correction
func (s *ItemService) AddStock(ctx context.Context, groupID, itemID uuid.UUID, req AdjustStockRequest) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, groupID, itemID)
	if err != nil {
		return nil, err
	}

	if err := item.IncrementStock(req.Quantity); err != nil {
		return nil, err
	}

	if err := s.itemRepo.SaveWithLock(ctx, item); err != nil {
		return nil, err
	}

	response := ToItemResponse(item)
	return &response, nil
}

// RemoveStock applies a manual downward stock correction
func (s *ItemService) RemoveStock(ctx context.Context, groupID, itemID uuid.UUID, req AdjustStockRequest) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, groupID, itemID)
	if err != nil {
		return nil, err
	}

	if err := item.DecrementStock(req.Quantity); err != nil {
		return nil, err
	}

	if err := s.itemRepo.SaveWithLock(ctx, item); err != nil {
		return nil, err
	}

	response := ToItemResponse(item)
	return &response, nil
}

// Delete removes a catalog item. Items still carrying stock are kept so the
// running counters stay explainable.
func (s *ItemService) Delete(ctx context.Context, groupID, itemID uuid.UUID) error {
	item, err := s.itemRepo.FindByID(ctx, groupID, itemID)
	if err != nil {
		return err
	}

	if item.Stock > 0 {
		return shared.NewDomainError("INVALID_STATE", "Cannot delete a catalog item that still has stock")
	}

	return s.itemRepo.Delete(ctx, groupID, itemID)
}
