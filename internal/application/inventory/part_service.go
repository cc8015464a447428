package inventory

import (
	"context"

	"github.com/google/uuid"

	"github.com/techrefresher/backend/internal/domain/inventory"
	"github.com/techrefresher/backend/internal/domain/shared"
)

// PartService handles part records and manual stock adjustments.
// Part stock also moves through purchase order receiving, device sales and
// harvesting; those flows run in their own services.
type PartService struct {
	partRepo       inventory.PartRepository
	eventPublisher shared.EventPublisher
}

// NewPartService creates a new PartService
func NewPartService(partRepo inventory.PartRepository) *PartService {
	return &PartService{partRepo: partRepo}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *PartService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create defines a new empty part record. The slug is derived from the
// descriptive attributes and duplicates are rejected.
func (s *PartService) Create(ctx context.Context, groupID uuid.UUID, req CreatePartRequest) (*PartResponse, error) {
	slug := inventory.PartSlug(req.Brand, req.Model, req.PartName, req.Color)
	if _, err := s.partRepo.FindBySlug(ctx, groupID, slug); err == nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A part with these attributes already exists")
	}

	part, err := inventory.NewPart(groupID, req.Brand, req.Model, req.PartName, req.Color)
	if err != nil {
		return nil, err
	}

	if err := s.partRepo.Save(ctx, part); err != nil {
		return nil, err
	}

	response := ToPartResponse(part)
	return &response, nil
}

// GetByID retrieves a part by ID
func (s *PartService) GetByID(ctx context.Context, groupID, partID uuid.UUID) (*PartResponse, error) {
	part, err := s.partRepo.FindByID(ctx, groupID, partID)
	if err != nil {
		return nil, err
	}
	response := ToPartResponse(part)
	return &response, nil
}

// GetBySlug retrieves a part by its derived slug
func (s *PartService) GetBySlug(ctx context.Context, groupID uuid.UUID, slug string) (*PartResponse, error) {
	part, err := s.partRepo.FindBySlug(ctx, groupID, slug)
	if err != nil {
		return nil, err
	}
	response := ToPartResponse(part)
	return &response, nil
}

// List retrieves parts with filtering and pagination
func (s *PartService) List(ctx context.Context, groupID uuid.UUID, filter PartListFilter) ([]PartResponse, int64, error) {
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
	if filter.Model != "" {
		domainFilter.Filters["model"] = filter.Model
	}
	if filter.InStock {
		domainFilter.Filters["in_stock"] = true
	}

	parts, err := s.partRepo.FindAll(ctx, groupID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.partRepo.Count(ctx, groupID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToPartResponses(parts), total, nil
}

// Adjust applies a manual quantity delta to a part
func (s *PartService) Adjust(ctx context.Context, groupID, partID uuid.UUID, req AdjustPartRequest) (*PartResponse, error) {
	part, err := s.partRepo.FindByID(ctx, groupID, partID)
	if err != nil {
		return nil, err
	}

	if err := part.Adjust(req.Delta, req.UnitCost); err != nil {
		return nil, err
	}

	if err := s.partRepo.SaveWithLock(ctx, part); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, part)

	response := ToPartResponse(part)
	return &response, nil
}

// Rename updates a part's descriptive attributes and re-derives its slug
func (s *PartService) Rename(ctx context.Context, groupID, partID uuid.UUID, req RenamePartRequest) (*PartResponse, error) {
	part, err := s.partRepo.FindByID(ctx, groupID, partID)
	if err != nil {
		return nil, err
	}

	newSlug := inventory.PartSlug(req.Brand, req.Model, req.PartName, req.Color)
	if newSlug != part.Slug {
		if _, err := s.partRepo.FindBySlug(ctx, groupID, newSlug); err == nil {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "A part with these attributes already exists")
		}
	}

	if err := part.Rename(req.Brand, req.Model, req.PartName, req.Color); err != nil {
		return nil, err
	}

	if err := s.partRepo.SaveWithLock(ctx, part); err != nil {
		return nil, err
	}

	response := ToPartResponse(part)
	return &response, nil
}

// Delete removes an empty part record
func (s *PartService) Delete(ctx context.Context, groupID, partID uuid.UUID) error {
	part, err := s.partRepo.FindByID(ctx, groupID, partID)
	if err != nil {
		return err
	}

	if part.Quantity > 0 {
		return shared.NewDomainError("INVALID_STATE", "Cannot delete a part that still has stock")
	}

	return s.partRepo.Delete(ctx, groupID, partID)
}

// publishEvents publishes and clears the part's pending domain events
func (s *PartService) publishEvents(ctx context.Context, part *inventory.Part) {
	events := part.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if s.eventPublisher != nil {
		_ = s.eventPublisher.Publish(ctx, events...)
	}
	part.ClearDomainEvents()
}
