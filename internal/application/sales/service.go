package sales

import (
	"context"

	"github.com/google/uuid"

	"github.com/techrefresher/backend/internal/domain/sales"
	"github.com/techrefresher/backend/internal/domain/shared"
)

// OrderService serves the sales history. Orders are created by the device
// sale flow; this service only reads them.
type OrderService struct {
	orderRepo sales.OrderRepository
}

// NewOrderService creates a new OrderService
func NewOrderService(orderRepo sales.OrderRepository) *OrderService {
	return &OrderService{orderRepo: orderRepo}
}

// GetByID retrieves a sales order by ID
func (s *OrderService) GetByID(ctx context.Context, groupID, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, groupID, orderID)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// GetByDeviceID retrieves the order that sold a given device
func (s *OrderService) GetByDeviceID(ctx context.Context, groupID, deviceID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByDeviceID(ctx, groupID, deviceID)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// List retrieves sales orders with filtering and pagination
func (s *OrderService) List(ctx context.Context, groupID uuid.UUID, filter OrderListFilter) ([]OrderResponse, int64, error) {
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

	if filter.Platform != "" {
		domainFilter.Filters["platform"] = filter.Platform
	}
	if filter.StartDate != nil {
		domainFilter.Filters["start_date"] = *filter.StartDate
	}
	if filter.EndDate != nil {
		domainFilter.Filters["end_date"] = *filter.EndDate
	}

	orders, err := s.orderRepo.FindAll(ctx, groupID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.orderRepo.Count(ctx, groupID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToOrderResponses(orders), total, nil
}
