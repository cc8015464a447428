package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"

	salesapp "github.com/techrefresher/backend/internal/application/sales"
	"github.com/techrefresher/backend/internal/domain/inventory"
	"github.com/techrefresher/backend/internal/domain/sales"
	"github.com/techrefresher/backend/internal/domain/shared"
	"github.com/techrefresher/backend/internal/infrastructure/persistence"
	"github.com/techrefresher/backend/internal/infrastructure/telemetry"
)

// DeviceService handles device stocking and the two terminal dispositions:
// selling a device and harvesting it for parts. Both dispositions write the
// sale/part records, the archive copy and the active-set delete in one
// transaction.
type DeviceService struct {
	deviceRepo      inventory.DeviceRepository
	archivedRepo    inventory.ArchivedDeviceRepository
	uow             persistence.UnitOfWork
	eventPublisher  shared.EventPublisher
	businessMetrics *telemetry.BusinessMetrics
}

// NewDeviceService creates a new DeviceService
func NewDeviceService(deviceRepo inventory.DeviceRepository, archivedRepo inventory.ArchivedDeviceRepository, uow persistence.UnitOfWork) *DeviceService {
	return &DeviceService{
		deviceRepo:   deviceRepo,
		archivedRepo: archivedRepo,
		uow:          uow,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *DeviceService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetBusinessMetrics sets the business metrics collector
func (s *DeviceService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// Create stocks a new device
func (s *DeviceService) Create(ctx context.Context, groupID uuid.UUID, req CreateDeviceRequest) (*DeviceResponse, error) {
	device, err := inventory.NewDevice(groupID, req.Brand, req.Model, req.Color, req.Serial, req.Condition, req.Cost, req.Notes)
	if err != nil {
		return nil, err
	}

	if err := s.deviceRepo.Save(ctx, device); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, device)

	response := ToDeviceResponse(device)
	return &response, nil
}

// GetByID retrieves an in-stock device by ID
func (s *DeviceService) GetByID(ctx context.Context, groupID, deviceID uuid.UUID) (*DeviceResponse, error) {
	device, err := s.deviceRepo.FindByID(ctx, groupID, deviceID)
	if err != nil {
		return nil, err
	}
	response := ToDeviceResponse(device)
	return &response, nil
}

// List retrieves in-stock devices with filtering and pagination
func (s *DeviceService) List(ctx context.Context, groupID uuid.UUID, filter DeviceListFilter) ([]DeviceResponse, int64, error) {
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
	if filter.Condition != "" {
		domainFilter.Filters["condition"] = filter.Condition
	}

	devices, err := s.deviceRepo.FindAll(ctx, groupID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.deviceRepo.Count(ctx, groupID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToDeviceResponses(devices), total, nil
}

// Update edits the descriptive fields of an in-stock device
func (s *DeviceService) Update(ctx context.Context, groupID, deviceID uuid.UUID, req UpdateDeviceRequest) (*DeviceResponse, error) {
	device, err := s.deviceRepo.FindByID(ctx, groupID, deviceID)
	if err != nil {
		return nil, err
	}

	if err := device.Update(req.Brand, req.Model, req.Color, req.Serial, req.Condition, req.Cost, req.Notes); err != nil {
		return nil, err
	}

	if err := s.deviceRepo.SaveWithLock(ctx, device); err != nil {
		return nil, err
	}

	response := ToDeviceResponse(device)
	return &response, nil
}

// Delete removes a device from the active set without archiving it.
// Used for data-entry mistakes, not for dispositions.
func (s *DeviceService) Delete(ctx context.Context, groupID, deviceID uuid.UUID) error {
	if _, err := s.deviceRepo.FindByID(ctx, groupID, deviceID); err != nil {
		return err
	}
	return s.deviceRepo.Delete(ctx, groupID, deviceID)
}

// Sell sells a device. One transaction creates the sale order, copies the
// device into the archive with the order back-reference, deletes it from
// the active set and consumes each named part at its current average cost.
func (s *DeviceService) Sell(ctx context.Context, groupID, deviceID uuid.UUID, req SellDeviceRequest) (*SellResultResponse, error) {
	var (
		device        *inventory.Device
		order         *sales.Order
		archived      *inventory.ArchivedDevice
		consumedParts []*inventory.Part
	)

	err := s.uow.Execute(ctx, func(repos *persistence.Repositories) error {
		var err error
		device, err = repos.Devices.FindByID(ctx, groupID, deviceID)
		if err != nil {
			return err
		}

		consumed := make([]sales.PartConsumption, 0, len(req.Parts))
		for _, sel := range req.Parts {
			part, err := repos.Parts.FindByID(ctx, groupID, sel.PartID)
			if err != nil {
				return err
			}
			unitCost := part.UnitCost()
			if err := part.Consume(sel.Quantity); err != nil {
				return err
			}
			if err := repos.Parts.SaveWithLock(ctx, part); err != nil {
				return err
			}
			consumed = append(consumed, sales.PartConsumption{
				PartID:   part.ID,
				PartName: part.PartName,
				Quantity: sel.Quantity,
				UnitCost: unitCost,
			})
			consumedParts = append(consumedParts, part)
		}

		order, err = sales.NewOrder(groupID, device.ID, device.DisplayName(), req.Buyer, req.Platform,
			req.SaleDate, req.TotalPaid, req.Fees, device.Cost, consumed, req.Notes)
		if err != nil {
			return err
		}
		if err := repos.SalesOrders.Save(ctx, order); err != nil {
			return err
		}

		if err := device.MarkSold(order.ID); err != nil {
			return err
		}
		archived, err = inventory.NewArchivedDevice(device, &order.ID)
		if err != nil {
			return err
		}
		if err := repos.ArchivedDevices.Save(ctx, archived); err != nil {
			return err
		}

		return repos.Devices.Delete(ctx, groupID, device.ID)
	})
	if err != nil {
		return nil, err
	}

	if s.businessMetrics != nil {
		s.businessMetrics.RecordDeviceSold(ctx, groupID, req.Platform, req.TotalPaid)
	}
	s.publishEvents(ctx, device, order)
	for _, part := range consumedParts {
		s.publishEvents(ctx, part)
	}

	result := &SellResultResponse{
		Order:          salesapp.ToOrderResponse(order),
		ArchivedDevice: ToArchivedDeviceResponse(archived),
		ConsumedParts:  make([]PartResponse, len(consumedParts)),
	}
	for i, part := range consumedParts {
		result.ConsumedParts[i] = ToPartResponse(part)
	}
	return result, nil
}

// Harvest breaks a device down for parts. Each selection upserts a part by
// its derived slug, so harvesting the same part from two identical devices
// increments one record instead of creating two. The part updates, the
// archive copy and the active-set delete commit in one transaction.
func (s *DeviceService) Harvest(ctx context.Context, groupID, deviceID uuid.UUID, req HarvestDeviceRequest) (*HarvestResultResponse, error) {
	var (
		device     *inventory.Device
		archived   *inventory.ArchivedDevice
		parts      []*inventory.Part
		totalUnits int64
	)

	err := s.uow.Execute(ctx, func(repos *persistence.Repositories) error {
		var err error
		device, err = repos.Devices.FindByID(ctx, groupID, deviceID)
		if err != nil {
			return err
		}

		for _, sel := range req.Selections {
			slug := inventory.PartSlug(device.Brand, device.Model, sel.PartName, sel.Color)
			part, err := repos.Parts.FindBySlug(ctx, groupID, slug)
			isNew := false
			if err != nil {
				if !errors.Is(err, shared.ErrNotFound) {
					return err
				}
				part, err = inventory.NewPart(groupID, device.Brand, device.Model, sel.PartName, sel.Color)
				if err != nil {
					return err
				}
				isNew = true
			}

			if err := part.AddStock(sel.Quantity, sel.UnitCost); err != nil {
				return err
			}

			if isNew {
				err = repos.Parts.Save(ctx, part)
			} else {
				err = repos.Parts.SaveWithLock(ctx, part)
			}
			if err != nil {
				return err
			}

			parts = append(parts, part)
			totalUnits += sel.Quantity
		}

		if err := device.MarkHarvested(); err != nil {
			return err
		}
		archived, err = inventory.NewArchivedDevice(device, nil)
		if err != nil {
			return err
		}
		if err := repos.ArchivedDevices.Save(ctx, archived); err != nil {
			return err
		}

		return repos.Devices.Delete(ctx, groupID, device.ID)
	})
	if err != nil {
		return nil, err
	}

	if s.businessMetrics != nil {
		s.businessMetrics.RecordPartsHarvested(ctx, groupID, totalUnits)
	}
	s.publishEvents(ctx, device)
	for _, part := range parts {
		s.publishEvents(ctx, part)
	}

	result := &HarvestResultResponse{
		ArchivedDevice: ToArchivedDeviceResponse(archived),
		Parts:          make([]PartResponse, len(parts)),
		TotalUnits:     totalUnits,
	}
	for i, part := range parts {
		result.Parts[i] = ToPartResponse(part)
	}
	return result, nil
}

// GetArchivedByID retrieves an archived device by archive entry ID
func (s *DeviceService) GetArchivedByID(ctx context.Context, groupID, id uuid.UUID) (*ArchivedDeviceResponse, error) {
	device, err := s.archivedRepo.FindByID(ctx, groupID, id)
	if err != nil {
		return nil, err
	}
	response := ToArchivedDeviceResponse(device)
	return &response, nil
}

// ListArchived retrieves the sold/harvested history
func (s *DeviceService) ListArchived(ctx context.Context, groupID uuid.UUID, filter ArchivedDeviceListFilter) ([]ArchivedDeviceResponse, int64, error) {
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

	var (
		devices []inventory.ArchivedDevice
		err     error
	)
	if filter.Status != nil {
		domainFilter.Filters["status"] = string(*filter.Status)
		devices, err = s.archivedRepo.FindByStatus(ctx, groupID, *filter.Status, domainFilter)
	} else {
		devices, err = s.archivedRepo.FindAll(ctx, groupID, domainFilter)
	}
	if err != nil {
		return nil, 0, err
	}

	total, err := s.archivedRepo.Count(ctx, groupID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToArchivedDeviceResponses(devices), total, nil
}

// publishEvents publishes and clears an aggregate's pending domain events
func (s *DeviceService) publishEvents(ctx context.Context, aggregates ...shared.AggregateRoot) {
	for _, aggregate := range aggregates {
		events := aggregate.GetDomainEvents()
		if len(events) == 0 {
			continue
		}
		if s.eventPublisher != nil {
			_ = s.eventPublisher.Publish(ctx, events...)
		}
		aggregate.ClearDomainEvents()
	}
}
