package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/techrefresher/backend/internal/domain/inventory"
	"github.com/techrefresher/backend/internal/domain/sales"
	"github.com/techrefresher/backend/internal/domain/shared"
	"github.com/techrefresher/backend/internal/infrastructure/persistence"
)

// MockDeviceRepository is a mock implementation of inventory.DeviceRepository
type MockDeviceRepository struct {
	mock.Mock
}

func (m *MockDeviceRepository) FindByID(ctx context.Context, groupID, id uuid.UUID) (*inventory.Device, error) {
	args := m.Called(ctx, groupID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Device), args.Error(1)
}

func (m *MockDeviceRepository) FindAll(ctx context.Context, groupID uuid.UUID, filter shared.Filter) ([]inventory.Device, error) {
	args := m.Called(ctx, groupID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.Device), args.Error(1)
}

func (m *MockDeviceRepository) Save(ctx context.Context, device *inventory.Device) error {
	args := m.Called(ctx, device)
	return args.Error(0)
}

func (m *MockDeviceRepository) SaveWithLock(ctx context.Context, device *inventory.Device) error {
	args := m.Called(ctx, device)
	return args.Error(0)
}

func (m *MockDeviceRepository) Delete(ctx context.Context, groupID, id uuid.UUID) error {
	args := m.Called(ctx, groupID, id)
	return args.Error(0)
}

func (m *MockDeviceRepository) Count(ctx context.Context, groupID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, groupID, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockArchivedDeviceRepository is a mock implementation of inventory.ArchivedDeviceRepository
type MockArchivedDeviceRepository struct {
	mock.Mock
}

func (m *MockArchivedDeviceRepository) FindByID(ctx context.Context, groupID, id uuid.UUID) (*inventory.ArchivedDevice, error) {
	args := m.Called(ctx, groupID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.ArchivedDevice), args.Error(1)
}

func (m *MockArchivedDeviceRepository) FindByDeviceID(ctx context.Context, groupID, deviceID uuid.UUID) (*inventory.ArchivedDevice, error) {
	args := m.Called(ctx, groupID, deviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.ArchivedDevice), args.Error(1)
}

func (m *MockArchivedDeviceRepository) FindAll(ctx context.Context, groupID uuid.UUID, filter shared.Filter) ([]inventory.ArchivedDevice, error) {
	args := m.Called(ctx, groupID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.ArchivedDevice), args.Error(1)
}

func (m *MockArchivedDeviceRepository) FindByStatus(ctx context.Context, groupID uuid.UUID, status inventory.DeviceStatus, filter shared.Filter) ([]inventory.ArchivedDevice, error) {
	args := m.Called(ctx, groupID, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.ArchivedDevice), args.Error(1)
}

func (m *MockArchivedDeviceRepository) Save(ctx context.Context, device *inventory.ArchivedDevice) error {
	args := m.Called(ctx, device)
	return args.Error(0)
}

func (m *MockArchivedDeviceRepository) Count(ctx context.Context, groupID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, groupID, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockPartRepository is a mock implementation of inventory.PartRepository
type MockPartRepository struct {
	mock.Mock
}

func (m *MockPartRepository) FindByID(ctx context.Context, groupID, id uuid.UUID) (*inventory.Part, error) {
	args := m.Called(ctx, groupID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Part), args.Error(1)
}

func (m *MockPartRepository) FindBySlug(ctx context.Context, groupID uuid.UUID, slug string) (*inventory.Part, error) {
	args := m.Called(ctx, groupID, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Part), args.Error(1)
}

func (m *MockPartRepository) FindAll(ctx context.Context, groupID uuid.UUID, filter shared.Filter) ([]inventory.Part, error) {
	args := m.Called(ctx, groupID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.Part), args.Error(1)
}

func (m *MockPartRepository) Save(ctx context.Context, part *inventory.Part) error {
	args := m.Called(ctx, part)
	return args.Error(0)
}

func (m *MockPartRepository) SaveWithLock(ctx context.Context, part *inventory.Part) error {
	args := m.Called(ctx, part)
	return args.Error(0)
}

func (m *MockPartRepository) Delete(ctx context.Context, groupID, id uuid.UUID) error {
	args := m.Called(ctx, groupID, id)
	return args.Error(0)
}

func (m *MockPartRepository) Count(ctx context.Context, groupID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, groupID, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockSalesOrderRepository is a mock implementation of sales.OrderRepository
type MockSalesOrderRepository struct {
	mock.Mock
}

func (m *MockSalesOrderRepository) FindByID(ctx context.Context, groupID, id uuid.UUID) (*sales.Order, error) {
	args := m.Called(ctx, groupID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Order), args.Error(1)
}

func (m *MockSalesOrderRepository) FindAll(ctx context.Context, groupID uuid.UUID, filter shared.Filter) ([]sales.Order, error) {
	args := m.Called(ctx, groupID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]sales.Order), args.Error(1)
}

func (m *MockSalesOrderRepository) FindByDeviceID(ctx context.Context, groupID, deviceID uuid.UUID) (*sales.Order, error) {
	args := m.Called(ctx, groupID, deviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Order), args.Error(1)
}

func (m *MockSalesOrderRepository) Save(ctx context.Context, order *sales.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockSalesOrderRepository) Count(ctx context.Context, groupID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, groupID, filter)
	return args.Get(0).(int64), args.Error(1)
}

// fakeUnitOfWork hands the given repositories to fn without a real transaction
type fakeUnitOfWork struct {
	repos *persistence.Repositories
}

func (f *fakeUnitOfWork) Execute(ctx context.Context, fn func(repos *persistence.Repositories) error) error {
	return fn(f.repos)
}

// capturingPublisher records published domain events
type capturingPublisher struct {
	events []shared.DomainEvent
}

func (p *capturingPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

func (p *capturingPublisher) eventTypes() []string {
	types := make([]string, len(p.events))
	for i, e := range p.events {
		types[i] = e.EventType()
	}
	return types
}

func newTestDevice(t *testing.T, groupID uuid.UUID) *inventory.Device {
	t.Helper()

	device, err := inventory.NewDevice(groupID, "Apple", "iPhone 12", "Black", "SN-001", "Good", decimal.NewFromInt(150), "")
	require.NoError(t, err)
	device.ClearDomainEvents()
	return device
}

func newStockedPart(t *testing.T, groupID uuid.UUID, quantity int64, unitCost decimal.Decimal) *inventory.Part {
	t.Helper()

	part, err := inventory.NewPart(groupID, "Apple", "iPhone 12", "Screen", "Black")
	require.NoError(t, err)
	if quantity > 0 {
		require.NoError(t, part.AddStock(quantity, unitCost))
	}
	part.ClearDomainEvents()
	return part
}

func TestDeviceService_Create(t *testing.T) {
	ctx := context.Background()
	groupID := uuid.New()

	t.Run("stocks a device", func(t *testing.T) {
		deviceRepo := new(MockDeviceRepository)
		deviceRepo.On("Save", ctx, mock.AnythingOfType("*inventory.Device")).Return(nil)

		publisher := &capturingPublisher{}
		service := NewDeviceService(deviceRepo, nil, nil)
		service.SetEventPublisher(publisher)

		resp, err := service.Create(ctx, groupID, CreateDeviceRequest{
			Brand: "Apple",
			Model: "iPhone 12",
			Color: "Black",
			Cost:  decimal.NewFromInt(150),
		})

		require.NoError(t, err)
		assert.Equal(t, "IN_STOCK", resp.Status)
		assert.Equal(t, "Apple iPhone 12 (Black)", resp.DisplayName)
		assert.Equal(t, []string{inventory.EventTypeDeviceStocked}, publisher.eventTypes())
	})

	t.Run("rejects missing brand", func(t *testing.T) {
		deviceRepo := new(MockDeviceRepository)
		service := NewDeviceService(deviceRepo, nil, nil)

		_, err := service.Create(ctx, groupID, CreateDeviceRequest{Model: "iPhone 12"})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_BRAND", domainErr.Code)
		deviceRepo.AssertNotCalled(t, "Save")
	})
}

func TestDeviceService_Sell(t *testing.T) {
	ctx := context.Background()
	groupID := uuid.New()

	t.Run("sells device and consumes parts in one unit of work", func(t *testing.T) {
		device := newTestDevice(t, groupID)
		part := newStockedPart(t, groupID, 5, decimal.NewFromInt(20))

		deviceRepo := new(MockDeviceRepository)
		archivedRepo := new(MockArchivedDeviceRepository)
		partRepo := new(MockPartRepository)
		orderRepo := new(MockSalesOrderRepository)

		deviceRepo.On("FindByID", ctx, groupID, device.ID).Return(device, nil)
		deviceRepo.On("Delete", ctx, groupID, device.ID).Return(nil)
		partRepo.On("FindByID", ctx, groupID, part.ID).Return(part, nil)
		partRepo.On("SaveWithLock", ctx, part).Return(nil)
		orderRepo.On("Save", ctx, mock.AnythingOfType("*sales.Order")).Return(nil)
		archivedRepo.On("Save", ctx, mock.AnythingOfType("*inventory.ArchivedDevice")).Return(nil)

		uow := &fakeUnitOfWork{repos: &persistence.Repositories{
			Devices:         deviceRepo,
			ArchivedDevices: archivedRepo,
			Parts:           partRepo,
			SalesOrders:     orderRepo,
		}}

		publisher := &capturingPublisher{}
		service := NewDeviceService(deviceRepo, archivedRepo, uow)
		service.SetEventPublisher(publisher)

		result, err := service.Sell(ctx, groupID, device.ID, SellDeviceRequest{
			Buyer:     "J. Doe",
			Platform:  "eBay",
			SaleDate:  time.Now(),
			TotalPaid: decimal.NewFromInt(300),
			Fees:      decimal.NewFromInt(30),
			Parts:     []SellPartInput{{PartID: part.ID, Quantity: 1}},
		})

		require.NoError(t, err)
		// 300 - 30 - 150 - 20
		assert.True(t, result.Order.NetProfit.Equal(decimal.NewFromInt(100)))
		assert.Equal(t, "SOLD", result.ArchivedDevice.Status)
		require.NotNil(t, result.ArchivedDevice.OrderID)
		assert.Equal(t, result.Order.ID, *result.ArchivedDevice.OrderID)
		assert.Equal(t, int64(4), part.Quantity)
		require.Len(t, result.ConsumedParts, 1)
		assert.Contains(t, publisher.eventTypes(), inventory.EventTypeDeviceSold)
		assert.Contains(t, publisher.eventTypes(), sales.EventTypeOrderCreated)
		assert.Contains(t, publisher.eventTypes(), inventory.EventTypePartConsumed)
		deviceRepo.AssertExpectations(t)
		archivedRepo.AssertExpectations(t)
		partRepo.AssertExpectations(t)
		orderRepo.AssertExpectations(t)
	})

	t.Run("fails the whole sale when part stock is insufficient", func(t *testing.T) {
		device := newTestDevice(t, groupID)
		part := newStockedPart(t, groupID, 0, decimal.Zero)

		deviceRepo := new(MockDeviceRepository)
		archivedRepo := new(MockArchivedDeviceRepository)
		partRepo := new(MockPartRepository)
		orderRepo := new(MockSalesOrderRepository)

		deviceRepo.On("FindByID", ctx, groupID, device.ID).Return(device, nil)
		partRepo.On("FindByID", ctx, groupID, part.ID).Return(part, nil)

		uow := &fakeUnitOfWork{repos: &persistence.Repositories{
			Devices:         deviceRepo,
			ArchivedDevices: archivedRepo,
			Parts:           partRepo,
			SalesOrders:     orderRepo,
		}}

		service := NewDeviceService(deviceRepo, archivedRepo, uow)
		_, err := service.Sell(ctx, groupID, device.ID, SellDeviceRequest{
			SaleDate:  time.Now(),
			TotalPaid: decimal.NewFromInt(300),
			Parts:     []SellPartInput{{PartID: part.ID, Quantity: 1}},
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)
		orderRepo.AssertNotCalled(t, "Save")
		archivedRepo.AssertNotCalled(t, "Save")
		deviceRepo.AssertNotCalled(t, "Delete")
	})
}

func TestDeviceService_Harvest(t *testing.T) {
	ctx := context.Background()
	groupID := uuid.New()

	t.Run("increments an existing part by derived slug", func(t *testing.T) {
		device := newTestDevice(t, groupID)
		existing := newStockedPart(t, groupID, 2, decimal.NewFromInt(10))

		deviceRepo := new(MockDeviceRepository)
		archivedRepo := new(MockArchivedDeviceRepository)
		partRepo := new(MockPartRepository)

		deviceRepo.On("FindByID", ctx, groupID, device.ID).Return(device, nil)
		deviceRepo.On("Delete", ctx, groupID, device.ID).Return(nil)
		partRepo.On("FindBySlug", ctx, groupID, "apple-iphone-12-screen-black").Return(existing, nil)
		partRepo.On("SaveWithLock", ctx, existing).Return(nil)
		archivedRepo.On("Save", ctx, mock.AnythingOfType("*inventory.ArchivedDevice")).Return(nil)

		uow := &fakeUnitOfWork{repos: &persistence.Repositories{
			Devices:         deviceRepo,
			ArchivedDevices: archivedRepo,
			Parts:           partRepo,
		}}

		service := NewDeviceService(deviceRepo, archivedRepo, uow)
		result, err := service.Harvest(ctx, groupID, device.ID, HarvestDeviceRequest{
			Selections: []HarvestSelectionInput{
				{PartName: "Screen", Color: "Black", Quantity: 1, UnitCost: decimal.NewFromInt(10)},
			},
		})

		require.NoError(t, err)
		assert.Equal(t, "HARVESTED", result.ArchivedDevice.Status)
		assert.Nil(t, result.ArchivedDevice.OrderID)
		assert.Equal(t, int64(1), result.TotalUnits)
		assert.Equal(t, int64(3), existing.Quantity)
		partRepo.AssertNotCalled(t, "Save")
		partRepo.AssertExpectations(t)
		deviceRepo.AssertExpectations(t)
	})

	t.Run("creates a missing part record", func(t *testing.T) {
		device := newTestDevice(t, groupID)

		deviceRepo := new(MockDeviceRepository)
		archivedRepo := new(MockArchivedDeviceRepository)
		partRepo := new(MockPartRepository)

		deviceRepo.On("FindByID", ctx, groupID, device.ID).Return(device, nil)
		deviceRepo.On("Delete", ctx, groupID, device.ID).Return(nil)
		partRepo.On("FindBySlug", ctx, groupID, "apple-iphone-12-battery-").Return(nil, shared.ErrNotFound)
		partRepo.On("Save", ctx, mock.AnythingOfType("*inventory.Part")).Return(nil)
		archivedRepo.On("Save", ctx, mock.AnythingOfType("*inventory.ArchivedDevice")).Return(nil)

		uow := &fakeUnitOfWork{repos: &persistence.Repositories{
			Devices:         deviceRepo,
			ArchivedDevices: archivedRepo,
			Parts:           partRepo,
		}}

		service := NewDeviceService(deviceRepo, archivedRepo, uow)
		result, err := service.Harvest(ctx, groupID, device.ID, HarvestDeviceRequest{
			Selections: []HarvestSelectionInput{
				{PartName: "Battery", Quantity: 2, UnitCost: decimal.NewFromInt(5)},
			},
		})

		require.NoError(t, err)
		require.Len(t, result.Parts, 1)
		assert.Equal(t, int64(2), result.Parts[0].Quantity)
		assert.True(t, result.Parts[0].UnitCost.Equal(decimal.NewFromInt(5)))
		partRepo.AssertNotCalled(t, "SaveWithLock")
		partRepo.AssertExpectations(t)
	})
}

func TestDeviceService_ListArchived(t *testing.T) {
	ctx := context.Background()
	groupID := uuid.New()

	t.Run("filters archive by disposition", func(t *testing.T) {
		device := newTestDevice(t, groupID)
		require.NoError(t, device.MarkHarvested())
		archived, err := inventory.NewArchivedDevice(device, nil)
		require.NoError(t, err)

		archivedRepo := new(MockArchivedDeviceRepository)
		status := inventory.DeviceStatusHarvested
		archivedRepo.On("FindByStatus", ctx, groupID, status, mock.Anything).
			Return([]inventory.ArchivedDevice{*archived}, nil)
		archivedRepo.On("Count", ctx, groupID, mock.Anything).Return(int64(1), nil)

		service := NewDeviceService(nil, archivedRepo, nil)
		items, total, err := service.ListArchived(ctx, groupID, ArchivedDeviceListFilter{Status: &status})

		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, items, 1)
		assert.Equal(t, "HARVESTED", items[0].Status)
	})
}
