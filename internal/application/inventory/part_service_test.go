package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/techrefresher/backend/internal/domain/inventory"
	"github.com/techrefresher/backend/internal/domain/shared"
)

func TestPartService_Create(t *testing.T) {
	ctx := context.Background()
	groupID := uuid.New()

	t.Run("creates an empty part record", func(t *testing.T) {
		partRepo := new(MockPartRepository)
		partRepo.On("FindBySlug", ctx, groupID, "apple-iphone-12-screen-black").
			Return(nil, shared.ErrNotFound)
		partRepo.On("Save", ctx, mock.AnythingOfType("*inventory.Part")).Return(nil)

		service := NewPartService(partRepo)
		resp, err := service.Create(ctx, groupID, CreatePartRequest{
			Brand:    "Apple",
			Model:    "iPhone 12",
			PartName: "Screen",
			Color:    "Black",
		})

		require.NoError(t, err)
		assert.Equal(t, "apple-iphone-12-screen-black", resp.Slug)
		assert.Equal(t, int64(0), resp.Quantity)
		assert.True(t, resp.UnitCost.IsZero())
		partRepo.AssertExpectations(t)
	})

	t.Run("rejects a duplicate slug", func(t *testing.T) {
		existing := newStockedPart(t, groupID, 2, decimal.NewFromInt(10))

		partRepo := new(MockPartRepository)
		partRepo.On("FindBySlug", ctx, groupID, existing.Slug).Return(existing, nil)

		service := NewPartService(partRepo)
		_, err := service.Create(ctx, groupID, CreatePartRequest{
			Brand:    "Apple",
			Model:    "iPhone 12",
			PartName: "Screen",
			Color:    "Black",
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
		partRepo.AssertNotCalled(t, "Save")
	})
}

func TestPartService_Adjust(t *testing.T) {
	ctx := context.Background()
	groupID := uuid.New()

	t.Run("positive delta raises the weighted average", func(t *testing.T) {
		// 2 units at 10 plus 2 units at 20 averages to 15
		part := newStockedPart(t, groupID, 2, decimal.NewFromInt(10))

		partRepo := new(MockPartRepository)
		partRepo.On("FindByID", ctx, groupID, part.ID).Return(part, nil)
		partRepo.On("SaveWithLock", ctx, part).Return(nil)

		publisher := &capturingPublisher{}
		service := NewPartService(partRepo)
		service.SetEventPublisher(publisher)

		resp, err := service.Adjust(ctx, groupID, part.ID, AdjustPartRequest{
			Delta:    2,
			UnitCost: decimal.NewFromInt(20),
		})

		require.NoError(t, err)
		assert.Equal(t, int64(4), resp.Quantity)
		assert.True(t, resp.UnitCost.Equal(decimal.NewFromInt(15)))
		assert.Equal(t, []string{inventory.EventTypePartStockAdded}, publisher.eventTypes())
	})

	t.Run("negative delta consumes at the current average", func(t *testing.T) {
		part := newStockedPart(t, groupID, 4, decimal.NewFromInt(15))

		partRepo := new(MockPartRepository)
		partRepo.On("FindByID", ctx, groupID, part.ID).Return(part, nil)
		partRepo.On("SaveWithLock", ctx, part).Return(nil)

		service := NewPartService(partRepo)
		resp, err := service.Adjust(ctx, groupID, part.ID, AdjustPartRequest{Delta: -3})

		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.Quantity)
		assert.True(t, resp.TotalValue.Equal(decimal.NewFromInt(15)))
	})

	t.Run("drains the value when quantity reaches zero", func(t *testing.T) {
		part := newStockedPart(t, groupID, 3, decimal.RequireFromString("3.3333"))

		partRepo := new(MockPartRepository)
		partRepo.On("FindByID", ctx, groupID, part.ID).Return(part, nil)
		partRepo.On("SaveWithLock", ctx, part).Return(nil)

		service := NewPartService(partRepo)
		resp, err := service.Adjust(ctx, groupID, part.ID, AdjustPartRequest{Delta: -3})

		require.NoError(t, err)
		assert.Equal(t, int64(0), resp.Quantity)
		assert.True(t, resp.TotalValue.IsZero())
		assert.True(t, resp.UnitCost.IsZero())
	})

	t.Run("rejects draining more than stocked", func(t *testing.T) {
		part := newStockedPart(t, groupID, 1, decimal.NewFromInt(10))

		partRepo := new(MockPartRepository)
		partRepo.On("FindByID", ctx, groupID, part.ID).Return(part, nil)

		service := NewPartService(partRepo)
		_, err := service.Adjust(ctx, groupID, part.ID, AdjustPartRequest{Delta: -2})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)
		partRepo.AssertNotCalled(t, "SaveWithLock")
	})
}

func TestPartService_Rename(t *testing.T) {
	ctx := context.Background()
	groupID := uuid.New()

	t.Run("re-derives the slug", func(t *testing.T) {
		part := newStockedPart(t, groupID, 2, decimal.NewFromInt(10))

		partRepo := new(MockPartRepository)
		partRepo.On("FindByID", ctx, groupID, part.ID).Return(part, nil)
		partRepo.On("FindBySlug", ctx, groupID, "apple-iphone-12-oled-screen-black").
			Return(nil, shared.ErrNotFound)
		partRepo.On("SaveWithLock", ctx, part).Return(nil)

		service := NewPartService(partRepo)
		resp, err := service.Rename(ctx, groupID, part.ID, RenamePartRequest{
			Brand:    "Apple",
			Model:    "iPhone 12",
			PartName: "OLED Screen",
			Color:    "Black",
		})

		require.NoError(t, err)
		assert.Equal(t, "apple-iphone-12-oled-screen-black", resp.Slug)
		assert.Equal(t, "OLED Screen", resp.PartName)
	})

	t.Run("refuses a slug collision with another part", func(t *testing.T) {
		part := newStockedPart(t, groupID, 2, decimal.NewFromInt(10))
		other, err := inventory.NewPart(groupID, "Apple", "iPhone 12", "Battery", "")
		require.NoError(t, err)

		partRepo := new(MockPartRepository)
		partRepo.On("FindByID", ctx, groupID, part.ID).Return(part, nil)
		partRepo.On("FindBySlug", ctx, groupID, other.Slug).Return(other, nil)

		service := NewPartService(partRepo)
		_, err = service.Rename(ctx, groupID, part.ID, RenamePartRequest{
			Brand:    "Apple",
			Model:    "iPhone 12",
			PartName: "Battery",
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
		partRepo.AssertNotCalled(t, "SaveWithLock")
	})
}

func TestPartService_Delete(t *testing.T) {
	ctx := context.Background()
	groupID := uuid.New()

	t.Run("deletes an empty part", func(t *testing.T) {
		part, err := inventory.NewPart(groupID, "Apple", "iPhone 12", "Screen", "Black")
		require.NoError(t, err)

		partRepo := new(MockPartRepository)
		partRepo.On("FindByID", ctx, groupID, part.ID).Return(part, nil)
		partRepo.On("Delete", ctx, groupID, part.ID).Return(nil)

		service := NewPartService(partRepo)
		require.NoError(t, service.Delete(ctx, groupID, part.ID))
		partRepo.AssertExpectations(t)
	})

	t.Run("refuses to delete a part with stock", func(t *testing.T) {
		part := newStockedPart(t, groupID, 3, decimal.NewFromInt(10))

		partRepo := new(MockPartRepository)
		partRepo.On("FindByID", ctx, groupID, part.ID).Return(part, nil)

		service := NewPartService(partRepo)
		err := service.Delete(ctx, groupID, part.ID)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
		partRepo.AssertNotCalled(t, "Delete")
	})
}

func TestPartService_List(t *testing.T) {
	ctx := context.Background()
	groupID := uuid.New()

	t.Run("applies defaults and filters", func(t *testing.T) {
		part := newStockedPart(t, groupID, 2, decimal.NewFromInt(10))

		partRepo := new(MockPartRepository)
		partRepo.On("FindAll", ctx, groupID, mock.MatchedBy(func(f shared.Filter) bool {
			return f.Page == 1 && f.PageSize == 20 &&
				f.Filters["brand"] == "Apple" && f.Filters["in_stock"] == true
		})).Return([]inventory.Part{*part}, nil)
		partRepo.On("Count", ctx, groupID, mock.Anything).Return(int64(1), nil)

		service := NewPartService(partRepo)
		items, total, err := service.List(ctx, groupID, PartListFilter{Brand: "Apple", InStock: true})

		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, items, 1)
		assert.True(t, items[0].UnitCost.Equal(decimal.NewFromInt(10)))
	})
}
