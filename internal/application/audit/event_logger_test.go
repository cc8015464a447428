package audit

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/techrefresher/backend/internal/domain/inventory"
	"github.com/techrefresher/backend/internal/infrastructure/event"
)

func TestEventLogger_ReceivesAllEventTypes(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	handler := NewEventLogger(zap.New(core))

	bus := event.NewInMemoryEventBus(zap.NewNop())
	bus.Subscribe(handler)
	require.NoError(t, bus.Start(context.Background()))
	defer func() { _ = bus.Stop(context.Background()) }()

	groupID := uuid.New()
	device, err := inventory.NewDevice(groupID, "Apple", "iPhone 12", "Black", "SN-001", "Good", decimal.NewFromInt(150), "")
	require.NoError(t, err)

	events := device.GetDomainEvents()
	require.NotEmpty(t, events)
	require.NoError(t, bus.Publish(context.Background(), events...))

	entries := logs.FilterMessage("domain event").All()
	require.Len(t, entries, len(events))
	assert.Equal(t, "device.stocked", entries[0].ContextMap()["event_type"])
	assert.Equal(t, groupID.String(), entries[0].ContextMap()["group_id"])
}
