// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// BusinessMetrics tracks the shop-level activity of the refurbishment
// workflow: purchase orders placed, devices sold, parts harvested and the
// current size of the active inventory.
type BusinessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	purchaseOrderTotal  *Counter
	purchaseAmountTotal *Counter
	paymentTotal        *Counter
	deviceSoldTotal     *Counter
	saleAmountTotal     *Counter
	partsHarvestedTotal *Counter

	// Gauge metrics (point-in-time values)
	devicesInStock *Gauge
	partUnits      *Gauge

	// Periodic collector
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	inventoryProvider InventoryMetricsProvider
}

// InventoryMetricsProvider supplies inventory counts for periodic gauge
// collection without coupling the telemetry layer to the inventory domain.
type InventoryMetricsProvider interface {
	// GetDeviceCount returns the number of devices currently in active inventory
	GetDeviceCount(ctx context.Context, groupID uuid.UUID) (int64, error)

	// GetPartUnitCount returns the total quantity across all part records
	GetPartUnitCount(ctx context.Context, groupID uuid.UUID) (int64, error)
}

// GroupProvider provides group IDs for periodic metrics collection.
type GroupProvider interface {
	GetActiveGroupIDs(ctx context.Context) ([]uuid.UUID, error)
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter             metric.Meter
	Logger            *zap.Logger
	CollectInterval   time.Duration // Default: 5 minutes
	InventoryProvider InventoryMetricsProvider
}

// NewBusinessMetrics creates a new BusinessMetrics instance.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		meter:             cfg.Meter,
		logger:            logger,
		stopChan:          make(chan struct{}),
		inventoryProvider: cfg.InventoryProvider,
	}

	var err error

	bm.purchaseOrderTotal, err = NewCounter(
		cfg.Meter,
		"refresher_purchase_order_created_total",
		"Total number of purchase orders created",
		"{orders}",
	)
	if err != nil {
		return nil, err
	}

	bm.purchaseAmountTotal, err = NewCounter(
		cfg.Meter,
		"refresher_purchase_amount_total",
		"Total purchase order amount in cents",
		"{cents}",
	)
	if err != nil {
		return nil, err
	}

	bm.paymentTotal, err = NewCounter(
		cfg.Meter,
		"refresher_payment_total",
		"Total number of payments recorded against purchase orders",
		"{payments}",
	)
	if err != nil {
		return nil, err
	}

	bm.deviceSoldTotal, err = NewCounter(
		cfg.Meter,
		"refresher_device_sold_total",
		"Total number of devices sold",
		"{devices}",
	)
	if err != nil {
		return nil, err
	}

	bm.saleAmountTotal, err = NewCounter(
		cfg.Meter,
		"refresher_sale_amount_total",
		"Total sale amount in cents",
		"{cents}",
	)
	if err != nil {
		return nil, err
	}

	bm.partsHarvestedTotal, err = NewCounter(
		cfg.Meter,
		"refresher_parts_harvested_total",
		"Total part units harvested from devices",
		"{units}",
	)
	if err != nil {
		return nil, err
	}

	bm.devicesInStock, err = NewGauge(
		cfg.Meter,
		"refresher_devices_in_stock",
		"Current number of devices in active inventory",
		"{devices}",
	)
	if err != nil {
		return nil, err
	}

	bm.partUnits, err = NewGauge(
		cfg.Meter,
		"refresher_part_units",
		"Current total part units on hand",
		"{units}",
	)
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// RecordPurchaseOrderCreated records a purchase order creation with its total amount.
func (bm *BusinessMetrics) RecordPurchaseOrderCreated(ctx context.Context, groupID uuid.UUID, total decimal.Decimal) {
	bm.purchaseOrderTotal.Inc(ctx, AttrGroupID.String(groupID.String()))
	bm.purchaseAmountTotal.Add(ctx, toCents(total), AttrGroupID.String(groupID.String()))
}

// RecordPayment records a payment against a purchase order.
func (bm *BusinessMetrics) RecordPayment(ctx context.Context, groupID uuid.UUID, method string) {
	bm.paymentTotal.Inc(ctx,
		AttrGroupID.String(groupID.String()),
		AttrPaymentMethod.String(method),
	)
}

// RecordDeviceSold records a completed device sale with the amount paid.
func (bm *BusinessMetrics) RecordDeviceSold(ctx context.Context, groupID uuid.UUID, platform string, totalPaid decimal.Decimal) {
	bm.deviceSoldTotal.Inc(ctx,
		AttrGroupID.String(groupID.String()),
		AttrPlatform.String(platform),
	)
	bm.saleAmountTotal.Add(ctx, toCents(totalPaid),
		AttrGroupID.String(groupID.String()),
		AttrPlatform.String(platform),
	)
}

// RecordPartsHarvested records part units recovered from a harvested device.
func (bm *BusinessMetrics) RecordPartsHarvested(ctx context.Context, groupID uuid.UUID, units int64) {
	bm.partsHarvestedTotal.Add(ctx, units, AttrGroupID.String(groupID.String()))
}

// RecordDevicesInStock records the current active device count for a group.
func (bm *BusinessMetrics) RecordDevicesInStock(ctx context.Context, groupID uuid.UUID, count int64) {
	bm.devicesInStock.Record(ctx, count, AttrGroupID.String(groupID.String()))
}

// RecordPartUnits records the current total part units for a group.
func (bm *BusinessMetrics) RecordPartUnits(ctx context.Context, groupID uuid.UUID, units int64) {
	bm.partUnits.Record(ctx, units, AttrGroupID.String(groupID.String()))
}

func toCents(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).IntPart()
}

// StartPeriodicCollection starts periodic collection of inventory gauges.
// Non-blocking; use Stop() to stop collection.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, groupProvider GroupProvider, interval time.Duration) {
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}

		go bm.runPeriodicCollection(ctx, groupProvider, interval)
	})
}

func (bm *BusinessMetrics) runPeriodicCollection(ctx context.Context, groupProvider GroupProvider, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	bm.collectInventoryMetrics(ctx, groupProvider)

	for {
		select {
		case <-bm.stopChan:
			bm.logger.Info("Stopping periodic business metrics collection")
			return
		case <-ctx.Done():
			bm.logger.Info("Context cancelled, stopping periodic business metrics collection")
			return
		case <-ticker.C:
			bm.collectInventoryMetrics(ctx, groupProvider)
		}
	}
}

func (bm *BusinessMetrics) collectInventoryMetrics(ctx context.Context, groupProvider GroupProvider) {
	if bm.inventoryProvider == nil {
		bm.logger.Debug("No inventory provider configured, skipping inventory metrics collection")
		return
	}

	groupIDs, err := groupProvider.GetActiveGroupIDs(ctx)
	if err != nil {
		bm.logger.Error("Failed to get group IDs for metrics collection", zap.Error(err))
		return
	}

	for _, groupID := range groupIDs {
		bm.collectGroupInventoryMetrics(ctx, groupID)
	}
}

func (bm *BusinessMetrics) collectGroupInventoryMetrics(ctx context.Context, groupID uuid.UUID) {
	deviceCount, err := bm.inventoryProvider.GetDeviceCount(ctx, groupID)
	if err != nil {
		bm.logger.Warn("Failed to get device count for group",
			zap.String("group_id", groupID.String()),
			zap.Error(err),
		)
	} else {
		bm.RecordDevicesInStock(ctx, groupID, deviceCount)
	}

	partUnits, err := bm.inventoryProvider.GetPartUnitCount(ctx, groupID)
	if err != nil {
		bm.logger.Warn("Failed to get part unit count for group",
			zap.String("group_id", groupID.String()),
			zap.Error(err),
		)
	} else {
		bm.RecordPartUnits(ctx, groupID, partUnits)
	}
}

// Stop stops the periodic collection.
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
}

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewBusinessMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
