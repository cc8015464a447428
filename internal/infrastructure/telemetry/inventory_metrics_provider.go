package telemetry

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormInventoryMetricsProvider implements InventoryMetricsProvider using GORM.
type GormInventoryMetricsProvider struct {
	db *gorm.DB
}

// NewGormInventoryMetricsProvider creates a new GormInventoryMetricsProvider.
func NewGormInventoryMetricsProvider(db *gorm.DB) *GormInventoryMetricsProvider {
	return &GormInventoryMetricsProvider{db: db}
}

// GetDeviceCount returns the number of devices in active inventory for a group.
func (p *GormInventoryMetricsProvider) GetDeviceCount(ctx context.Context, groupID uuid.UUID) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Table("devices").
		Where("group_id = ?", groupID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// GetPartUnitCount returns the total quantity across all part records for a group.
func (p *GormInventoryMetricsProvider) GetPartUnitCount(ctx context.Context, groupID uuid.UUID) (int64, error) {
	var total int64
	err := p.db.WithContext(ctx).
		Table("parts").
		Where("group_id = ?", groupID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

// GormGroupProvider implements GroupProvider using GORM. Groups are not a
// standalone table; the active set is whatever group IDs have active users.
type GormGroupProvider struct {
	db *gorm.DB
}

// NewGormGroupProvider creates a new GormGroupProvider.
func NewGormGroupProvider(db *gorm.DB) *GormGroupProvider {
	return &GormGroupProvider{db: db}
}

// GetActiveGroupIDs returns the group IDs of all active users.
func (p *GormGroupProvider) GetActiveGroupIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := p.db.WithContext(ctx).
		Table("users").
		Where("status = ?", "active").
		Distinct("group_id").
		Pluck("group_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
