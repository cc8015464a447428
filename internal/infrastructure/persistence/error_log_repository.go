package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/techrefresher/backend/internal/domain/errorlog"
	"github.com/techrefresher/backend/internal/domain/shared"
	"github.com/techrefresher/backend/internal/infrastructure/persistence/models"
)

// GormErrorLogRepository implements errorlog.Repository using GORM
type GormErrorLogRepository struct {
	db *gorm.DB
}

// NewGormErrorLogRepository creates a new GormErrorLogRepository
func NewGormErrorLogRepository(db *gorm.DB) *GormErrorLogRepository {
	return &GormErrorLogRepository{db: db}
}

// Save records an entry
func (r *GormErrorLogRepository) Save(ctx context.Context, entry *errorlog.Entry) error {
	model := models.ErrorLogModelFromDomain(entry)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindAll lists entries for a group, newest first
func (r *GormErrorLogRepository) FindAll(ctx context.Context, groupID uuid.UUID, filter shared.Filter) ([]errorlog.Entry, error) {
	var entryModels []models.ErrorLogModel
	query := r.db.WithContext(ctx).Model(&models.ErrorLogModel{}).
		Where("group_id = ?", groupID)
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		sortField := ValidateSortField(filter.OrderBy, ErrorLogSortFields, "")
		if sortField != "" {
			sortOrder := ValidateSortOrder(filter.OrderDir)
			query = query.Order(sortField + " " + sortOrder)
		} else {
			query = query.Order("created_at DESC")
		}
	} else {
		query = query.Order("created_at DESC")
	}

	if err := query.Find(&entryModels).Error; err != nil {
		return nil, err
	}
	entries := make([]errorlog.Entry, len(entryModels))
	for i, model := range entryModels {
		entries[i] = *model.ToDomain()
	}
	return entries, nil
}

// Count counts entries for a group
func (r *GormErrorLogRepository) Count(ctx context.Context, groupID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.ErrorLogModel{}).
		Where("group_id = ?", groupID)
	query = r.applyFilterWithoutPagination(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormErrorLogRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("message ILIKE ? OR source ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "source":
			query = query.Where("source = ?", value)
		case "start_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at >= ?", t)
			}
		case "end_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at <= ?", t)
			}
		}
	}

	return query
}

// Ensure GormErrorLogRepository implements Repository
var _ errorlog.Repository = (*GormErrorLogRepository)(nil)
