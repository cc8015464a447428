// Package group provides group-scoped database access for GORM.
//
// Every business table carries a group_id column, and this package makes
// sure queries never cross a group boundary. The group ID comes from the
// request context (set by the auth middleware) and is applied as a
// WHERE group_id = ? condition.
//
// Usage:
//
//	db := group.NewGroupDB(gormDB)
//	scopedDB := db.WithContext(ctx) // automatically applies group filtering
//	scopedDB.Find(&devices) // WHERE group_id = 'xxx' is auto-added
package group

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/techrefresher/backend/internal/infrastructure/logger"
)

// ErrGroupIDRequired is returned when group_id is required but not found
var ErrGroupIDRequired = errors.New("group_id is required but not found in context")

// ErrInvalidGroupID is returned when group_id format is invalid
var ErrInvalidGroupID = errors.New("invalid group_id format")

// Scope applies group filtering to GORM queries
func Scope(groupID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("group_id = ?", groupID)
	}
}

// ScopeString applies group filtering using a string group ID
func ScopeString(groupID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("group_id = ?", groupID)
	}
}

// GroupDB wraps GORM DB with automatic group scoping
type GroupDB struct {
	db          *gorm.DB
	groupColumn string
	required    bool
}

// Config holds configuration for GroupDB
type Config struct {
	// GroupColumn is the name of the group ID column (default: "group_id")
	GroupColumn string
	// Required determines if group_id is mandatory (default: true)
	Required bool
}

// DefaultConfig returns default GroupDB configuration
func DefaultConfig() Config {
	return Config{
		GroupColumn: "group_id",
		Required:    true,
	}
}

// NewGroupDB creates a new GroupDB with default configuration
func NewGroupDB(db *gorm.DB) *GroupDB {
	return NewGroupDBWithConfig(db, DefaultConfig())
}

// NewGroupDBWithConfig creates a new GroupDB with custom configuration
func NewGroupDBWithConfig(db *gorm.DB, cfg Config) *GroupDB {
	if cfg.GroupColumn == "" {
		cfg.GroupColumn = "group_id"
	}
	return &GroupDB{
		db:          db,
		groupColumn: cfg.GroupColumn,
		required:    cfg.Required,
	}
}

// DB returns the underlying GORM DB without group scoping.
// Use with caution, this bypasses group isolation.
func (g *GroupDB) DB() *gorm.DB {
	return g.db
}

// WithContext returns a GORM DB scoped to the group from context.
// If group_id is missing from the context and Required is true, the
// returned DB errors on any operation.
func (g *GroupDB) WithContext(ctx context.Context) *gorm.DB {
	groupID := logger.GetGroupID(ctx)

	if groupID == "" {
		if g.required {
			db := g.db.WithContext(ctx)
			_ = db.AddError(ErrGroupIDRequired)
			return db
		}
		return g.db.WithContext(ctx)
	}

	if _, err := uuid.Parse(groupID); err != nil {
		db := g.db.WithContext(ctx)
		_ = db.AddError(ErrInvalidGroupID)
		return db
	}

	return g.db.WithContext(ctx).Scopes(ScopeString(groupID))
}

// WithGroup returns a GORM DB scoped to a specific group ID.
func (g *GroupDB) WithGroup(groupID uuid.UUID) *gorm.DB {
	if groupID == uuid.Nil {
		if g.required {
			db := g.db
			_ = db.AddError(ErrGroupIDRequired)
			return db
		}
		return g.db
	}
	return g.db.Scopes(Scope(groupID))
}

// ForGroup returns a GORM DB carrying the context and scoped to a group.
func (g *GroupDB) ForGroup(ctx context.Context, groupID uuid.UUID) *gorm.DB {
	return g.db.WithContext(ctx).Scopes(Scope(groupID))
}

// Transaction executes a function within a database transaction scoped to
// the group from context.
func (g *GroupDB) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	groupID := logger.GetGroupID(ctx)

	if groupID == "" && g.required {
		return ErrGroupIDRequired
	}

	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if groupID != "" {
			tx = tx.Scopes(ScopeString(groupID))
		}
		return fn(tx)
	})
}

// Unscoped returns the underlying DB without any group scoping.
// System-level operations and migrations only.
func (g *GroupDB) Unscoped() *gorm.DB {
	return g.db
}
