package group

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/techrefresher/backend/internal/infrastructure/logger"
)

// Callback provides GORM callback hooks for automatic group filtering.
// Registering the callbacks makes group isolation a property of the DB
// handle instead of a convention each repository has to remember.
type Callback struct {
	groupColumn string
	required    bool
}

// NewCallback creates a new group callback handler
func NewCallback(groupColumn string, required bool) *Callback {
	if groupColumn == "" {
		groupColumn = "group_id"
	}
	return &Callback{
		groupColumn: groupColumn,
		required:    required,
	}
}

// RegisterCallbacks registers group callbacks with GORM
func (gc *Callback) RegisterCallbacks(db *gorm.DB) {
	_ = db.Callback().Query().Before("gorm:query").Register("group:before_query", gc.beforeQuery)
	_ = db.Callback().Update().Before("gorm:update").Register("group:before_update", gc.beforeUpdate)
	_ = db.Callback().Delete().Before("gorm:delete").Register("group:before_delete", gc.beforeDelete)
	_ = db.Callback().Row().Before("gorm:row").Register("group:before_row", gc.beforeQuery)

	// Create is not hooked; group_id is set explicitly when constructing
	// aggregates.
}

func (gc *Callback) beforeQuery(db *gorm.DB) {
	gc.addGroupFilter(db)
}

func (gc *Callback) beforeUpdate(db *gorm.DB) {
	gc.addGroupFilter(db)
}

func (gc *Callback) beforeDelete(db *gorm.DB) {
	gc.addGroupFilter(db)
}

func (gc *Callback) addGroupFilter(db *gorm.DB) {
	if db.Statement.Context == nil {
		return
	}

	if db.Statement.Unscoped {
		return
	}

	if gc.hasGroupCondition(db) {
		return
	}

	groupID := logger.GetGroupID(db.Statement.Context)
	if groupID == "" {
		if gc.required {
			_ = db.AddError(ErrGroupIDRequired)
		}
		return
	}

	if _, err := uuid.Parse(groupID); err != nil {
		_ = db.AddError(ErrInvalidGroupID)
		return
	}

	db.Statement.AddClause(clause.Where{
		Exprs: []clause.Expression{
			clause.Eq{
				Column: clause.Column{Table: clause.CurrentTable, Name: gc.groupColumn},
				Value:  groupID,
			},
		},
	})
}

// hasGroupCondition checks if a group_id condition is already present
func (gc *Callback) hasGroupCondition(db *gorm.DB) bool {
	if db.Statement.Unscoped {
		return true
	}

	if whereClause, ok := db.Statement.Clauses["WHERE"]; ok {
		if where, ok := whereClause.Expression.(clause.Where); ok {
			for _, expr := range where.Exprs {
				if gc.exprContainsGroup(expr) {
					return true
				}
			}
		}
	}

	sql := db.Statement.SQL.String()
	if sql != "" && strings.Contains(sql, gc.groupColumn) {
		return true
	}

	return false
}

func (gc *Callback) exprContainsGroup(expr clause.Expression) bool {
	switch e := expr.(type) {
	case clause.Eq:
		if col, ok := e.Column.(clause.Column); ok {
			return col.Name == gc.groupColumn
		}
	case clause.IN:
		if col, ok := e.Column.(clause.Column); ok {
			return col.Name == gc.groupColumn
		}
	case clause.AndConditions:
		for _, cond := range e.Exprs {
			if gc.exprContainsGroup(cond) {
				return true
			}
		}
	case clause.OrConditions:
		for _, cond := range e.Exprs {
			if gc.exprContainsGroup(cond) {
				return true
			}
		}
	}
	return false
}

// EnableAutoGroupFilter registers callbacks that automatically add group_id
// filtering to all queries on the given DB instance.
func EnableAutoGroupFilter(db *gorm.DB, required bool) {
	gc := NewCallback("group_id", required)
	gc.RegisterCallbacks(db)
}

// DisableAutoGroupFilter removes the group callbacks. Testing only.
func DisableAutoGroupFilter(db *gorm.DB) {
	_ = db.Callback().Query().Remove("group:before_query")
	_ = db.Callback().Update().Remove("group:before_update")
	_ = db.Callback().Delete().Remove("group:before_delete")
	_ = db.Callback().Row().Remove("group:before_row")
}
