package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/techrefresher/backend/internal/domain/shared"
)

// BaseModel provides common persistence fields for all models.
// It maps to the domain's BaseEntity.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts BaseModel to domain BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomainBaseEntity populates BaseModel from domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// AggregateModel provides common persistence fields for aggregate roots.
// It extends BaseModel with version for optimistic locking.
type AggregateModel struct {
	BaseModel
	Version int `gorm:"not null;default:1"`
}

// FromDomainAggregateRoot populates AggregateModel from domain BaseAggregateRoot
func (m *AggregateModel) FromDomainAggregateRoot(a shared.BaseAggregateRoot) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.Version = a.Version
}

// GroupAggregateModel provides common persistence fields for group-scoped
// aggregate roots.
type GroupAggregateModel struct {
	AggregateModel
	GroupID uuid.UUID `gorm:"type:uuid;not null;index"`
}

// FromDomainGroupAggregateRoot populates GroupAggregateModel from domain GroupAggregateRoot
func (m *GroupAggregateModel) FromDomainGroupAggregateRoot(g shared.GroupAggregateRoot) {
	m.FromDomainAggregateRoot(g.BaseAggregateRoot)
	m.GroupID = g.GroupID
}

// PopulateGroupAggregateRoot populates a domain GroupAggregateRoot from persistence model
func (m *GroupAggregateModel) PopulateGroupAggregateRoot(g *shared.GroupAggregateRoot) {
	g.BaseAggregateRoot.BaseEntity.ID = m.ID
	g.BaseAggregateRoot.BaseEntity.CreatedAt = m.CreatedAt
	g.BaseAggregateRoot.BaseEntity.UpdatedAt = m.UpdatedAt
	g.BaseAggregateRoot.Version = m.Version
	g.GroupID = m.GroupID
}

// groupAggregateRoot rebuilds a domain GroupAggregateRoot from model fields
func (m *GroupAggregateModel) groupAggregateRoot() shared.GroupAggregateRoot {
	return shared.GroupAggregateRoot{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		GroupID: m.GroupID,
	}
}
