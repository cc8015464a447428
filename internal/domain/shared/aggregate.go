package shared

import (
	"github.com/google/uuid"
)

// AggregateRoot is the base interface for all aggregate roots
type AggregateRoot interface {
	Entity
	GetVersion() int
	IncrementVersion()
	AddDomainEvent(event DomainEvent)
	GetDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseAggregateRoot provides common fields for aggregate roots
type BaseAggregateRoot struct {
	BaseEntity
	Version      int           `gorm:"not null;default:1"`
	domainEvents []DomainEvent `gorm:"-"`
}

// GetVersion returns the aggregate version for optimistic locking
func (a *BaseAggregateRoot) GetVersion() int {
	return a.Version
}

// IncrementVersion increments the version number
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}

// AddDomainEvent adds a domain event to be published
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

// GetDomainEvents returns all pending domain events
func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.domainEvents
}

// ClearDomainEvents clears the pending domain events
func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}

// NewBaseAggregateRoot creates a new base aggregate root
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity:   NewBaseEntity(),
		Version:      1,
		domainEvents: make([]DomainEvent, 0),
	}
}

// GroupAggregateRoot extends BaseAggregateRoot with the group partition
// key carried by every business record. All queries filter on it and all
// writes copy it forward onto newly created records.
type GroupAggregateRoot struct {
	BaseAggregateRoot
	GroupID uuid.UUID `gorm:"type:uuid;not null;index"`
}

// NewGroupAggregateRoot creates a new group-scoped aggregate root
func NewGroupAggregateRoot(groupID uuid.UUID) GroupAggregateRoot {
	return GroupAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		GroupID:           groupID,
	}
}

// GetGroupID returns the owning group ID
func (g *GroupAggregateRoot) GetGroupID() uuid.UUID {
	return g.GroupID
}
