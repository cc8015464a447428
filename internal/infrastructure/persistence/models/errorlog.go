package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/techrefresher/backend/internal/domain/errorlog"
)

// ErrorLogModel is the persistence model for client error log entries.
// Entries are append-only rows, not aggregates, so the model carries the
// identifiers directly instead of embedding GroupAggregateModel.
type ErrorLogModel struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key"`
	GroupID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	UserID    *uuid.UUID `gorm:"type:uuid"`
	Source    string     `gorm:"type:varchar(100);not null"`
	Message   string     `gorm:"type:text;not null"`
	Details   string     `gorm:"type:text"`
	CreatedAt time.Time  `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (ErrorLogModel) TableName() string {
	return "error_logs"
}

// ToDomain converts the persistence model to a domain Entry.
func (m *ErrorLogModel) ToDomain() *errorlog.Entry {
	return &errorlog.Entry{
		ID:        m.ID,
		GroupID:   m.GroupID,
		UserID:    m.UserID,
		Source:    m.Source,
		Message:   m.Message,
		Details:   m.Details,
		CreatedAt: m.CreatedAt,
	}
}

// FromDomain populates the persistence model from a domain Entry.
func (m *ErrorLogModel) FromDomain(e *errorlog.Entry) {
	m.ID = e.ID
	m.GroupID = e.GroupID
	m.UserID = e.UserID
	m.Source = e.Source
	m.Message = e.Message
	m.Details = e.Details
	m.CreatedAt = e.CreatedAt
}

// ErrorLogModelFromDomain creates a new persistence model from a domain Entry.
func ErrorLogModelFromDomain(e *errorlog.Entry) *ErrorLogModel {
	m := &ErrorLogModel{}
	m.FromDomain(e)
	return m
}
