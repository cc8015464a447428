package errorlog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/techrefresher/backend/internal/domain/shared"
)

// Entry is one recorded operational failure. Writing entries is best effort:
// a failed insert is logged locally and never fails the originating request.
type Entry struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	GroupID   uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID    *uuid.UUID `gorm:"type:uuid"`
	Source    string    `gorm:"type:varchar(100);not null"`
	Message   string    `gorm:"type:text;not null"`
	Details   string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (Entry) TableName() string {
	return "error_logs"
}

// NewEntry creates a new error log entry
func NewEntry(groupID uuid.UUID, userID *uuid.UUID, source, message, details string) (*Entry, error) {
	if source == "" {
		return nil, shared.NewDomainError("INVALID_SOURCE", "Error source cannot be empty")
	}
	if message == "" {
		return nil, shared.NewDomainError("INVALID_MESSAGE", "Error message cannot be empty")
	}

	return &Entry{
		ID:        uuid.New(),
		GroupID:   groupID,
		UserID:    userID,
		Source:    source,
		Message:   message,
		Details:   details,
		CreatedAt: time.Now(),
	}, nil
}

// Repository defines the persistence interface for error log entries
type Repository interface {
	// Save records an entry
	Save(ctx context.Context, entry *Entry) error

	// FindAll lists entries for a group, newest first
	FindAll(ctx context.Context, groupID uuid.UUID, filter shared.Filter) ([]Entry, error)

	// Count counts entries for a group
	Count(ctx context.Context, groupID uuid.UUID, filter shared.Filter) (int64, error)
}
