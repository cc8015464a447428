package errorlog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/techrefresher/backend/internal/domain/errorlog"
	"github.com/techrefresher/backend/internal/domain/shared"
)

// RecordRequest describes a failure to record
type RecordRequest struct {
	Source  string `json:"source" binding:"required,max=100"`
	Message string `json:"message" binding:"required"`
	Details string `json:"details"`
}

// EntryListFilter holds query parameters for listing entries
type EntryListFilter struct {
	Source   string `form:"source"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// EntryResponse represents an error log entry in API responses
type EntryResponse struct {
	ID        uuid.UUID  `json:"id"`
	UserID    *uuid.UUID `json:"user_id,omitempty"`
	Source    string     `json:"source"`
	Message   string     `json:"message"`
	Details   string     `json:"details,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// Service records and lists operational failures. Recording is best effort:
// a failed insert never propagates to the caller.
type Service struct {
	repo   errorlog.Repository
	logger *zap.Logger
}

// NewService creates a new error log service
func NewService(repo errorlog.Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Record stores a failure entry. Invalid or unsaveable entries are dropped
// after a local log line.
func (s *Service) Record(ctx context.Context, groupID uuid.UUID, userID *uuid.UUID, req RecordRequest) {
	entry, err := errorlog.NewEntry(groupID, userID, req.Source, req.Message, req.Details)
	if err != nil {
		s.logger.Warn("Dropping invalid error log entry", zap.Error(err))
		return
	}

	if err := s.repo.Save(ctx, entry); err != nil {
		s.logger.Error("Failed to persist error log entry",
			zap.String("source", req.Source),
			zap.Error(err))
	}
}

// List returns entries for a group, newest first
func (s *Service) List(ctx context.Context, groupID uuid.UUID, filter EntryListFilter) ([]EntryResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.Source != "" {
		domainFilter.Filters["source"] = filter.Source
	}

	entries, err := s.repo.FindAll(ctx, groupID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.repo.Count(ctx, groupID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]EntryResponse, len(entries))
	for i, entry := range entries {
		responses[i] = EntryResponse{
			ID:        entry.ID,
			UserID:    entry.UserID,
			Source:    entry.Source,
			Message:   entry.Message,
			Details:   entry.Details,
			CreatedAt: entry.CreatedAt,
		}
	}

	return responses, total, nil
}
