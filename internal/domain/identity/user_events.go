package identity

import (
	"github.com/techrefresher/backend/internal/domain/shared"
)

const (
	AggregateTypeUser = "User"

	EventTypeUserRegistered = "user.registered"
)

// UserRegisteredEvent is raised when a new user account is created
type UserRegisteredEvent struct {
	shared.BaseDomainEvent
	Username string `json:"username"`
	Email    string `json:"email"`
}

// NewUserRegisteredEvent creates a UserRegisteredEvent
func NewUserRegisteredEvent(user *User) *UserRegisteredEvent {
	return &UserRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeUserRegistered, AggregateTypeUser, user.ID, user.GroupID),
		Username: user.Username,
		Email:    user.Email,
	}
}

// EventType returns the event type
func (e *UserRegisteredEvent) EventType() string {
	return EventTypeUserRegistered
}
