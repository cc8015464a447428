package testutil

import (
	"context"
	"sync"

	"github.com/techrefresher/backend/internal/domain/shared"
)

// EventCollector is an EventPublisher that records everything published
// to it. Safe for concurrent use.
type EventCollector struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func NewEventCollector() *EventCollector {
	return &EventCollector{}
}

// Publish records the events
func (c *EventCollector) Publish(_ context.Context, events ...shared.DomainEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, events...)
	return nil
}

// Events returns a snapshot of everything published so far
func (c *EventCollector) Events() []shared.DomainEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]shared.DomainEvent, len(c.events))
	copy(out, c.events)
	return out
}

// EventTypes returns the types of all collected events in publish order
func (c *EventCollector) EventTypes() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	types := make([]string, len(c.events))
	for i, e := range c.events {
		types[i] = e.EventType()
	}
	return types
}

// Reset discards all collected events
func (c *EventCollector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = nil
}
