package core

import (
	"context"
	"time"
)

// EventType identifies a semantic event emitted while executing a task.
type EventType string

const (
	EventTaskStarted   EventType = "task.started"
	EventTaskCompleted EventType = "task.completed"
	EventTaskFailed    EventType = "task.failed"
)

// Event captures a semantic streaming/logging event.
type Event struct {
	Type      EventType
	Role      string
	TaskID    string
	RunID     string
	Timestamp time.Time
	Payload   map[string]any
}

// EventEmitter receives semantic events.
type EventEmitter interface {
	Emit(ctx context.Context, event Event)
}

// NoopEventEmitter is a default no-op implementation.
type NoopEventEmitter struct{}

// Emit implements EventEmitter.
func (NoopEventEmitter) Emit(_ context.Context, _ Event) {}

// NewEvent builds a default event with timestamp.
func NewEvent(eventType EventType, role, taskID, runID string, payload map[string]any) Event {
	return Event{
		Type:      eventType,
		Role:      role,
		TaskID:    taskID,
		RunID:     runID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}
