package events

import (
	"encoding/json"
	"sync"
	"time"
)

const (
	EventSubmissionUpdated = "submission_updated"
	EventSubmissionFlagged = "submission_flagged"
	EventRunCompleted      = "run_completed"
)

// SubmissionEventPayload describes the minimal submission snapshot for event consumers.
type SubmissionEventPayload struct {
	SubmissionID string  `json:"submission_id"`
	UserID       string  `json:"user_id"`
	Region       string  `json:"region"`
	Platform     string  `json:"platform"`
	TotalScore   float64 `json:"total_score,omitempty"`
	Flagged      bool    `json:"flagged,omitempty"`
	Reason       string  `json:"reason,omitempty"`
}

// RunEventPayload summarizes a finished tracking batch.
type RunEventPayload struct {
	Reason    string `json:"reason"`
	Region    string `json:"region"`
	Processed int    `json:"processed"`
	Errors    int    `json:"errors"`
	Remaining int    `json:"remaining"`
}

// Event represents a lightweight domain event.
type Event struct {
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

// EventHandler reacts to an event.
type EventHandler func(event *Event) error

// EventBus provides in-process pub/sub for events.
type EventBus struct {
	subscribers map[string][]EventHandler
	mu          sync.RWMutex
}

// NewEventBus constructs an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[string][]EventHandler)}
}

// Subscribe registers a handler for a given event type.
func (b *EventBus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish notifies subscribers of the event type.
func (b *EventBus) Publish(event *Event) {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, handler := range handlers {
		// Handlers run synchronously; caller decides concurrency model.
		_ = handler(event)
	}
}

// PublishJSON serializes the payload and publishes an event.
func (b *EventBus) PublishJSON(eventType string, payload interface{}) error {
	if b == nil {
		return nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	b.Publish(&Event{Type: eventType, Payload: raw, CreatedAt: time.Now()})
	return nil
}
