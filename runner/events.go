// ABOUTME: Progress event model for analysis runs: typed lifecycle events with monotonic ULID ids.
// ABOUTME: Events carry summary counts only, never full artifact payloads.
package runner

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// EventType identifies the kind of run lifecycle event.
type EventType string

const (
	EventRunStarted     EventType = "run.started"
	EventRunCompleted   EventType = "run.completed"
	EventRunFailed      EventType = "run.failed"
	EventStageRunning   EventType = "stage.running"
	EventStageCompleted EventType = "stage.completed"
	EventStageFailed    EventType = "stage.failed"

	// Synthetic stream events injected by the event channel.
	EventConnected EventType = "connected"
	EventHeartbeat EventType = "heartbeat"
	EventStreamEnd EventType = "stream_end"
	EventError     EventType = "error"
)

// Event is one progress event for a run. Immutable once constructed.
type Event struct {
	EventID   string         `json:"event_id"`
	Type      EventType      `json:"type"`
	RunID     string         `json:"run_id"`
	Stage     string         `json:"stage,omitempty"`
	Status    string         `json:"status,omitempty"`
	Message   string         `json:"message,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Terminal reports whether the event ends a run's event sequence.
func (e Event) Terminal() bool {
	switch e.Type {
	case EventRunCompleted, EventRunFailed, EventStreamEnd, EventError:
		return true
	}
	return false
}

// The monotonic entropy source is not safe for concurrent use, so event id
// generation is serialized. Ids sort in creation order within the process.
var (
	eventEntropyMu sync.Mutex
	eventEntropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewEventID generates a monotonic ULID string for an event.
func NewEventID() string {
	eventEntropyMu.Lock()
	defer eventEntropyMu.Unlock()
	return ulid.MustNew(ulid.Now(), eventEntropy).String()
}

// NewEvent constructs an event with a fresh id and timestamp.
func NewEvent(typ EventType, runID string) Event {
	return Event{
		EventID:   NewEventID(),
		Type:      typ,
		RunID:     runID,
		Timestamp: time.Now().UTC(),
	}
}
