package runner

import "time"

// Event types emitted over the live event stream during a check run.
const (
	// EventCheckStarted is emitted once when a run begins.
	EventCheckStarted = "check.started"

	// EventProfileResult is emitted as each profile job completes.
	EventProfileResult = "profile.result"

	// EventCheckCompleted is emitted once when the whole run has finished.
	EventCheckCompleted = "check.completed"
)

// Event is one message on the live event stream.
type Event struct {
	// Type is one of the Event* constants.
	Type string `json:"type"`

	// RunID identifies the run the event belongs to.
	RunID string `json:"run_id"`

	// Timestamp is when the event was emitted, in UTC.
	Timestamp time.Time `json:"timestamp"`

	// Data carries the event payload: the profiles being checked for
	// check.started, a single result for profile.result, and the run
	// summary for check.completed.
	Data any `json:"data,omitempty"`
}

// newEvent builds an event stamped with the current time.
func newEvent(eventType, runID string, data any) Event {
	return Event{
		Type:      eventType,
		RunID:     runID,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}
