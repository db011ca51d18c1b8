package types

import "time"

// EventType distinguishes progress events.
type EventType string

const (
	EventPhaseStarted   EventType = "phase_started"
	EventItemStarted    EventType = "item_started"
	EventItemSucceeded  EventType = "item_succeeded"
	EventItemFailed     EventType = "item_failed"
	EventRetryScheduled EventType = "retry_scheduled"
	EventPhaseCompleted EventType = "phase_completed"
)

// Event is a progress notification emitted by the orchestrator. Only the
// fields relevant to Type are set.
type Event struct {
	Type     EventType
	Category Category
	// Total is the number of items in the phase, for EventPhaseStarted.
	Total int
	Item  *InstallItem
	// Outcome is set for item succeeded/failed events.
	Outcome *Outcome
	// Attempt and Delay describe a scheduled retry.
	Attempt int
	Delay   time.Duration
	Err     error
}

// ProgressReporter receives events. Implementations must not block for long;
// the orchestrator calls them inline.
type ProgressReporter interface {
	Report(Event)
}

// ReporterFunc adapts a function to ProgressReporter.
type ReporterFunc func(Event)

// Report calls f(e).
func (f ReporterFunc) Report(e Event) { f(e) }
