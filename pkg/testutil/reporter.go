package testutil

import "github.com/arthur-debert/macsetup/pkg/types"

// RecordingReporter captures every progress event.
type RecordingReporter struct {
	Events []types.Event
}

func (r *RecordingReporter) Report(e types.Event) {
	r.Events = append(r.Events, e)
}

// Types returns the event types in the order they were reported.
func (r *RecordingReporter) Types() []types.EventType {
	out := make([]types.EventType, 0, len(r.Events))
	for _, e := range r.Events {
		out = append(out, e.Type)
	}
	return out
}

// Of returns the events of type t.
func (r *RecordingReporter) Of(t types.EventType) []types.Event {
	var out []types.Event
	for _, e := range r.Events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}
