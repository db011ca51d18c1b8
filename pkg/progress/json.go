package progress

import (
	"encoding/json"
	"io"

	"github.com/arthur-debert/macsetup/pkg/types"
)

// jsonEvent is the wire form of one progress event.
type jsonEvent struct {
	Event      types.EventType `json:"event"`
	Category   types.Category  `json:"category,omitempty"`
	Total      int             `json:"total,omitempty"`
	Identifier string          `json:"identifier,omitempty"`
	Status     string          `json:"status,omitempty"`
	Detail     string          `json:"detail,omitempty"`
	Attempt    int             `json:"attempt,omitempty"`
	DelayMS    int64           `json:"delay_ms,omitempty"`
	Error      string          `json:"error,omitempty"`
}

// JSON writes each event as one JSON object per line. ItemStarted events
// are omitted.
type JSON struct {
	encoder *json.Encoder
}

// NewJSON creates a JSON lines reporter.
func NewJSON(w io.Writer) *JSON {
	return &JSON{encoder: json.NewEncoder(w)}
}

// Report implements types.ProgressReporter.
func (j *JSON) Report(e types.Event) {
	if e.Type == types.EventItemStarted {
		return
	}
	out := jsonEvent{
		Event:    e.Type,
		Category: e.Category,
		Total:    e.Total,
		Attempt:  e.Attempt,
		DelayMS:  e.Delay.Milliseconds(),
	}
	if e.Item != nil {
		out.Identifier = e.Item.ID().String()
	}
	if e.Outcome != nil {
		out.Identifier = e.Outcome.Identifier.String()
		out.Status = string(e.Outcome.Status)
		out.Detail = e.Outcome.Detail
	}
	if e.Err != nil {
		out.Error = e.Err.Error()
	}
	_ = j.encoder.Encode(out)
}
