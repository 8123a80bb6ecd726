package publishers

import (
	"time"

	"github.com/samvad-hq/streetview-node/internal/domain"
	"github.com/samvad-hq/streetview-node/pkg/streetview"
)

// Outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Event describes one finished node invocation.
type Event struct {
	Location    string            `json:"location"`
	Outcome     string            `json:"outcome"`
	Kind        string            `json:"kind,omitempty"`
	Status      string            `json:"status,omitempty"`
	ImageURL    string            `json:"image_url,omitempty"`
	ContentType string            `json:"content_type,omitempty"`
	Params      streetview.Params `json:"params"`
	FetchedAt   time.Time         `json:"fetched_at"`
}

// NewEvent builds the event for params and their result. The image URL is
// published with any API key redacted.
func NewEvent(p streetview.Params, res domain.Result) Event {
	evt := Event{
		Location:  p.Location,
		Outcome:   OutcomeFailure,
		Kind:      res.Kind,
		Status:    res.Status,
		Params:    p,
		FetchedAt: time.Now().UTC(),
	}
	if res.OK() {
		evt.Outcome = OutcomeSuccess
		evt.ImageURL = streetview.RedactKey(res.Image.URL)
		evt.ContentType = res.Image.ContentType
	}
	return evt
}

// attributes are the message attributes queue sinks attach for filtering.
func (e Event) attributes() map[string]string {
	attrs := map[string]string{"outcome": e.Outcome}
	if e.Kind != "" {
		attrs["kind"] = e.Kind
	}
	return attrs
}
