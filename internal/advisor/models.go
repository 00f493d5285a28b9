// Package advisor wraps an optional external reasoning service that picks
// walk time windows, chooses destinations and scores routes. Every failure
// mode collapses into an Unavailable outcome; the recommendation
// coordinator maps that to its deterministic fallbacks, so advisor errors
// never surface to callers.
package advisor

import (
	"context"
	"encoding/json"

	"github.com/pawroute/pawroute/internal/safety"
)

// Payload bounds sent to the external service.
const (
	MaxHourlySamples = 48
	MaxDestinations  = 60
)

// ChatClient is the transport the advisor talks through.
type ChatClient interface {
	// CompleteJSON sends a system prompt and JSON payload, returning the
	// model's JSON-object reply.
	CompleteJSON(ctx context.Context, system string, payload any) (json.RawMessage, error)

	// Name returns the provider name for logging.
	Name() string
}

// Outcome is the two-branch result of a window selection: either usable
// windows or an explicit unavailability with its reason. It is never both.
type Outcome struct {
	windows []safety.Window
	reason  string
}

// Valid wraps usable windows in an outcome.
func Valid(windows []safety.Window) Outcome {
	return Outcome{windows: windows}
}

// Unavailable marks the advisor output unusable for the given reason.
func Unavailable(reason string) Outcome {
	return Outcome{reason: reason}
}

// Windows returns the selected windows and whether they are usable.
// Zero usable windows and unavailability both send the caller to the
// deterministic fallback.
func (o Outcome) Windows() ([]safety.Window, bool) {
	if len(o.windows) == 0 {
		return nil, false
	}
	return o.windows, true
}

// Reason returns why the outcome is unavailable, empty when it is valid.
func (o Outcome) Reason() string {
	return o.reason
}

// DestinationPick is one advisor-chosen destination, referencing the
// candidate list by index.
type DestinationPick struct {
	Index  int
	Label  string
	Reason string
}

// RouteScore is the advisor's rating for one routed candidate, in input
// order.
type RouteScore struct {
	Score  int
	Reason string
}
