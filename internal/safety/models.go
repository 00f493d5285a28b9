// Package safety turns hourly forecasts into walk-safety time windows and
// comfort scores for a given dog profile.
package safety

import "time"

// Window is a contiguous interval judged acceptable for walking.
// Start is inclusive, End exclusive, Start < End always.
type Window struct {
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	ComfortScore int       `json:"comfortScore"`
	Label        string    `json:"label"`
	Reason       string    `json:"reason"`
}

// Duration returns the window length.
func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// labelFor buckets a window by its starting hour.
func labelFor(start time.Time) string {
	switch h := start.Hour(); {
	case h < 5:
		return "night"
	case h < 12:
		return "morning"
	case h < 17:
		return "afternoon"
	default:
		return "evening"
	}
}
