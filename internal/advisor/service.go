package advisor

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/pawroute/pawroute/internal/dog"
	"github.com/pawroute/pawroute/internal/poi"
	"github.com/pawroute/pawroute/internal/safety"
	"github.com/pawroute/pawroute/internal/weather"
)

// windowTimeLayout is the wire format for advisor window timestamps.
const windowTimeLayout = "2006-01-02 15:04"

// ServiceConfig holds configuration for the advisor service.
type ServiceConfig struct {
	Client ChatClient
	Logger zerolog.Logger
}

// Service runs the three advisor stages, validating everything the model
// returns before letting it near a caller.
type Service struct {
	client ChatClient
	logger zerolog.Logger
}

// NewService creates a new advisor service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{client: cfg.Client, logger: cfg.Logger}
}

// SelectWindows asks the advisor for up to topK walk windows. The location
// zone resolves wire timestamps; loc may be nil for UTC.
func (s *Service) SelectWindows(ctx context.Context, profile dog.Profile, hourly []weather.HourlySample, loc *time.Location, topK int) Outcome {
	if loc == nil {
		loc = time.UTC
	}
	if len(hourly) > MaxHourlySamples {
		hourly = hourly[:MaxHourlySamples]
	}

	payload := map[string]any{
		"dog":     profilePayload(profile),
		"hourly":  hourlyPayload(hourly),
		"request": map[string]int{"top_k": topK},
	}

	raw, err := s.client.CompleteJSON(ctx, windowSelectorSystem, payload)
	if err != nil {
		s.logger.Warn().Err(err).Str("provider", s.client.Name()).
			Msg("window selection unavailable")
		return Unavailable(err.Error())
	}

	var reply struct {
		Windows []wireWindow `json:"windows"`
	}
	if err := json.Unmarshal(raw, &reply); err != nil {
		return Unavailable("malformed window reply")
	}

	windows := validateWindows(reply.Windows, loc, topK)
	if len(windows) == 0 {
		return Unavailable("no usable windows in reply")
	}
	return Valid(windows)
}

// SelectDestinations asks the advisor to pick up to topK destinations from
// the candidate list. Picks with out-of-range indices are dropped.
func (s *Service) SelectDestinations(ctx context.Context, profile dog.Profile, candidates []poi.Candidate, hotDay bool, topK int) []DestinationPick {
	if len(candidates) > MaxDestinations {
		candidates = candidates[:MaxDestinations]
	}

	items := make([]map[string]any, 0, len(candidates))
	for _, c := range candidates {
		items = append(items, map[string]any{
			"name":     c.Name,
			"kind":     c.Kind,
			"lat":      c.Lat,
			"lon":      c.Lon,
			"approx_m": c.ApproxDistanceM,
			"env":      c.EnvironmentTags,
		})
	}

	payload := map[string]any{
		"dog":     profilePayload(profile),
		"hot_day": hotDay,
		"pois":    items,
		"request": map[string]int{"top_k": topK},
	}

	raw, err := s.client.CompleteJSON(ctx, destinationSelectorSystem, payload)
	if err != nil {
		s.logger.Warn().Err(err).Str("provider", s.client.Name()).
			Msg("destination selection unavailable")
		return nil
	}

	var reply struct {
		Selections []struct {
			Index  int    `json:"poi_index"`
			Label  string `json:"label"`
			Reason string `json:"reason"`
		} `json:"selections"`
	}
	if err := json.Unmarshal(raw, &reply); err != nil {
		return nil
	}

	picks := make([]DestinationPick, 0, topK)
	for _, sel := range reply.Selections {
		if len(picks) >= topK {
			break
		}
		if sel.Index < 0 || sel.Index >= len(candidates) {
			continue
		}
		label := sel.Label
		if label == "" {
			label = candidates[sel.Index].Name
		}
		picks = append(picks, DestinationPick{
			Index:  sel.Index,
			Label:  label,
			Reason: sel.Reason,
		})
	}
	return picks
}

// ScoreRoutes asks the advisor to rate already-routed candidates. The
// metrics slice and the returned scores are index-aligned; a short or
// missing reply yields nil and the caller falls back to default scoring.
func (s *Service) ScoreRoutes(ctx context.Context, profile dog.Profile, metrics []RouteMetrics) []RouteScore {
	if len(metrics) == 0 {
		return nil
	}

	payload := map[string]any{
		"dog":    profilePayload(profile),
		"routes": metrics,
	}

	raw, err := s.client.CompleteJSON(ctx, routeScorerSystem, payload)
	if err != nil {
		s.logger.Warn().Err(err).Str("provider", s.client.Name()).
			Msg("route scoring unavailable")
		return nil
	}

	var reply struct {
		Scores []struct {
			Score  int    `json:"score"`
			Reason string `json:"reason"`
		} `json:"scores"`
	}
	if err := json.Unmarshal(raw, &reply); err != nil {
		return nil
	}
	if len(reply.Scores) < len(metrics) {
		return nil
	}

	out := make([]RouteScore, len(metrics))
	for i := range metrics {
		out[i] = RouteScore{
			Score:  clampScore(reply.Scores[i].Score),
			Reason: reply.Scores[i].Reason,
		}
	}
	return out
}

// RouteMetrics is the bounded per-route payload sent for final scoring.
type RouteMetrics struct {
	DistanceM        int      `json:"distance_m"`
	EstMinutesOneWay int      `json:"est_minutes_oneway"`
	POIKind          string   `json:"poi_kind"`
	Environment      []string `json:"environment"`
}

type wireWindow struct {
	Start  string `json:"start"`
	End    string `json:"end"`
	Label  string `json:"label"`
	Score  int    `json:"score"`
	Reason string `json:"reason"`
}

// validateWindows keeps only entries with parseable timestamps and
// start < end, clamping scores. Bad entries are dropped, not errors.
func validateWindows(wire []wireWindow, loc *time.Location, topK int) []safety.Window {
	out := make([]safety.Window, 0, topK)
	for _, w := range wire {
		if len(out) >= topK {
			break
		}
		start, err := time.ParseInLocation(windowTimeLayout, w.Start, loc)
		if err != nil {
			continue
		}
		end, err := time.ParseInLocation(windowTimeLayout, w.End, loc)
		if err != nil {
			continue
		}
		if !start.Before(end) {
			continue
		}
		label := w.Label
		if label == "" {
			label = "recommended"
		}
		out = append(out, safety.Window{
			Start:        start,
			End:          end,
			ComfortScore: clampScore(w.Score),
			Label:        label,
			Reason:       w.Reason,
		})
	}
	return out
}

// hourlyPayload flattens samples for the wire; nil fields become null.
func hourlyPayload(hourly []weather.HourlySample) []map[string]any {
	out := make([]map[string]any, 0, len(hourly))
	for _, h := range hourly {
		entry := map[string]any{
			"time": h.Time.Format(windowTimeLayout),
			"temp": h.TemperatureC,
			"rh":   h.HumidityPct,
			"wind": h.WindMps,
		}
		if h.Daytime != nil {
			entry["is_day"] = *h.Daytime
		}
		out = append(out, entry)
	}
	return out
}

func profilePayload(p dog.Profile) map[string]any {
	return map[string]any{
		"size":   p.Size,
		"age":    p.AgeYears,
		"weight": p.WeightKg,
	}
}

func clampScore(s int) int {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}
