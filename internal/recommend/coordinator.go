package recommend

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/pawroute/pawroute/internal/advisor"
	"github.com/pawroute/pawroute/internal/dog"
	"github.com/pawroute/pawroute/internal/poi"
	"github.com/pawroute/pawroute/internal/routing"
	"github.com/pawroute/pawroute/internal/safety"
	"github.com/pawroute/pawroute/internal/weather"
	"github.com/pawroute/pawroute/pkg/polyline"
)

// Collaborator contracts. Narrow interfaces keep the coordinator testable
// without spinning up the real services.

// ForecastService supplies normalized hourly forecasts.
type ForecastService interface {
	GetHourly(ctx context.Context, lat, lon float64) (*weather.Forecast, error)
}

// DestinationService supplies classified destination candidates.
type DestinationService interface {
	FindCandidates(ctx context.Context, lat, lon float64, radiusM int) ([]poi.Candidate, error)
}

// RouteService supplies walking routes.
type RouteService interface {
	WalkingRoute(ctx context.Context, origin, dest polyline.Point) (*routing.Route, error)
}

// Advisor is the optional external reasoning service. The *advisor.Service
// type satisfies it.
type Advisor interface {
	SelectWindows(ctx context.Context, profile dog.Profile, hourly []weather.HourlySample, loc *time.Location, topK int) advisor.Outcome
	SelectDestinations(ctx context.Context, profile dog.Profile, candidates []poi.Candidate, hotDay bool, topK int) []advisor.DestinationPick
	ScoreRoutes(ctx context.Context, profile dog.Profile, metrics []advisor.RouteMetrics) []advisor.RouteScore
}

const (
	// defaultMaxRoutes when the request leaves K unset.
	defaultMaxRoutes = 3

	// maxRouteWorkers bounds the route fan-out pool.
	maxRouteWorkers = 4

	// windowTopK asked of the advisor.
	windowTopK = 3

	// heatSampleHours is how far ahead the duration heuristic averages
	// the forecast temperature.
	heatSampleHours = 12
)

// CoordinatorConfig holds configuration for the recommendation coordinator.
type CoordinatorConfig struct {
	Weather      ForecastService
	Destinations DestinationService
	Routes       RouteService

	// Advisor switches the deployment to the external-scorer path when
	// set. The deterministic and advisor paths are never blended: one
	// deployment uses one of them for every request.
	Advisor Advisor

	Logger zerolog.Logger

	// Timezone anchors fallback windows when the forecast does not name
	// a zone (default: UTC).
	Timezone *time.Location

	// Now is the clock, overridable in tests.
	Now func() time.Time
}

// Coordinator produces walk recommendations.
type Coordinator struct {
	weather      ForecastService
	destinations DestinationService
	routes       RouteService
	advisor      Advisor
	logger       zerolog.Logger
	timezone     *time.Location
	now          func() time.Time
}

// NewCoordinator creates a recommendation coordinator.
func NewCoordinator(cfg CoordinatorConfig) *Coordinator {
	tz := cfg.Timezone
	if tz == nil {
		tz = time.UTC
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Coordinator{
		weather:      cfg.Weather,
		destinations: cfg.Destinations,
		routes:       cfg.Routes,
		advisor:      cfg.Advisor,
		logger:       cfg.Logger,
		timezone:     tz,
		now:          now,
	}
}

// Recommend runs the full pipeline: forecast, safety windows, destination
// candidates, route fan-out and ranking. Individual destination failures
// are tolerated; only missing weather or destinations fail the request.
func (c *Coordinator) Recommend(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, err)
	}

	forecast, err := c.weather.GetHourly(ctx, req.Lat, req.Lon)
	if err != nil {
		return nil, err
	}
	if len(forecast.Hourly) == 0 {
		return nil, ErrNoWeatherData
	}

	loc := c.locationFor(forecast)
	windows, source := c.selectWindows(ctx, req.Dog, forecast.Hourly, loc)

	avgTemp := averageTemp(forecast.Hourly, heatSampleHours)
	oneWay := req.Dog.OneWayMinutes(avgTemp)

	radius := req.RadiusM
	if radius <= 0 {
		radius = req.Dog.SuggestedRadiusM(avgTemp)
	}
	radius = clampRadius(radius)

	k := req.MaxRoutes
	if k <= 0 {
		k = defaultMaxRoutes
	}
	if k > routing.MaxRoutes {
		k = routing.MaxRoutes
	}

	candidates, err := c.destinations.FindCandidates(ctx, req.Lat, req.Lon, radius)
	if err != nil {
		return nil, err
	}

	routes := c.buildRoutes(ctx, req, candidates, windows, k)

	result := &Result{
		Windows:       windows,
		Routes:        routes,
		WindowSource:  source,
		RadiusM:       radius,
		OneWayMinutes: oneWay,
		Conditions:    currentConditions(forecast.Hourly, forecastClock(c.now(), loc)),
		GeneratedAt:   c.now(),
	}
	return result, nil
}

// selectWindows runs either the advisor path with its deterministic
// fallback, or the pure extraction path.
func (c *Coordinator) selectWindows(ctx context.Context, profile dog.Profile, hourly []weather.HourlySample, loc *time.Location) ([]safety.Window, WindowSource) {
	if c.advisor != nil {
		outcome := c.advisor.SelectWindows(ctx, profile, hourly, loc, windowTopK)
		if windows, ok := outcome.Windows(); ok {
			return safety.SortByComfort(windows), WindowSourceAdvisor
		}
		c.logger.Info().Str("reason", outcome.Reason()).
			Msg("advisor windows unavailable, substituting defaults")
		return FallbackWindows(c.now(), loc), WindowSourceFallback
	}

	windows := safety.Extract(hourly, profile)
	return safety.SortByComfort(windows), WindowSourceExtractor
}

// buildRoutes picks destinations, fans out route fetches on a bounded
// worker pool, scores and ranks.
func (c *Coordinator) buildRoutes(ctx context.Context, req Request, candidates []poi.Candidate, windows []safety.Window, k int) []routing.Candidate {
	if len(candidates) == 0 {
		return nil
	}

	picks := c.pickDestinations(ctx, req.Dog, candidates, windows, k)
	if len(picks) == 0 {
		return nil
	}

	routed := c.fetchRoutes(ctx, req, candidates, picks)
	if len(routed) == 0 {
		return nil
	}

	c.scoreRoutes(ctx, req.Dog, routed)
	return routing.Rank(routed, k)
}

type pick struct {
	index  int
	label  string
	reason string
}

// pickDestinations asks the advisor when configured, otherwise takes the
// nearest candidates. Route fan-out cost is bounded either way.
func (c *Coordinator) pickDestinations(ctx context.Context, profile dog.Profile, candidates []poi.Candidate, windows []safety.Window, k int) []pick {
	if c.advisor != nil {
		hot := hotDay(windows)
		selected := c.advisor.SelectDestinations(ctx, profile, candidates, hot, k)
		if len(selected) > 0 {
			out := make([]pick, 0, len(selected))
			for _, s := range selected {
				out = append(out, pick{index: s.Index, label: s.Label, reason: s.Reason})
			}
			return out
		}
		c.logger.Info().Msg("advisor picked no destinations, using nearest")
	}

	n := min(k, len(candidates))
	out := make([]pick, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, pick{index: i, label: candidates[i].Name})
	}
	return out
}

// fetchRoutes runs the route fan-out on a bounded worker pool. A failed
// destination is dropped, never fatal. Results keep pick order.
func (c *Coordinator) fetchRoutes(ctx context.Context, req Request, candidates []poi.Candidate, picks []pick) []routing.Candidate {
	origin := polyline.Point{Lat: req.Lat, Lon: req.Lon}

	workers := min(maxRouteWorkers, len(picks))
	jobs := make(chan int)
	results := make([]*routing.Candidate, len(picks))

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				p := picks[i]
				dest := candidates[p.index]
				route, err := c.routes.WalkingRoute(ctx, origin, polyline.Point{Lat: dest.Lat, Lon: dest.Lon})
				if err != nil || len(route.Geometry) < 2 {
					c.logger.Debug().Err(err).Str("poi", dest.Name).
						Msg("dropping destination without a route")
					continue
				}
				results[i] = &routing.Candidate{
					POI:           dest,
					Geometry:      route.Geometry,
					Polyline:      route.Polyline,
					DistanceM:     route.DistanceM,
					OneWayMinutes: oneWayMinutes(route.DistanceM, req.Dog),
					Reason:        p.reason,
				}
			}
		}()
	}

	for i := range picks {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	out := make([]routing.Candidate, 0, len(picks))
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out
}

// scoreRoutes fills candidate scores, from the advisor when configured and
// it answers, otherwise from the deterministic formula.
func (c *Coordinator) scoreRoutes(ctx context.Context, profile dog.Profile, routed []routing.Candidate) {
	if c.advisor != nil {
		metrics := make([]advisor.RouteMetrics, len(routed))
		for i, r := range routed {
			metrics[i] = advisor.RouteMetrics{
				DistanceM:        r.DistanceM,
				EstMinutesOneWay: r.OneWayMinutes,
				POIKind:          string(r.POI.Kind),
				Environment:      r.POI.EnvironmentTags,
			}
		}
		if scores := c.advisor.ScoreRoutes(ctx, profile, metrics); scores != nil {
			for i := range routed {
				routed[i].Score = scores[i].Score
				if scores[i].Reason != "" {
					if routed[i].Reason != "" {
						routed[i].Reason += " / "
					}
					routed[i].Reason += scores[i].Reason
				}
			}
			return
		}
		c.logger.Info().Msg("advisor route scores unavailable, using defaults")
	}

	for i := range routed {
		routed[i].Score = routing.DefaultScore(routed[i])
	}
}

func (c *Coordinator) locationFor(f *weather.Forecast) *time.Location {
	if f.Timezone != "" {
		if loc, err := time.LoadLocation(f.Timezone); err == nil {
			return loc
		}
	}
	return c.timezone
}

// hotDay mirrors the original heuristic: a day whose best window scores
// under 70 is treated as hot when briefing the destination selector.
func hotDay(windows []safety.Window) bool {
	best := 0
	for _, w := range windows {
		if w.ComfortScore > best {
			best = w.ComfortScore
		}
	}
	return len(windows) > 0 && best < 70
}

// averageTemp is the mean temperature over the next n samples that carry
// one; NaN when none do.
func averageTemp(hourly []weather.HourlySample, n int) float64 {
	sum, count := 0.0, 0
	for i, h := range hourly {
		if i >= n {
			break
		}
		if h.TemperatureC != nil {
			sum += *h.TemperatureC
			count++
		}
	}
	if count == 0 {
		return math.NaN()
	}
	return sum / float64(count)
}

// oneWayMinutes estimates the one-way walk time for a routed distance at
// the dog's pace.
func oneWayMinutes(distanceM int, profile dog.Profile) int {
	minutes := int(math.Round(float64(distanceM) / 1000.0 * 60.0 / profile.PaceKmh()))
	if minutes < 1 {
		return 1
	}
	return minutes
}

func clampRadius(r int) int {
	if r < poi.MinRadiusM {
		return poi.MinRadiusM
	}
	if r > poi.MaxRadiusM {
		return poi.MaxRadiusM
	}
	return r
}

// forecastClock re-expresses now in the forecast zone's wall-clock fields
// as a UTC instant. Sample times are zone-naive wall-clock values rendered
// in UTC, so the nearest-hour search has to compare like with like.
func forecastClock(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), local.Hour(), local.Minute(), 0, 0, time.UTC)
}

// currentConditions summarizes the sample nearest to now.
func currentConditions(hourly []weather.HourlySample, now time.Time) *CurrentConditions {
	if len(hourly) == 0 {
		return nil
	}

	nearest := hourly[0]
	best := math.MaxFloat64
	for _, h := range hourly {
		d := math.Abs(h.Time.Sub(now).Hours())
		if d < best {
			best = d
			nearest = h
		}
	}

	return &CurrentConditions{
		TemperatureC: nearest.TemperatureC,
		HumidityPct:  nearest.HumidityPct,
		WindMps:      nearest.WindMps,
		Condition:    nearest.Condition(),
	}
}
