package recommend

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawroute/pawroute/internal/advisor"
	"github.com/pawroute/pawroute/internal/dog"
	"github.com/pawroute/pawroute/internal/poi"
	"github.com/pawroute/pawroute/internal/routing"
	"github.com/pawroute/pawroute/internal/safety"
	"github.com/pawroute/pawroute/internal/weather"
	"github.com/pawroute/pawroute/pkg/polyline"
)

func fptr(v float64) *float64 { return &v }

type stubWeather struct {
	forecast *weather.Forecast
	err      error
}

func (s *stubWeather) GetHourly(context.Context, float64, float64) (*weather.Forecast, error) {
	return s.forecast, s.err
}

type stubDestinations struct {
	candidates []poi.Candidate
	err        error
	gotRadius  int
}

func (s *stubDestinations) FindCandidates(_ context.Context, _, _ float64, radiusM int) ([]poi.Candidate, error) {
	s.gotRadius = radiusM
	return s.candidates, s.err
}

type stubRoutes struct {
	failFor map[string]bool
	calls   atomic.Int32
}

func (s *stubRoutes) WalkingRoute(_ context.Context, origin, dest polyline.Point) (*routing.Route, error) {
	s.calls.Add(1)
	key := routeStubKey(dest)
	if s.failFor[key] {
		return nil, routing.ErrNoRoute
	}
	distance := int(polyline.Haversine(origin, dest))
	return &routing.Route{
		Geometry:  []polyline.Point{origin, dest},
		DistanceM: distance,
	}, nil
}

func routeStubKey(p polyline.Point) string {
	return polyline.Encode([]polyline.Point{p})
}

type stubAdvisor struct {
	outcome advisor.Outcome
	picks   []advisor.DestinationPick
	scores  []advisor.RouteScore
}

func (s *stubAdvisor) SelectWindows(context.Context, dog.Profile, []weather.HourlySample, *time.Location, int) advisor.Outcome {
	return s.outcome
}

func (s *stubAdvisor) SelectDestinations(context.Context, dog.Profile, []poi.Candidate, bool, int) []advisor.DestinationPick {
	return s.picks
}

func (s *stubAdvisor) ScoreRoutes(context.Context, dog.Profile, []advisor.RouteMetrics) []advisor.RouteScore {
	return s.scores
}

var fixedNow = time.Date(2026, 8, 27, 10, 30, 0, 0, time.UTC)

func testForecast() *weather.Forecast {
	// Safe pre-dawn hours, an unsafe midday stretch.
	hourly := make([]weather.HourlySample, 0, 12)
	for h := 3; h < 15; h++ {
		temp := 20.0
		if h >= 9 {
			temp = 35.0
		}
		hourly = append(hourly, weather.HourlySample{
			Time:         time.Date(2026, 8, 27, h, 0, 0, 0, time.UTC),
			TemperatureC: fptr(temp),
			WindMps:      fptr(2.0),
			HumidityPct:  fptr(55.0),
		})
	}
	return &weather.Forecast{Hourly: hourly}
}

func testCandidates() []poi.Candidate {
	return []poi.Candidate{
		{Name: "Near Park", Lat: 35.684, Lon: 139.76, Kind: poi.KindPark},
		{Name: "Path", Lat: 35.688, Lon: 139.76, Kind: poi.KindFootway},
		{Name: "Far Spot", Lat: 35.70, Lon: 139.78, Kind: poi.KindOther},
	}
}

func newTestCoordinator(adv Advisor, routes *stubRoutes, dests *stubDestinations) *Coordinator {
	return NewCoordinator(CoordinatorConfig{
		Weather:      &stubWeather{forecast: testForecast()},
		Destinations: dests,
		Routes:       routes,
		Advisor:      adv,
		Logger:       zerolog.Nop(),
		Timezone:     time.UTC,
		Now:          func() time.Time { return fixedNow },
	})
}

func baseRequest() Request {
	return Request{
		Lat: 35.68, Lon: 139.76,
		Dog:       dog.Profile{Size: dog.SizeMedium, AgeYears: 4, WeightKg: 12},
		MaxRoutes: 3,
	}
}

func TestCoordinator_DeterministicPath(t *testing.T) {
	routes := &stubRoutes{}
	dests := &stubDestinations{candidates: testCandidates()}
	c := newTestCoordinator(nil, routes, dests)

	res, err := c.Recommend(context.Background(), baseRequest())
	require.NoError(t, err)

	assert.Equal(t, WindowSourceExtractor, res.WindowSource)
	require.NotEmpty(t, res.Windows)
	// Safe run is 03:00 through the 09:00 sample.
	assert.Equal(t, 3, res.Windows[0].Start.Hour())
	assert.Equal(t, 9, res.Windows[0].End.Hour())

	require.NotEmpty(t, res.Routes)
	// Deterministic scoring puts the park first.
	assert.Equal(t, "Near Park", res.Routes[0].POI.Name)
	assert.Greater(t, res.Routes[0].Score, 0)
	assert.Greater(t, res.Routes[0].OneWayMinutes, 0)

	// Ranking order: score desc, distance asc.
	for i := 1; i < len(res.Routes); i++ {
		prev, cur := res.Routes[i-1], res.Routes[i]
		assert.True(t, prev.Score > cur.Score ||
			(prev.Score == cur.Score && prev.DistanceM <= cur.DistanceM))
	}

	assert.NotNil(t, res.Conditions)
	assert.Equal(t, fixedNow, res.GeneratedAt)
}

func TestCoordinator_InvalidRequest(t *testing.T) {
	c := newTestCoordinator(nil, &stubRoutes{}, &stubDestinations{})

	_, err := c.Recommend(context.Background(), Request{Lat: 120, Lon: 0,
		Dog: dog.Profile{Size: dog.SizeSmall}})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = c.Recommend(context.Background(), Request{Lat: 35, Lon: 139,
		Dog: dog.Profile{Size: "pony", AgeYears: 2}})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestCoordinator_WeatherFailurePropagates(t *testing.T) {
	c := NewCoordinator(CoordinatorConfig{
		Weather:      &stubWeather{err: weather.ErrProviderUnavailable},
		Destinations: &stubDestinations{},
		Routes:       &stubRoutes{},
		Logger:       zerolog.Nop(),
	})

	_, err := c.Recommend(context.Background(), baseRequest())
	assert.ErrorIs(t, err, weather.ErrProviderUnavailable)
}

func TestCoordinator_AdvisorUnavailableYieldsFallbackWindows(t *testing.T) {
	adv := &stubAdvisor{outcome: advisor.Unavailable("timeout")}
	routes := &stubRoutes{}
	c := newTestCoordinator(adv, routes, &stubDestinations{candidates: testCandidates()})

	res, err := c.Recommend(context.Background(), baseRequest())
	require.NoError(t, err)

	assert.Equal(t, WindowSourceFallback, res.WindowSource)
	require.Len(t, res.Windows, 2)

	morning, evening := res.Windows[0], res.Windows[1]
	assert.Equal(t, 75, morning.ComfortScore)
	assert.Equal(t, 6, morning.Start.Hour())
	assert.Equal(t, 8, morning.End.Hour())
	assert.Equal(t, 70, evening.ComfortScore)
	assert.Equal(t, 18, evening.Start.Hour())
	assert.Equal(t, 20, evening.End.Hour())

	// Same day as "now", non-overlapping.
	assert.Equal(t, fixedNow.Day(), morning.Start.Day())
	assert.False(t, evening.Start.Before(morning.End))
}

func TestCoordinator_AdvisorWindowsUsedWhenValid(t *testing.T) {
	windows := []safety.Window{{
		Start:        time.Date(2026, 8, 27, 5, 0, 0, 0, time.UTC),
		End:          time.Date(2026, 8, 27, 7, 0, 0, 0, time.UTC),
		ComfortScore: 88,
		Label:        "early",
	}}
	adv := &stubAdvisor{
		outcome: advisor.Valid(windows),
		picks:   []advisor.DestinationPick{{Index: 0, Label: "park", Reason: "shade"}},
		scores:  []advisor.RouteScore{{Score: 91, Reason: "great shade"}},
	}
	c := newTestCoordinator(adv, &stubRoutes{}, &stubDestinations{candidates: testCandidates()})

	res, err := c.Recommend(context.Background(), baseRequest())
	require.NoError(t, err)

	assert.Equal(t, WindowSourceAdvisor, res.WindowSource)
	require.Len(t, res.Windows, 1)
	assert.Equal(t, 88, res.Windows[0].ComfortScore)

	require.Len(t, res.Routes, 1)
	assert.Equal(t, 91, res.Routes[0].Score)
	assert.Contains(t, res.Routes[0].Reason, "shade")
}

func TestCoordinator_RouteFailureToleratedPerDestination(t *testing.T) {
	candidates := testCandidates()
	routes := &stubRoutes{failFor: map[string]bool{
		routeStubKey(polyline.Point{Lat: candidates[0].Lat, Lon: candidates[0].Lon}): true,
	}}
	c := newTestCoordinator(nil, routes, &stubDestinations{candidates: candidates})

	res, err := c.Recommend(context.Background(), baseRequest())
	require.NoError(t, err)

	require.Len(t, res.Routes, 2)
	for _, r := range res.Routes {
		assert.NotEqual(t, "Near Park", r.POI.Name)
	}
}

func TestCoordinator_AllRoutesFailing(t *testing.T) {
	candidates := testCandidates()
	failFor := make(map[string]bool)
	for _, cand := range candidates {
		failFor[routeStubKey(polyline.Point{Lat: cand.Lat, Lon: cand.Lon})] = true
	}
	c := newTestCoordinator(nil, &stubRoutes{failFor: failFor}, &stubDestinations{candidates: candidates})

	res, err := c.Recommend(context.Background(), baseRequest())
	require.NoError(t, err)
	assert.Empty(t, res.Routes)
	assert.NotEmpty(t, res.Windows)
}

func TestCoordinator_RadiusHandling(t *testing.T) {
	t.Run("explicit radius clamped", func(t *testing.T) {
		dests := &stubDestinations{candidates: testCandidates()}
		c := newTestCoordinator(nil, &stubRoutes{}, dests)

		req := baseRequest()
		req.RadiusM = 99999
		_, err := c.Recommend(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, poi.MaxRadiusM, dests.gotRadius)
	})

	t.Run("derived from profile when unset", func(t *testing.T) {
		dests := &stubDestinations{candidates: testCandidates()}
		c := newTestCoordinator(nil, &stubRoutes{}, dests)

		_, err := c.Recommend(context.Background(), baseRequest())
		require.NoError(t, err)
		assert.GreaterOrEqual(t, dests.gotRadius, 300)
		assert.LessOrEqual(t, dests.gotRadius, 2000)
	})
}

func TestCoordinator_MaxRoutesClamped(t *testing.T) {
	var many []poi.Candidate
	for i := 0; i < 10; i++ {
		many = append(many, poi.Candidate{
			Name: string(rune('a' + i)),
			Lat:  35.684 + float64(i)*0.001,
			Lon:  139.76,
			Kind: poi.KindPark,
		})
	}
	dests := &stubDestinations{candidates: many}
	c := newTestCoordinator(nil, &stubRoutes{}, dests)

	req := baseRequest()
	req.MaxRoutes = 99
	res, err := c.Recommend(context.Background(), req)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(res.Routes), routing.MaxRoutes)
}

func TestFallbackWindows_Timezone(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	// 23:30 UTC on the 26th is already the 27th in Tokyo.
	now := time.Date(2026, 8, 26, 23, 30, 0, 0, time.UTC)
	windows := FallbackWindows(now, tokyo)
	require.Len(t, windows, 2)

	assert.Equal(t, 27, windows[0].Start.Day())
	assert.Equal(t, 6, windows[0].Start.Hour())
	assert.Equal(t, tokyo, windows[0].Start.Location())
}

func TestCoordinator_ConditionsUseForecastZone(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	// Zone-naive sample times; the hour is encoded in the temperature so
	// the picked sample identifies itself.
	hourly := make([]weather.HourlySample, 0, 24)
	for h := 0; h < 24; h++ {
		hourly = append(hourly, weather.HourlySample{
			Time:         time.Date(2026, 8, 27, h, 0, 0, 0, time.UTC),
			TemperatureC: fptr(float64(h)),
			WindMps:      fptr(2.0),
		})
	}
	forecast := &weather.Forecast{Timezone: "Asia/Tokyo", Hourly: hourly}

	c := NewCoordinator(CoordinatorConfig{
		Weather:      &stubWeather{forecast: forecast},
		Destinations: &stubDestinations{},
		Routes:       &stubRoutes{},
		Logger:       zerolog.Nop(),
		Now:          func() time.Time { return time.Date(2026, 8, 27, 12, 0, 0, 0, tokyo) },
	})

	res, err := c.Recommend(context.Background(), baseRequest())
	require.NoError(t, err)

	// Noon in Tokyo must pick the 12:00 sample, not the 03:00 one that
	// matches the raw UTC instant.
	require.NotNil(t, res.Conditions)
	require.NotNil(t, res.Conditions.TemperatureC)
	assert.Equal(t, 12.0, *res.Conditions.TemperatureC)
}

func TestForecastClock(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	now := time.Date(2026, 8, 27, 3, 30, 0, 0, time.UTC) // 12:30 in Tokyo
	assert.Equal(t, time.Date(2026, 8, 27, 12, 30, 0, 0, time.UTC), forecastClock(now, tokyo))
	assert.Equal(t, now, forecastClock(now, time.UTC))
	assert.Equal(t, now, forecastClock(now, nil))
}

func TestHotDay(t *testing.T) {
	assert.False(t, hotDay(nil))
	assert.False(t, hotDay([]safety.Window{{ComfortScore: 70}}))
	assert.True(t, hotDay([]safety.Window{{ComfortScore: 69}, {ComfortScore: 40}}))
}

func TestAverageTemp(t *testing.T) {
	samples := []weather.HourlySample{
		{TemperatureC: fptr(20)},
		{TemperatureC: nil},
		{TemperatureC: fptr(30)},
	}
	assert.InDelta(t, 25.0, averageTemp(samples, 12), 1e-9)
	assert.True(t, isNaN(averageTemp(nil, 12)))
}

func isNaN(f float64) bool { return f != f }

func TestCoordinator_DestinationFailurePropagates(t *testing.T) {
	dests := &stubDestinations{err: errors.New("overpass down")}
	c := newTestCoordinator(nil, &stubRoutes{}, dests)

	_, err := c.Recommend(context.Background(), baseRequest())
	assert.Error(t, err)
}
