package routing

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawroute/pawroute/pkg/polyline"
)

type stubRouter struct {
	route *Route
	err   error
	calls int
}

func (r *stubRouter) WalkingRoute(context.Context, polyline.Point, polyline.Point) (*Route, error) {
	r.calls++
	return r.route, r.err
}

func (r *stubRouter) Name() string { return "stub" }

var (
	testOrigin = polyline.Point{Lat: 35.68, Lon: 139.76}
	testDest   = polyline.Point{Lat: 35.69, Lon: 139.77}
)

func twoPointRoute(distance int) *Route {
	return &Route{
		Geometry:  []polyline.Point{testOrigin, testDest},
		DistanceM: distance,
	}
}

func TestService_WalkingRoute_PrefersPrimary(t *testing.T) {
	primary := &stubRouter{route: twoPointRoute(1200)}
	fallback := &stubRouter{route: twoPointRoute(999)}

	svc := NewService(ServiceConfig{Primary: primary, Fallback: fallback, Logger: zerolog.Nop()})

	route, err := svc.WalkingRoute(context.Background(), testOrigin, testDest)
	require.NoError(t, err)
	assert.Equal(t, 1200, route.DistanceM)
	assert.Equal(t, 0, fallback.calls)
}

func TestService_WalkingRoute_FallsBack(t *testing.T) {
	primary := &stubRouter{err: errors.New("quota exceeded")}
	fallback := &stubRouter{route: twoPointRoute(999)}

	svc := NewService(ServiceConfig{Primary: primary, Fallback: fallback, Logger: zerolog.Nop()})

	route, err := svc.WalkingRoute(context.Background(), testOrigin, testDest)
	require.NoError(t, err)
	assert.Equal(t, 999, route.DistanceM)
}

func TestService_WalkingRoute_NoPrimary(t *testing.T) {
	fallback := &stubRouter{route: twoPointRoute(500)}
	svc := NewService(ServiceConfig{Fallback: fallback, Logger: zerolog.Nop()})

	_, err := svc.WalkingRoute(context.Background(), testOrigin, testDest)
	require.NoError(t, err)
	assert.Equal(t, 1, fallback.calls)
}

func TestService_WalkingRoute_NoRoutePropagates(t *testing.T) {
	fallback := &stubRouter{err: ErrNoRoute}
	svc := NewService(ServiceConfig{Fallback: fallback, Logger: zerolog.Nop()})

	_, err := svc.WalkingRoute(context.Background(), testOrigin, testDest)
	assert.ErrorIs(t, err, ErrNoRoute)
}

func TestService_WalkingRoute_BothFail(t *testing.T) {
	primary := &stubRouter{err: errors.New("down")}
	fallback := &stubRouter{err: errors.New("also down")}
	svc := NewService(ServiceConfig{Primary: primary, Fallback: fallback, Logger: zerolog.Nop()})

	_, err := svc.WalkingRoute(context.Background(), testOrigin, testDest)
	assert.ErrorIs(t, err, ErrProviderUnavailable)
}

func TestService_WalkingRoute_FillsDistanceAndPolyline(t *testing.T) {
	fallback := &stubRouter{route: &Route{
		Geometry: []polyline.Point{testOrigin, testDest},
	}}
	svc := NewService(ServiceConfig{Fallback: fallback, Logger: zerolog.Nop()})

	route, err := svc.WalkingRoute(context.Background(), testOrigin, testDest)
	require.NoError(t, err)

	// Roughly 1.4km between the two test points.
	assert.Greater(t, route.DistanceM, 1000)
	assert.Less(t, route.DistanceM, 2000)
	assert.NotEmpty(t, route.Polyline)
	assert.Equal(t, route.Geometry, polyline.Decode(route.Polyline))
}

func TestService_WalkingRoute_Caches(t *testing.T) {
	fallback := &stubRouter{route: twoPointRoute(500)}
	svc := NewService(ServiceConfig{Fallback: fallback, Logger: zerolog.Nop()})

	_, err := svc.WalkingRoute(context.Background(), testOrigin, testDest)
	require.NoError(t, err)
	_, err = svc.WalkingRoute(context.Background(), testOrigin, testDest)
	require.NoError(t, err)
	assert.Equal(t, 1, fallback.calls)

	svc.InvalidateCache()
	_, err = svc.WalkingRoute(context.Background(), testOrigin, testDest)
	require.NoError(t, err)
	assert.Equal(t, 2, fallback.calls)
}
