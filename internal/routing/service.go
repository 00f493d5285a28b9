package routing

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/pawroute/pawroute/pkg/polyline"
)

// Provider defines the interface for walking-route providers.
type Provider interface {
	// WalkingRoute fetches foot geometry between origin and dest.
	WalkingRoute(ctx context.Context, origin, dest polyline.Point) (*Route, error)

	// Name returns the provider name for logging.
	Name() string
}

// ServiceConfig holds configuration for the routing service.
type ServiceConfig struct {
	// Primary is tried first (typically openrouteservice when a key is
	// configured). Optional.
	Primary Provider

	// Fallback handles primary failures (typically OSRM). Required.
	Fallback Provider

	Logger zerolog.Logger

	// CacheTTL is how long routes are cached (default: 30 minutes).
	CacheTTL time.Duration
}

// Service fetches walking routes with a primary/fallback provider chain
// and a TTL cache keyed on the endpoint pair.
type Service struct {
	primary  Provider
	fallback Provider
	logger   zerolog.Logger
	cacheTTL time.Duration

	mu    sync.RWMutex
	cache map[string]*cachedRoute
}

type cachedRoute struct {
	route     *Route
	expiresAt time.Time
}

// NewService creates a new routing service.
func NewService(cfg ServiceConfig) *Service {
	ttl := cfg.CacheTTL
	if ttl == 0 {
		ttl = 30 * time.Minute
	}

	return &Service{
		primary:  cfg.Primary,
		fallback: cfg.Fallback,
		logger:   cfg.Logger,
		cacheTTL: ttl,
		cache:    make(map[string]*cachedRoute),
	}
}

// WalkingRoute returns a walking route between origin and dest, trying the
// primary provider first. A route missing its distance gets one computed
// from the geometry.
func (s *Service) WalkingRoute(ctx context.Context, origin, dest polyline.Point) (*Route, error) {
	key := routeKey(origin, dest)

	s.mu.RLock()
	if cached, ok := s.cache[key]; ok && time.Now().Before(cached.expiresAt) {
		s.mu.RUnlock()
		return cached.route, nil
	}
	s.mu.RUnlock()

	route, err := s.fetch(ctx, origin, dest)
	if err != nil {
		return nil, err
	}

	if route.DistanceM <= 0 && len(route.Geometry) >= 2 {
		route.DistanceM = int(math.Round(polyline.LengthMeters(route.Geometry)))
	}
	if route.Polyline == "" && len(route.Geometry) >= 2 {
		route.Polyline = polyline.Encode(route.Geometry)
	}

	s.mu.Lock()
	s.cache[key] = &cachedRoute{route: route, expiresAt: time.Now().Add(s.cacheTTL)}
	s.mu.Unlock()

	return route, nil
}

func (s *Service) fetch(ctx context.Context, origin, dest polyline.Point) (*Route, error) {
	if s.primary != nil {
		route, err := s.primary.WalkingRoute(ctx, origin, dest)
		if err == nil {
			return route, nil
		}
		s.logger.Warn().Err(err).
			Str("provider", s.primary.Name()).
			Msg("primary routing provider failed, falling back")
	}

	route, err := s.fallback.WalkingRoute(ctx, origin, dest)
	if err != nil {
		if errors.Is(err, ErrNoRoute) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s", ErrProviderUnavailable, s.fallback.Name())
	}
	return route, nil
}

// InvalidateCache clears all cached routes.
func (s *Service) InvalidateCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]*cachedRoute)
}

func routeKey(origin, dest polyline.Point) string {
	return fmt.Sprintf("%.5f:%.5f|%.5f:%.5f", origin.Lat, origin.Lon, dest.Lat, dest.Lon)
}
