package weather

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Provider defines the interface for hourly forecast providers.
type Provider interface {
	// GetHourlyForecast fetches up to horizonHours of hourly samples for a
	// location, in the location's local timezone.
	GetHourlyForecast(ctx context.Context, lat, lon float64, horizonHours int) (*Forecast, error)

	// Name returns the provider name for logging.
	Name() string
}

// DefaultHorizonHours is how far ahead the planner looks.
const DefaultHorizonHours = 48

// ServiceConfig holds configuration for the weather service.
type ServiceConfig struct {
	Provider Provider
	Logger   zerolog.Logger

	// HorizonHours bounds the normalized forecast length (default: 48).
	HorizonHours int

	// CacheTTL is how long forecasts are cached (default: 10 minutes).
	CacheTTL time.Duration

	// CacheGridSize groups nearby lookups into one cache cell, in degrees
	// (default: 0.05, ~5.5km at the equator).
	CacheGridSize float64
}

// Service provides normalized hourly forecasts with short-TTL caching.
type Service struct {
	provider      Provider
	logger        zerolog.Logger
	horizonHours  int
	cacheTTL      time.Duration
	cacheGridSize float64

	mu    sync.RWMutex
	cache map[string]*cachedForecast
}

type cachedForecast struct {
	forecast  *Forecast
	expiresAt time.Time
}

// NewService creates a new weather service.
func NewService(cfg ServiceConfig) *Service {
	horizon := cfg.HorizonHours
	if horizon <= 0 {
		horizon = DefaultHorizonHours
	}
	ttl := cfg.CacheTTL
	if ttl == 0 {
		ttl = 10 * time.Minute
	}
	grid := cfg.CacheGridSize
	if grid == 0 {
		grid = 0.05
	}

	return &Service{
		provider:      cfg.Provider,
		logger:        cfg.Logger,
		horizonHours:  horizon,
		cacheTTL:      ttl,
		cacheGridSize: grid,
		cache:         make(map[string]*cachedForecast),
	}
}

// GetHourly returns the normalized forecast for a location: time-ordered,
// truncated to the horizon, with unusable records dropped. Returns ErrNoData
// when the provider yields zero usable samples.
func (s *Service) GetHourly(ctx context.Context, lat, lon float64) (*Forecast, error) {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil, ErrInvalidCoordinates
	}

	key := s.cacheKey(lat, lon)

	s.mu.RLock()
	if cached, ok := s.cache[key]; ok && time.Now().Before(cached.expiresAt) {
		s.mu.RUnlock()
		return cached.forecast, nil
	}
	s.mu.RUnlock()

	return s.fetch(ctx, lat, lon, key)
}

func (s *Service) fetch(ctx context.Context, lat, lon float64, key string) (*Forecast, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check under the write lock.
	if cached, ok := s.cache[key]; ok && time.Now().Before(cached.expiresAt) {
		return cached.forecast, nil
	}

	s.logger.Debug().
		Float64("lat", lat).
		Float64("lon", lon).
		Str("provider", s.provider.Name()).
		Msg("fetching hourly forecast")

	raw, err := s.provider.GetHourlyForecast(ctx, lat, lon, s.horizonHours)
	if err != nil {
		s.logger.Error().Err(err).
			Float64("lat", lat).
			Float64("lon", lon).
			Msg("forecast fetch failed")
		return nil, fmt.Errorf("%w: %s", ErrProviderUnavailable, s.provider.Name())
	}

	forecast := Normalize(raw, s.horizonHours)
	if len(forecast.Hourly) == 0 {
		return nil, ErrNoData
	}

	s.cache[key] = &cachedForecast{
		forecast:  forecast,
		expiresAt: time.Now().Add(s.cacheTTL),
	}

	return forecast, nil
}

// Normalize orders samples by time, drops records with a zero timestamp,
// and truncates to horizonHours. Samples missing individual numeric fields
// are kept; downstream code treats missing fields as "insufficient data".
func Normalize(f *Forecast, horizonHours int) *Forecast {
	if f == nil {
		return &Forecast{}
	}

	usable := make([]HourlySample, 0, len(f.Hourly))
	for _, h := range f.Hourly {
		if h.Time.IsZero() {
			continue
		}
		usable = append(usable, h)
	}

	sort.Slice(usable, func(i, j int) bool {
		return usable[i].Time.Before(usable[j].Time)
	})

	if horizonHours > 0 && len(usable) > horizonHours {
		usable = usable[:horizonHours]
	}

	out := *f
	out.Hourly = usable
	return &out
}

// cacheKey quantizes a location into a grid cell.
func (s *Service) cacheKey(lat, lon float64) string {
	gLat := math.Floor(lat/s.cacheGridSize) * s.cacheGridSize
	gLon := math.Floor(lon/s.cacheGridSize) * s.cacheGridSize
	return fmt.Sprintf("%.3f:%.3f", gLat, gLon)
}

// InvalidateCache clears all cached forecasts.
func (s *Service) InvalidateCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]*cachedForecast)
}

// ProviderName returns the underlying provider's name.
func (s *Service) ProviderName() string {
	return s.provider.Name()
}
