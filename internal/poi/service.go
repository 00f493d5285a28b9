package poi

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/pawroute/pawroute/pkg/polyline"
)

// Provider defines the interface for POI sources.
type Provider interface {
	// FindWalkable returns parks, footways and paths around the origin.
	FindWalkable(ctx context.Context, lat, lon float64, radiusM int) ([]Candidate, error)

	// FindPetFriendly returns venues with explicit pet access.
	FindPetFriendly(ctx context.Context, lat, lon float64, radiusM int) ([]Candidate, error)

	// Name returns the provider name for logging.
	Name() string
}

// ServiceConfig holds configuration for the POI service.
type ServiceConfig struct {
	Provider   Provider
	Classifier ClassifierConfig
	Logger     zerolog.Logger

	// MergeCap bounds the merged candidate list (default: 80).
	MergeCap int

	// CacheTTL is how long candidate lists are cached (default: 15 minutes).
	CacheTTL time.Duration
}

// Service finds, classifies and deduplicates walk destinations.
type Service struct {
	provider   Provider
	classifier ClassifierConfig
	logger     zerolog.Logger
	mergeCap   int
	cacheTTL   time.Duration

	mu    sync.RWMutex
	cache map[string]*cachedCandidates
}

type cachedCandidates struct {
	candidates []Candidate
	expiresAt  time.Time
}

// NewService creates a new POI service.
func NewService(cfg ServiceConfig) *Service {
	mergeCap := cfg.MergeCap
	if mergeCap <= 0 {
		mergeCap = DefaultMergeCap
	}
	ttl := cfg.CacheTTL
	if ttl == 0 {
		ttl = 15 * time.Minute
	}
	classifier := cfg.Classifier
	if len(classifier.ParkSubstrings) == 0 {
		classifier = DefaultClassifierConfig()
	}

	return &Service{
		provider:   cfg.Provider,
		classifier: classifier,
		logger:     cfg.Logger,
		mergeCap:   mergeCap,
		cacheTTL:   ttl,
		cache:      make(map[string]*cachedCandidates),
	}
}

// FindCandidates returns classified, deduplicated destinations around the
// origin, nearest first. The walkable and pet-friendly queries run in
// parallel; a pet-friendly failure degrades to walkable-only results.
func (s *Service) FindCandidates(ctx context.Context, lat, lon float64, radiusM int) ([]Candidate, error) {
	if radiusM < MinRadiusM || radiusM > MaxRadiusM {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRadius, radiusM)
	}

	key := fmt.Sprintf("%.4f:%.4f:%d", lat, lon, radiusM)

	s.mu.RLock()
	if cached, ok := s.cache[key]; ok && time.Now().Before(cached.expiresAt) {
		s.mu.RUnlock()
		return cached.candidates, nil
	}
	s.mu.RUnlock()

	var (
		wg          sync.WaitGroup
		walkable    []Candidate
		petFriendly []Candidate
		walkableErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		walkable, walkableErr = s.provider.FindWalkable(ctx, lat, lon, radiusM)
	}()
	go func() {
		defer wg.Done()
		var err error
		petFriendly, err = s.provider.FindPetFriendly(ctx, lat, lon, radiusM)
		if err != nil {
			s.logger.Warn().Err(err).Msg("pet-friendly lookup failed, continuing without")
			petFriendly = nil
		}
	}()
	wg.Wait()

	if walkableErr != nil {
		s.logger.Error().Err(walkableErr).
			Float64("lat", lat).
			Float64("lon", lon).
			Msg("walkable destination lookup failed")
		return nil, fmt.Errorf("%w: %s", ErrProviderUnavailable, s.provider.Name())
	}

	origin := polyline.Point{Lat: lat, Lon: lon}
	prepare := func(list []Candidate) {
		for i := range list {
			s.classifier.Classify(&list[i])
			d := polyline.Haversine(origin, polyline.Point{Lat: list[i].Lat, Lon: list[i].Lon})
			list[i].ApproxDistanceM = int(math.Round(d))
		}
	}
	prepare(walkable)
	prepare(petFriendly)

	sortByDistance(walkable)
	sortByDistance(petFriendly)

	merged := Merge(walkable, petFriendly, s.mergeCap)

	s.mu.Lock()
	s.cache[key] = &cachedCandidates{
		candidates: merged,
		expiresAt:  time.Now().Add(s.cacheTTL),
	}
	s.mu.Unlock()

	return merged, nil
}

// InvalidateCache clears all cached candidate lists.
func (s *Service) InvalidateCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]*cachedCandidates)
}

// ProviderName returns the underlying provider's name.
func (s *Service) ProviderName() string {
	return s.provider.Name()
}

func sortByDistance(list []Candidate) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].ApproxDistanceM < list[j].ApproxDistanceM
	})
}
