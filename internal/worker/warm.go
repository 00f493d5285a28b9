package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/pawroute/pawroute/internal/poi"
	"github.com/pawroute/pawroute/internal/weather"
)

// WarmJob pre-fetches forecasts and destination candidates for popular
// walk areas so interactive requests hit warm caches.
type WarmJob struct {
	config WarmConfig
	logger zerolog.Logger

	// Services (optional, nil if not configured)
	weatherService     *weather.Service
	destinationService *poi.Service

	metrics *WarmMetrics
}

// WarmMetrics tracks warm job statistics.
type WarmMetrics struct {
	mu sync.RWMutex

	TotalRuns        int64
	SuccessfulPoints int64
	FailedPoints     int64
	WeatherWarms     int64
	DestinationWarms int64

	LastRunAt       time.Time
	LastRunDuration time.Duration
	TotalDuration   time.Duration
}

// WarmJobConfig holds configuration for creating a WarmJob.
type WarmJobConfig struct {
	Config             WarmConfig
	Logger             zerolog.Logger
	WeatherService     *weather.Service
	DestinationService *poi.Service
}

// NewWarmJob creates a new warm job processor.
func NewWarmJob(cfg WarmJobConfig) *WarmJob {
	config := cfg.Config
	if len(config.Targets) == 0 {
		config = DefaultWarmConfig()
	}
	if config.Concurrency <= 0 {
		config.Concurrency = 3
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	if config.DestinationRadiusM <= 0 {
		config.DestinationRadiusM = 1000
	}

	return &WarmJob{
		config:             config,
		logger:             cfg.Logger,
		weatherService:     cfg.WeatherService,
		destinationService: cfg.DestinationService,
		metrics:            &WarmMetrics{},
	}
}

// WarmResult contains the result of a warm run.
type WarmResult struct {
	StartTime   time.Time
	EndTime     time.Time
	Duration    time.Duration
	TotalPoints int
	Successful  int
	Failed      int
	Errors      []WarmError
}

// WarmError represents an error during warming.
type WarmError struct {
	Provider string
	Point    Point
	Error    string
}

// Run executes the warm job for all configured targets.
func (j *WarmJob) Run(ctx context.Context) *WarmResult {
	startTime := time.Now()
	result := &WarmResult{
		StartTime:   startTime,
		TotalPoints: j.config.TotalPoints(),
	}

	j.logger.Info().
		Int("total_points", result.TotalPoints).
		Int("concurrency", j.config.Concurrency).
		Msg("starting cache warm job")

	points := j.config.AllPoints()

	pointsChan := make(chan Point, len(points))
	resultsChan := make(chan pointResult, len(points))

	var wg sync.WaitGroup
	for i := 0; i < j.config.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			j.warmWorker(ctx, pointsChan, resultsChan)
		}()
	}

	for _, p := range points {
		pointsChan <- p
	}
	close(pointsChan)

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	for pr := range resultsChan {
		if pr.success {
			result.Successful++
		} else {
			result.Failed++
		}
		result.Errors = append(result.Errors, pr.errors...)
	}

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(startTime)

	j.updateMetrics(result)

	j.logger.Info().
		Dur("duration", result.Duration).
		Int("successful", result.Successful).
		Int("failed", result.Failed).
		Msg("cache warm job completed")

	return result
}

type pointResult struct {
	point   Point
	success bool
	errors  []WarmError
}

func (j *WarmJob) warmWorker(ctx context.Context, points <-chan Point, results chan<- pointResult) {
	for point := range points {
		select {
		case <-ctx.Done():
			return
		default:
			results <- j.warmPoint(ctx, point)
		}
	}
}

func (j *WarmJob) warmPoint(ctx context.Context, point Point) pointResult {
	result := pointResult{
		point:   point,
		success: true,
	}

	pointCtx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	if j.config.WarmWeather && j.weatherService != nil {
		if _, err := j.weatherService.GetHourly(pointCtx, point.Lat, point.Lon); err != nil {
			result.errors = append(result.errors, WarmError{
				Provider: "weather",
				Point:    point,
				Error:    err.Error(),
			})
			result.success = false
		} else {
			atomic.AddInt64(&j.metrics.WeatherWarms, 1)
		}
	}

	if j.config.WarmDestinations && j.destinationService != nil {
		if _, err := j.destinationService.FindCandidates(pointCtx, point.Lat, point.Lon, j.config.DestinationRadiusM); err != nil {
			result.errors = append(result.errors, WarmError{
				Provider: "destinations",
				Point:    point,
				Error:    err.Error(),
			})
			result.success = false
		} else {
			atomic.AddInt64(&j.metrics.DestinationWarms, 1)
		}
	}

	return result
}

func (j *WarmJob) updateMetrics(result *WarmResult) {
	j.metrics.mu.Lock()
	defer j.metrics.mu.Unlock()

	j.metrics.TotalRuns++
	j.metrics.SuccessfulPoints += int64(result.Successful)
	j.metrics.FailedPoints += int64(result.Failed)
	j.metrics.LastRunAt = result.EndTime
	j.metrics.LastRunDuration = result.Duration
	j.metrics.TotalDuration += result.Duration
}

// GetMetrics returns a copy of the current metrics.
func (j *WarmJob) GetMetrics() WarmMetrics {
	j.metrics.mu.RLock()
	defer j.metrics.mu.RUnlock()

	return WarmMetrics{
		TotalRuns:        j.metrics.TotalRuns,
		SuccessfulPoints: j.metrics.SuccessfulPoints,
		FailedPoints:     j.metrics.FailedPoints,
		WeatherWarms:     atomic.LoadInt64(&j.metrics.WeatherWarms),
		DestinationWarms: atomic.LoadInt64(&j.metrics.DestinationWarms),
		LastRunAt:        j.metrics.LastRunAt,
		LastRunDuration:  j.metrics.LastRunDuration,
		TotalDuration:    j.metrics.TotalDuration,
	}
}
