// Package main provides the entrypoint for the PawRoute API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/pawroute/pawroute/internal/advisor"
	"github.com/pawroute/pawroute/internal/advisor/openai"
	"github.com/pawroute/pawroute/internal/api"
	"github.com/pawroute/pawroute/internal/api/middleware"
	"github.com/pawroute/pawroute/internal/auth"
	"github.com/pawroute/pawroute/internal/database"
	"github.com/pawroute/pawroute/internal/geocode"
	"github.com/pawroute/pawroute/internal/geocode/nominatim"
	"github.com/pawroute/pawroute/internal/plan"
	"github.com/pawroute/pawroute/internal/poi"
	"github.com/pawroute/pawroute/internal/poi/overpass"
	"github.com/pawroute/pawroute/internal/provider/resilience"
	"github.com/pawroute/pawroute/internal/recommend"
	"github.com/pawroute/pawroute/internal/routing"
	"github.com/pawroute/pawroute/internal/routing/ors"
	"github.com/pawroute/pawroute/internal/routing/osrm"
	"github.com/pawroute/pawroute/internal/telemetry"
	"github.com/pawroute/pawroute/internal/user"
	"github.com/pawroute/pawroute/internal/weather"
	"github.com/pawroute/pawroute/internal/weather/openmeteo"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "pawroute-api"

	// Load .env for local development; ignored when absent.
	_ = godotenv.Load()

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting PawRoute API")

	// Get configuration from environment
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryEnabled {
		log.Info().
			Str("otlp_endpoint", otlpEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Connect to database. Plans and settings fall back to in-memory
	// storage when no database is reachable (local development).
	var pool *pgxpool.Pool
	dbConfig := database.ConfigFromEnv()
	pool, err = database.Connect(ctx, dbConfig)
	if err != nil {
		log.Warn().Err(err).Msg("database unavailable, using in-memory storage")
		pool = nil
	} else {
		defer pool.Close()
		log.Info().
			Str("host", dbConfig.Host).
			Int("port", dbConfig.Port).
			Str("database", dbConfig.Database).
			Msg("database connected")
	}

	// Initialize JWT service (get signing key from environment)
	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		jwtSigningKey = "local-dev-signing-key-change-in-production"
		log.Warn().Msg("using default JWT signing key - not secure for production")
	}

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SigningKey: jwtSigningKey,
	})

	authService := auth.NewService(auth.ServiceConfig{
		JWT:    jwtService,
		Logger: log,
	})
	log.Info().Msg("auth service initialized")

	// Initialize user settings service
	var userRepo user.Repository
	if pool != nil {
		userRepo = user.NewPostgresRepository(pool)
	} else {
		userRepo = user.NewInMemoryRepository()
	}
	userService := user.NewService(userRepo)
	log.Info().Msg("user service initialized")

	// Initialize plan service
	var planRepo plan.Repository
	if pool != nil {
		planRepo = plan.NewPostgresRepository(pool)
	} else {
		planRepo = plan.NewInMemoryRepository()
	}
	planService := plan.NewService(planRepo, log)
	log.Info().Msg("plan service initialized")

	// Provider registry tracks upstream health for /v1/ops/status.
	registry := resilience.NewRegistry()

	// Weather provider
	weatherService := weather.NewService(weather.ServiceConfig{
		Provider: openmeteo.NewClient(openmeteo.ClientConfig{
			HTTPClient: resilience.NewClient(resilience.ClientConfig{
				Name:     openmeteo.ProviderName,
				Registry: registry,
			}),
			Logger: log,
		}),
		Logger: log,
	})

	// Destination provider
	destinationService := poi.NewService(poi.ServiceConfig{
		Provider: overpass.NewClient(overpass.ClientConfig{
			HTTPClient: resilience.NewClient(resilience.ClientConfig{
				Name:     overpass.ProviderName,
				Registry: registry,
			}),
			Logger: log,
		}),
		Logger: log,
	})

	// Routing providers: openrouteservice when a key is configured,
	// OSRM as the always-available fallback.
	var routingPrimary routing.Provider
	if orsKey := os.Getenv("ORS_API_KEY"); orsKey != "" {
		routingPrimary = ors.NewClient(ors.ClientConfig{
			APIKey: orsKey,
			HTTPClient: resilience.NewClient(resilience.ClientConfig{
				Name:     ors.ProviderName,
				Registry: registry,
			}),
			Logger: log,
		})
		log.Info().Msg("openrouteservice routing enabled")
	}

	routingService := routing.NewService(routing.ServiceConfig{
		Primary: routingPrimary,
		Fallback: osrm.NewClient(osrm.ClientConfig{
			HTTPClient: resilience.NewClient(resilience.ClientConfig{
				Name:     osrm.ProviderName,
				Registry: registry,
			}),
			Logger: log,
		}),
		Logger: log,
	})

	// Geocoding
	geocodeService := geocode.NewService(geocode.ServiceConfig{
		Provider: nominatim.NewClient(nominatim.ClientConfig{
			HTTPClient: resilience.NewClient(resilience.ClientConfig{
				Name:     nominatim.ProviderName,
				Registry: registry,
			}),
			Logger: log,
		}),
		Logger: log,
	})

	// Optional external advisor
	var walkAdvisor recommend.Advisor
	if openaiKey := os.Getenv("OPENAI_API_KEY"); openaiKey != "" {
		openaiClient, clientErr := openai.NewClient(openai.ClientConfig{
			APIKey: openaiKey,
			Model:  os.Getenv("OPENAI_MODEL"),
			Logger: log,
		})
		if clientErr != nil {
			log.Fatal().Err(clientErr).Msg("failed to initialize advisor client")
		}
		walkAdvisor = advisor.NewService(advisor.ServiceConfig{
			Client: openaiClient,
			Logger: log,
		})
		log.Info().Msg("walk advisor enabled")
	}

	// Timezone anchors fallback windows when the forecast has no zone.
	tzName := os.Getenv("APP_TIMEZONE")
	if tzName == "" {
		tzName = "Asia/Tokyo"
	}
	timezone, err := time.LoadLocation(tzName)
	if err != nil {
		log.Fatal().Err(err).Str("timezone", tzName).Msg("invalid timezone")
	}

	coordinator := recommend.NewCoordinator(recommend.CoordinatorConfig{
		Weather:      weatherService,
		Destinations: destinationService,
		Routes:       routingService,
		Advisor:      walkAdvisor,
		Logger:       log,
		Timezone:     timezone,
	})
	log.Info().Msg("recommendation coordinator initialized")

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:        Version,
		BuildTime:      BuildTime,
		Logger:         log,
		ServiceName:    serviceName,
		Metrics:        metrics,
		AuthService:    authService,
		UserService:    userService,
		PlanService:    planService,
		GeocodeService: geocodeService,
		Recommender:    coordinator,
		Registry:       registry,
		Pool:           pool,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
