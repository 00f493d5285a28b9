// Package api provides the HTTP API for PawRoute.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/pawroute/pawroute/internal/api/handler"
	"github.com/pawroute/pawroute/internal/api/middleware"
	"github.com/pawroute/pawroute/internal/auth"
	"github.com/pawroute/pawroute/internal/geocode"
	"github.com/pawroute/pawroute/internal/plan"
	"github.com/pawroute/pawroute/internal/provider/resilience"
	"github.com/pawroute/pawroute/internal/user"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	BuildTime   string
	Logger      zerolog.Logger
	ServiceName string
	Metrics     *middleware.Metrics

	AuthService    *auth.Service
	UserService    *user.Service
	PlanService    *plan.Service
	GeocodeService *geocode.Service
	Recommender    handler.Recommender

	Registry *resilience.Registry
	Pool     *pgxpool.Pool
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "pawroute-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)
	r.Use(middleware.Tracing(serviceName))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware())
	}
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.RequireTLS)
	r.Use(middleware.ContentTypeJSON)

	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.Registry, cfg.Pool)
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	meHandler := handler.NewMeHandler(cfg.UserService)
	planHandler := handler.NewPlanHandler(cfg.PlanService)
	geocodeHandler := handler.NewGeocodeHandler(cfg.GeocodeService)
	recommendHandler := handler.NewRecommendHandler(cfg.Recommender, cfg.GeocodeService, cfg.UserService, cfg.PlanService)

	authMiddleware := middleware.Auth(cfg.AuthService)

	authRateLimit := middleware.RateLimitByIP(middleware.AuthRateLimit)
	expensiveRateLimit := middleware.RateLimitByUser(middleware.ExpensiveRateLimit)
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)

	r.Route("/v1", func(r chi.Router) {
		// Auth endpoints (public) - strict rate limiting
		r.Route("/auth", func(r chi.Router) {
			r.Use(authRateLimit)
			r.Post("/anonymous", authHandler.IssueAnonymous)
		})

		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			// Status endpoint requires authentication
			r.With(authMiddleware).Get("/status", opsHandler.SystemStatus)
		})

		// Geocoding (public) - standard rate limiting
		r.With(standardRateLimit).Post("/geocode:resolve", geocodeHandler.Resolve)

		// Recommendation compute (authenticated) - expensive compute,
		// strict per-user rate limiting
		r.With(authMiddleware, expensiveRateLimit).
			Post("/recommendations:compute", recommendHandler.Compute)

		// Coupon redemption (public, shop-side) - standard rate limiting
		r.With(standardRateLimit).Post("/coupons/{code}:redeem", planHandler.RedeemCoupon)

		// Me endpoints (authenticated) - user-based rate limiting
		r.Route("/me", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(middleware.RateLimitByUser(middleware.StandardRateLimit))
			r.Get("/", meHandler.GetMe)

			// Settings
			r.Get("/settings", meHandler.GetSettings)
			r.Put("/settings", meHandler.UpdateSettings)
			r.Delete("/settings", meHandler.DeleteSettings)

			// Saved plans and coupons
			r.Route("/plans", func(r chi.Router) {
				r.Get("/", planHandler.ListPlans)
				r.Post("/", planHandler.CreatePlan)
				r.Route("/{planId}", func(r chi.Router) {
					r.Get("/", planHandler.GetPlan)
					r.Post("/coupons", planHandler.IssueCoupon)
				})
			})

			// Recommendation history
			r.Route("/recommendations", func(r chi.Router) {
				r.Get("/", planHandler.ListRecommendations)
				r.Get("/{logId}", planHandler.GetRecommendation)
			})
		})
	})

	return r
}
