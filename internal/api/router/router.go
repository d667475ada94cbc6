// Package router assembles the HTTP surface: public booking and catalog
// endpoints plus the guarded admin routes.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wolfman30/clinic-booking-platform/internal/authz"
	"github.com/wolfman30/clinic-booking-platform/internal/bookings"
	"github.com/wolfman30/clinic-booking-platform/internal/catalog"
	httpmiddleware "github.com/wolfman30/clinic-booking-platform/internal/http/middleware"
	"github.com/wolfman30/clinic-booking-platform/internal/identity"
	"github.com/wolfman30/clinic-booking-platform/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger          *logging.Logger
	BookingsHandler *bookings.Handler
	CatalogHandler  *catalog.Handler
	IdentityHandler *identity.Handler

	// Admin route guard.
	Guard         *authz.Guard
	RoleCache     httpmiddleware.RoleCache
	SessionSecret string

	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
	RateLimitPerSec    float64
	RateLimitBurst     int
}

// New creates a chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", healthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	// Public API.
	r.Route("/api", func(api chi.Router) {
		if cfg.RateLimitPerSec > 0 {
			api.Use(httpmiddleware.RateLimit(cfg.RateLimitPerSec, cfg.RateLimitBurst))
		}

		if cfg.CatalogHandler != nil {
			api.Get("/services", cfg.CatalogHandler.List)
			api.Get("/services/{slug}", cfg.CatalogHandler.GetBySlug)
			api.Get("/services/{slug}/calendar", cfg.CatalogHandler.Calendar)
		}

		if cfg.BookingsHandler != nil {
			api.Post("/bookings", cfg.BookingsHandler.Submit)
			api.Get("/bookings/{bookingID}", cfg.BookingsHandler.Get)
		}

		// Admin routes behind the session guard.
		if cfg.IdentityHandler != nil {
			api.Route("/admin", func(admin chi.Router) {
				admin.Use(httpmiddleware.SessionJWT(cfg.SessionSecret))
				guard := cfg.Guard
				if guard == nil {
					guard = authz.NewGuard("", "", cfg.Logger)
				}
				admin.Use(httpmiddleware.RequireRoles(guard, cfg.RoleCache,
					authz.RoleSuperAdmin, authz.RoleAdmin))
				admin.Post("/super-admin", cfg.IdentityHandler.CreateSuperAdmin)
			})
		}
	})

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
