// Package router assembles the console's HTTP surface: health and metrics
// publicly, the booking API behind the session middleware.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/careops/hospital-console/internal/http/handlers"
	httpmiddleware "github.com/careops/hospital-console/internal/http/middleware"
	"github.com/careops/hospital-console/internal/session"
	"github.com/careops/hospital-console/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	Availability       *handlers.AvailabilityHandler
	Booking            *handlers.BookingHandler
	Appointments       *handlers.AppointmentsHandler
	Catalog            *handlers.CatalogHandler
	SessionSecret      string
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
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

	// Public endpoints
	r.Get("/health", healthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	// Session-scoped booking API
	r.Route("/api", func(api chi.Router) {
		api.Use(session.Middleware(cfg.SessionSecret))

		api.Route("/providers/{providerID}", func(provider chi.Router) {
			if cfg.Availability != nil {
				provider.Get("/availability", cfg.Availability.GetAvailability)
			}
			if cfg.Appointments != nil {
				provider.Get("/appointments", cfg.Appointments.ListByProvider)
				provider.Get("/events", cfg.Appointments.ListEvents)
			}
		})

		if cfg.Booking != nil {
			api.Route("/drafts", func(drafts chi.Router) {
				drafts.Post("/", cfg.Booking.StartDraft)
				drafts.Post("/reschedule", cfg.Booking.StartReschedule)
				drafts.Route("/{draftID}", func(draft chi.Router) {
					draft.Post("/advance", cfg.Booking.Advance)
					draft.Post("/date", cfg.Booking.SetDate)
					draft.Post("/slot", cfg.Booking.ChooseSlot)
					draft.Post("/submit", cfg.Booking.Submit)
					draft.Delete("/", cfg.Booking.Abandon)
				})
			})
		}

		if cfg.Catalog != nil {
			api.Route("/catalog", func(catalog chi.Router) {
				catalog.Get("/symptoms", cfg.Catalog.GetSymptoms)
				catalog.Get("/visit-reasons", cfg.Catalog.GetVisitReasons)
			})
		}
	})

	return r
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
