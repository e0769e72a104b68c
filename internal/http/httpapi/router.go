package httpapi

import (
	stdhttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/auguria/backend/internal/http/handlers"
	"github.com/auguria/backend/internal/infra"
	"github.com/auguria/backend/internal/middleware"
	"github.com/auguria/backend/internal/realtime"
)

// NewRouter wires the API surface: signup and donation endpoints, the
// aggregate read, the WebSocket fan-out, and health.
func NewRouter(app *handlers.App, hub *realtime.Hub, cfg *infra.Config, logger zerolog.Logger, lookup middleware.CountryLookup) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		chimiddleware.RealIP,
		chimiddleware.Recoverer,
		middleware.Logger(logger),
		middleware.CORS(cfg.CORSOrigins),
	)

	r.Get("/api/healthz", app.Health)
	r.Get("/api/donations", app.DonationsTotals)
	r.Get("/api/donations/recent", app.DonationsRecent)
	r.Get("/api/ws", hub.ServeWS)

	// Write endpoints sit behind the per-IP limiter.
	r.Group(func(r chi.Router) {
		r.Use(
			middleware.RateLimit(cfg.RateLimitPerMin, time.Minute),
			middleware.Country(lookup),
		)
		r.Post("/api/waitlist", app.WaitlistJoin)
		r.Post("/api/newsletter", app.NewsletterSubscribe)
		r.Post("/api/donations", app.DonationsCreate)
	})

	return r
}
