package httpadapter

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"brandscope/internal/ports"
	"brandscope/internal/services/insights"
	"brandscope/internal/services/intake"
	"brandscope/internal/services/session"
)

const sessionCookie = "brandscope_session"

// Server renders the intake and dashboard pages.
type Server struct {
	forms    *intake.Registry
	fetcher  *insights.Fetcher
	sessions ports.SessionRepository
	codec    *session.Codec
	limiter  *clientLimiter
	metrics  *Metrics
	log      zerolog.Logger

	secureCookies bool
}

type Options struct {
	Forms    *intake.Registry
	Fetcher  *insights.Fetcher
	Sessions ports.SessionRepository
	Codec    *session.Codec
	Metrics  *Metrics
	Logger   zerolog.Logger

	IntakeRate    float64
	IntakeBurst   int
	SecureCookies bool
}

func New(o Options) *Server {
	if o.Metrics == nil {
		o.Metrics = NewMetrics()
	}
	if o.IntakeRate <= 0 {
		o.IntakeRate = 1
	}
	if o.IntakeBurst < 1 {
		o.IntakeBurst = 5
	}
	return &Server{
		forms:         o.Forms,
		fetcher:       o.Fetcher,
		sessions:      o.Sessions,
		codec:         o.Codec,
		limiter:       newClientLimiter(o.IntakeRate, o.IntakeBurst, 10*time.Minute),
		metrics:       o.Metrics,
		log:           o.Logger,
		secureCookies: o.SecureCookies,
	}
}

// PruneExpired forgets idle clients of the intake rate limiter.
func (s *Server) PruneExpired(ctx context.Context, now time.Time) (int64, error) {
	return s.limiter.PruneExpired(ctx, now)
}

// Routes returns the chi router with all pages mounted.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(hlog.NewHandler(s.log))
	r.Use(hlog.RequestIDHandler("req_id", "X-Request-Id"))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", d).
			Msg("request")
	}))

	r.Get("/healthz", s.getHealthz)
	r.Handle("/metrics", s.metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(s.withSession)
		r.Get("/", s.getIntake)
		r.With(s.rateLimit).Post("/", s.postIntake)
		r.Post("/validate/{field}", s.postValidate)

		r.Group(func(r chi.Router) {
			r.Use(s.requireBrand)
			r.Get("/dashboard", s.getDashboard)
			r.Get("/dashboard/insights", s.getInsights)
		})
	})
	return r
}
