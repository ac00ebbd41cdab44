package httpadapter

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"brandscope/internal/domain"
	"brandscope/internal/services/session"
)

// withSession resolves the signed session cookie, issuing a new session when
// it is missing or invalid, and injects the Session into the request context.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := s.sessionID(r)
		if !ok {
			newID, token, err := s.codec.Issue()
			if err != nil {
				hlog.FromRequest(r).Error().Err(err).Msg("issue session")
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			id = newID
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookie,
				Value:    token,
				Path:     "/",
				MaxAge:   int(s.codec.TTL().Seconds()),
				HttpOnly: true,
				Secure:   s.secureCookies,
				SameSite: http.SameSiteLaxMode,
			})
		}
		log := zerolog.Ctx(r.Context())
		log.UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Str("session_id", id)
		})
		sess := session.New(id, s.sessions, s.codec.TTL())
		next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), sess)))
	})
}

func (s *Server) sessionID(r *http.Request) (string, bool) {
	c, err := r.Cookie(sessionCookie)
	if err != nil || c.Value == "" {
		return "", false
	}
	id, err := s.codec.Parse(c.Value)
	if err != nil {
		hlog.FromRequest(r).Debug().Err(err).Msg("discarding session cookie")
		return "", false
	}
	return id, true
}

type brandKey struct{}

// requireBrand guards the dashboard: without a brand id in the session the
// visitor is sent to intake before any insights are read.
func (s *Server) requireBrand(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := mustSession(r)
		ref, err := sess.Brand(r.Context())
		if errors.Is(err, session.ErrMissingBrand) {
			s.metrics.GuardRedirects.Inc()
			redirect(w, r, "/")
			return
		}
		if err != nil {
			hlog.FromRequest(r).Error().Err(err).Msg("read session brand")
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
			return
		}
		ctx := context.WithValue(r.Context(), brandKey{}, ref)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func brandFrom(r *http.Request) domain.BrandRef {
	ref, _ := r.Context().Value(brandKey{}).(domain.BrandRef)
	return ref
}

func mustSession(r *http.Request) *session.Session {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		panic("httpadapter: handler mounted without session middleware")
	}
	return sess
}

// redirect uses HX-Redirect for htmx requests so the whole page navigates.
func redirect(w http.ResponseWriter, r *http.Request, to string) {
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", to)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, to, http.StatusSeeOther)
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow(clientKey(r)) {
			s.metrics.RateLimited.Inc()
			w.Header().Set("Retry-After", "1")
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
