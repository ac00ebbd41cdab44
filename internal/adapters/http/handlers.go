package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"brandscope/internal/domain"
	"brandscope/internal/services/insights"
	"brandscope/internal/services/intake"
	"brandscope/internal/views"
)

const (
	intakeTitle    = "Brandscope"
	dashboardTitle = "Brandscope · Insights"
)

func (s *Server) getHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// getIntake always starts from a fresh, idle form.
func (s *Server) getIntake(w http.ResponseWriter, r *http.Request) {
	sess := mustSession(r)
	s.forms.Start(sess.ID(), sess)
	s.renderPage(w, r, intakeTitle, views.IntakeContent(views.IntakeView{}), http.StatusOK)
}

func (s *Server) postIntake(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form", http.StatusBadRequest)
		return
	}
	form := domain.BrandIntakeForm{
		Name:    r.PostForm.Get(intake.FieldName),
		Website: r.PostForm.Get(intake.FieldWebsite),
		Email:   r.PostForm.Get(intake.FieldEmail),
	}
	sess := mustSession(r)
	st, err := s.forms.Current(sess.ID(), sess).Submit(r.Context(), form)

	var verr *intake.ValidationError
	switch {
	case errors.As(err, &verr):
		s.metrics.IntakeSubmissions.WithLabelValues("invalid").Inc()
		v := views.IntakeView{Form: form, Errors: verr.Fields}
		s.renderPage(w, r, intakeTitle, views.IntakeContent(v), http.StatusUnprocessableEntity)
		return
	case errors.Is(err, intake.ErrSubmissionInFlight):
		s.metrics.IntakeSubmissions.WithLabelValues("in_flight").Inc()
		w.WriteHeader(http.StatusConflict)
		return
	case errors.Is(err, intake.ErrAlreadySucceeded):
		s.metrics.IntakeSubmissions.WithLabelValues("duplicate").Inc()
		s.renderPage(w, r, intakeTitle, views.IntakeContent(views.IntakeView{Succeeded: true}), http.StatusOK)
		return
	case err != nil:
		hlog.FromRequest(r).Error().Err(err).Msg("intake submit")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	switch st := st.(type) {
	case intake.Succeeded:
		s.metrics.IntakeSubmissions.WithLabelValues("succeeded").Inc()
		v := views.IntakeView{Form: form, Succeeded: true}
		s.renderPage(w, r, intakeTitle, views.IntakeContent(v), http.StatusOK)
	case intake.Failed:
		s.metrics.IntakeSubmissions.WithLabelValues("failed").Inc()
		v := views.IntakeView{Form: st.Form, Failed: true}
		s.renderPage(w, r, intakeTitle, views.IntakeContent(v), http.StatusBadGateway)
	default:
		hlog.FromRequest(r).Error().Stringer("status", st.Status()).Msg("intake submit ended in unexpected state")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// postValidate re-checks one field and returns its error slot.
func (s *Server) postValidate(w http.ResponseWriter, r *http.Request) {
	field := chi.URLParam(r, "field")
	msg, known := intake.ValidateField(field, r.FormValue(field))
	if !known {
		http.NotFound(w, r)
		return
	}
	s.render(w, r, views.FieldError(field, msg), http.StatusOK)
}

func (s *Server) getDashboard(w http.ResponseWriter, r *http.Request) {
	card := insights.BuildBrandCard(brandFrom(r))
	s.renderPage(w, r, dashboardTitle, views.DashboardContent(card), http.StatusOK)
}

// getInsights performs the single insights read for the session's brand.
func (s *Server) getInsights(w http.ResponseWriter, r *http.Request) {
	sess := mustSession(r)
	ref := brandFrom(r)
	switch out := s.fetcher.Load(r.Context(), sess.ID(), ref.ID).(type) {
	case insights.Loaded:
		s.metrics.InsightReads.WithLabelValues("loaded").Inc()
		s.render(w, r, views.InsightsPanel(insights.Build(ref, out.Data)), http.StatusOK)
	case insights.LoadFailed:
		s.metrics.InsightReads.WithLabelValues("failed").Inc()
		s.render(w, r, views.InsightsError(), http.StatusBadGateway)
	case insights.Superseded:
		s.metrics.InsightReads.WithLabelValues("superseded").Inc()
		w.WriteHeader(http.StatusNoContent)
	}
}

// renderPage wraps content in the layout unless htmx asked for a fragment.
func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, title string, content templ.Component, status int) {
	if !isHTMX(r) {
		content = views.Layout(title, content)
	}
	s.render(w, r, content, status)
}

// render writes c. htmx does not swap 4xx/5xx bodies, so error fragments
// go out as 200 to htmx requests.
func (s *Server) render(w http.ResponseWriter, r *http.Request, c templ.Component, status int) {
	if isHTMX(r) && status >= http.StatusBadRequest {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("render")
	}
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
