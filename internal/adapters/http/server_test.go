package httpadapter

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brandscope/internal/adapters/memory"
	"brandscope/internal/domain"
	"brandscope/internal/services/insights"
	"brandscope/internal/services/intake"
	"brandscope/internal/services/session"
	"brandscope/internal/views"
)

type fakeBackend struct {
	mu           sync.Mutex
	created      []domain.BrandIntakeForm
	insightReads []string
	createErr    error
	insightErr   error
	entered      chan struct{}
	release      chan struct{}
}

func (f *fakeBackend) CreateBrand(_ context.Context, form domain.BrandIntakeForm) (domain.Brand, error) {
	if f.entered != nil {
		f.entered <- struct{}{}
		<-f.release
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, form)
	if f.createErr != nil {
		return domain.Brand{}, f.createErr
	}
	return domain.Brand{ID: "brand-1", Name: form.Name, Website: form.Website, Email: form.Email}, nil
}

func (f *fakeBackend) Insights(_ context.Context, id string) (domain.InsightsData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.insightReads = append(f.insightReads, id)
	if f.insightErr != nil {
		return domain.InsightsData{}, f.insightErr
	}
	return domain.InsightsData{
		SearchOverview: domain.SearchOverview{SearchScore: 82, SpamScore: 2, LoadTimeMs: 900},
		TopKeywords:    []domain.Keyword{{Text: "running shoes", Volume: 12000, Ranking: 4}},
	}, nil
}

func (f *fakeBackend) counts() (created, reads int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created), len(f.insightReads)
}

type harness struct {
	srv   *httptest.Server
	repo  *memory.Sessions
	codec *session.Codec
	be    *fakeBackend
}

func newHarness(t *testing.T, be *fakeBackend, tweak func(*Options)) *harness {
	t.Helper()
	repo := memory.NewSessions()
	codec := session.NewCodec("test-secret", time.Hour)
	o := Options{
		Forms:       intake.NewRegistry(be, time.Hour),
		Fetcher:     insights.NewFetcher(be),
		Sessions:    repo,
		Codec:       codec,
		Logger:      zerolog.Nop(),
		IntakeRate:  100,
		IntakeBurst: 100,
	}
	if tweak != nil {
		tweak(&o)
	}
	srv := httptest.NewServer(New(o).Routes())
	t.Cleanup(srv.Close)
	return &harness{srv: srv, repo: repo, codec: codec, be: be}
}

func (h *harness) client(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func (h *harness) sessionID(t *testing.T, c *http.Client) string {
	t.Helper()
	u, err := url.Parse(h.srv.URL)
	require.NoError(t, err)
	for _, ck := range c.Jar.Cookies(u) {
		if ck.Name == sessionCookie {
			id, err := h.codec.Parse(ck.Value)
			require.NoError(t, err)
			return id
		}
	}
	t.Fatal("no session cookie")
	return ""
}

func do(t *testing.T, c *http.Client, method, target string, form url.Values, htmx bool) (*http.Response, string) {
	t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequest(method, target, body)
	require.NoError(t, err)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	res, err := c.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	b, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res, string(b)
}

func validForm() url.Values {
	return url.Values{
		"name":    {"Acme"},
		"website": {"acme.com"},
		"email":   {"team@acme.com"},
	}
}

func TestHealthz(t *testing.T) {
	h := newHarness(t, &fakeBackend{}, nil)
	res, body := do(t, h.client(t), http.MethodGet, h.srv.URL+"/healthz", nil, false)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, body)
}

func TestDashboardWithoutBrandRedirects(t *testing.T) {
	h := newHarness(t, &fakeBackend{}, nil)
	c := h.client(t)

	for _, path := range []string{"/dashboard", "/dashboard/insights"} {
		res, _ := do(t, c, http.MethodGet, h.srv.URL+path, nil, false)
		assert.Equal(t, http.StatusSeeOther, res.StatusCode, path)
		assert.Equal(t, "/", res.Header.Get("Location"), path)
	}

	res, _ := do(t, c, http.MethodGet, h.srv.URL+"/dashboard/insights", nil, true)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "/", res.Header.Get("HX-Redirect"))

	_, reads := h.be.counts()
	assert.Zero(t, reads)
}

func TestIntakePageIsFullDocumentUnlessHTMX(t *testing.T) {
	h := newHarness(t, &fakeBackend{}, nil)
	c := h.client(t)

	res, body := do(t, c, http.MethodGet, h.srv.URL+"/", nil, false)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "<!doctype html>")
	assert.Contains(t, body, `id="intake-form"`)

	_, body = do(t, c, http.MethodGet, h.srv.URL+"/", nil, true)
	assert.NotContains(t, body, "<!doctype html>")
	assert.Contains(t, body, `id="intake-form"`)
}

func TestIntakeToDashboard(t *testing.T) {
	h := newHarness(t, &fakeBackend{}, nil)
	c := h.client(t)

	res, body := do(t, c, http.MethodPost, h.srv.URL+"/", validForm(), true)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "Brand Created Successfully!")
	assert.Contains(t, body, `href="/dashboard"`)

	id := h.sessionID(t, c)
	ctx := context.Background()
	for key, want := range map[string]string{
		session.KeyBrandID:      "brand-1",
		session.KeyBrandName:    "Acme",
		session.KeyBrandWebsite: "acme.com",
	} {
		got, ok, err := h.repo.Get(ctx, id, key)
		require.NoError(t, err)
		require.True(t, ok, key)
		assert.Equal(t, want, got, key)
	}

	res, body = do(t, c, http.MethodGet, h.srv.URL+"/dashboard", nil, false)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "Acme")
	assert.Contains(t, body, `hx-get="/dashboard/insights"`)
	_, reads := h.be.counts()
	assert.Zero(t, reads, "dashboard shell must not read insights")

	res, body = do(t, c, http.MethodGet, h.srv.URL+"/dashboard/insights", nil, true)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "running shoes")
	assert.Contains(t, body, `data-tier="top-10"`)
	h.be.mu.Lock()
	assert.Equal(t, []string{"brand-1"}, h.be.insightReads)
	h.be.mu.Unlock()
}

func TestIntakeValidationErrors(t *testing.T) {
	h := newHarness(t, &fakeBackend{}, nil)
	c := h.client(t)

	form := url.Values{"name": {"A"}, "website": {"not a site"}, "email": {"nope"}}
	res, body := do(t, c, http.MethodPost, h.srv.URL+"/", form, false)
	assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	assert.Contains(t, body, "Name must be at least 2 characters")
	assert.Contains(t, body, "Invalid website URL")
	assert.Contains(t, body, "Invalid email address")

	res, _ = do(t, c, http.MethodPost, h.srv.URL+"/", form, true)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	created, _ := h.be.counts()
	assert.Zero(t, created)
}

func TestIntakeFailureKeepsValues(t *testing.T) {
	be := &fakeBackend{createErr: errors.New("backend down")}
	h := newHarness(t, be, nil)
	c := h.client(t)

	res, body := do(t, c, http.MethodPost, h.srv.URL+"/", validForm(), false)
	assert.Equal(t, http.StatusBadGateway, res.StatusCode)
	assert.Contains(t, body, `id="intake-failure"`)
	assert.Contains(t, body, `value="team@acme.com"`)
	assert.NotContains(t, body, "Brand Created Successfully!")

	res, _ = do(t, c, http.MethodPost, h.srv.URL+"/", validForm(), true)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	created, _ := be.counts()
	assert.Equal(t, 2, created, "a failed form accepts a resubmit")

	_, ok, err := h.repo.Get(context.Background(), h.sessionID(t, c), session.KeyBrandID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIntakeSecondSubmitIsIgnored(t *testing.T) {
	h := newHarness(t, &fakeBackend{}, nil)
	c := h.client(t)

	do(t, c, http.MethodPost, h.srv.URL+"/", validForm(), true)
	res, body := do(t, c, http.MethodPost, h.srv.URL+"/", validForm(), true)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "Brand Created Successfully!")

	created, _ := h.be.counts()
	assert.Equal(t, 1, created)
}

func TestIntakeSubmitWhileInFlight(t *testing.T) {
	be := &fakeBackend{entered: make(chan struct{}), release: make(chan struct{})}
	h := newHarness(t, be, nil)
	c := h.client(t)
	do(t, c, http.MethodGet, h.srv.URL+"/", nil, false)

	done := make(chan int, 1)
	go func() {
		req, _ := http.NewRequest(http.MethodPost, h.srv.URL+"/", strings.NewReader(validForm().Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		res, err := c.Do(req)
		if err != nil {
			done <- 0
			return
		}
		res.Body.Close()
		done <- res.StatusCode
	}()
	<-be.entered

	res, _ := do(t, c, http.MethodPost, h.srv.URL+"/", validForm(), true)
	assert.Equal(t, http.StatusConflict, res.StatusCode)

	close(be.release)
	assert.Equal(t, http.StatusOK, <-done)
	created, _ := be.counts()
	assert.Equal(t, 1, created)
}

func TestIntakeReloadDuringSubmitKeepsSingleFlight(t *testing.T) {
	be := &fakeBackend{entered: make(chan struct{}), release: make(chan struct{})}
	h := newHarness(t, be, nil)
	c := h.client(t)
	do(t, c, http.MethodGet, h.srv.URL+"/", nil, false)

	done := make(chan int, 1)
	go func() {
		req, _ := http.NewRequest(http.MethodPost, h.srv.URL+"/", strings.NewReader(validForm().Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		res, err := c.Do(req)
		if err != nil {
			done <- 0
			return
		}
		res.Body.Close()
		done <- res.StatusCode
	}()
	<-be.entered

	res, _ := do(t, c, http.MethodGet, h.srv.URL+"/", nil, false)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	res, _ = do(t, c, http.MethodPost, h.srv.URL+"/", validForm(), true)
	assert.Equal(t, http.StatusConflict, res.StatusCode)

	close(be.release)
	assert.Equal(t, http.StatusOK, <-done)
	created, _ := be.counts()
	assert.Equal(t, 1, created)
}

func TestIntakeRateLimited(t *testing.T) {
	h := newHarness(t, &fakeBackend{createErr: errors.New("down")}, func(o *Options) {
		o.IntakeRate = 0.001
		o.IntakeBurst = 1
	})
	c := h.client(t)

	res, _ := do(t, c, http.MethodPost, h.srv.URL+"/", validForm(), false)
	assert.Equal(t, http.StatusBadGateway, res.StatusCode)
	res, _ = do(t, c, http.MethodPost, h.srv.URL+"/", validForm(), false)
	assert.Equal(t, http.StatusTooManyRequests, res.StatusCode)
}

func TestValidateField(t *testing.T) {
	h := newHarness(t, &fakeBackend{}, nil)
	c := h.client(t)

	_, body := do(t, c, http.MethodPost, h.srv.URL+"/validate/email", url.Values{"email": {"bad"}}, true)
	assert.Contains(t, body, `id="email-error"`)
	assert.Contains(t, body, "Invalid email address")

	_, body = do(t, c, http.MethodPost, h.srv.URL+"/validate/name", url.Values{"name": {"Acme"}}, true)
	assert.Contains(t, body, `id="name-error"`)
	assert.NotContains(t, body, "Name must be")

	res, _ := do(t, c, http.MethodPost, h.srv.URL+"/validate/phone", url.Values{"phone": {"1"}}, true)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestInsightsFailure(t *testing.T) {
	be := &fakeBackend{insightErr: errors.New("boom")}
	h := newHarness(t, be, nil)
	c := h.client(t)
	do(t, c, http.MethodPost, h.srv.URL+"/", validForm(), true)

	res, body := do(t, c, http.MethodGet, h.srv.URL+"/dashboard/insights", nil, false)
	assert.Equal(t, http.StatusBadGateway, res.StatusCode)
	assert.Contains(t, body, views.InsightsFailedMessage)
	assert.NotContains(t, body, "data-metric")
}

func TestMetricsExposed(t *testing.T) {
	h := newHarness(t, &fakeBackend{}, nil)
	c := h.client(t)
	do(t, c, http.MethodGet, h.srv.URL+"/dashboard", nil, false)
	do(t, c, http.MethodPost, h.srv.URL+"/", validForm(), true)

	_, body := do(t, c, http.MethodGet, h.srv.URL+"/metrics", nil, false)
	assert.Contains(t, body, "brandscope_dashboard_guard_redirects_total 1")
	assert.Contains(t, body, `brandscope_intake_submissions_total{outcome="succeeded"} 1`)
}

func TestTamperedCookieStartsNewSession(t *testing.T) {
	h := newHarness(t, &fakeBackend{}, nil)
	c := h.client(t)
	do(t, c, http.MethodPost, h.srv.URL+"/", validForm(), true)
	first := h.sessionID(t, c)

	u, _ := url.Parse(h.srv.URL)
	c.Jar.SetCookies(u, []*http.Cookie{{Name: sessionCookie, Value: "garbage", Path: "/"}})
	res, _ := do(t, c, http.MethodGet, h.srv.URL+"/dashboard", nil, false)
	assert.Equal(t, http.StatusSeeOther, res.StatusCode)
	assert.NotEqual(t, first, h.sessionID(t, c))
}
