package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oapi-codegen/runtime"
	"github.com/sony/gobreaker"

	"brandscope/internal/domain"
)

// Operation names used for breaker errors and metrics.
const (
	OpCreateBrand = "create_brand"
	OpInsights    = "insights"
)

const maxErrorBody = 4 << 10

var (
	// ErrNotFound matches a StatusError with code 404.
	ErrNotFound = errors.New("backend: not found")
	// ErrEmptyBody is returned when a 2xx answer carries a JSON null.
	ErrEmptyBody = errors.New("backend: empty body")
)

// StatusError is a non-2xx answer from the backend.
type StatusError struct {
	Op   string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend %s: status %d", e.Op, e.Code)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.Code == http.StatusNotFound
}

// Observer receives the duration and result of every backend call.
type Observer interface {
	ObserveBackend(op string, d time.Duration, err error)
}

// Client talks to the brand backend:
//
//	POST /brand               -> Brand
//	GET  /brand/{id}/insight  -> InsightsData
type Client struct {
	base     *url.URL
	http     *http.Client
	breaker  *gobreaker.CircuitBreaker
	observer Observer
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.http = hc } }
func WithObserver(o Observer) Option       { return func(c *Client) { c.observer = o } }

// New builds a client for baseURL. A zero timeout leaves requests bounded
// only by their context.
func New(baseURL string, timeout time.Duration, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("backend url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("backend url: unsupported scheme %q", u.Scheme)
	}
	c := &Client{
		base:    u,
		http:    &http.Client{Timeout: timeout},
		breaker: newBreaker("brand-backend"),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

func newBreaker(name string) *gobreaker.CircuitBreaker {
	st := gobreaker.Settings{Name: name}
	st.Interval = 60 * time.Second
	st.Timeout = 30 * time.Second
	st.ReadyToTrip = func(counts gobreaker.Counts) bool {
		if counts.ConsecutiveFailures >= 5 {
			return true
		}
		if counts.Requests < 20 {
			return false
		}
		return float64(counts.TotalFailures)/float64(counts.Requests) > 0.5
	}
	// Client errors say nothing about backend health.
	st.IsSuccessful = func(err error) bool {
		if err == nil {
			return true
		}
		var se *StatusError
		return errors.As(err, &se) && se.Code < http.StatusInternalServerError
	}
	return gobreaker.NewCircuitBreaker(st)
}

func (c *Client) CreateBrand(ctx context.Context, form domain.BrandIntakeForm) (domain.Brand, error) {
	body, err := json.Marshal(form)
	if err != nil {
		return domain.Brand{}, err
	}
	var brand domain.Brand
	err = c.do(ctx, OpCreateBrand, http.MethodPost, "/brand", body, &brand)
	return brand, err
}

func (c *Client) Insights(ctx context.Context, brandID string) (domain.InsightsData, error) {
	id, err := runtime.StyleParamWithLocation("simple", false, "id", runtime.ParamLocationPath, brandID)
	if err != nil {
		return domain.InsightsData{}, fmt.Errorf("backend %s: %w", OpInsights, err)
	}
	var data *domain.InsightsData
	if err := c.do(ctx, OpInsights, http.MethodGet, "/brand/"+id+"/insight", nil, &data); err != nil {
		return domain.InsightsData{}, err
	}
	if data == nil {
		return domain.InsightsData{}, fmt.Errorf("backend %s: %w", OpInsights, ErrEmptyBody)
	}
	return *data, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, body []byte, out any) (err error) {
	start := time.Now()
	defer func() {
		if c.observer != nil {
			c.observer.ObserveBackend(op, time.Since(start), err)
		}
	}()
	_, err = c.breaker.Execute(func() (interface{}, error) {
		return nil, c.roundTrip(ctx, op, method, path, body, out)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("backend %s: %w", op, err)
	}
	return err
}

func (c *Client) roundTrip(ctx context.Context, op, method, path string, body []byte, out any) error {
	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, rdr)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("backend %s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Op: op, Code: resp.StatusCode, Body: string(msg)}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("backend %s: decode: %w", op, err)
	}
	return nil
}
