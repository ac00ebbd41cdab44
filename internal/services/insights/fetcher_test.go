package insights

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brandscope/internal/domain"
)

type stubBackend struct {
	mu    sync.Mutex
	calls []string
	gates map[string]chan struct{}
	fail  error
}

func (s *stubBackend) CreateBrand(context.Context, domain.BrandIntakeForm) (domain.Brand, error) {
	return domain.Brand{}, errors.New("unused")
}

func (s *stubBackend) Insights(_ context.Context, id string) (domain.InsightsData, error) {
	s.mu.Lock()
	s.calls = append(s.calls, id)
	gate := s.gates[id]
	s.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if s.fail != nil {
		return domain.InsightsData{}, s.fail
	}
	return domain.InsightsData{TopKeywords: []domain.Keyword{{Text: id}}}, nil
}

func TestFetcherLoadsOnce(t *testing.T) {
	backend := &stubBackend{}
	f := NewFetcher(backend)

	out := f.Load(context.Background(), "viewer", "b1")
	loaded, ok := out.(Loaded)
	require.True(t, ok)
	assert.Equal(t, "b1", loaded.Data.TopKeywords[0].Text)
	assert.Equal(t, []string{"b1"}, backend.calls)
	assert.Empty(t, f.viewers)
}

func TestFetcherFailure(t *testing.T) {
	f := NewFetcher(&stubBackend{fail: errors.New("502")})

	out := f.Load(context.Background(), "viewer", "b1")
	failed, ok := out.(LoadFailed)
	require.True(t, ok)
	assert.EqualError(t, failed.Err, "502")
}

func TestFetcherSupersedesStaleBrand(t *testing.T) {
	gate := make(chan struct{})
	backend := &stubBackend{gates: map[string]chan struct{}{"old": gate}}
	f := NewFetcher(backend)

	stale := make(chan Outcome, 1)
	go func() { stale <- f.Load(context.Background(), "viewer", "old") }()
	require.Eventually(t, func() bool {
		backend.mu.Lock()
		defer backend.mu.Unlock()
		return len(backend.calls) == 1
	}, timeoutShort, tick)

	fresh := f.Load(context.Background(), "viewer", "new")
	assert.IsType(t, Loaded{}, fresh)

	close(gate)
	assert.IsType(t, Superseded{}, <-stale)
	assert.Empty(t, f.viewers)
}

func TestFetcherSameBrandIsNotSuperseded(t *testing.T) {
	gate := make(chan struct{})
	backend := &stubBackend{gates: map[string]chan struct{}{"b1": gate}}
	f := NewFetcher(backend)

	var wg sync.WaitGroup
	outs := make([]Outcome, 2)
	for i := range outs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outs[i] = f.Load(context.Background(), "viewer", "b1")
		}(i)
	}
	require.Eventually(t, func() bool {
		backend.mu.Lock()
		defer backend.mu.Unlock()
		return len(backend.calls) == 2
	}, timeoutShort, tick)
	close(gate)
	wg.Wait()

	for _, o := range outs {
		assert.IsType(t, Loaded{}, o)
	}
}

const (
	timeoutShort = time.Second
	tick         = time.Millisecond
)
