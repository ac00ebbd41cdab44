package intake

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brandscope/internal/domain"
)

var validForm = domain.BrandIntakeForm{Name: "Acme", Website: "https://acme.com", Email: "team@acme.com"}

type fakeBackend struct {
	calls   atomic.Int32
	release chan struct{}
	err     error
	brand   domain.Brand
}

func (f *fakeBackend) CreateBrand(ctx context.Context, form domain.BrandIntakeForm) (domain.Brand, error) {
	f.calls.Add(1)
	if f.release != nil {
		<-f.release
	}
	if f.err != nil {
		return domain.Brand{}, f.err
	}
	if f.brand.ID != "" {
		return f.brand, nil
	}
	return domain.Brand{ID: "b-1", Name: form.Name, Website: form.Website, Email: form.Email}, nil
}

func (f *fakeBackend) Insights(context.Context, string) (domain.InsightsData, error) {
	return domain.InsightsData{}, errors.New("unused")
}

type recordingSaver struct {
	mu     sync.Mutex
	writes []domain.BrandRef
	err    error
}

func (s *recordingSaver) SaveBrand(_ context.Context, b domain.BrandRef) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.writes = append(s.writes, b)
	return nil
}

func TestSubmitSuccess(t *testing.T) {
	backend := &fakeBackend{}
	saver := &recordingSaver{}
	wf := NewWorkflow(backend, saver)
	assert.Equal(t, StatusIdle, wf.State().Status())

	st, err := wf.Submit(context.Background(), validForm)
	require.NoError(t, err)

	ok, isOK := st.(Succeeded)
	require.True(t, isOK)
	assert.Equal(t, "b-1", ok.Brand.ID)
	assert.EqualValues(t, 1, backend.calls.Load())
	require.Len(t, saver.writes, 1)
	assert.Equal(t, domain.BrandRef{ID: "b-1", Name: "Acme", Website: "https://acme.com"}, saver.writes[0])
	assert.Equal(t, StatusSucceeded, wf.State().Status())
}

func TestSubmitInvalidDoesNotCallBackend(t *testing.T) {
	backend := &fakeBackend{}
	wf := NewWorkflow(backend, &recordingSaver{})

	st, err := wf.Submit(context.Background(), domain.BrandIntakeForm{Name: "A"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 3)
	assert.Equal(t, StatusIdle, st.Status())
	assert.Zero(t, backend.calls.Load())
}

func TestSubmitTwiceWhileInFlight(t *testing.T) {
	backend := &fakeBackend{release: make(chan struct{})}
	saver := &recordingSaver{}
	wf := NewWorkflow(backend, saver)

	done := make(chan error, 1)
	go func() {
		_, err := wf.Submit(context.Background(), validForm)
		done <- err
	}()
	require.Eventually(t, func() bool { return wf.State().Status() == StatusSubmitting }, time.Second, time.Millisecond)

	st, err := wf.Submit(context.Background(), validForm)
	assert.ErrorIs(t, err, ErrSubmissionInFlight)
	assert.Equal(t, StatusSubmitting, st.Status())

	close(backend.release)
	require.NoError(t, <-done)
	assert.EqualValues(t, 1, backend.calls.Load())
	assert.Len(t, saver.writes, 1)
}

func TestSubmitFailurePreservesForm(t *testing.T) {
	backend := &fakeBackend{err: errors.New("boom")}
	saver := &recordingSaver{}
	wf := NewWorkflow(backend, saver)

	st, err := wf.Submit(context.Background(), validForm)
	require.NoError(t, err)
	failed, ok := st.(Failed)
	require.True(t, ok)
	assert.Equal(t, validForm, failed.Form)
	assert.EqualError(t, failed.Err, "boom")
	assert.Empty(t, saver.writes)

	// resubmission is allowed after a failure
	backend.err = nil
	st, err = wf.Submit(context.Background(), validForm)
	require.NoError(t, err)
	assert.Equal(t, StatusSucceeded, st.Status())
	assert.EqualValues(t, 2, backend.calls.Load())
}

func TestSubmitAfterSuccessIsRejected(t *testing.T) {
	backend := &fakeBackend{}
	wf := NewWorkflow(backend, &recordingSaver{})

	_, err := wf.Submit(context.Background(), validForm)
	require.NoError(t, err)
	st, err := wf.Submit(context.Background(), validForm)
	assert.ErrorIs(t, err, ErrAlreadySucceeded)
	assert.Equal(t, StatusSucceeded, st.Status())
	assert.EqualValues(t, 1, backend.calls.Load())
}

func TestSubmitFailsWhenSessionWriteFails(t *testing.T) {
	wf := NewWorkflow(&fakeBackend{}, &recordingSaver{err: errors.New("store down")})

	st, err := wf.Submit(context.Background(), validForm)
	require.NoError(t, err)
	failed, ok := st.(Failed)
	require.True(t, ok)
	assert.ErrorContains(t, failed.Err, "store down")
}

func TestSubmitRejectsBrandWithoutID(t *testing.T) {
	saver := &recordingSaver{}
	wf := NewWorkflow(idlessBackend{}, saver)

	st, err := wf.Submit(context.Background(), validForm)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, st.Status())
	assert.Empty(t, saver.writes)
}

type idlessBackend struct{}

func (idlessBackend) CreateBrand(context.Context, domain.BrandIntakeForm) (domain.Brand, error) {
	return domain.Brand{Name: "Acme"}, nil
}

func (idlessBackend) Insights(context.Context, string) (domain.InsightsData, error) {
	return domain.InsightsData{}, errors.New("unused")
}

func TestRegistry(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	reg := NewRegistry(&fakeBackend{}, time.Hour)
	reg.now = func() time.Time { return now }
	saver := &recordingSaver{}

	first := reg.Current("s1", saver)
	assert.Same(t, first, reg.Current("s1", saver))

	fresh := reg.Start("s1", saver)
	assert.NotSame(t, first, fresh)
	assert.Same(t, fresh, reg.Current("s1", saver))

	reg.Current("s2", saver)
	assert.Equal(t, 2, reg.Len())

	n, err := reg.PruneExpired(context.Background(), now.Add(30*time.Minute))
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = reg.PruneExpired(context.Background(), now.Add(2*time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	assert.Zero(t, reg.Len())
}

func TestRegistryStartKeepsInFlightForm(t *testing.T) {
	backend := &fakeBackend{release: make(chan struct{})}
	reg := NewRegistry(backend, time.Hour)
	saver := &recordingSaver{}

	wf := reg.Current("s1", saver)
	done := make(chan error, 1)
	go func() {
		_, err := wf.Submit(context.Background(), validForm)
		done <- err
	}()
	require.Eventually(t, func() bool { return wf.State().Status() == StatusSubmitting }, time.Second, time.Millisecond)

	assert.Same(t, wf, reg.Start("s1", saver))
	_, err := reg.Current("s1", saver).Submit(context.Background(), validForm)
	assert.ErrorIs(t, err, ErrSubmissionInFlight)

	close(backend.release)
	require.NoError(t, <-done)
	assert.EqualValues(t, 1, backend.calls.Load())
	assert.NotSame(t, wf, reg.Start("s1", saver))
}
