package intake

import (
	"context"
	"sync"
	"time"

	"brandscope/internal/ports"
)

// Registry keeps the current form instance of each session.
type Registry struct {
	backend ports.BrandBackend
	idleTTL time.Duration
	now     func() time.Time

	mu    sync.Mutex
	forms map[string]*entry
}

type entry struct {
	wf      *Workflow
	touched time.Time
}

// NewRegistry returns a registry whose forms are dropped after idleTTL
// without use.
func NewRegistry(backend ports.BrandBackend, idleTTL time.Duration) *Registry {
	return &Registry{backend: backend, idleTTL: idleTTL, now: time.Now, forms: map[string]*entry{}}
}

// Start replaces the session's form with a fresh Idle instance. A form with
// a submission in flight is kept so the session never has two submits
// running.
func (r *Registry) Start(sessionID string, saver BrandSaver) *Workflow {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.forms[sessionID]; ok {
		if _, busy := e.wf.State().(Submitting); busy {
			e.touched = r.now()
			return e.wf
		}
	}
	wf := NewWorkflow(r.backend, saver)
	r.forms[sessionID] = &entry{wf: wf, touched: r.now()}
	return wf
}

// Current returns the session's form, starting one if none exists.
func (r *Registry) Current(sessionID string, saver BrandSaver) *Workflow {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.forms[sessionID]
	if !ok {
		e = &entry{wf: NewWorkflow(r.backend, saver)}
		r.forms[sessionID] = e
	}
	e.touched = r.now()
	return e.wf
}

// PruneExpired drops forms untouched for longer than the idle TTL. Forms
// with a submission in flight are kept.
func (r *Registry) PruneExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, e := range r.forms {
		if now.Sub(e.touched) <= r.idleTTL {
			continue
		}
		if _, busy := e.wf.State().(Submitting); busy {
			continue
		}
		delete(r.forms, id)
		n++
	}
	return n, nil
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.forms)
}
