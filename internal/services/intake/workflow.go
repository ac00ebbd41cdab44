package intake

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"brandscope/internal/domain"
	"brandscope/internal/ports"
)

var (
	ErrSubmissionInFlight = errors.New("intake: submission already in flight")
	ErrAlreadySucceeded   = errors.New("intake: form already submitted")
)

// ValidationError carries per-field messages for an invalid submit.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("intake: %d invalid field(s)", len(e.Fields))
}

// BrandSaver persists the session copy of a created brand.
type BrandSaver interface {
	SaveBrand(ctx context.Context, brand domain.BrandRef) error
}

// Status enumerates the workflow states.
type Status int

const (
	StatusIdle Status = iota
	StatusSubmitting
	StatusSucceeded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusSubmitting:
		return "submitting"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// State is one of Idle, Submitting, Succeeded or Failed.
type State interface {
	Status() Status
}

type Idle struct{}

type Submitting struct {
	Form domain.BrandIntakeForm
}

type Succeeded struct {
	Brand domain.Brand
}

// Failed keeps the submitted values so the user can correct and resubmit.
// A form in Failed accepts a new submit exactly like Idle.
type Failed struct {
	Form domain.BrandIntakeForm
	Err  error
}

func (Idle) Status() Status       { return StatusIdle }
func (Submitting) Status() Status { return StatusSubmitting }
func (Succeeded) Status() Status  { return StatusSucceeded }
func (Failed) Status() Status     { return StatusFailed }

// Workflow drives one intake form instance. At most one submission is in
// flight at any time.
type Workflow struct {
	backend ports.BrandBackend
	saver   BrandSaver

	mu    sync.Mutex
	state State
}

func NewWorkflow(backend ports.BrandBackend, saver BrandSaver) *Workflow {
	return &Workflow{backend: backend, saver: saver, state: Idle{}}
}

func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Submit validates the form and, when valid, sends it to the backend. It
// returns *ValidationError without changing state for invalid input,
// ErrSubmissionInFlight while another submit is running and
// ErrAlreadySucceeded once the form has been accepted.
func (w *Workflow) Submit(ctx context.Context, form domain.BrandIntakeForm) (State, error) {
	if errs := Validate(form); errs != nil {
		return w.State(), &ValidationError{Fields: errs}
	}
	log := zerolog.Ctx(ctx)

	w.mu.Lock()
	switch w.state.(type) {
	case Submitting:
		w.mu.Unlock()
		return Submitting{}, ErrSubmissionInFlight
	case Succeeded:
		st := w.state
		w.mu.Unlock()
		return st, ErrAlreadySucceeded
	}
	w.state = Submitting{Form: form}
	w.mu.Unlock()
	log.Debug().Str("website", form.Website).Msg("intake submitting")

	next := w.run(ctx, form)

	w.mu.Lock()
	w.state = next
	w.mu.Unlock()

	if f, ok := next.(Failed); ok {
		log.Warn().Err(f.Err).Msg("intake submission failed")
	} else {
		log.Info().Str("brand_id", next.(Succeeded).Brand.ID).Msg("intake succeeded")
	}
	return next, nil
}

func (w *Workflow) run(ctx context.Context, form domain.BrandIntakeForm) State {
	brand, err := w.backend.CreateBrand(ctx, form)
	if err != nil {
		return Failed{Form: form, Err: err}
	}
	if brand.ID == "" {
		return Failed{Form: form, Err: errors.New("intake: backend returned a brand without id")}
	}
	if err := w.saver.SaveBrand(ctx, brand.Ref()); err != nil {
		return Failed{Form: form, Err: fmt.Errorf("save session brand: %w", err)}
	}
	return Succeeded{Brand: brand}
}
