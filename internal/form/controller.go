package form

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog/log"

	"github.com/doshub/portal-backend/internal/content"
)

var (
	// ErrSubmission is the single message shown when saving fails.
	ErrSubmission = errors.New("error saving item, please try again")
	ErrBusy       = errors.New("a submission is already in progress")
)

// State is the position of a form in its submission lifecycle.
type State int

const (
	Idle State = iota
	Validating
	Submitting
	Success
	Failure
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Validating:
		return "validating"
	case Submitting:
		return "submitting"
	case Success:
		return "success"
	case Failure:
		return "failure"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Writer is the part of content.Repository a form needs.
type Writer interface {
	Create(ctx context.Context, c content.Collection, f content.Fields) (string, error)
	Update(ctx context.Context, c content.Collection, id string, p content.Patch) error
}

// submissionError renders as ErrSubmission while keeping the cause for logs.
type submissionError struct{ cause error }

func (e *submissionError) Error() string   { return ErrSubmission.Error() }
func (e *submissionError) Unwrap() []error { return []error{ErrSubmission, e.cause} }

// Controller drives one edit form through validation and submission.
// It never navigates; callers react to Success.
type Controller[E Entity] struct {
	repo    Writer
	timeout time.Duration

	mu        sync.Mutex
	state     State
	id        string
	fieldErrs map[string]string
	err       error
	onChange  func(State)
}

// NewController creates a form controller. A zero timeout selects
// content.DefaultTimeout.
func NewController[E Entity](repo Writer, timeout time.Duration) *Controller[E] {
	if timeout <= 0 {
		timeout = content.DefaultTimeout
	}
	return &Controller[E]{repo: repo, timeout: timeout}
}

// OnStateChange registers fn to receive every state transition.
func (c *Controller[E]) OnStateChange(fn func(State)) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// Validate evaluates the field rules of e without changing state.
func (c *Controller[E]) Validate(e E) map[string]string {
	var fieldErrs validation.Errors
	if errors.As(e.Validate(), &fieldErrs) {
		return content.FieldMessages(fieldErrs)
	}
	return map[string]string{}
}

// Submit validates e and, when valid, creates it (empty id) or replaces
// the item with the given id. It returns the item id on success.
func (c *Controller[E]) Submit(ctx context.Context, id string, e E) (string, error) {
	c.mu.Lock()
	if c.state == Validating || c.state == Submitting {
		c.mu.Unlock()
		return "", ErrBusy
	}
	c.fieldErrs, c.err = nil, nil
	c.state = Validating
	fn := c.onChange
	c.mu.Unlock()
	if fn != nil {
		fn(Validating)
	}

	if err := e.Validate(); err != nil {
		var fieldErrs validation.Errors
		errors.As(err, &fieldErrs)
		c.fail(err, content.FieldMessages(fieldErrs))
		return "", err
	}

	c.transition(Submitting)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	col := e.Collection()
	fields := e.Fields()

	var err error
	if id == "" {
		id, err = c.repo.Create(ctx, col, fields)
	} else {
		err = c.repo.Update(ctx, col, id, content.PatchFrom(fields))
	}
	if err != nil {
		if ctx.Err() != nil && !errors.Is(err, content.ErrBackend) {
			err = fmt.Errorf("%w: %w", content.ErrBackend, err)
		}
		log.Error().Err(err).Str("collection", string(col)).Str("id", id).Msg("form submission failed")

		// Rules enforced by the server surface as field errors like local ones.
		var fieldErrs validation.Errors
		var messages map[string]string
		if errors.As(err, &fieldErrs) {
			messages = content.FieldMessages(fieldErrs)
		}
		subErr := &submissionError{cause: err}
		c.fail(subErr, messages)
		return "", subErr
	}

	c.mu.Lock()
	c.id = id
	c.mu.Unlock()
	c.transition(Success)
	return id, nil
}

// Edited records a change to the form. A failed form returns to Idle.
func (c *Controller[E]) Edited() {
	c.mu.Lock()
	if c.state != Failure {
		c.mu.Unlock()
		return
	}
	c.fieldErrs, c.err = nil, nil
	c.mu.Unlock()
	c.transition(Idle)
}

func (c *Controller[E]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// ID returns the id resolved by the last successful submission.
func (c *Controller[E]) ID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.id
}

// FieldErrors returns the per-field messages of the last failure.
func (c *Controller[E]) FieldErrors() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]string, len(c.fieldErrs))
	for k, v := range c.fieldErrs {
		out[k] = v
	}
	return out
}

// Err returns the error of the last failure, or nil.
func (c *Controller[E]) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *Controller[E]) fail(err error, fields map[string]string) {
	c.mu.Lock()
	c.err = err
	c.fieldErrs = fields
	c.mu.Unlock()
	c.transition(Failure)
}

func (c *Controller[E]) transition(s State) {
	c.mu.Lock()
	c.state = s
	fn := c.onChange
	c.mu.Unlock()

	if fn != nil {
		fn(s)
	}
}
