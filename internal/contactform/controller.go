// Package contactform hosts the contact form state machine.
//
// A Controller owns the form values, the per-field validation flags and the
// submission lifecycle:
//
//	Idle -> Submitting -> Succeeded | Failed -> Idle
//
// Validation flags are only recomputed when a submit is requested; editing a
// field never clears them. After a successful submission the form is emptied
// and the status falls back to Idle once the reset delay elapses.
package contactform

import (
	"context"
	"sync"
	"time"

	"portfolio-backend/internal/domain"
)

// DefaultResetDelay is how long the success banner stays up
const DefaultResetDelay = 3 * time.Second

// FailureNotice is shown to the user when the gateway rejects a submission
const FailureNotice = "Failed to send email. Please try again."

// Observer is notified about submission lifecycle events.
// Callbacks run outside the controller lock.
type Observer interface {
	ValidationRejected(flags domain.ValidationErrors)
	SubmissionStarted(payload domain.FormData)
	SubmissionSettled(payload domain.FormData, err error)
}

// AfterFunc schedules f after d and returns a function that cancels it.
// The cancel function reports whether f was prevented from running.
type AfterFunc func(d time.Duration, f func()) (stop func() bool)

// Option configures a Controller
type Option func(*Controller)

// WithResetDelay sets how long Succeeded is held before returning to Idle
func WithResetDelay(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.resetDelay = d
		}
	}
}

// WithObserver registers an observer for lifecycle events
func WithObserver(o Observer) Option {
	return func(c *Controller) {
		if o != nil {
			c.observers = append(c.observers, o)
		}
	}
}

// WithAfterFunc replaces the timer used for the success auto-reset
func WithAfterFunc(fn AfterFunc) Option {
	return func(c *Controller) {
		if fn != nil {
			c.afterFunc = fn
		}
	}
}

// Controller is a reusable contact form bound to one page view.
// It is safe for concurrent use.
type Controller struct {
	gateway    domain.SubmissionGateway
	observers  []Observer
	resetDelay time.Duration
	afterFunc  AfterFunc

	mu        sync.Mutex
	data      domain.FormData
	errors    domain.ValidationErrors
	status    domain.SubmissionStatus
	notice    string
	stopReset func() bool
	// gen identifies the latest submission; stale reset timers compare against it
	gen    uint64
	closed bool
}

// New creates an Idle controller with an empty form
func New(gateway domain.SubmissionGateway, opts ...Option) *Controller {
	c := &Controller{
		gateway:    gateway,
		resetDelay: DefaultResetDelay,
		afterFunc:  stdAfterFunc,
		status:     domain.StatusIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func stdAfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// Snapshot returns the state the rendering surface should display
func (c *Controller) Snapshot() domain.FormState {
	c.mu.Lock()
	defer c.mu.Unlock()

	return domain.FormState{
		Data:   c.data,
		Errors: c.errors,
		Status: c.status,
		Notice: c.notice,
	}
}

// Status returns the current lifecycle state
func (c *Controller) Status() domain.SubmissionStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Edit replaces a single field value.
// Validation flags are left untouched until the next submit.
func (c *Controller) Edit(field domain.Field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status == domain.StatusSubmitting {
		return domain.ErrSubmissionInFlight
	}

	next, err := c.data.With(field, value)
	if err != nil {
		return err
	}
	c.data = next
	return nil
}

// Submit validates the form and, when every field is clean, starts a single
// gateway call in the background. The returned channel is closed once that
// call settles; it is nil when no call was started.
func (c *Controller) Submit(ctx context.Context) (domain.SubmitOutcome, <-chan struct{}) {
	c.mu.Lock()

	if c.status == domain.StatusSubmitting {
		c.mu.Unlock()
		return domain.OutcomeInFlight, nil
	}

	flags := Validate(c.data)
	if flags.Any() {
		c.errors = flags
		c.mu.Unlock()

		for _, o := range c.observers {
			o.ValidationRejected(flags)
		}
		return domain.OutcomeInvalid, nil
	}

	c.errors = domain.ValidationErrors{}
	c.cancelResetLocked()
	c.gen++
	gen := c.gen
	c.status = domain.StatusSubmitting
	c.notice = ""
	payload := c.data
	c.mu.Unlock()

	for _, o := range c.observers {
		o.SubmissionStarted(payload)
	}

	done := make(chan struct{})
	go c.send(context.WithoutCancel(ctx), gen, payload, done)

	return domain.OutcomeStarted, done
}

// Close stops the pending auto-reset timer. The controller stays usable
// but no longer schedules resets.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	c.cancelResetLocked()
}

func (c *Controller) send(ctx context.Context, gen uint64, payload domain.FormData, done chan struct{}) {
	defer close(done)

	err := c.gateway.Send(ctx, payload)
	c.settle(gen, err)

	for _, o := range c.observers {
		o.SubmissionSettled(payload, err)
	}
}

func (c *Controller) settle(gen uint64, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		return
	}

	if err != nil {
		c.status = domain.StatusFailed
		c.notice = FailureNotice
		return
	}

	c.status = domain.StatusSucceeded
	c.data = domain.FormData{}
	if !c.closed {
		c.stopReset = c.afterFunc(c.resetDelay, func() { c.autoReset(gen) })
	}
}

func (c *Controller) autoReset(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen || c.status != domain.StatusSucceeded {
		return
	}
	c.status = domain.StatusIdle
	c.stopReset = nil
}

func (c *Controller) cancelResetLocked() {
	if c.stopReset != nil {
		c.stopReset()
		c.stopReset = nil
	}
}
