package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrSubmissionInFlight = errors.New("a submission is already in flight")
	ErrSessionNotFound    = errors.New("form session not found")
	ErrSessionLimit       = errors.New("too many open form sessions")
)

// SubmitOutcome tells the caller what a submit request did
type SubmitOutcome string

const (
	// OutcomeStarted means the form was valid and the gateway call began
	OutcomeStarted SubmitOutcome = "started"
	// OutcomeInvalid means at least one field was flagged and nothing was sent
	OutcomeInvalid SubmitOutcome = "invalid"
	// OutcomeInFlight means an earlier submission is still pending
	OutcomeInFlight SubmitOutcome = "in_flight"
)

// FormState is what the rendering surface needs to draw the contact form
type FormState struct {
	Data   FormData         `json:"data"`
	Errors ValidationErrors `json:"errors"`
	Status SubmissionStatus `json:"status"`
	Notice string           `json:"notice,omitempty"`
}

// FormSession is a server-hosted contact form bound to one page view
type FormSession struct {
	ID        string    `json:"session_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	State     FormState `json:"state"`
}

// SubmitResult is returned by a session submit request
type SubmitResult struct {
	Outcome SubmitOutcome `json:"outcome"`
	State   FormState     `json:"state"`
}

// FormSessionUsecase manages server-hosted contact forms
type FormSessionUsecase interface {
	Open(ctx context.Context) (*FormSession, error)
	State(ctx context.Context, id string) (FormState, error)
	Edit(ctx context.Context, id string, field Field, value string) (FormState, error)
	// Submit requests a submission. With wait set it blocks until the
	// submission settles or the configured wait timeout elapses.
	Submit(ctx context.Context, id string, wait bool) (*SubmitResult, error)
	Close(ctx context.Context, id string) error
}
