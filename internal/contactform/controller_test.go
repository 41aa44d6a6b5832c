package contactform_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"portfolio-backend/internal/contactform"
	"portfolio-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Send(ctx context.Context, payload domain.FormData) error {
	return m.Called(ctx, payload).Error(0)
}

type MockObserver struct {
	mock.Mock
}

func (m *MockObserver) ValidationRejected(flags domain.ValidationErrors) {
	m.Called(flags)
}

func (m *MockObserver) SubmissionStarted(payload domain.FormData) {
	m.Called(payload)
}

func (m *MockObserver) SubmissionSettled(payload domain.FormData, err error) {
	m.Called(payload, err)
}

// fakeTimer records the scheduled reset so tests decide when it fires
type fakeTimer struct {
	mu      sync.Mutex
	fn      func()
	delay   time.Duration
	stopped bool
}

func (f *fakeTimer) AfterFunc(d time.Duration, fn func()) func() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fn = fn
	f.delay = d
	f.stopped = false
	return func() bool {
		f.mu.Lock()
		defer f.mu.Unlock()
		wasPending := !f.stopped
		f.stopped = true
		return wasPending
	}
}

// Fire runs the callback unless it was stopped
func (f *fakeTimer) Fire() {
	f.mu.Lock()
	fn, stopped := f.fn, f.stopped
	f.mu.Unlock()
	if fn != nil && !stopped {
		fn()
	}
}

// FireAnyway runs the callback even if stopped, like a timer that raced Stop
func (f *fakeTimer) FireAnyway() {
	f.mu.Lock()
	fn := f.fn
	f.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (f *fakeTimer) Stopped() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stopped
}

var ann = domain.FormData{Name: "Ann", Email: "ann@test.com", Message: "Hello"}

func fill(t *testing.T, c *contactform.Controller, data domain.FormData) {
	t.Helper()
	for _, field := range domain.Fields {
		require.NoError(t, c.Edit(field, data.Value(field)))
	}
}

func TestControllerEdit(t *testing.T) {
	t.Run("Should replace only the edited field", func(t *testing.T) {
		c := contactform.New(new(MockGateway))
		fill(t, c, ann)

		require.NoError(t, c.Edit(domain.FieldMessage, "Bye"))

		state := c.Snapshot()
		assert.Equal(t, domain.FormData{Name: "Ann", Email: "ann@test.com", Message: "Bye"}, state.Data)
		assert.Equal(t, domain.StatusIdle, state.Status)
	})

	t.Run("Should reject unknown fields", func(t *testing.T) {
		c := contactform.New(new(MockGateway))
		err := c.Edit(domain.Field("phone"), "123")
		assert.ErrorIs(t, err, domain.ErrUnknownField)
		assert.True(t, c.Snapshot().Data.IsEmpty())
	})

	t.Run("Should keep validation flags until the next submit", func(t *testing.T) {
		gw := new(MockGateway)
		gw.On("Send", mock.Anything, ann).Return(nil)
		c := contactform.New(gw, contactform.WithAfterFunc((&fakeTimer{}).AfterFunc))
		fill(t, c, domain.FormData{Email: "ann@test.com", Message: "Hello"})

		outcome, done := c.Submit(context.Background())
		assert.Equal(t, domain.OutcomeInvalid, outcome)
		assert.Nil(t, done)
		assert.Equal(t, domain.ValidationErrors{Name: true}, c.Snapshot().Errors)

		require.NoError(t, c.Edit(domain.FieldName, "Ann"))
		assert.Equal(t, domain.ValidationErrors{Name: true}, c.Snapshot().Errors)

		outcome, done = c.Submit(context.Background())
		require.Equal(t, domain.OutcomeStarted, outcome)
		<-done
		assert.False(t, c.Snapshot().Errors.Any())
	})
}

func TestControllerSubmit(t *testing.T) {
	t.Run("Should not call the gateway for an invalid form", func(t *testing.T) {
		gw := new(MockGateway)
		c := contactform.New(gw)
		fill(t, c, domain.FormData{Name: "", Email: "x@y.com", Message: "hi"})

		outcome, done := c.Submit(context.Background())

		assert.Equal(t, domain.OutcomeInvalid, outcome)
		assert.Nil(t, done)
		state := c.Snapshot()
		assert.Equal(t, domain.ValidationErrors{Name: true, Email: false, Message: false}, state.Errors)
		assert.Equal(t, domain.StatusIdle, state.Status)
		gw.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})

	t.Run("Should send the exact payload once and move to Submitting", func(t *testing.T) {
		release := make(chan struct{})
		gw := new(MockGateway)
		gw.On("Send", mock.Anything, ann).Return(nil).Run(func(mock.Arguments) { <-release })
		c := contactform.New(gw, contactform.WithAfterFunc((&fakeTimer{}).AfterFunc))
		fill(t, c, ann)

		assert.Equal(t, domain.StatusIdle, c.Status())
		outcome, done := c.Submit(context.Background())
		require.Equal(t, domain.OutcomeStarted, outcome)
		assert.Equal(t, domain.StatusSubmitting, c.Status())

		close(release)
		<-done
		gw.AssertNumberOfCalls(t, "Send", 1)
		gw.AssertCalled(t, "Send", mock.Anything, ann)
	})

	t.Run("Should ignore a second submit while in flight", func(t *testing.T) {
		release := make(chan struct{})
		gw := new(MockGateway)
		gw.On("Send", mock.Anything, ann).Return(nil).Run(func(mock.Arguments) { <-release })
		c := contactform.New(gw, contactform.WithAfterFunc((&fakeTimer{}).AfterFunc))
		fill(t, c, ann)

		_, done := c.Submit(context.Background())
		outcome, second := c.Submit(context.Background())
		assert.Equal(t, domain.OutcomeInFlight, outcome)
		assert.Nil(t, second)

		assert.ErrorIs(t, c.Edit(domain.FieldName, "Bob"), domain.ErrSubmissionInFlight)

		close(release)
		<-done
		gw.AssertNumberOfCalls(t, "Send", 1)
	})

	t.Run("Should detach the gateway call from the request context", func(t *testing.T) {
		gw := new(MockGateway)
		gw.On("Send", mock.Anything, ann).Return(nil).Run(func(args mock.Arguments) {
			ctx := args.Get(0).(context.Context)
			assert.NoError(t, ctx.Err())
		})
		c := contactform.New(gw, contactform.WithAfterFunc((&fakeTimer{}).AfterFunc))
		fill(t, c, ann)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, done := c.Submit(ctx)
		<-done
		assert.Equal(t, domain.StatusSucceeded, c.Status())
	})
}

func TestControllerSuccess(t *testing.T) {
	t.Run("Should reset the form and return to Idle after the delay", func(t *testing.T) {
		timer := &fakeTimer{}
		gw := new(MockGateway)
		gw.On("Send", mock.Anything, ann).Return(nil)
		c := contactform.New(gw, contactform.WithAfterFunc(timer.AfterFunc))
		fill(t, c, ann)

		_, done := c.Submit(context.Background())
		<-done

		state := c.Snapshot()
		assert.Equal(t, domain.StatusSucceeded, state.Status)
		assert.Equal(t, domain.FormData{Name: "", Email: "", Message: ""}, state.Data)
		assert.Equal(t, contactform.DefaultResetDelay, timer.delay)

		timer.Fire()
		assert.Equal(t, domain.StatusIdle, c.Status())
	})

	t.Run("Should honour a custom reset delay with a real timer", func(t *testing.T) {
		gw := new(MockGateway)
		gw.On("Send", mock.Anything, ann).Return(nil)
		c := contactform.New(gw, contactform.WithResetDelay(20*time.Millisecond))
		fill(t, c, ann)

		_, done := c.Submit(context.Background())
		<-done
		assert.Equal(t, domain.StatusSucceeded, c.Status())

		assert.Eventually(t, func() bool {
			return c.Status() == domain.StatusIdle
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("Should accept edits while the success banner is shown", func(t *testing.T) {
		timer := &fakeTimer{}
		gw := new(MockGateway)
		gw.On("Send", mock.Anything, ann).Return(nil)
		c := contactform.New(gw, contactform.WithAfterFunc(timer.AfterFunc))
		fill(t, c, ann)
		_, done := c.Submit(context.Background())
		<-done

		require.NoError(t, c.Edit(domain.FieldName, "Bob"))
		state := c.Snapshot()
		assert.Equal(t, "Bob", state.Data.Name)
		assert.Equal(t, domain.StatusSucceeded, state.Status)
	})

	t.Run("Should cancel the pending reset when a new submission starts", func(t *testing.T) {
		timer := &fakeTimer{}
		release := make(chan struct{})
		bob := domain.FormData{Name: "Bob", Email: "bob@test.com", Message: "Again"}

		gw := new(MockGateway)
		gw.On("Send", mock.Anything, ann).Return(nil).Once()
		gw.On("Send", mock.Anything, bob).Return(errors.New("rate limited")).Run(func(mock.Arguments) { <-release }).Once()
		c := contactform.New(gw, contactform.WithAfterFunc(timer.AfterFunc))

		fill(t, c, ann)
		_, done := c.Submit(context.Background())
		<-done
		staleReset := timer.fn

		fill(t, c, bob)
		outcome, done := c.Submit(context.Background())
		require.Equal(t, domain.OutcomeStarted, outcome)
		assert.True(t, timer.Stopped())

		staleReset()
		assert.Equal(t, domain.StatusSubmitting, c.Status())

		close(release)
		<-done
		staleReset()
		assert.Equal(t, domain.StatusFailed, c.Status())
	})

	t.Run("Should keep the reset timer when an empty form is resubmitted", func(t *testing.T) {
		timer := &fakeTimer{}
		gw := new(MockGateway)
		gw.On("Send", mock.Anything, ann).Return(nil)
		c := contactform.New(gw, contactform.WithAfterFunc(timer.AfterFunc))
		fill(t, c, ann)
		_, done := c.Submit(context.Background())
		<-done

		outcome, _ := c.Submit(context.Background())
		assert.Equal(t, domain.OutcomeInvalid, outcome)
		assert.False(t, timer.Stopped())

		timer.Fire()
		assert.Equal(t, domain.StatusIdle, c.Status())
	})

	t.Run("Should not schedule a reset after Close", func(t *testing.T) {
		timer := &fakeTimer{}
		release := make(chan struct{})
		gw := new(MockGateway)
		gw.On("Send", mock.Anything, ann).Return(nil).Run(func(mock.Arguments) { <-release })
		c := contactform.New(gw, contactform.WithAfterFunc(timer.AfterFunc))
		fill(t, c, ann)

		_, done := c.Submit(context.Background())
		c.Close()
		close(release)
		<-done

		assert.Nil(t, timer.fn)
		assert.Equal(t, domain.StatusSucceeded, c.Status())
	})
}

func TestControllerFailure(t *testing.T) {
	t.Run("Should keep the form data and surface a notice", func(t *testing.T) {
		gw := new(MockGateway)
		gw.On("Send", mock.Anything, ann).Return(errors.New("smtp: 535 auth failed"))
		c := contactform.New(gw)
		fill(t, c, ann)

		_, done := c.Submit(context.Background())
		<-done

		state := c.Snapshot()
		assert.Equal(t, domain.StatusFailed, state.Status)
		assert.Equal(t, ann, state.Data)
		assert.Equal(t, contactform.FailureNotice, state.Notice)
	})

	t.Run("Should allow a retry without re-entering data", func(t *testing.T) {
		timer := &fakeTimer{}
		gw := new(MockGateway)
		gw.On("Send", mock.Anything, ann).Return(errors.New("timeout")).Once()
		gw.On("Send", mock.Anything, ann).Return(nil).Once()
		c := contactform.New(gw, contactform.WithAfterFunc(timer.AfterFunc))
		fill(t, c, ann)

		_, done := c.Submit(context.Background())
		<-done
		require.Equal(t, domain.StatusFailed, c.Status())

		outcome, done := c.Submit(context.Background())
		require.Equal(t, domain.OutcomeStarted, outcome)
		<-done

		state := c.Snapshot()
		assert.Equal(t, domain.StatusSucceeded, state.Status)
		assert.Empty(t, state.Notice)
		gw.AssertNumberOfCalls(t, "Send", 2)
	})
}

func TestControllerObservers(t *testing.T) {
	sendErr := errors.New("boom")
	gw := new(MockGateway)
	gw.On("Send", mock.Anything, ann).Return(sendErr)

	obs := new(MockObserver)
	obs.On("ValidationRejected", domain.ValidationErrors{Name: true, Email: true, Message: true}).Once()
	obs.On("SubmissionStarted", ann).Once()
	obs.On("SubmissionSettled", ann, sendErr).Once()

	c := contactform.New(gw, contactform.WithObserver(obs))

	outcome, _ := c.Submit(context.Background())
	require.Equal(t, domain.OutcomeInvalid, outcome)

	fill(t, c, ann)
	_, done := c.Submit(context.Background())
	<-done

	obs.AssertExpectations(t)
}
