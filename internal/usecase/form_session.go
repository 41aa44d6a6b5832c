package usecase

import (
	"context"
	"sync"
	"time"

	"portfolio-backend/internal/contactform"
	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/auth"
	"portfolio-backend/pkg/logger"
	"portfolio-backend/pkg/metrics"

	"github.com/google/uuid"
)

// FormSessionConfig tunes the server-hosted form sessions
type FormSessionConfig struct {
	IdleTimeout time.Duration // sessions untouched this long are closed
	TokenTTL    time.Duration
	MaxSessions int
	ResetDelay  time.Duration // success banner auto-dismiss
	WaitTimeout time.Duration // upper bound for submit?wait=true
}

func (cfg FormSessionConfig) withDefaults() FormSessionConfig {
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = 30 * time.Minute
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 12 * time.Hour
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = 1000
	}
	if cfg.ResetDelay <= 0 {
		cfg.ResetDelay = contactform.DefaultResetDelay
	}
	if cfg.WaitTimeout <= 0 {
		cfg.WaitTimeout = 15 * time.Second
	}
	return cfg
}

type formSession struct {
	ctrl     *contactform.Controller
	lastSeen time.Time
}

type formSessionUsecase struct {
	gateway domain.SubmissionGateway
	signer  *auth.SessionSigner
	metrics *metrics.Metrics
	cfg     FormSessionConfig
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*formSession
}

// FormSessionManager is the session usecase plus its housekeeping hooks
type FormSessionManager interface {
	domain.FormSessionUsecase
	// Sweep closes idle sessions and returns how many were removed
	Sweep() int
	// StartJanitor sweeps every interval until ctx is cancelled
	StartJanitor(ctx context.Context, interval time.Duration)
	// CloseAll closes every open session
	CloseAll()
}

// NewFormSessionUsecase creates the session registry. The gateway is shared
// by every session.
func NewFormSessionUsecase(gateway domain.SubmissionGateway, signer *auth.SessionSigner, m *metrics.Metrics, cfg FormSessionConfig) FormSessionManager {
	return &formSessionUsecase{
		gateway:  gateway,
		signer:   signer,
		metrics:  m,
		cfg:      cfg.withDefaults(),
		now:      time.Now,
		sessions: make(map[string]*formSession),
	}
}

func (uc *formSessionUsecase) Open(ctx context.Context) (*domain.FormSession, error) {
	uc.mu.Lock()
	if len(uc.sessions) >= uc.cfg.MaxSessions {
		uc.sweepLocked()
	}
	if len(uc.sessions) >= uc.cfg.MaxSessions {
		uc.mu.Unlock()
		return nil, domain.ErrSessionLimit
	}

	id := uuid.NewString()
	ctrl := contactform.New(uc.gateway,
		contactform.WithResetDelay(uc.cfg.ResetDelay),
		contactform.WithObserver(&sessionObserver{sessionID: id, metrics: uc.metrics}),
	)
	uc.sessions[id] = &formSession{ctrl: ctrl, lastSeen: uc.now()}
	uc.mu.Unlock()

	token, expiresAt, err := uc.signer.Issue(id, uc.cfg.TokenTTL)
	if err != nil {
		uc.remove(id)
		return nil, err
	}

	uc.metrics.SessionOpened()
	logger.Log.Debug("Form session opened", "session_id", id)

	return &domain.FormSession{
		ID:        id,
		Token:     token,
		ExpiresAt: expiresAt,
		State:     ctrl.Snapshot(),
	}, nil
}

func (uc *formSessionUsecase) State(ctx context.Context, id string) (domain.FormState, error) {
	ctrl, err := uc.touch(id)
	if err != nil {
		return domain.FormState{}, err
	}
	return ctrl.Snapshot(), nil
}

func (uc *formSessionUsecase) Edit(ctx context.Context, id string, field domain.Field, value string) (domain.FormState, error) {
	ctrl, err := uc.touch(id)
	if err != nil {
		return domain.FormState{}, err
	}
	if err := ctrl.Edit(field, value); err != nil {
		return ctrl.Snapshot(), err
	}
	return ctrl.Snapshot(), nil
}

func (uc *formSessionUsecase) Submit(ctx context.Context, id string, wait bool) (*domain.SubmitResult, error) {
	ctrl, err := uc.touch(id)
	if err != nil {
		return nil, err
	}

	outcome, done := ctrl.Submit(ctx)
	if wait && done != nil {
		timer := time.NewTimer(uc.cfg.WaitTimeout)
		defer timer.Stop()

		select {
		case <-done:
		case <-timer.C:
		case <-ctx.Done():
		}
	}

	return &domain.SubmitResult{Outcome: outcome, State: ctrl.Snapshot()}, nil
}

func (uc *formSessionUsecase) Close(ctx context.Context, id string) error {
	if !uc.remove(id) {
		return domain.ErrSessionNotFound
	}
	logger.Log.Debug("Form session closed", "session_id", id)
	return nil
}

func (uc *formSessionUsecase) Sweep() int {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.sweepLocked()
}

func (uc *formSessionUsecase) StartJanitor(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := uc.Sweep(); n > 0 {
					logger.Log.Debug("Swept idle form sessions", "count", n)
				}
			}
		}
	}()
}

func (uc *formSessionUsecase) CloseAll() {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	for id, s := range uc.sessions {
		s.ctrl.Close()
		delete(uc.sessions, id)
		uc.metrics.SessionClosed()
	}
}

// sweepLocked drops idle sessions; sessions with a pending submission stay
func (uc *formSessionUsecase) sweepLocked() int {
	cutoff := uc.now().Add(-uc.cfg.IdleTimeout)
	removed := 0
	for id, s := range uc.sessions {
		if s.lastSeen.After(cutoff) || s.ctrl.Status() == domain.StatusSubmitting {
			continue
		}
		s.ctrl.Close()
		delete(uc.sessions, id)
		uc.metrics.SessionClosed()
		removed++
	}
	return removed
}

func (uc *formSessionUsecase) touch(id string) (*contactform.Controller, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	s, ok := uc.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	s.lastSeen = uc.now()
	return s.ctrl, nil
}

func (uc *formSessionUsecase) remove(id string) bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	s, ok := uc.sessions[id]
	if !ok {
		return false
	}
	s.ctrl.Close()
	delete(uc.sessions, id)
	uc.metrics.SessionClosed()
	return true
}

// sessionObserver counts rejections and logs the user-visible failure notice
type sessionObserver struct {
	sessionID string
	metrics   *metrics.Metrics
}

func (o *sessionObserver) ValidationRejected(flags domain.ValidationErrors) {
	for _, f := range flags.Flagged() {
		o.metrics.RecordRejection(string(f))
	}
	logger.Log.Debug("Form session submit rejected", "session_id", o.sessionID, "fields", flags.Flagged())
}

func (o *sessionObserver) SubmissionStarted(domain.FormData) {
	logger.Log.Debug("Form session submitting", "session_id", o.sessionID)
}

func (o *sessionObserver) SubmissionSettled(_ domain.FormData, err error) {
	if err != nil {
		logger.Log.Warn("Form session submission failed", "session_id", o.sessionID, "notice", contactform.FailureNotice)
		return
	}
	logger.Log.Debug("Form session submission succeeded", "session_id", o.sessionID)
}
