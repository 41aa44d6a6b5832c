package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/email"
	"portfolio-backend/pkg/logger"
	"portfolio-backend/pkg/metrics"

	"github.com/google/uuid"
)

type emailGateway struct {
	sender email.Sender
}

// NewEmailGateway adapts an email sender to the submission gateway contract
func NewEmailGateway(sender email.Sender) domain.SubmissionGateway {
	return &emailGateway{sender: sender}
}

func (g *emailGateway) Send(ctx context.Context, payload domain.FormData) error {
	if g.sender == nil || !g.sender.IsConfigured() {
		return domain.ErrGatewayNotConfigured
	}

	err := g.sender.SendContactEmail(ctx, email.ContactEmailData{
		SenderName:  strings.TrimSpace(payload.Name),
		SenderEmail: strings.TrimSpace(payload.Email),
		Message:     strings.TrimSpace(payload.Message),
	})
	if errors.Is(err, email.ErrNotConfigured) {
		return domain.ErrGatewayNotConfigured
	}
	return err
}

type recordingGateway struct {
	next    domain.SubmissionGateway
	channel domain.SubmissionChannel
	repo    domain.SubmissionRepository
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewRecordingGateway wraps next so every attempt is logged, measured and,
// when repo is not nil, archived. Archive failures never fail the submission.
func NewRecordingGateway(next domain.SubmissionGateway, channel domain.SubmissionChannel, repo domain.SubmissionRepository, m *metrics.Metrics) domain.SubmissionGateway {
	return &recordingGateway{
		next:    next,
		channel: channel,
		repo:    repo,
		metrics: m,
		now:     time.Now,
	}
}

func (g *recordingGateway) Send(ctx context.Context, payload domain.FormData) error {
	id := uuid.NewString()
	start := g.now()

	err := g.next.Send(ctx, payload)
	took := g.now().Sub(start)
	g.metrics.RecordSubmission(string(g.channel), err, took)

	if err != nil {
		logger.Log.Error("Contact submission failed", "submission_id", id, "channel", g.channel, "duration_ms", took.Milliseconds(), "error", err)
	} else {
		logger.Log.Info("Contact submission delivered", "submission_id", id, "channel", g.channel, "duration_ms", took.Milliseconds())
	}

	if g.repo != nil {
		record := &domain.SubmissionRecord{
			ID:        id,
			Channel:   g.channel,
			Name:      payload.Name,
			Email:     payload.Email,
			Message:   payload.Message,
			Succeeded: err == nil,
			CreatedAt: start.UTC(),
		}
		if err != nil {
			record.Error = err.Error()
		}
		if archiveErr := g.repo.Create(ctx, record); archiveErr != nil {
			logger.Log.Warn("Failed to archive contact submission", "submission_id", id, "error", archiveErr)
		}
	}

	return err
}
