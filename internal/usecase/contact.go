package usecase

import (
	"context"
	"errors"
	"fmt"

	"portfolio-backend/internal/contactform"
	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/metrics"
)

type contactUsecase struct {
	gateway domain.SubmissionGateway
	metrics *metrics.Metrics
}

// NewContactUsecase creates a new contact usecase
func NewContactUsecase(gateway domain.SubmissionGateway, m *metrics.Metrics) domain.ContactUsecase {
	return &contactUsecase{
		gateway: gateway,
		metrics: m,
	}
}

// SendContactMessage validates the form and makes a single gateway attempt
func (uc *contactUsecase) SendContactMessage(ctx context.Context, req domain.FormData) (domain.ValidationErrors, error) {
	flags := contactform.Validate(req)
	if flags.Any() {
		for _, f := range flags.Flagged() {
			uc.metrics.RecordRejection(string(f))
		}
		return flags, domain.ErrInvalidForm
	}

	if err := uc.gateway.Send(ctx, req); err != nil {
		if errors.Is(err, domain.ErrGatewayNotConfigured) {
			return flags, err
		}
		return flags, fmt.Errorf("failed to send contact email: %w", err)
	}

	return flags, nil
}
