package email

import (
	"context"
	"errors"
	"fmt"

	"portfolio-backend/config"
)

// ErrNotConfigured is returned by senders missing credentials
var ErrNotConfigured = errors.New("email service is not configured")

// ContactEmailData holds the data for contact form emails
type ContactEmailData struct {
	SenderName  string
	SenderEmail string
	Message     string
}

// Sender delivers contact form emails
type Sender interface {
	SendContactEmail(ctx context.Context, data ContactEmailData) error
	IsConfigured() bool
}

// NewSender builds the sender selected by EMAIL_PROVIDER
func NewSender(cfg *config.Config) (Sender, error) {
	switch cfg.EmailProvider {
	case config.EmailProviderEmailJS, "":
		return NewEmailJSClient(cfg), nil
	case config.EmailProviderSMTP:
		return NewSMTPService(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported email provider %q", cfg.EmailProvider)
	}
}
