package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"portfolio-backend/config"
)

// EmailJSClient sends contact emails through the EmailJS REST API
type EmailJSClient struct {
	apiURL     string
	serviceID  string
	templateID string
	publicKey  string
	privateKey string
	httpClient *http.Client
}

// emailJSRequest is the body expected by POST /api/v1.0/email/send
type emailJSRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	AccessToken    string            `json:"accessToken,omitempty"`
	TemplateParams map[string]string `json:"template_params"`
}

// NewEmailJSClient creates a client from the EmailJS configuration
func NewEmailJSClient(cfg *config.Config) *EmailJSClient {
	return &EmailJSClient{
		apiURL:     cfg.EmailJSAPIURL,
		serviceID:  cfg.EmailJSServiceID,
		templateID: cfg.EmailJSTemplateID,
		publicKey:  cfg.EmailJSPublicKey,
		privateKey: cfg.EmailJSPrivateKey,
		httpClient: &http.Client{Timeout: cfg.EmailTimeout},
	}
}

// SendContactEmail posts the template parameters {name, email, message}
func (c *EmailJSClient) SendContactEmail(ctx context.Context, data ContactEmailData) error {
	if !c.IsConfigured() {
		return ErrNotConfigured
	}

	payload, err := json.Marshal(emailJSRequest{
		ServiceID:   c.serviceID,
		TemplateID:  c.templateID,
		UserID:      c.publicKey,
		AccessToken: c.privateKey,
		TemplateParams: map[string]string{
			"name":    data.SenderName,
			"email":   data.SenderEmail,
			"message": data.Message,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to encode emailjs request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build emailjs request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("emailjs request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("emailjs returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// IsConfigured checks that the service, template and public key are set
func (c *EmailJSClient) IsConfigured() bool {
	return c.apiURL != "" && c.serviceID != "" && c.templateID != "" && c.publicKey != ""
}
