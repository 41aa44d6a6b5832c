package config_test

import (
	"testing"
	"time"

	"portfolio-backend/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("FRONTEND_URL", "https://example.dev/")
	t.Setenv("EMAIL_PROVIDER", "EmailJS")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "https://example.dev", cfg.FrontendURL)
	assert.Equal(t, []string{"https://example.dev"}, cfg.AllowedOrigins)
	assert.Equal(t, config.EmailProviderEmailJS, cfg.EmailProvider)
	assert.Equal(t, 3*time.Second, cfg.SuccessResetDelay)
	assert.Equal(t, 30*time.Minute, cfg.SessionIdleTimeout)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "https://a.dev/, ,https://b.dev")
	t.Setenv("SUCCESS_RESET_SECONDS", "5")
	t.Setenv("SUBMIT_WAIT_SECONDS", "not-a-number")
	t.Setenv("RATE_LIMIT_CONTACT_THRESHOLD", "2")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, []string{"https://a.dev", "https://b.dev"}, cfg.AllowedOrigins)
	assert.Equal(t, 5*time.Second, cfg.SuccessResetDelay)
	assert.Equal(t, 15*time.Second, cfg.SubmitWaitTimeout)
	assert.Equal(t, 2, cfg.RateLimitContactThreshold)
}
