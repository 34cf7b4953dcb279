package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PROPOSAL_TTL_DAYS", "")
	t.Setenv("ADMIN_EMAILS", "")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 30*24*time.Hour, cfg.ProposalTTL)
	assert.Equal(t, 5, cfg.NotifyMaxTry)
	assert.Empty(t, cfg.AdminEmails)
	assert.Empty(t, cfg.FallbackIndustry)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SITE_URL", "https://agency.test/")
	t.Setenv("ADMIN_EMAILS", "owner@agency.test, ,ops@agency.test")
	t.Setenv("PROPOSAL_TTL_DAYS", "14")
	t.Setenv("NOTIFY_RETRY_DELAY", "1m")
	t.Setenv("SECURE_COOKIES", "false")
	t.Setenv("SMTP_PORT", "not-a-number")

	cfg := Load()

	assert.Equal(t, "https://agency.test", cfg.SiteURL)
	assert.Equal(t, []string{"owner@agency.test", "ops@agency.test"}, cfg.AdminEmails)
	assert.Equal(t, 14*24*time.Hour, cfg.ProposalTTL)
	assert.Equal(t, time.Minute, cfg.RetryDelay)
	assert.False(t, cfg.SecureCookies)
	assert.Equal(t, 587, cfg.SMTPPort)
}
