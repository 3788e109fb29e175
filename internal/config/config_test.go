package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_RequiresQRSecret(t *testing.T) {
	t.Setenv("QR_TOKEN_SECRET", "")

	_, err := Load()
	assert.ErrorIs(t, err, ErrMissingQRSecret)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("QR_TOKEN_SECRET", "shared-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "attendance-token-service", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	assert.Equal(t, "shared-secret", cfg.QR.Secret)
	assert.Empty(t, cfg.QR.PreviousSecret)
	assert.Equal(t, 60*time.Second, cfg.QR.TokenTTL)
	assert.True(t, cfg.Janitor.Enabled)
	assert.Equal(t, 30, cfg.Limits.IssuePerMinute)
	assert.Equal(t, 120, cfg.Limits.VerifyPerMinute)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("QR_TOKEN_SECRET", "shared-secret")
	t.Setenv("QR_TOKEN_SECRET_PREVIOUS", "old-secret")
	t.Setenv("QR_TOKEN_TTL_SECONDS", "90")
	t.Setenv("RATE_LIMIT_ISSUE_PER_MINUTE", "5")
	t.Setenv("JANITOR_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "old-secret", cfg.QR.PreviousSecret)
	assert.Equal(t, 90*time.Second, cfg.QR.TokenTTL)
	assert.Equal(t, 5, cfg.Limits.IssuePerMinute)
	assert.False(t, cfg.Janitor.Enabled)
}
