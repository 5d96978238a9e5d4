package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 8085, cfg.Server.Port)
	assert.Equal(t, "http", cfg.Dispatch.Provider)
	assert.Equal(t, "/v1/dispatch", cfg.Dispatch.Path)
	assert.Equal(t, 30*time.Second, cfg.Dispatch.Timeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Redaction)
	assert.Equal(t, "0 4 * * *", cfg.Refresh.TenantCacheCron)
	assert.Equal(t, 5*time.Minute, cfg.Tenant.CacheTTL)
}

func TestConfig_StringRedactsSecrets(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Dispatch.APIKey = "sk-super-secret"
	cfg.Server.SharedSecret = "hunter2"

	printed := cfg.String()

	assert.NotContains(t, printed, "sk-super-secret")
	assert.NotContains(t, printed, "hunter2")
	assert.Contains(t, printed, "[REDACTED]")

	// Redaction must not mutate the original.
	assert.Equal(t, "sk-super-secret", cfg.Dispatch.APIKey)
}
