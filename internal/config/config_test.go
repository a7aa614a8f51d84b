package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Host)
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.Equal(t, 10*time.Second, cfg.Fulfillment.LockWait)
	assert.Equal(t, 15*time.Second, cfg.Fulfillment.TxTimeout)
	assert.Equal(t, 7, cfg.LowStock.Hour)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/procurement_test")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("EMAIL_ENABLED", "true")
	t.Setenv("NOTIFY_EMAILS", "ops@city.gov,stores@city.gov")
	t.Setenv("FULFILL_TX_TIMEOUT", "30s")
	t.Setenv("LOW_STOCK_HOUR", "6")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/procurement_test", cfg.Database.URL)
	assert.Equal(t, "test-secret", cfg.JWT.Secret)
	assert.True(t, cfg.Notifications.Enabled)
	assert.Equal(t, "ops@city.gov,stores@city.gov", cfg.Notifications.Recipients)
	assert.Equal(t, 30*time.Second, cfg.Fulfillment.TxTimeout)
	assert.Equal(t, 6, cfg.LowStock.Hour)
}
