package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearWaitlistEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"WAITLIST_RELAY", "WAITLIST_DELIVERY", "WAITLIST_FORM_ENDPOINT", "WAITLIST_RELAY_TIMEOUT", "WAITLIST_RELAY_MAX_ATTEMPTS", "WAITLIST_NOTIFY_TO", "WAITLIST_NOTIFY_FROM", "AWS_REGION", "AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY", "CONTACT_EMAIL"} {
		t.Setenv(key, "")
	}
}

func TestNewWaitlistConfig_Defaults(t *testing.T) {
	clearWaitlistEnv(t)

	cfg := NewWaitlistConfig()
	assert.Equal(t, RelayFormspree, cfg.Relay)
	assert.Equal(t, DeliveryFireAndForget, cfg.Delivery)
	assert.Equal(t, "https://formspree.io/f/mblkendl", cfg.FormEndpoint)
	assert.Equal(t, 10*time.Second, cfg.RelayTimeout)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, "contact@noctura.ai", cfg.ContactEmail)
	assert.True(t, cfg.IsFireAndForget())
	require.NoError(t, cfg.Validate())
}

func TestNewWaitlistConfig_Acknowledged(t *testing.T) {
	clearWaitlistEnv(t)
	t.Setenv("WAITLIST_DELIVERY", "ACKNOWLEDGED")

	cfg := NewWaitlistConfig()
	assert.Equal(t, DeliveryAcknowledged, cfg.Delivery)
	assert.False(t, cfg.IsFireAndForget())
	assert.NoError(t, cfg.Validate())
}

func TestWaitlistConfig_Validate(t *testing.T) {
	base := func() *WaitlistConfig {
		return &WaitlistConfig{Relay: RelayFormspree, Delivery: DeliveryAcknowledged, FormEndpoint: DefaultFormEndpoint}
	}

	t.Run("unknown delivery", func(t *testing.T) {
		cfg := base()
		cfg.Delivery = "eventually"
		assert.ErrorContains(t, cfg.Validate(), "WAITLIST_DELIVERY")
	})

	t.Run("relative endpoint", func(t *testing.T) {
		cfg := base()
		cfg.FormEndpoint = "/f/abc"
		assert.ErrorContains(t, cfg.Validate(), "WAITLIST_FORM_ENDPOINT")
	})

	t.Run("ses missing settings", func(t *testing.T) {
		cfg := base()
		cfg.Relay = RelaySES
		cfg.NotifyTo = "team@noctura.ai"
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "WAITLIST_NOTIFY_FROM")
		assert.Contains(t, err.Error(), "AWS_ACCESS_KEY_ID")
		assert.NotContains(t, err.Error(), "WAITLIST_NOTIFY_TO")
	})

	t.Run("ses complete", func(t *testing.T) {
		cfg := base()
		cfg.Relay = RelaySES
		cfg.NotifyTo = "team@noctura.ai"
		cfg.NotifyFrom = "waitlist@noctura.ai"
		cfg.AWSAccessKeyID = "AKIA"
		cfg.AWSSecretAccessKey = "secret"
		assert.NoError(t, cfg.Validate())
	})

	t.Run("unknown relay", func(t *testing.T) {
		cfg := base()
		cfg.Relay = "carrier-pigeon"
		assert.ErrorContains(t, cfg.Validate(), "WAITLIST_RELAY")
	})
}
