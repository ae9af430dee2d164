package core

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig(EnvStaging)

	assert.Equal(t, EnvStaging, config.Env)
	assert.Nil(t, config.Credentials)
	assert.Equal(t, 10*time.Second, config.Timeout)
	assert.Equal(t, 0, config.MaxRetries)
	assert.Equal(t, 100*time.Millisecond, config.RetryWaitMin)
	assert.Equal(t, 1*time.Second, config.RetryWaitMax)
	assert.Equal(t, 10, config.RateLimitRequests)
	assert.Equal(t, 5, config.RateLimitOrders)
	assert.Equal(t, time.Second, config.RateLimitPeriod)
	assert.True(t, config.CircuitBreakerEnabled)
	assert.Equal(t, 5, config.CircuitBreakerFailThreshold)
	assert.Equal(t, 2, config.CircuitBreakerSuccessThreshold)
	assert.Equal(t, 30*time.Second, config.CircuitBreakerTimeout)
	assert.Equal(t, "info", config.LogLevel)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(*Config) {}, false},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, true},
		{"negative retries", func(c *Config) { c.MaxRetries = -1 }, true},
		{"zero rate limit", func(c *Config) { c.RateLimitRequests = 0 }, true},
		{"zero order rate limit", func(c *Config) { c.RateLimitOrders = 0 }, true},
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }, true},
		{"empty log level ok", func(c *Config) { c.LogLevel = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig(EnvProduction)
			tt.mutate(config)
			err := config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_Chaining(t *testing.T) {
	creds := &Credentials{APIKey: "key", Secret: []byte("secret")}
	config := DefaultConfig(EnvProduction).
		WithCredentials(creds).
		WithTimeout(5 * time.Second).
		WithRateLimit(100, 20, time.Minute).
		WithRetry(3, 50*time.Millisecond, 2*time.Second)

	assert.Same(t, creds, config.Credentials)
	assert.Equal(t, 5*time.Second, config.Timeout)
	assert.Equal(t, 100, config.RateLimitRequests)
	assert.Equal(t, 20, config.RateLimitOrders)
	assert.Equal(t, time.Minute, config.RateLimitPeriod)
	assert.Equal(t, 3, config.MaxRetries)
}

func TestEnvironment_String(t *testing.T) {
	assert.Equal(t, "production", EnvProduction.String())
	assert.Equal(t, "staging", EnvStaging.String())
}

func TestCredentials_NeverRevealsSecret(t *testing.T) {
	creds := Credentials{
		APIKey: "abcdefghijklmnop",
		Secret: []byte("QHKRXHPAW1MC9YGZMAT8YDJG2HPR"),
	}

	rendered := fmt.Sprintf("%v %s", creds, creds)
	assert.NotContains(t, rendered, "QHKRXHPAW1MC9YGZMAT8YDJG2HPR")
	assert.NotContains(t, rendered, "abcdefghijklmnop")
	assert.Contains(t, rendered, "abcd****mnop")

	require.NotPanics(t, func() { _ = creds.String() })
	assert.Equal(t, "Credentials{APIKey:****}", Credentials{APIKey: "short"}.String())
}
