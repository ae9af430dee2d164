package core

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Environment selects which WOO X deployment the client talks to.
// Production and staging use distinct base URLs and distinct credentials.
type Environment int

const (
	// EnvProduction targets the live exchange.
	EnvProduction Environment = iota
	// EnvStaging targets the staging deployment.
	EnvStaging
)

// String returns the string representation of the environment.
func (e Environment) String() string {
	return [...]string{"production", "staging"}[e]
}

// Credentials holds API authentication credentials.
// The secret is kept as raw bytes end-to-end; Credentials never exposes it
// through String or log output.
type Credentials struct {
	// APIKey is the public API key identifier, sent as the x-api-key header.
	APIKey string
	// Secret is the shared signing secret. It is read-only after
	// construction and safe to share across goroutines.
	Secret []byte
	// ApplicationID identifies the account on the websocket push endpoint.
	ApplicationID string
}

// String returns a masked rendering that never reveals key material.
func (c Credentials) String() string {
	return "Credentials{APIKey:" + maskKey(c.APIKey) + "}"
}

func maskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "****" + key[len(key)-4:]
}

// Config contains all configuration options for a client.
type Config struct {
	Env         Environment  `json:"env"`
	Credentials *Credentials `json:"-"`

	// Timeout is the maximum duration for HTTP requests.
	Timeout      time.Duration `json:"timeout" validate:"min=1ms"`
	MaxRetries   int           `json:"max_retries" validate:"min=0"`
	RetryWaitMin time.Duration `json:"retry_wait_min" validate:"min=0"`
	RetryWaitMax time.Duration `json:"retry_wait_max" validate:"min=0"`

	RateLimitRequests int           `json:"rate_limit_requests" validate:"min=1"`
	RateLimitOrders   int           `json:"rate_limit_orders" validate:"min=1"`
	RateLimitPeriod   time.Duration `json:"rate_limit_period" validate:"min=1ms"`

	CircuitBreakerEnabled          bool          `json:"circuit_breaker_enabled"`
	CircuitBreakerFailThreshold    int           `json:"circuit_breaker_fail_threshold" validate:"min=0"`
	CircuitBreakerSuccessThreshold int           `json:"circuit_breaker_success_threshold" validate:"min=0"`
	CircuitBreakerTimeout          time.Duration `json:"circuit_breaker_timeout" validate:"min=0"`

	LogLevel string `json:"log_level" validate:"omitempty,oneof=debug info warn error"`
}

// DefaultConfig returns a Config with sensible defaults for the given
// environment: 10s timeout, no retries on mutating transports beyond resty's
// single attempt, 10 req/s general and 5 req/s order rate limits, circuit
// breaker with 5 failures / 2 successes / 30s timeout.
func DefaultConfig(env Environment) *Config {
	return &Config{
		Env:          env,
		Timeout:      10 * time.Second,
		MaxRetries:   0,
		RetryWaitMin: 100 * time.Millisecond,
		RetryWaitMax: 1 * time.Second,

		RateLimitRequests: 10,
		RateLimitOrders:   5,
		RateLimitPeriod:   time.Second,

		CircuitBreakerEnabled:          true,
		CircuitBreakerFailThreshold:    5,
		CircuitBreakerSuccessThreshold: 2,
		CircuitBreakerTimeout:          30 * time.Second,

		LogLevel: "info",
	}
}

var validate = validator.New()

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	return validate.Struct(c)
}

// WithCredentials sets the API credentials and returns the config for chaining.
func (c *Config) WithCredentials(creds *Credentials) *Config {
	c.Credentials = creds
	return c
}

// WithTimeout sets the request timeout and returns the config for chaining.
func (c *Config) WithTimeout(timeout time.Duration) *Config {
	c.Timeout = timeout
	return c
}

// WithRateLimit sets the rate limiting parameters and returns the config for chaining.
func (c *Config) WithRateLimit(requests, orders int, period time.Duration) *Config {
	c.RateLimitRequests = requests
	c.RateLimitOrders = orders
	c.RateLimitPeriod = period
	return c
}

// WithRetry sets the transport retry parameters and returns the config for chaining.
func (c *Config) WithRetry(max int, waitMin, waitMax time.Duration) *Config {
	c.MaxRetries = max
	c.RetryWaitMin = waitMin
	c.RetryWaitMax = waitMax
	return c
}
