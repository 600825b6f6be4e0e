package client

import (
	"time"

	"go.uber.org/zap"

	"github.com/Andamio-Platform/andamio-sdk-go/api"
)

// Option is a function that modifies Config
type Option func(*Config)

// WithNetwork sets the Cardano network
func WithNetwork(network string) Option {
	return func(c *Config) {
		c.Network = network
	}
}

// WithAPIBaseURL sets the platform API base URL
func WithAPIBaseURL(baseURL string) Option {
	return func(c *Config) {
		c.APIBaseURL = baseURL
	}
}

// WithStatusPath sets the tx status endpoint path
func WithStatusPath(path string) Option {
	return func(c *Config) {
		c.StatusPath = path
	}
}

// WithAPITimeout sets the per-request HTTP timeout
func WithAPITimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.APITimeout = timeout
	}
}

// WithWatchTx sets the confirmation watch tuning
func WithWatchTx(cfg WatchTxConfig) Option {
	return func(c *Config) {
		c.WatchTx = cfg
	}
}

// WithTokens sets the identity token capability
func WithTokens(tokens api.TokenSource) Option {
	return func(c *Config) {
		c.Tokens = tokens
	}
}

// WithLogger sets the structured logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}
