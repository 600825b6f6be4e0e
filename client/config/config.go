package config

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Andamio-Platform/andamio-sdk-go/api"
)

// Config holds all configuration for the Andamio client.
type Config struct {
	// Network selects the Cardano network ("mainnet", "preprod", "preview").
	// It drives explorer URL construction and is process-wide.
	Network string

	// APIBaseURL is the platform API base URL (build, status and
	// side-effect endpoints all live under it).
	APIBaseURL string

	// StatusPath is the polled tx status endpoint path.
	StatusPath string

	// APITimeout bounds each individual HTTP call.
	APITimeout time.Duration

	// WatchTx controls transaction confirmation behaviour.
	WatchTx WatchTxConfig

	// Tokens supplies the caller's identity token. Owned and refreshed by
	// the caller; the SDK only attaches it.
	Tokens api.TokenSource

	// Logger is optional; when set, SDK operations emit diagnostics.
	Logger *zap.Logger
}

// WatchTxConfig configures how the SDK waits for transaction confirmation.
type WatchTxConfig struct {
	// PollInterval controls how frequently the status endpoint is queried.
	PollInterval time.Duration
	// PollMaxRetries limits the number of poll attempts before failing (0 => unlimited until ctx deadline).
	PollMaxRetries int
	// PollBackoffMultiplier > 1 enables exponential growth for poll intervals.
	PollBackoffMultiplier float64
	// PollBackoffMaxInterval caps the exponential backoff delay (0 => unlimited).
	PollBackoffMaxInterval time.Duration
	// PollBackoffJitter randomizes delays (0..1) to avoid synced retries.
	PollBackoffJitter float64
	// WatchTimeout bounds one whole watch as a client-side guard; the server
	// still owns the authoritative "expired" window (0 => no client bound).
	WatchTimeout time.Duration
}

// Validate checks if the configuration is valid and populates defaults.
func (c *Config) Validate() error {
	if c.Network == "" {
		return fmt.Errorf("network is required")
	}
	if c.APIBaseURL == "" {
		return fmt.Errorf("api_base_url is required")
	}

	// Set defaults
	if c.StatusPath == "" {
		c.StatusPath = "/tx/status"
	}
	if c.APITimeout == 0 {
		c.APITimeout = 30 * time.Second
	}
	ApplyWatchTxDefaults(&c.WatchTx)

	return nil
}

// Default returns a configuration with sensible defaults for preprod.
func Default() Config {
	return Config{
		Network:    "preprod",
		APIBaseURL: "http://localhost:8080",
		StatusPath: "/tx/status",
		APITimeout: 30 * time.Second,
		WatchTx:    DefaultWatchTxConfig(),
	}
}

// DefaultWatchTxConfig returns recommended defaults for watch-tx behaviour.
func DefaultWatchTxConfig() WatchTxConfig {
	return WatchTxConfig{
		PollInterval:           2 * time.Second,
		PollMaxRetries:         90,
		PollBackoffMultiplier:  1.5,
		PollBackoffMaxInterval: 20 * time.Second,
		PollBackoffJitter:      0,
		WatchTimeout:           10 * time.Minute,
	}
}

// ApplyWatchTxDefaults normalizes zero or negative values using defaults.
func ApplyWatchTxDefaults(cfg *WatchTxConfig) {
	if cfg == nil {
		return
	}
	def := DefaultWatchTxConfig()

	if cfg.PollInterval <= 0 {
		cfg.PollInterval = def.PollInterval
	}
	if cfg.PollBackoffMultiplier <= 0 {
		cfg.PollBackoffMultiplier = def.PollBackoffMultiplier
	}
	if cfg.PollBackoffMaxInterval <= 0 {
		cfg.PollBackoffMaxInterval = def.PollBackoffMaxInterval
	}
	if cfg.PollBackoffJitter < 0 {
		cfg.PollBackoffJitter = 0
	}
	if cfg.WatchTimeout < 0 {
		cfg.WatchTimeout = 0
	}
}
