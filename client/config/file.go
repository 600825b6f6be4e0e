package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors Config for YAML decoding. Durations are written as
// strings ("5s", "2m"); pointers distinguish "absent" from zero so unset
// keys keep their defaults.
type fileConfig struct {
	Network    *string     `yaml:"network"`
	APIBaseURL *string     `yaml:"api_base_url"`
	StatusPath *string     `yaml:"status_path"`
	APITimeout *string     `yaml:"api_timeout"`
	WatchTx    fileWatchTx `yaml:"watch_tx"`
}

type fileWatchTx struct {
	PollInterval           *string  `yaml:"poll_interval"`
	PollMaxRetries         *int     `yaml:"poll_max_retries"`
	PollBackoffMultiplier  *float64 `yaml:"poll_backoff_multiplier"`
	PollBackoffMaxInterval *string  `yaml:"poll_backoff_max_interval"`
	PollBackoffJitter      *float64 `yaml:"poll_backoff_jitter"`
	WatchTimeout           *string  `yaml:"watch_timeout"`
}

// Load reads a YAML configuration file on top of the defaults. Keys absent
// from the file keep their default values; Validate still applies.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %q: %w", path, err)
	}

	var file fileConfig
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return Config{}, fmt.Errorf("parse config %q: %w", path, err)
	}

	cfg := Default()
	if file.Network != nil {
		cfg.Network = *file.Network
	}
	if file.APIBaseURL != nil {
		cfg.APIBaseURL = *file.APIBaseURL
	}
	if file.StatusPath != nil {
		cfg.StatusPath = *file.StatusPath
	}
	if err := applyDuration(&cfg.APITimeout, file.APITimeout); err != nil {
		return Config{}, fmt.Errorf("config %q: api_timeout: %w", path, err)
	}

	w := &cfg.WatchTx
	if err := applyDuration(&w.PollInterval, file.WatchTx.PollInterval); err != nil {
		return Config{}, fmt.Errorf("config %q: poll_interval: %w", path, err)
	}
	if file.WatchTx.PollMaxRetries != nil {
		w.PollMaxRetries = *file.WatchTx.PollMaxRetries
	}
	if file.WatchTx.PollBackoffMultiplier != nil {
		w.PollBackoffMultiplier = *file.WatchTx.PollBackoffMultiplier
	}
	if err := applyDuration(&w.PollBackoffMaxInterval, file.WatchTx.PollBackoffMaxInterval); err != nil {
		return Config{}, fmt.Errorf("config %q: poll_backoff_max_interval: %w", path, err)
	}
	if file.WatchTx.PollBackoffJitter != nil {
		w.PollBackoffJitter = *file.WatchTx.PollBackoffJitter
	}
	if err := applyDuration(&w.WatchTimeout, file.WatchTx.WatchTimeout); err != nil {
		return Config{}, fmt.Errorf("config %q: watch_timeout: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validate config %q: %w", path, err)
	}
	return cfg, nil
}

func applyDuration(dst *time.Duration, raw *string) error {
	if raw == nil {
		return nil
	}
	d, err := time.ParseDuration(*raw)
	if err != nil {
		return err
	}
	*dst = d
	return nil
}
