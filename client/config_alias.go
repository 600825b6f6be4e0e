package client

import clientconfig "github.com/Andamio-Platform/andamio-sdk-go/client/config"

// Config re-exports the config.Config type for convenience.
type Config = clientconfig.Config

// WatchTxConfig re-exports the watch-tx config type for convenience.
type WatchTxConfig = clientconfig.WatchTxConfig

// DefaultConfig mirrors config.Default.
func DefaultConfig() Config {
	return clientconfig.Default()
}

// DefaultWatchTxConfig mirrors config.DefaultWatchTxConfig.
func DefaultWatchTxConfig() WatchTxConfig {
	return clientconfig.DefaultWatchTxConfig()
}

// ApplyWatchTxDefaults mirrors config.ApplyWatchTxDefaults.
func ApplyWatchTxDefaults(cfg *WatchTxConfig) {
	clientconfig.ApplyWatchTxDefaults(cfg)
}

// LoadConfig mirrors config.Load.
func LoadConfig(path string) (Config, error) {
	return clientconfig.Load(path)
}
