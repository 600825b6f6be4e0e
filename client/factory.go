package client

import (
	"fmt"

	"github.com/Andamio-Platform/andamio-sdk-go/api"
	"github.com/Andamio-Platform/andamio-sdk-go/tx"
)

// Factory keeps a base configuration so callers can easily create per-wallet
// clients without re-specifying shared settings.
type Factory struct {
	baseCfg Config
	opts    []Option
}

// NewFactory captures the shared configuration. The base config may omit
// Tokens; they are supplied when creating wallet-specific clients.
func NewFactory(cfg Config, opts ...Option) *Factory {
	return &Factory{
		baseCfg: cfg,
		opts:    append([]Option{}, opts...),
	}
}

// WithWallet returns a Client bound to the provided wallet and token source.
// Extra options override/extend the factory defaults for this instance.
func (f *Factory) WithWallet(wallet tx.Wallet, tokens api.TokenSource, extraOpts ...Option) (*Client, error) {
	if wallet == nil {
		return nil, fmt.Errorf("wallet is required")
	}

	cfg := f.baseCfg
	cfg.Tokens = tokens

	opts := append([]Option{}, f.opts...)
	opts = append(opts, extraOpts...)

	return New(cfg, wallet, opts...)
}
