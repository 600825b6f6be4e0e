package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/Andamio-Platform/andamio-sdk-go/api"
	"github.com/Andamio-Platform/andamio-sdk-go/effects"
	"github.com/Andamio-Platform/andamio-sdk-go/internal/watchtx"
	sdklog "github.com/Andamio-Platform/andamio-sdk-go/pkg/log"
	"github.com/Andamio-Platform/andamio-sdk-go/tx"
	"github.com/Andamio-Platform/andamio-sdk-go/types"
)

// Client provides unified access to the Andamio transaction pipeline
type Client struct {
	// High-level modules
	API     *api.Client
	Tx      *tx.Executor
	Effects *effects.Runner

	// Configuration
	config *Config
	logger *zap.Logger
}

// New creates a new unified Andamio client bound to a wallet
func New(cfg Config, wallet tx.Wallet, opts ...Option) (*Client, error) {
	// Apply options
	for _, opt := range opts {
		opt(&cfg)
	}

	// Validate config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	apiClient, err := api.New(api.Config{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.APITimeout,
		Tokens:  cfg.Tokens,
		Logger:  sdklog.NewZapPrintf(logger),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize api client: %w", err)
	}

	return &Client{
		API:     apiClient,
		Tx:      tx.NewExecutor(apiClient, wallet, cfg.Network, logger),
		Effects: effects.NewRunner(apiClient, logger),
		config:  &cfg,
		logger:  logger,
	}, nil
}

// WatchTx polls the platform status endpoint until the transaction reaches a
// terminal state, invoking onComplete exactly once when it does. An empty
// hash means nothing is watched.
func (c *Client) WatchTx(ctx context.Context, txHash string, onComplete func(types.TxStatus)) (types.TxStatus, error) {
	watcher, err := watchtx.New(c.config.WatchTx, statusQuerier{api: c.API, path: c.config.StatusPath})
	if err != nil {
		return types.TxStatus{}, fmt.Errorf("init watcher: %w", err)
	}
	return watcher.Watch(ctx, txHash, onComplete)
}

// SettleResult reconciles the two independent post-submission signals for
// one transaction: ledger/projection confirmation and the off-chain mirror.
type SettleResult struct {
	Status  types.TxStatus
	Effects effects.RunResult
}

// Settle runs the descriptor's side effects and watches confirmation
// concurrently for a submitted transaction. The two do not share state;
// side-effect failures never surface as errors, only in the result.
func (c *Client) Settle(ctx context.Context, desc tx.Descriptor, result *tx.Result, ec effects.Context) (SettleResult, error) {
	if result == nil {
		return SettleResult{}, fmt.Errorf("result is required")
	}

	var (
		settled  SettleResult
		watchErr error
		wg       sync.WaitGroup
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		settled.Effects = c.Effects.Run(ctx, desc.SideEffects, ec)
	}()

	settled.Status, watchErr = c.WatchTx(ctx, result.TxHash, nil)
	wg.Wait()

	if watchErr != nil {
		return settled, fmt.Errorf("watch tx %s: %w", result.TxHash, watchErr)
	}
	return settled, nil
}

// Close releases all resources
func (c *Client) Close() error {
	var errs *multierror.Error

	if c.API != nil {
		c.API.Close()
	}
	if c.logger != nil {
		if err := c.logger.Sync(); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("logger sync: %w", err))
		}
	}

	return errs.ErrorOrNil()
}

// Config returns the client configuration
func (c *Client) Config() Config {
	return *c.config
}

// statusQuerier adapts the platform API to the watcher's querier seam.
type statusQuerier struct {
	api  *api.Client
	path string
}

func (q statusQuerier) TxStatus(ctx context.Context, txHash string) (types.TxStatus, error) {
	raw, err := q.api.Do(ctx, api.Endpoint{Method: http.MethodGet, Path: q.path}, map[string]any{
		"tx_hash": txHash,
	})
	if err != nil {
		return types.TxStatus{}, err
	}
	var status types.TxStatus
	if err := json.Unmarshal(raw, &status); err != nil {
		return types.TxStatus{}, fmt.Errorf("decode tx status: %w", err)
	}
	return status, nil
}
