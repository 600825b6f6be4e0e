package tx

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Andamio-Platform/andamio-sdk-go/api"
	"github.com/Andamio-Platform/andamio-sdk-go/explorer"
	"github.com/Andamio-Platform/andamio-sdk-go/types"
)

// State is the executor's position within one transaction attempt.
type State string

const (
	StateIdle       State = "idle"
	StateFetching   State = "fetching"
	StateSigning    State = "signing"
	StateSubmitting State = "submitting"
	StateSuccess    State = "success"
	StateError      State = "error"
)

// Terminal reports whether the attempt has finished.
func (s State) Terminal() bool {
	return s == StateSuccess || s == StateError
}

// Requester issues authenticated platform API calls.
type Requester interface {
	Do(ctx context.Context, ep api.Endpoint, params map[string]any) (json.RawMessage, error)
}

// Callbacks receive the attempt outcome. Exactly one of the two is invoked
// per attempt; both are optional.
type Callbacks struct {
	OnSuccess func(ctx context.Context, result *Result)
	OnError   func(ctx context.Context, err error)
}

// Executor drives a single transaction attempt through
// build -> sign -> submit. Steps are strictly sequential, nothing is retried
// automatically, and every failure is terminal for the attempt: the caller
// retries by calling Reset and Execute again.
type Executor struct {
	api     Requester
	wallet  Wallet
	network string
	logger  *zap.Logger

	mu        sync.Mutex
	state     State
	result    *Result
	err       error
	attemptID string
}

// NewExecutor creates an executor bound to a wallet and network.
func NewExecutor(requester Requester, wallet Wallet, network string, logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{
		api:     requester,
		wallet:  wallet,
		network: network,
		logger:  logger,
		state:   StateIdle,
	}
}

// State returns the current attempt state.
func (e *Executor) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Result returns the outcome of a successful attempt, nil otherwise.
func (e *Executor) Result() *Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.result
}

// Err returns the terminal error of a failed attempt, nil otherwise.
func (e *Executor) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

// Reset returns the executor to idle. Only valid once the attempt has
// reached success or error; the next Execute starts a fully independent
// attempt with no residual result or error.
func (e *Executor) Reset() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.state.Terminal() {
		return types.ErrNotTerminal
	}
	e.state = StateIdle
	e.result = nil
	e.err = nil
	e.attemptID = ""
	return nil
}

// Execute drives one attempt for the given descriptor and build parameters.
// It returns the result alongside invoking the matching callback, so callers
// may use either style.
func (e *Executor) Execute(ctx context.Context, desc Descriptor, params map[string]any, cb Callbacks) (*Result, error) {
	e.mu.Lock()
	switch {
	case e.state == StateIdle:
	case e.state.Terminal():
		e.mu.Unlock()
		return nil, types.ErrNotReset
	default:
		e.mu.Unlock()
		return nil, types.ErrAttemptInFlight
	}
	e.attemptID = uuid.NewString()
	attempt := e.attemptID
	e.mu.Unlock()

	logger := e.logger.With(
		zap.String("attempt_id", attempt),
		zap.String("tx_type", desc.Type),
	)

	if e.wallet == nil || !e.wallet.Connected() {
		return nil, e.fail(ctx, logger, cb, types.ErrWalletNotConnected)
	}

	e.setState(logger, StateFetching)
	raw, err := e.api.Do(ctx, desc.Build, params)
	if err != nil {
		return nil, e.fail(ctx, logger, cb, err)
	}

	var build map[string]any
	if err := json.Unmarshal(raw, &build); err != nil {
		return nil, e.fail(ctx, logger, cb, fmt.Errorf("decode build response: %w", err))
	}
	unsigned, _ := build["unsigned"].(string)
	if unsigned == "" {
		// Backend contract violation, not a retryable condition.
		return nil, e.fail(ctx, logger, cb, fmt.Errorf("build response missing unsigned transaction payload"))
	}

	e.setState(logger, StateSigning)
	signed, err := e.wallet.SignTx(ctx, unsigned)
	if err != nil {
		return nil, e.fail(ctx, logger, cb, err)
	}

	e.setState(logger, StateSubmitting)
	txHash, err := e.wallet.SubmitTx(ctx, signed)
	if err != nil {
		return nil, e.fail(ctx, logger, cb, err)
	}

	result := &Result{
		TxHash:      txHash,
		ExplorerURL: explorer.TxURL(e.network, txHash),
		Build:       build,
	}

	e.mu.Lock()
	e.state = StateSuccess
	e.result = result
	e.mu.Unlock()
	logger.Info("transaction submitted", zap.String("tx_hash", txHash))

	if cb.OnSuccess != nil {
		cb.OnSuccess(ctx, result)
	}
	return result, nil
}

func (e *Executor) setState(logger *zap.Logger, s State) {
	e.mu.Lock()
	e.state = s
	e.mu.Unlock()
	logger.Debug("state transition", zap.String("state", string(s)))
}

func (e *Executor) fail(ctx context.Context, logger *zap.Logger, cb Callbacks, err error) error {
	e.mu.Lock()
	e.state = StateError
	e.err = err
	e.mu.Unlock()
	logger.Warn("transaction attempt failed", zap.Error(err))

	if cb.OnError != nil {
		cb.OnError(ctx, err)
	}
	return err
}
