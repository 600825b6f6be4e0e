package watchtx

import (
	"context"
	"fmt"
	"sync"
	"time"

	clientconfig "github.com/Andamio-Platform/andamio-sdk-go/client/config"
	"github.com/Andamio-Platform/andamio-sdk-go/types"
)

// Watcher polls the platform status endpoint for one transaction hash until
// a terminal state is observed. It is advanced tick by tick so the polling
// cadence can be driven (or bypassed entirely) by the caller.
type Watcher struct {
	querier      Querier
	backoff      Backoff
	maxTries     int
	watchTimeout time.Duration

	mu     sync.Mutex
	status types.TxStatus
	done   bool
}

// New creates a watcher based on the provided config and querier.
func New(cfg clientconfig.WatchTxConfig, querier Querier) (*Watcher, error) {
	if querier == nil {
		return nil, fmt.Errorf("querier is required")
	}

	normalized := cfg
	clientconfig.ApplyWatchTxDefaults(&normalized)

	return &Watcher{
		querier:      querier,
		backoff:      NewBackoff(normalized),
		maxTries:     normalized.PollMaxRetries,
		watchTimeout: normalized.WatchTimeout,
	}, nil
}

// Status returns the last polled status.
func (w *Watcher) Status() types.TxStatus {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

// IsSuccess reports whether the off-chain projection has applied the tx.
func (w *Watcher) IsSuccess() bool {
	return w.Status().Success()
}

// Tick performs a single status poll. The new status fully replaces the
// previous one. The first time a terminal state is observed, onComplete is
// invoked; further ticks never fire it again.
func (w *Watcher) Tick(ctx context.Context, txHash string, onComplete func(types.TxStatus)) (types.TxStatus, bool, error) {
	status, err := w.querier.TxStatus(ctx, txHash)
	if err != nil {
		return w.Status(), false, err
	}

	w.mu.Lock()
	w.status = status
	fire := status.Terminal() && !w.done
	if status.Terminal() {
		w.done = true
	}
	w.mu.Unlock()

	if fire && onComplete != nil {
		onComplete(status)
	}
	return status, status.Terminal(), nil
}

// Watch polls until the transaction reaches a terminal state or the context
// ends. An empty hash means there is nothing to watch: no poll is issued and
// the zero status is returned. Context cancellation stops polling without
// invoking onComplete.
func (w *Watcher) Watch(ctx context.Context, txHash string, onComplete func(types.TxStatus)) (types.TxStatus, error) {
	if txHash == "" {
		return types.TxStatus{}, nil
	}

	if w.watchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.watchTimeout)
		defer cancel()
	}

	attempt := 0
	var lastErr error
	for {
		select {
		case <-ctx.Done():
			return w.Status(), ctx.Err()
		default:
		}

		status, terminal, err := w.Tick(ctx, txHash, onComplete)
		if err != nil {
			if ctx.Err() != nil {
				return w.Status(), ctx.Err()
			}
			lastErr = err
		} else if terminal {
			return status, nil
		}

		attempt++
		if w.maxTries > 0 && attempt >= w.maxTries {
			if lastErr != nil {
				return w.Status(), fmt.Errorf("status polling exhausted after %d attempts (last error: %v): %w", attempt, lastErr, types.ErrTimeout)
			}
			return w.Status(), fmt.Errorf("status polling exhausted after %d attempts: %w", attempt, types.ErrTimeout)
		}

		select {
		case <-ctx.Done():
			return w.Status(), ctx.Err()
		case <-sleepCtx(ctx, w.backoff.Next(attempt)):
		}
	}
}
