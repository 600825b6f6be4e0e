package watchtx

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Andamio-Platform/andamio-sdk-go/types"
)

type scriptedQuerier struct {
	statuses []types.TxStatus
	err      error
	calls    int
}

func (s *scriptedQuerier) TxStatus(ctx context.Context, txHash string) (types.TxStatus, error) {
	s.calls++
	if s.err != nil {
		return types.TxStatus{}, s.err
	}
	idx := s.calls - 1
	if idx >= len(s.statuses) {
		idx = len(s.statuses) - 1
	}
	return s.statuses[idx], nil
}

func newTestWatcher(q Querier, maxTries int) *Watcher {
	return &Watcher{
		querier:  q,
		backoff:  constantBackoff{every: time.Millisecond},
		maxTries: maxTries,
	}
}

func TestWatchProgressesToUpdated(t *testing.T) {
	q := &scriptedQuerier{statuses: []types.TxStatus{
		{State: types.TxPending},
		{State: types.TxConfirmed},
		{State: types.TxUpdated},
	}}
	w := newTestWatcher(q, 0)

	var completions []types.TxStatus
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	status, err := w.Watch(ctx, "hash", func(s types.TxStatus) {
		completions = append(completions, s)
	})
	if err != nil {
		t.Fatalf("watch error: %v", err)
	}
	if status.State != types.TxUpdated {
		t.Fatalf("unexpected final state: %s", status.State)
	}
	if q.calls != 3 {
		t.Fatalf("expected 3 polls, got %d", q.calls)
	}
	if len(completions) != 1 || completions[0].State != types.TxUpdated {
		t.Fatalf("onComplete should fire once with the updated status: %+v", completions)
	}
	if !w.IsSuccess() {
		t.Fatalf("success should be reported after projection applied")
	}
}

func TestTickIdempotentAfterTerminal(t *testing.T) {
	q := &scriptedQuerier{statuses: []types.TxStatus{{State: types.TxUpdated}}}
	w := newTestWatcher(q, 0)

	fired := 0
	onComplete := func(types.TxStatus) { fired++ }

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, terminal, err := w.Tick(ctx, "hash", onComplete); err != nil || !terminal {
			t.Fatalf("tick %d: terminal=%v err=%v", i, terminal, err)
		}
	}
	if fired != 1 {
		t.Fatalf("onComplete fired %d times", fired)
	}
}

func TestWatchEmptyHashDoesNothing(t *testing.T) {
	q := &scriptedQuerier{statuses: []types.TxStatus{{State: types.TxUpdated}}}
	w := newTestWatcher(q, 0)

	status, err := w.Watch(context.Background(), "", func(types.TxStatus) {
		t.Fatalf("onComplete must not fire without a hash")
	})
	if err != nil {
		t.Fatalf("watch error: %v", err)
	}
	if q.calls != 0 {
		t.Fatalf("no polls expected, got %d", q.calls)
	}
	if status.Terminal() || status.State != "" {
		t.Fatalf("status should stay zero: %+v", status)
	}
}

func TestWatchReportsFailureWithLastError(t *testing.T) {
	q := &scriptedQuerier{statuses: []types.TxStatus{
		{State: types.TxPending},
		{State: types.TxFailed, LastError: "script evaluation failed"},
	}}
	w := newTestWatcher(q, 0)

	var completed types.TxStatus
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	status, err := w.Watch(ctx, "hash", func(s types.TxStatus) { completed = s })
	if err != nil {
		t.Fatalf("watch error: %v", err)
	}
	if status.State != types.TxFailed || status.LastError != "script evaluation failed" {
		t.Fatalf("unexpected status: %+v", status)
	}
	if completed.State != types.TxFailed {
		t.Fatalf("terminal failure must reach onComplete: %+v", completed)
	}
	if w.IsSuccess() {
		t.Fatalf("failed tx must not report success")
	}
}

func TestWatchExpiredIsTerminal(t *testing.T) {
	q := &scriptedQuerier{statuses: []types.TxStatus{{State: types.TxExpired, LastError: "confirmation window elapsed"}}}
	w := newTestWatcher(q, 0)

	status, err := w.Watch(context.Background(), "hash", nil)
	if err != nil {
		t.Fatalf("watch error: %v", err)
	}
	if status.State != types.TxExpired {
		t.Fatalf("unexpected status: %+v", status)
	}
}

func TestWatchStopsAfterMaxRetries(t *testing.T) {
	q := &scriptedQuerier{err: errors.New("unavailable")}
	w := newTestWatcher(q, 3)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if _, err := w.Watch(ctx, "hash", nil); !errors.Is(err, types.ErrTimeout) {
		t.Fatalf("expected exhaustion error, got %v", err)
	}
	if q.calls != 3 {
		t.Fatalf("expected 3 polls, got %d", q.calls)
	}
}

func TestWatchCancellationSuppressesCallback(t *testing.T) {
	q := &scriptedQuerier{statuses: []types.TxStatus{{State: types.TxPending}}}
	w := newTestWatcher(q, 0)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(5 * time.Millisecond)
		cancel()
	}()

	_, err := w.Watch(ctx, "hash", func(types.TxStatus) {
		t.Errorf("onComplete must not fire after teardown")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
}

func TestNewRequiresQuerier(t *testing.T) {
	if _, err := New(clientWatchDefaults(), nil); err == nil {
		t.Fatalf("expected error for nil querier")
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	q := &scriptedQuerier{statuses: []types.TxStatus{{State: types.TxUpdated}}}
	w, err := New(clientWatchDefaults(), q)
	if err != nil {
		t.Fatalf("new error: %v", err)
	}
	if w.maxTries == 0 {
		// Defaults carry a retry bound so an unreachable backend cannot spin forever.
		t.Fatalf("expected default poll retry bound")
	}
}
