package watchtx

import (
	"context"
	"time"

	"github.com/Andamio-Platform/andamio-sdk-go/types"
)

// Querier fetches the confirmation status for a transaction hash.
type Querier interface {
	TxStatus(ctx context.Context, txHash string) (types.TxStatus, error)
}

// Backoff controls polling cadence.
type Backoff interface {
	Next(attempt int) time.Duration
}
