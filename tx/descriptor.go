package tx

import (
	"github.com/Andamio-Platform/andamio-sdk-go/api"
	"github.com/Andamio-Platform/andamio-sdk-go/effects"
)

// Descriptor statically describes one transaction kind: where to request the
// unsigned transaction, which side effects follow submission, and the
// UI-facing metadata the SDK passes through untouched.
type Descriptor struct {
	// Type is the logical transaction type identifier ("enroll",
	// "commit-assignment", "claim-credential", ...).
	Type string

	// Build names the endpoint returning the unsigned transaction.
	Build api.Endpoint

	// SideEffects are the ordered post-submission steps, if any.
	SideEffects []effects.Descriptor

	// Human-facing metadata, opaque to the pipeline.
	Title       string
	SubmitLabel string
}

// Result is the immutable outcome of one successful attempt. Build holds the
// raw build-response payload so side effects can recover backend-generated
// identifiers (a minted credential's on-chain id, for example).
type Result struct {
	TxHash      string
	ExplorerURL string
	Build       map[string]any
}
