package tx

import "context"

// Wallet is the user-controlled external signer (a CIP-30 wallet bridge in
// practice). Signing and submission are asynchronous and may reject; a user
// closing the wallet prompt surfaces as a SignTx error.
type Wallet interface {
	// Connected reports whether the wallet is ready to sign.
	Connected() bool
	// SignTx signs an unsigned transaction payload (CBOR hex).
	SignTx(ctx context.Context, unsigned string) (string, error)
	// SubmitTx submits a signed payload to the network and returns the tx hash.
	SubmitTx(ctx context.Context, signed string) (string, error)
}
