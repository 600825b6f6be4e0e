package types

// TxState describes the fate of a submitted transaction hash as reported by
// the platform status endpoint.
type TxState string

const (
	// TxPending means the transaction was submitted but not yet included in a block.
	TxPending TxState = "pending"
	// TxConfirmed means the ledger included the transaction; the off-chain
	// projection has not caught up yet.
	TxConfirmed TxState = "confirmed"
	// TxUpdated means the off-chain projection reflects the transaction. Terminal success.
	TxUpdated TxState = "updated"
	// TxFailed means the ledger rejected the transaction or the projection errored. Terminal.
	TxFailed TxState = "failed"
	// TxExpired means no confirmation was observed within the server's window. Terminal.
	TxExpired TxState = "expired"
)

// TxStatus is the polled confirmation status for one transaction hash.
// Each poll replaces the previous value wholesale.
type TxStatus struct {
	State     TxState `json:"state"`
	LastError string  `json:"last_error,omitempty"`
}

// Terminal reports whether no further transition will occur for this hash.
func (s TxStatus) Terminal() bool {
	switch s.State {
	case TxUpdated, TxFailed, TxExpired:
		return true
	}
	return false
}

// Success reports whether the transaction confirmed and the projection applied.
func (s TxStatus) Success() bool {
	return s.State == TxUpdated
}
