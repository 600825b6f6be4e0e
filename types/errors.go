package types

import "errors"

var (
	// ErrInvalidConfig is returned when configuration is invalid
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrWalletNotConnected is returned when execution starts without a connected wallet
	ErrWalletNotConnected = errors.New("wallet not connected")

	// ErrAttemptInFlight is returned when Execute is called while an attempt is still running
	ErrAttemptInFlight = errors.New("transaction attempt already in flight")

	// ErrNotReset is returned when Execute is called on a finished executor before Reset
	ErrNotReset = errors.New("executor holds a finished attempt; reset before reuse")

	// ErrNotTerminal is returned when Reset is called before the attempt finished
	ErrNotTerminal = errors.New("attempt has not reached a terminal state")

	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("not found")

	// ErrTimeout is returned when an operation times out
	ErrTimeout = errors.New("operation timed out")
)
