package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrVehicleNotFound is returned when a vehicle does not exist
	ErrVehicleNotFound = errors.New("vehicle not found")

	// ErrBatchNotFound is returned when no batch exists for a (vehicle, date) pair
	ErrBatchNotFound = errors.New("batch not found")

	// ErrOutOfOrderEvent is returned when a trust update's timestamp precedes
	// the vehicle's last recorded trust event
	ErrOutOfOrderEvent = errors.New("trust event timestamp is out of order")

	// ErrInvalidBatchState is returned when an operation is attempted on a
	// batch in the wrong lifecycle state
	ErrInvalidBatchState = errors.New("invalid batch state for operation")

	// ErrBatchAlreadyExists is returned when a second batch is created for the
	// same (vehicle, date) pair
	ErrBatchAlreadyExists = errors.New("batch already exists for vehicle and date")

	// ErrStaleTrustState is returned by the store when an optimistic trust
	// state update lost the race; the trust service retries on it
	ErrStaleTrustState = errors.New("trust state changed concurrently")
)

// Ledger identifies which external ledger a submission targeted
type Ledger string

const (
	LedgerPermanentStorage Ledger = "permanent-storage"
	LedgerTransaction      Ledger = "transaction"
)

// LedgerSubmissionError carries which ledger failed and the underlying cause
type LedgerSubmissionError struct {
	Ledger Ledger
	Cause  error
}

func (e *LedgerSubmissionError) Error() string {
	return fmt.Sprintf("%s ledger submission failed: %v", e.Ledger, e.Cause)
}

func (e *LedgerSubmissionError) Unwrap() error {
	return e.Cause
}

// NewLedgerSubmissionError wraps a ledger client failure
func NewLedgerSubmissionError(ledger Ledger, cause error) *LedgerSubmissionError {
	return &LedgerSubmissionError{Ledger: ledger, Cause: cause}
}
