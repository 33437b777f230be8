package gas

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/core"
	"github.com/ethereum/go-ethereum/core/vm"
)

// ExecutionErrorKind is the closed taxonomy upstream retry logic dispatches
// on. Anything the classifier cannot place lands on Unclassified; no error is
// ever coerced into a known kind.
type ExecutionErrorKind string

const (
	KindNonceTooLow        ExecutionErrorKind = "NonceTooLow"
	KindFeeCapTooLow       ExecutionErrorKind = "FeeCapTooLow"
	KindInsufficientFunds  ExecutionErrorKind = "InsufficientFunds"
	KindIntrinsicGasTooLow ExecutionErrorKind = "IntrinsicGasTooLow"
	KindContractReverted   ExecutionErrorKind = "ContractFunctionReverted"
	KindEstimateGasFailed  ExecutionErrorKind = "EstimateGasExecutionFailed"
	KindUnclassified       ExecutionErrorKind = "Unclassified"
)

// ContractCallError wraps a failure from a read/simulate contract call, the
// only outer shape (besides TxExecutionError) ParseError will look inside.
type ContractCallError struct {
	Cause error
}

func (e *ContractCallError) Error() string {
	return fmt.Sprintf("contract call execution failed: %v", e.Cause)
}

func (e *ContractCallError) Unwrap() error { return e.Cause }

// TxExecutionError wraps a failure from executing or dry-running a
// transaction.
type TxExecutionError struct {
	Cause error
}

func (e *TxExecutionError) Error() string {
	return fmt.Sprintf("transaction execution failed: %v", e.Cause)
}

func (e *TxExecutionError) Unwrap() error { return e.Cause }

// ParseError classifies err into the closed taxonomy. Only the two known
// wrapper shapes are unwrapped; everything else, including unknown causes,
// maps to KindUnclassified. Best effort by contract: never panics, never
// returns an error itself.
func ParseError(err error) ExecutionErrorKind {
	var cause error
	var callErr *ContractCallError
	var txErr *TxExecutionError
	switch {
	case errors.As(err, &callErr):
		cause = callErr.Cause
	case errors.As(err, &txErr):
		cause = txErr.Cause
	default:
		return KindUnclassified
	}
	if cause == nil {
		return KindUnclassified
	}

	msg := strings.ToLower(cause.Error())
	switch {
	case errors.Is(cause, core.ErrNonceTooLow) || strings.Contains(msg, "nonce too low"):
		return KindNonceTooLow
	case errors.Is(cause, core.ErrFeeCapTooLow) || strings.Contains(msg, "max fee per gas less than block base fee"):
		return KindFeeCapTooLow
	case errors.Is(cause, core.ErrInsufficientFunds) || strings.Contains(msg, "insufficient funds"):
		return KindInsufficientFunds
	case errors.Is(cause, core.ErrIntrinsicGas) || strings.Contains(msg, "intrinsic gas too low"):
		return KindIntrinsicGasTooLow
	case errors.Is(cause, vm.ErrExecutionReverted) || strings.Contains(msg, "execution reverted"):
		return KindContractReverted
	case strings.Contains(msg, "gas required exceeds allowance") || strings.Contains(msg, "always failing transaction"):
		return KindEstimateGasFailed
	default:
		return KindUnclassified
	}
}
