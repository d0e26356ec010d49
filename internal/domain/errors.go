package domain

import "errors"

var (
	// Validation errors
	ErrInvalidName     = errors.New("invalid name")
	ErrInvalidEmail    = errors.New("invalid email format")
	ErrInvalidAmount         = errors.New("amount must be positive")
	ErrInvalidInitialBalance = errors.New("initial balance must be zero or positive")
	ErrAmountOutOfRange      = errors.New("amount out of range")
	ErrInvalidCurrency       = errors.New("invalid currency")

	// Lookup errors
	ErrUserNotFound        = errors.New("user not found")
	ErrAccountNotFound     = errors.New("account not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrAccountNotSelected  = errors.New("no account selected")

	// Account errors
	ErrInsufficientBalance  = errors.New("insufficient balance")
	ErrAccountLimitExceeded = errors.New("account limit per user reached")
	ErrAccountInactive      = errors.New("account is inactive")
	ErrOperationFailed      = errors.New("operation could not be completed")

	// ErrInvalidArgument signals a caller bug rather than bad operator input.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrConcurrentModification is returned when an account changed between read and commit.
	ErrConcurrentModification = errors.New("account was modified concurrently")
)

// Kind groups errors by how they are reported to the operator.
type Kind string

const (
	KindNone                Kind = ""
	KindValidation          Kind = "validation"
	KindNotFound            Kind = "not_found"
	KindNotSelected         Kind = "not_selected"
	KindInsufficientBalance Kind = "insufficient_balance"
	KindLimitExceeded       Kind = "limit_exceeded"
	KindInactive            Kind = "inactive"
	KindOperationFailed     Kind = "operation_failed"
	KindConflict            Kind = "conflict"
	KindInvalidArgument     Kind = "invalid_argument"
	KindInternal            Kind = "internal"
)

// ErrorKind classifies err. Unknown errors are KindInternal.
func ErrorKind(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrInvalidName),
		errors.Is(err, ErrInvalidEmail),
		errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrInvalidInitialBalance),
		errors.Is(err, ErrAmountOutOfRange),
		errors.Is(err, ErrInvalidCurrency):
		return KindValidation
	case errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrAccountNotFound),
		errors.Is(err, ErrTransactionNotFound):
		return KindNotFound
	case errors.Is(err, ErrAccountNotSelected):
		return KindNotSelected
	case errors.Is(err, ErrInsufficientBalance):
		return KindInsufficientBalance
	case errors.Is(err, ErrAccountLimitExceeded):
		return KindLimitExceeded
	case errors.Is(err, ErrAccountInactive):
		return KindInactive
	case errors.Is(err, ErrOperationFailed):
		return KindOperationFailed
	case errors.Is(err, ErrConcurrentModification):
		return KindConflict
	case errors.Is(err, ErrInvalidArgument):
		return KindInvalidArgument
	default:
		return KindInternal
	}
}

// IsRecoverable reports whether err is an operator-facing failure that leaves
// state untouched, as opposed to a defect.
func IsRecoverable(err error) bool {
	switch ErrorKind(err) {
	case KindInvalidArgument, KindInternal:
		return false
	default:
		return true
	}
}
