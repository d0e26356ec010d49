package console

import (
	"errors"
	"fmt"

	"github.com/iho/gowallet/internal/domain"
)

// Message maps an error from the wallet to the line shown to the operator.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrInvalidName):
		return fmt.Sprintf("Names must have at least %d characters", domain.MinNameLength)
	case errors.Is(err, domain.ErrInvalidEmail):
		return "Invalid email address"
	case errors.Is(err, domain.ErrInvalidAmount):
		return "Amount must be greater than 0"
	case errors.Is(err, domain.ErrInvalidInitialBalance):
		return "Initial balance must be 0 or greater"
	case errors.Is(err, domain.ErrAmountOutOfRange):
		return "Amount is too large for this account"
	case errors.Is(err, domain.ErrInvalidCurrency):
		return "Unsupported currency"
	case errors.Is(err, domain.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, domain.ErrAccountNotFound):
		return "Account not found"
	case errors.Is(err, domain.ErrTransactionNotFound):
		return "Transaction not found"
	case errors.Is(err, domain.ErrAccountNotSelected):
		return "No account selected"
	case errors.Is(err, domain.ErrInsufficientBalance):
		return "Insufficient balance"
	case errors.Is(err, domain.ErrAccountLimitExceeded):
		return "This user already has the maximum number of accounts"
	case errors.Is(err, domain.ErrAccountInactive):
		return "The account is inactive"
	case errors.Is(err, domain.ErrOperationFailed):
		return "The operation could not be completed"
	case errors.Is(err, domain.ErrConcurrentModification):
		return "The account changed while processing, please try again"
	default:
		return "Internal error, the operation was not applied"
	}
}
