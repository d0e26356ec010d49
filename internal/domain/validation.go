package domain

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Validation constants
const (
	MinNameLength = 2
)

var emailRegex = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// ValidateName validates a first or last name.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidName)
	}

	if utf8.RuneCountInString(name) < MinNameLength {
		return fmt.Errorf("%w: name must have at least %d characters", ErrInvalidName, MinNameLength)
	}

	return nil
}

// ValidateEmail validates email format
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(strings.TrimSpace(email)) {
		return ErrInvalidEmail
	}
	return nil
}

// ValidateAmount validates a deposit or withdrawal amount.
func ValidateAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return fmt.Errorf("%w: amount must be finite", ErrInvalidAmount)
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// ValidateDeposit checks that crediting amount keeps balance finite.
func ValidateDeposit(balance, amount float64) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}
	if math.IsInf(balance+amount, 0) {
		return fmt.Errorf("%w: depositing %v onto %v", ErrAmountOutOfRange, amount, balance)
	}
	return nil
}

// ValidateInitialBalance validates the opening balance of a new account.
// Zero is allowed.
func ValidateInitialBalance(amount float64) error {
	if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return fmt.Errorf("%w: got %v", ErrInvalidInitialBalance, amount)
	}
	return nil
}
