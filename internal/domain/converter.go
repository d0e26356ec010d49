package domain

import (
	"fmt"
	"math"
)

// Converter converts amounts between supported currencies by pivoting
// through ReferenceCurrency. Rates are fixed; the zero value is ready to use.
type Converter struct{}

// Convert converts amount from one currency to another. No rounding is applied.
// A result too large to represent fails with ErrAmountOutOfRange.
func (Converter) Convert(amount float64, from, to Currency) (float64, error) {
	if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, fmt.Errorf("%w: amount must be finite and non-negative, got %v", ErrInvalidArgument, amount)
	}
	if err := checkPair(from, to); err != nil {
		return 0, err
	}

	if from == to {
		return amount, nil
	}

	inReference := amount * from.RateToReference()
	converted := inReference / to.RateToReference()
	if math.IsInf(converted, 0) {
		return 0, fmt.Errorf("%w: %v %s does not fit in %s", ErrAmountOutOfRange, amount, from, to)
	}
	return converted, nil
}

// ExchangeRate returns how many units of to one unit of from buys.
func (Converter) ExchangeRate(from, to Currency) (float64, error) {
	if err := checkPair(from, to); err != nil {
		return 0, err
	}

	// exact 1.0, not computed through the pivot
	if from == to {
		return 1.0, nil
	}

	return from.RateToReference() / to.RateToReference(), nil
}

func checkPair(from, to Currency) error {
	if !from.IsValid() {
		return fmt.Errorf("%w: unsupported source currency %q", ErrInvalidArgument, string(from))
	}
	if !to.IsValid() {
		return fmt.Errorf("%w: unsupported target currency %q", ErrInvalidArgument, string(to))
	}
	return nil
}
