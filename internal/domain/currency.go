package domain

import (
	"fmt"
	"strings"
)

// Currency is one of the closed set of currencies the wallet supports.
type Currency string

const (
	CLP Currency = "CLP"
	USD Currency = "USD"
	EUR Currency = "EUR"
)

// ReferenceCurrency is the pivot every rate is expressed against.
const ReferenceCurrency = USD

type currencyInfo struct {
	description string
	symbol      string
	// units of ReferenceCurrency one unit of this currency is worth
	rate float64
}

var currencyTable = map[Currency]currencyInfo{
	CLP: {description: "Chilean Peso", symbol: "CLP$", rate: 0.0012},
	USD: {description: "US Dollar", symbol: "USD$", rate: 1.0},
	EUR: {description: "Euro", symbol: "EUR$", rate: 0.92},
}

// Currencies returns the supported currencies in display order.
func Currencies() []Currency {
	return []Currency{CLP, USD, EUR}
}

// IsValid reports whether c is a supported currency.
func (c Currency) IsValid() bool {
	_, ok := currencyTable[c]
	return ok
}

// Description returns the human readable name of the currency.
func (c Currency) Description() string {
	return currencyTable[c].description
}

// Symbol returns the display symbol, e.g. "USD$".
func (c Currency) Symbol() string {
	return currencyTable[c].symbol
}

// RateToReference returns how many reference units one unit of c is worth.
func (c Currency) RateToReference() float64 {
	return currencyTable[c].rate
}

func (c Currency) String() string {
	return string(c)
}

// ParseCurrency parses a currency code, ignoring case and surrounding whitespace.
func ParseCurrency(s string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", fmt.Errorf("%w: %q is not a supported currency", ErrInvalidCurrency, s)
	}
	return c, nil
}
