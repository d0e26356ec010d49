package console

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
)

const (
	ansiReset  = "\033[0m"
	ansiBold   = "\033[1m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiBlue   = "\033[34m"

	ansiClearScreen = "\033[H\033[2J"
)

var (
	headerRule    = strings.Repeat("═", 43)
	separatorRule = strings.Repeat("─", 45)
)

// Formatter renders money and decorated console lines.
type Formatter struct {
	color bool
}

// NewFormatter creates a Formatter. With color false no ANSI sequences are
// emitted.
func NewFormatter(color bool) *Formatter {
	return &Formatter{color: color}
}

// Money renders amount as "SYMBOL 0.00".
func (f *Formatter) Money(amount float64, currency domain.Currency) string {
	return currency.Symbol() + " " + f.Amount(amount)
}

// Amount renders amount with two decimals.
func (f *Formatter) Amount(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return fmt.Sprintf("%.2f", amount)
	}
	return decimal.NewFromFloat(amount).StringFixed(2)
}

// Rate renders an exchange rate without trailing zeros.
func (f *Formatter) Rate(rate float64) string {
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return fmt.Sprintf("%g", rate)
	}
	return decimal.NewFromFloat(rate).String()
}

func (f *Formatter) paint(code, text string) string {
	if !f.color {
		return text
	}
	return code + text + ansiReset
}

// Green colours text green. It returns text unchanged when colour is off.
func (f *Formatter) Green(text string) string { return f.paint(ansiGreen, text) }

// Red colours text red.
func (f *Formatter) Red(text string) string { return f.paint(ansiRed, text) }

// Blue colours text blue.
func (f *Formatter) Blue(text string) string { return f.paint(ansiBlue, text) }

// Yellow colours text yellow.
func (f *Formatter) Yellow(text string) string { return f.paint(ansiYellow, text) }

// Bold renders text in bold.
func (f *Formatter) Bold(text string) string { return f.paint(ansiBold, text) }

// Header renders a framed title.
func (f *Formatter) Header(title string) string {
	return "\n" + f.Blue(headerRule) + "\n" +
		f.Bold(f.Blue(title)) + "\n" +
		f.Blue(headerRule) + "\n"
}

// Success renders a confirmation line.
func (f *Formatter) Success(msg string) string { return f.Green("✓ " + msg) }

// Error renders a failure line. Callers pass the text from Message.
func (f *Formatter) Error(msg string) string { return f.Red("✗ " + msg) }

// Warning renders a line for input that was ignored.
func (f *Formatter) Warning(msg string) string { return f.Yellow("⚠ " + msg) }

// Separator renders a horizontal rule followed by a blank line.
func (f *Formatter) Separator() string {
	return separatorRule + "\n"
}

// Menu renders numbered options and the selection prompt.
func (f *Formatter) Menu(options ...string) string {
	var b strings.Builder
	b.WriteString(f.Separator())
	for i, opt := range options {
		fmt.Fprintf(&b, "%d. %s\n", i+1, opt)
	}
	b.WriteString("\nSelect an option: ")
	return b.String()
}

// ClearScreen returns the terminal clear sequence, or nothing without color.
func (f *Formatter) ClearScreen() string {
	if !f.color {
		return ""
	}
	return ansiClearScreen
}
