package domain

import "time"

// TransactionType tags what a transaction recorded.
type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "DEPOSIT"
	TransactionTypeWithdrawal TransactionType = "WITHDRAWAL"
	// TransactionTypeTransfer is reserved; no use case records it yet.
	TransactionTypeTransfer   TransactionType = "TRANSFER"
	TransactionTypeConversion TransactionType = "CONVERSION"
)

var transactionTypeDescriptions = map[TransactionType]string{
	TransactionTypeDeposit:    "Deposit",
	TransactionTypeWithdrawal: "Withdrawal",
	TransactionTypeTransfer:   "Transfer",
	TransactionTypeConversion: "Conversion",
}

// Description returns a display label for the type.
func (t TransactionType) Description() string {
	if d, ok := transactionTypeDescriptions[t]; ok {
		return d
	}
	return string(t)
}

// IsValid checks if t is a known transaction type.
func (t TransactionType) IsValid() bool {
	_, ok := transactionTypeDescriptions[t]
	return ok
}

// Transaction is an immutable record of one completed balance operation.
// Amount is in CurrencyFrom; AmountInTarget is in CurrencyTo. Outside
// conversions both pairs are equal.
type Transaction struct {
	CreatedAt      time.Time
	ID             string
	AccountID      string
	Type           TransactionType
	Description    string
	CurrencyFrom   Currency
	CurrencyTo     Currency
	Amount         float64
	AmountInTarget float64
}
