package usecase

import (
	"context"

	"github.com/iho/gowallet/internal/domain"
)

// Session tracks the account an interactive operator is working on and
// forwards balance operations to the wallet for that account. A Session
// belongs to a single console and is not safe for concurrent use.
type Session struct {
	wallet  *WalletUseCase
	current string
}

// NewSession creates a Session with no account selected.
func NewSession(wallet *WalletUseCase) *Session {
	return &Session{wallet: wallet}
}

// Wallet returns the underlying use case.
func (s *Session) Wallet() *WalletUseCase {
	return s.wallet
}

// Select makes accountID the current account.
func (s *Session) Select(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.wallet.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	s.current = account.ID
	return account, nil
}

// Clear drops the current selection.
func (s *Session) Clear() {
	s.current = ""
}

// CurrentID returns the selected account id, or "" when none is selected.
func (s *Session) CurrentID() string {
	return s.current
}

// Current returns the selected account. It returns nil and no error when
// nothing is selected.
func (s *Session) Current(ctx context.Context) (*domain.Account, error) {
	if s.current == "" {
		return nil, nil
	}
	return s.wallet.GetAccount(ctx, s.current)
}

// CreateAccount opens an account and selects it.
func (s *Session) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	account, err := s.wallet.CreateAccount(ctx, input)
	if err != nil {
		return nil, err
	}
	s.current = account.ID
	return account, nil
}

// Deposit credits the current account.
func (s *Session) Deposit(ctx context.Context, amount float64) (*MovementResult, error) {
	if s.current == "" {
		return nil, domain.ErrAccountNotSelected
	}
	return s.wallet.Deposit(ctx, s.current, amount)
}

// Withdraw debits the current account.
func (s *Session) Withdraw(ctx context.Context, amount float64) (*MovementResult, error) {
	if s.current == "" {
		return nil, domain.ErrAccountNotSelected
	}
	return s.wallet.Withdraw(ctx, s.current, amount)
}

// ConvertBalance converts the current account's balance into target and
// reports the converted amount.
func (s *Session) ConvertBalance(ctx context.Context, target domain.Currency) (*ConversionResult, error) {
	if s.current == "" {
		return nil, domain.ErrAccountNotSelected
	}
	return s.wallet.ConvertBalance(ctx, s.current, target)
}

// Balance returns the current account's balance, or 0 when nothing is selected.
func (s *Session) Balance(ctx context.Context) (float64, error) {
	account, err := s.Current(ctx)
	if err != nil || account == nil {
		return 0, err
	}
	return account.Balance, nil
}

// Currency returns the current account's currency, or "" when nothing is selected.
func (s *Session) Currency(ctx context.Context) (domain.Currency, error) {
	account, err := s.Current(ctx)
	if err != nil || account == nil {
		return "", err
	}
	return account.Currency, nil
}

// TransactionHistory returns the current account's transactions newest
// first, or an empty slice when nothing is selected.
func (s *Session) TransactionHistory(ctx context.Context) ([]*domain.Transaction, error) {
	if s.current == "" {
		return []*domain.Transaction{}, nil
	}
	return s.wallet.TransactionHistory(ctx, s.current)
}

// TotalDeposits sums the current account's deposits.
func (s *Session) TotalDeposits(ctx context.Context) (float64, error) {
	if s.current == "" {
		return 0, nil
	}
	return s.wallet.TotalDeposits(ctx, s.current)
}

// TotalWithdrawals sums the current account's withdrawals.
func (s *Session) TotalWithdrawals(ctx context.Context) (float64, error) {
	if s.current == "" {
		return 0, nil
	}
	return s.wallet.TotalWithdrawals(ctx, s.current)
}

// ExchangeRate does not depend on the selection.
func (s *Session) ExchangeRate(from, to domain.Currency) (float64, error) {
	return s.wallet.ExchangeRate(from, to)
}
