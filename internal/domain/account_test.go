package domain

import (
	"errors"
	"math"
	"testing"
	"time"
)

var testNow = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func TestAccount_Deposit(t *testing.T) {
	tests := []struct {
		name        string
		active      bool
		balance     float64
		amount      float64
		wantOK      bool
		wantBalance float64
	}{
		{name: "positive amount", active: true, balance: 100, amount: 50, wantOK: true, wantBalance: 150},
		{name: "zero amount", active: true, balance: 100, amount: 0, wantOK: false, wantBalance: 100},
		{name: "negative amount", active: true, balance: 100, amount: -5, wantOK: false, wantBalance: 100},
		{name: "infinite amount", active: true, balance: 100, amount: math.Inf(1), wantOK: false, wantBalance: 100},
		{name: "NaN amount", active: true, balance: 100, amount: math.NaN(), wantOK: false, wantBalance: 100},
		{name: "balance would overflow", active: true, balance: math.MaxFloat64, amount: math.MaxFloat64, wantOK: false, wantBalance: math.MaxFloat64},
		{name: "inactive account", active: false, balance: 100, amount: 50, wantOK: false, wantBalance: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := &Account{Balance: tt.balance, Active: tt.active}

			ok := acc.Deposit(tt.amount, testNow)

			if ok != tt.wantOK {
				t.Fatalf("expected ok=%v, got %v", tt.wantOK, ok)
			}
			if acc.Balance != tt.wantBalance {
				t.Errorf("expected balance %v, got %v", tt.wantBalance, acc.Balance)
			}
			if ok && !acc.UpdatedAt.Equal(testNow) {
				t.Errorf("expected UpdatedAt to be touched")
			}
			if !ok && !acc.UpdatedAt.IsZero() {
				t.Errorf("expected UpdatedAt untouched on failure")
			}
		})
	}
}

func TestAccount_Withdraw(t *testing.T) {
	tests := []struct {
		name        string
		active      bool
		balance     float64
		amount      float64
		wantOK      bool
		wantBalance float64
	}{
		{name: "less than balance", active: true, balance: 100, amount: 30, wantOK: true, wantBalance: 70},
		{name: "exact balance", active: true, balance: 100, amount: 100, wantOK: true, wantBalance: 0},
		{name: "more than balance", active: true, balance: 100, amount: 150, wantOK: false, wantBalance: 100},
		{name: "zero amount", active: true, balance: 100, amount: 0, wantOK: false, wantBalance: 100},
		{name: "negative amount", active: true, balance: 100, amount: -1, wantOK: false, wantBalance: 100},
		{name: "inactive account", active: false, balance: 100, amount: 10, wantOK: false, wantBalance: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := &Account{Balance: tt.balance, Active: tt.active}

			ok := acc.Withdraw(tt.amount, testNow)

			if ok != tt.wantOK {
				t.Fatalf("expected ok=%v, got %v", tt.wantOK, ok)
			}
			if acc.Balance != tt.wantBalance {
				t.Errorf("expected balance %v, got %v", tt.wantBalance, acc.Balance)
			}
		})
	}
}

func TestAccount_BalanceNeverNegative(t *testing.T) {
	acc := NewAccount("acc-1", "user-1", USD, 10, testNow)
	ops := []float64{5, -20, 7.5, -3, -40, 12, -31.5, -0.01, 100, -100}

	for _, op := range ops {
		if op > 0 {
			acc.Deposit(op, testNow)
		} else {
			before := acc.Balance
			if !acc.Withdraw(-op, testNow) && acc.Balance != before {
				t.Fatalf("failed withdrawal changed balance from %v to %v", before, acc.Balance)
			}
		}
		if acc.Balance < 0 {
			t.Fatalf("balance went negative: %v", acc.Balance)
		}
	}
}

func TestAccount_ApplyConversion(t *testing.T) {
	t.Run("replaces currency and balance together", func(t *testing.T) {
		acc := NewAccount("acc-1", "user-1", USD, 100, time.Time{})

		if err := acc.ApplyConversion(EUR, 108.7, testNow); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if acc.Currency != EUR || acc.Balance != 108.7 {
			t.Errorf("expected EUR 108.7, got %s %v", acc.Currency, acc.Balance)
		}
		if !acc.UpdatedAt.Equal(testNow) {
			t.Errorf("expected UpdatedAt to be touched")
		}
	})

	invalid := []struct {
		name     string
		currency Currency
		balance  float64
	}{
		{name: "unset currency", currency: "", balance: 10},
		{name: "unknown currency", currency: "GBP", balance: 10},
		{name: "negative balance", currency: EUR, balance: -1},
		{name: "NaN balance", currency: EUR, balance: math.NaN()},
	}

	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			acc := NewAccount("acc-1", "user-1", USD, 100, time.Time{})

			err := acc.ApplyConversion(tt.currency, tt.balance, testNow)

			if !errors.Is(err, ErrInvalidArgument) {
				t.Fatalf("expected ErrInvalidArgument, got %v", err)
			}
			if acc.Currency != USD || acc.Balance != 100 {
				t.Errorf("account changed on failure: %s %v", acc.Currency, acc.Balance)
			}
		})
	}
}

func TestAccount_Deactivate(t *testing.T) {
	acc := NewAccount("acc-1", "user-1", CLP, 100, time.Time{})
	acc.Deactivate(testNow)

	if acc.Active {
		t.Fatal("expected account to be inactive")
	}
	if !acc.UpdatedAt.Equal(testNow) {
		t.Error("expected UpdatedAt to be touched")
	}
	if acc.Deposit(10, testNow) || acc.Withdraw(10, testNow) {
		t.Error("inactive account must refuse deposits and withdrawals")
	}
	if acc.Balance != 100 {
		t.Errorf("expected balance 100, got %v", acc.Balance)
	}
}

func TestAccount_Clone(t *testing.T) {
	acc := NewAccount("acc-1", "user-1", CLP, 100, testNow)
	c := acc.Clone()
	c.Balance = 1

	if acc.Balance != 100 {
		t.Errorf("clone shares state with original")
	}
}
