package domain

import (
	"fmt"
	"math"
	"time"
)

// Account holds a balance in a single currency and belongs to one user.
type Account struct {
	ID        string
	UserID    string
	Currency  Currency
	Balance   float64
	Active    bool
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewAccount creates an active account.
func NewAccount(id, userID string, currency Currency, balance float64, now time.Time) *Account {
	return &Account{
		ID:        id,
		UserID:    userID,
		Currency:  currency,
		Balance:   balance,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Deposit adds amount to the balance. It returns false and leaves the
// account untouched if the account is inactive, amount is not positive or the
// new balance would not be finite.
func (a *Account) Deposit(amount float64, now time.Time) bool {
	if !a.Active || !isPositive(amount) || math.IsInf(a.Balance+amount, 0) {
		return false
	}
	a.Balance += amount
	a.UpdatedAt = now
	return true
}

// Withdraw subtracts amount from the balance. It returns false if the account
// is inactive, amount is not positive or amount exceeds the balance.
func (a *Account) Withdraw(amount float64, now time.Time) bool {
	if !a.Active || !isPositive(amount) || amount > a.Balance {
		return false
	}
	a.Balance -= amount
	a.UpdatedAt = now
	return true
}

// ApplyConversion replaces currency and balance together. balance must come
// from Converter.Convert on the current balance.
func (a *Account) ApplyConversion(currency Currency, balance float64, now time.Time) error {
	if !currency.IsValid() {
		return fmt.Errorf("%w: conversion target currency %q", ErrInvalidArgument, string(currency))
	}
	if balance < 0 || math.IsNaN(balance) || math.IsInf(balance, 0) {
		return fmt.Errorf("%w: conversion balance %v", ErrInvalidArgument, balance)
	}
	a.Currency = currency
	a.Balance = balance
	a.UpdatedAt = now
	return nil
}

// Deactivate marks the account inactive. There is no way back.
func (a *Account) Deactivate(now time.Time) {
	a.Active = false
	a.UpdatedAt = now
}

// Clone returns a copy safe to mutate independently of a.
func (a *Account) Clone() *Account {
	c := *a
	return &c
}

func isPositive(amount float64) bool {
	return amount > 0 && !math.IsInf(amount, 0)
}
