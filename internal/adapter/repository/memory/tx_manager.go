package memory

import (
	"context"
	"errors"
	"fmt"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

// ErrTxDone is returned when a committed or rolled back Tx is used again.
var ErrTxDone = errors.New("transaction has already been committed or rolled back")

// TxManager implements usecase.TransactionManager over a Store.
type TxManager struct {
	store *Store
}

// NewTxManager creates a new TxManager.
func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

// Begin starts a new transaction.
func (m *TxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Tx{store: m.store}, nil
}

// Tx stages account and transaction writes until Commit.
type Tx struct {
	store *Store
	done  bool

	created      []*domain.Account
	updated      []*domain.Account
	transactions []*domain.Transaction
}

// Commit validates every staged write against the current store state and
// applies them all, or none.
func (t *Tx) Commit(ctx context.Context) error {
	if t.done {
		return ErrTxDone
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := t.validateLocked(); err != nil {
		return err
	}

	for _, acc := range t.created {
		s.accounts[acc.ID] = acc.Clone()
		s.accountOrder = append(s.accountOrder, acc.ID)
	}
	for _, acc := range t.updated {
		acc.Version++
		s.accounts[acc.ID] = acc.Clone()
	}
	for _, tr := range t.transactions {
		s.txIndex[tr.ID] = len(s.transactions)
		s.transactions = append(s.transactions, cloneTransaction(tr))
	}

	t.done = true
	return nil
}

// Rollback discards staged writes. Rolling back a finished Tx is a no-op.
func (t *Tx) Rollback(_ context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	t.created, t.updated, t.transactions = nil, nil, nil
	return nil
}

func (t *Tx) validateLocked() error {
	s := t.store

	pending := make(map[string]string, len(t.created))
	perUser := make(map[string]int)
	for _, acc := range t.created {
		if _, exists := s.accounts[acc.ID]; exists {
			return fmt.Errorf("%w: duplicate account id %s", domain.ErrInvalidArgument, acc.ID)
		}
		if _, exists := pending[acc.ID]; exists {
			return fmt.Errorf("%w: duplicate account id %s", domain.ErrInvalidArgument, acc.ID)
		}
		pending[acc.ID] = acc.UserID
		perUser[acc.UserID]++
	}
	if s.maxAccountsPerUser > 0 {
		for userID, n := range perUser {
			if s.accountsOwnedLocked(userID)+n > s.maxAccountsPerUser {
				return fmt.Errorf("%w: user %s", domain.ErrAccountLimitExceeded, userID)
			}
		}
	}

	for _, acc := range t.updated {
		stored, ok := s.accounts[acc.ID]
		if !ok {
			return domain.ErrAccountNotFound
		}
		if stored.Version != acc.Version {
			return domain.ErrConcurrentModification
		}
	}

	for _, tr := range t.transactions {
		if _, exists := s.txIndex[tr.ID]; exists {
			return fmt.Errorf("%w: duplicate transaction id %s", domain.ErrInvalidArgument, tr.ID)
		}
		_, stored := s.accounts[tr.AccountID]
		_, staged := pending[tr.AccountID]
		if !stored && !staged {
			return domain.ErrAccountNotFound
		}
	}

	return nil
}

func (t *Tx) stage() error {
	if t.done {
		return ErrTxDone
	}
	return nil
}

// asTx unwraps a usecase.Transaction produced by TxManager.
func asTx(tx usecase.Transaction) (*Tx, error) {
	mt, ok := tx.(*Tx)
	if !ok || mt == nil {
		return nil, fmt.Errorf("%w: transaction was not started by memory.TxManager", domain.ErrInvalidArgument)
	}
	if err := mt.stage(); err != nil {
		return nil, err
	}
	return mt, nil
}
