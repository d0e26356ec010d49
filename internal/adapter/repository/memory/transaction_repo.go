package memory

import (
	"context"
	"sort"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository. The log
// is append-only; there is no update or delete.
type TransactionRepository struct {
	store *Store
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(store *Store) *TransactionRepository {
	return &TransactionRepository{store: store}
}

// Create stages a transaction record in tx.
func (r *TransactionRepository) Create(_ context.Context, tx usecase.Transaction, transaction *domain.Transaction) error {
	mt, err := asTx(tx)
	if err != nil {
		return err
	}
	mt.transactions = append(mt.transactions, cloneTransaction(transaction))
	return nil
}

// GetByID returns a copy of the transaction.
func (r *TransactionRepository) GetByID(_ context.Context, id string) (*domain.Transaction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	i, ok := r.store.txIndex[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	return cloneTransaction(r.store.transactions[i]), nil
}

// ListByAccount returns the account's transactions newest first. Records
// with equal timestamps keep reverse insertion order.
func (r *TransactionRepository) ListByAccount(_ context.Context, accountID string) ([]*domain.Transaction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := []*domain.Transaction{}
	for i := len(r.store.transactions) - 1; i >= 0; i-- {
		if t := r.store.transactions[i]; t.AccountID == accountID {
			result = append(result, cloneTransaction(t))
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// CountByAccount counts the account's transactions.
func (r *TransactionRepository) CountByAccount(_ context.Context, accountID string) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	n := 0
	for _, t := range r.store.transactions {
		if t.AccountID == accountID {
			n++
		}
	}
	return n, nil
}

// List returns the whole log in insertion order.
func (r *TransactionRepository) List(_ context.Context) ([]*domain.Transaction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]*domain.Transaction, 0, len(r.store.transactions))
	for _, t := range r.store.transactions {
		result = append(result, cloneTransaction(t))
	}
	return result, nil
}

// Count returns the size of the log.
func (r *TransactionRepository) Count(_ context.Context) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return len(r.store.transactions), nil
}
