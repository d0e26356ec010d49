package memory

import (
	"context"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	store *Store
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(store *Store) *AccountRepository {
	return &AccountRepository{store: store}
}

// Create stages a new account in tx.
func (r *AccountRepository) Create(_ context.Context, tx usecase.Transaction, account *domain.Account) error {
	mt, err := asTx(tx)
	if err != nil {
		return err
	}
	mt.created = append(mt.created, account.Clone())
	return nil
}

// GetByID returns a copy of the account.
func (r *AccountRepository) GetByID(_ context.Context, id string) (*domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	acc, ok := r.store.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return acc.Clone(), nil
}

// Update stages an overwrite of the account in tx. The version the caller
// read must still be current at commit. On commit account.Version is bumped.
func (r *AccountRepository) Update(_ context.Context, tx usecase.Transaction, account *domain.Account) error {
	mt, err := asTx(tx)
	if err != nil {
		return err
	}
	mt.updated = append(mt.updated, account)
	return nil
}

// ListByUser returns the user's accounts in creation order.
func (r *AccountRepository) ListByUser(_ context.Context, userID string) ([]*domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	accounts := []*domain.Account{}
	for _, id := range r.store.accountOrder {
		if acc := r.store.accounts[id]; acc.UserID == userID {
			accounts = append(accounts, acc.Clone())
		}
	}
	return accounts, nil
}

// CountByUser counts the user's accounts.
func (r *AccountRepository) CountByUser(_ context.Context, userID string) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return r.store.accountsOwnedLocked(userID), nil
}

// List returns every account in creation order.
func (r *AccountRepository) List(_ context.Context) ([]*domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	accounts := make([]*domain.Account, 0, len(r.store.accountOrder))
	for _, id := range r.store.accountOrder {
		accounts = append(accounts, r.store.accounts[id].Clone())
	}
	return accounts, nil
}

// Count returns the number of stored accounts.
func (r *AccountRepository) Count(_ context.Context) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return len(r.store.accountOrder), nil
}

// Delete removes an account. Its transactions are kept.
func (r *AccountRepository) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.accounts[id]; !ok {
		return domain.ErrAccountNotFound
	}
	delete(r.store.accounts, id)
	for i, accID := range r.store.accountOrder {
		if accID == id {
			r.store.accountOrder = append(r.store.accountOrder[:i], r.store.accountOrder[i+1:]...)
			break
		}
	}
	return nil
}
