package usecase

import (
	"context"
	"time"

	"github.com/iho/gowallet/internal/domain"
)

// UserRepository defines data access for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// List returns users in registration order.
	List(ctx context.Context) ([]*domain.User, error)
}

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, tx Transaction, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	// Update overwrites the account by id. It fails with
	// domain.ErrConcurrentModification if the stored version moved on.
	Update(ctx context.Context, tx Transaction, account *domain.Account) error
	ListByUser(ctx context.Context, userID string) ([]*domain.Account, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	List(ctx context.Context) ([]*domain.Account, error)
}

// TransactionRepository defines data access for the append-only transaction log.
type TransactionRepository interface {
	Create(ctx context.Context, tx Transaction, transaction *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	// ListByAccount returns the account's transactions newest first.
	ListByAccount(ctx context.Context, accountID string) ([]*domain.Transaction, error)
	CountByAccount(ctx context.Context, accountID string) (int, error)
}

// Transaction represents a unit of work over the stores.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Clock supplies timestamps.
type Clock interface {
	Now() time.Time
}

// Retrier re-runs an operation while it fails with a retryable error.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// CurrencyConverter converts amounts between currencies.
type CurrencyConverter interface {
	Convert(amount float64, from, to domain.Currency) (float64, error)
	ExchangeRate(from, to domain.Currency) (float64, error)
}

// Recorder receives operation outcomes for metrics.
type Recorder interface {
	ObserveOperation(operation string, err error)
	ObserveAccount(account *domain.Account)
	ObserveConversion(from, to domain.Currency)
}
