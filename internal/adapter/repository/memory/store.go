package memory

import (
	"sync"

	"github.com/iho/gowallet/internal/domain"
)

// Store is the process-local state shared by the repositories. Writes to
// accounts and transactions go through a Tx so they land together.
type Store struct {
	mu sync.RWMutex

	users     map[string]*domain.User
	userOrder []string

	accounts     map[string]*domain.Account
	accountOrder []string

	transactions []*domain.Transaction
	txIndex      map[string]int

	maxAccountsPerUser int
}

// Option configures a Store.
type Option func(*Store)

// WithMaxAccountsPerUser makes commits reject accounts beyond n per user.
// Zero disables the check.
func WithMaxAccountsPerUser(n int) Option {
	return func(s *Store) {
		s.maxAccountsPerUser = n
	}
}

// NewStore creates an empty Store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		users:    make(map[string]*domain.User),
		accounts: make(map[string]*domain.Account),
		txIndex:  make(map[string]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// accountsOwnedLocked counts accounts of userID. Caller holds mu.
func (s *Store) accountsOwnedLocked(userID string) int {
	n := 0
	for _, id := range s.accountOrder {
		if s.accounts[id].UserID == userID {
			n++
		}
	}
	return n
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	return &c
}

func cloneTransaction(t *domain.Transaction) *domain.Transaction {
	c := *t
	return &c
}
