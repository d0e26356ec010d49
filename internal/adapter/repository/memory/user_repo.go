package memory

import (
	"context"
	"fmt"

	"github.com/iho/gowallet/internal/domain"
)

// UserRepository implements usecase.UserRepository.
type UserRepository struct {
	store *Store
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

// Create stores a new user.
func (r *UserRepository) Create(_ context.Context, user *domain.User) error {
	if user.ID == "" {
		return fmt.Errorf("%w: user id is empty", domain.ErrInvalidArgument)
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.users[user.ID]; exists {
		return fmt.Errorf("%w: duplicate user id %s", domain.ErrInvalidArgument, user.ID)
	}
	r.store.users[user.ID] = cloneUser(user)
	r.store.userOrder = append(r.store.userOrder, user.ID)
	return nil
}

// GetByID returns a copy of the user.
func (r *UserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	user, ok := r.store.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(user), nil
}

// List returns users in registration order.
func (r *UserRepository) List(_ context.Context) ([]*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	users := make([]*domain.User, 0, len(r.store.userOrder))
	for _, id := range r.store.userOrder {
		users = append(users, cloneUser(r.store.users[id]))
	}
	return users, nil
}

// Count returns the number of registered users.
func (r *UserRepository) Count(_ context.Context) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return len(r.store.userOrder), nil
}
