package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gowallet/internal/domain"
)

func TestUserRepository(t *testing.T) {
	r := newRepos()
	ctx := context.Background()

	for _, id := range []string{"u-3", "u-1", "u-2"} {
		require.NoError(t, r.users.Create(ctx, &domain.User{ID: id, FirstName: "Ana", LastName: "Lopez"}))
	}

	users, err := r.users.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "u-3", users[0].ID, "registration order is preserved")
	assert.Equal(t, "u-1", users[1].ID)
	assert.Equal(t, "u-2", users[2].ID)

	err = r.users.Create(ctx, &domain.User{ID: "u-1"})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument, "ids are never reused")

	err = r.users.Create(ctx, &domain.User{})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument, "ids are never empty")

	_, err = r.users.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	got, err := r.users.GetByID(ctx, "u-1")
	require.NoError(t, err)
	got.FirstName = "Changed"
	again, _ := r.users.GetByID(ctx, "u-1")
	assert.Equal(t, "Ana", again.FirstName, "callers get copies")

	n, _ := r.users.Count(ctx)
	assert.Equal(t, 3, n)
}

func TestAccountRepository(t *testing.T) {
	r := newRepos()
	ctx := context.Background()

	r.createAccount(t, domain.NewAccount("a-1", "u-1", domain.USD, 10, baseTime))
	r.createAccount(t, domain.NewAccount("a-2", "u-2", domain.EUR, 20, baseTime))
	r.createAccount(t, domain.NewAccount("a-3", "u-1", domain.CLP, 30, baseTime))

	owned, err := r.accounts.ListByUser(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, owned, 2)
	assert.Equal(t, "a-1", owned[0].ID)
	assert.Equal(t, "a-3", owned[1].ID)

	none, err := r.accounts.ListByUser(ctx, "u-9")
	require.NoError(t, err)
	assert.Empty(t, none)

	n, _ := r.accounts.CountByUser(ctx, "u-1")
	assert.Equal(t, 2, n)

	all, _ := r.accounts.List(ctx)
	assert.Len(t, all, 3)

	acc, _ := r.accounts.GetByID(ctx, "a-1")
	acc.Balance = 999
	stored, _ := r.accounts.GetByID(ctx, "a-1")
	assert.Equal(t, 10.0, stored.Balance, "mutating a read copy must not change the store")

	require.NoError(t, r.accounts.Delete(ctx, "a-2"))
	assert.ErrorIs(t, r.accounts.Delete(ctx, "a-2"), domain.ErrAccountNotFound)
	total, _ := r.accounts.Count(ctx)
	assert.Equal(t, 2, total)

	_, err = r.accounts.GetByID(ctx, "a-2")
	assert.True(t, errors.Is(err, domain.ErrAccountNotFound))
}

func TestTransactionRepository_ListByAccountNewestFirst(t *testing.T) {
	r := newRepos()
	ctx := context.Background()
	r.createAccount(t, domain.NewAccount("a-1", "u-1", domain.USD, 0, baseTime))
	r.createAccount(t, domain.NewAccount("a-2", "u-1", domain.USD, 0, baseTime))

	records := []*domain.Transaction{
		{ID: "t-1", AccountID: "a-1", CreatedAt: baseTime.Add(1 * time.Second)},
		{ID: "t-2", AccountID: "a-2", CreatedAt: baseTime.Add(2 * time.Second)},
		{ID: "t-3", AccountID: "a-1", CreatedAt: baseTime.Add(3 * time.Second)},
		{ID: "t-4", AccountID: "a-1", CreatedAt: baseTime.Add(3 * time.Second)},
	}
	for _, rec := range records {
		tx, _ := r.txManager.Begin(ctx)
		require.NoError(t, r.transactions.Create(ctx, tx, rec))
		require.NoError(t, tx.Commit(ctx))
	}

	history, err := r.transactions.ListByAccount(ctx, "a-1")
	require.NoError(t, err)

	ids := make([]string, 0, len(history))
	for _, h := range history {
		ids = append(ids, h.ID)
	}
	assert.Equal(t, []string{"t-4", "t-3", "t-1"}, ids)

	empty, err := r.transactions.ListByAccount(ctx, "missing")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	got, err := r.transactions.GetByID(ctx, "t-2")
	require.NoError(t, err)
	assert.Equal(t, "a-2", got.AccountID)

	all, _ := r.transactions.List(ctx)
	assert.Len(t, all, 4)
	assert.Equal(t, "t-1", all[0].ID)
}

func TestULIDGenerator_Unique(t *testing.T) {
	g := NewULIDGenerator()
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := g.Generate()
		if id == "" {
			t.Fatal("generated empty id")
		}
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}
