package usecase_test

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gowallet/internal/adapter/repository/memory"
	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

type harness struct {
	store    *memory.Store
	accounts *memory.AccountRepository
	wallet   *usecase.WalletUseCase
}

func newHarness(t *testing.T, mutate ...func(*usecase.WalletConfig)) harness {
	t.Helper()

	store := memory.NewStore(memory.WithMaxAccountsPerUser(usecase.DefaultMaxAccountsPerUser))
	accounts := memory.NewAccountRepository(store)
	cfg := usecase.WalletConfig{
		Users:        memory.NewUserRepository(store),
		Accounts:     accounts,
		Transactions: memory.NewTransactionRepository(store),
		TxManager:    memory.NewTxManager(store),
		IDGen:        memory.NewULIDGenerator(),
		Retrier:      memory.NewRetrier(3),
	}
	for _, fn := range mutate {
		fn(&cfg)
	}
	return harness{store: store, accounts: accounts, wallet: usecase.NewWalletUseCase(cfg)}
}

func (h harness) register(t *testing.T) *domain.User {
	t.Helper()

	user, err := h.wallet.RegisterUser(context.Background(), usecase.RegisterUserInput{
		FirstName: "Ana",
		LastName:  "Lopez",
		Email:     "ana@example.com",
	})
	require.NoError(t, err)
	return user
}

func (h harness) open(t *testing.T, userID string, currency domain.Currency, balance float64) *domain.Account {
	t.Helper()

	account, err := h.wallet.CreateAccount(context.Background(), usecase.CreateAccountInput{
		UserID:         userID,
		Currency:       currency,
		InitialBalance: balance,
	})
	require.NoError(t, err)
	return account
}

func TestWallet_EndToEnd(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	user := h.register(t)
	assert.Equal(t, "Ana Lopez", user.FullName())

	account := h.open(t, user.ID, domain.USD, 1000)
	history, err := h.wallet.TransactionHistory(ctx, account.ID)
	require.NoError(t, err)
	assert.Empty(t, history, "opening balance is not a transaction")

	deposit, err := h.wallet.Deposit(ctx, account.ID, 500)
	require.NoError(t, err)
	assert.Equal(t, 1500.0, deposit.Account.Balance)

	_, err = h.wallet.Withdraw(ctx, account.ID, 2000)
	require.ErrorIs(t, err, domain.ErrInsufficientBalance)

	stored, err := h.wallet.GetAccount(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, 1500.0, stored.Balance)

	conversion, err := h.wallet.ConvertBalance(ctx, account.ID, domain.EUR)
	require.NoError(t, err)
	assert.Equal(t, domain.EUR, conversion.Account.Currency)
	assert.InDelta(t, 1630.43, conversion.Account.Balance, 0.01)
	assert.InDelta(t, 1.0/0.92, conversion.Rate, 1e-9)

	history, err = h.wallet.TransactionHistory(ctx, account.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, domain.TransactionTypeConversion, history[0].Type)
	assert.Equal(t, 1500.0, history[0].Amount)
	assert.Equal(t, domain.USD, history[0].CurrencyFrom)
	assert.Equal(t, domain.EUR, history[0].CurrencyTo)
	assert.Equal(t, domain.TransactionTypeDeposit, history[1].Type)
	assert.Equal(t, 500.0, history[1].Amount)
	assert.True(t, history[0].CreatedAt.After(history[1].CreatedAt))
}

func TestWallet_AccountLimit(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	user := h.register(t)

	for i := 0; i < usecase.DefaultMaxAccountsPerUser; i++ {
		h.open(t, user.ID, domain.Currencies()[i%3], 0)
	}

	_, err := h.wallet.CreateAccount(ctx, usecase.CreateAccountInput{UserID: user.ID, Currency: domain.USD})
	require.ErrorIs(t, err, domain.ErrAccountLimitExceeded)

	owned, err := h.wallet.ListAccountsByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, owned, usecase.DefaultMaxAccountsPerUser)
}

func TestWallet_FailedOperationsLeaveNoTrace(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	account := h.open(t, h.register(t).ID, domain.CLP, 100)

	_, err := h.wallet.Withdraw(ctx, account.ID, 100.01)
	require.ErrorIs(t, err, domain.ErrInsufficientBalance)
	_, err = h.wallet.Deposit(ctx, account.ID, -3)
	require.ErrorIs(t, err, domain.ErrInvalidAmount)
	_, err = h.wallet.ConvertBalance(ctx, account.ID, domain.Currency("XXX"))
	require.ErrorIs(t, err, domain.ErrInvalidCurrency)

	stored, _ := h.wallet.GetAccount(ctx, account.ID)
	assert.Equal(t, 100.0, stored.Balance)
	assert.Equal(t, domain.CLP, stored.Currency)

	history, _ := h.wallet.TransactionHistory(ctx, account.ID)
	assert.Empty(t, history)
}

func TestWallet_WithdrawWholeBalance(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	account := h.open(t, h.register(t).ID, domain.USD, 75.5)

	result, err := h.wallet.Withdraw(ctx, account.ID, 75.5)
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.Account.Balance)
}

func TestWallet_ConversionRoundTrip(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	account := h.open(t, h.register(t).ID, domain.CLP, 250000)

	_, err := h.wallet.ConvertBalance(ctx, account.ID, domain.USD)
	require.NoError(t, err)
	back, err := h.wallet.ConvertBalance(ctx, account.ID, domain.CLP)
	require.NoError(t, err)

	assert.InEpsilon(t, 250000.0, back.Account.Balance, 1e-9)
	assert.Equal(t, domain.CLP, back.Account.Currency)
}

func TestWallet_SameCurrencyConversion(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	account := h.open(t, h.register(t).ID, domain.EUR, 40)

	result, err := h.wallet.ConvertBalance(ctx, account.ID, domain.EUR)
	require.NoError(t, err)
	assert.Equal(t, 1.0, result.Rate)
	assert.Equal(t, 40.0, result.Account.Balance)
	assert.Equal(t, "Conversion from EUR to EUR", result.Transaction.Description)
}

func TestWallet_HistoryIsStrictlyOrderedUnderFrozenClock(t *testing.T) {
	frozen := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	h := newHarness(t, func(cfg *usecase.WalletConfig) {
		cfg.Clock = usecase.NewMonotonicClock(func() time.Time { return frozen })
	})
	ctx := context.Background()
	account := h.open(t, h.register(t).ID, domain.USD, 0)

	for _, amount := range []float64{1, 2, 3, 4} {
		_, err := h.wallet.Deposit(ctx, account.ID, amount)
		require.NoError(t, err)
	}

	history, err := h.wallet.TransactionHistory(ctx, account.ID)
	require.NoError(t, err)
	require.Len(t, history, 4)
	for i, want := range []float64{4, 3, 2, 1} {
		assert.Equal(t, want, history[i].Amount)
		if i > 0 {
			assert.True(t, history[i-1].CreatedAt.After(history[i].CreatedAt))
		}
	}
}

func TestWallet_TotalsFollowRecordedAmounts(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	account := h.open(t, h.register(t).ID, domain.USD, 0)

	_, err := h.wallet.Deposit(ctx, account.ID, 100)
	require.NoError(t, err)
	_, err = h.wallet.Deposit(ctx, account.ID, 50)
	require.NoError(t, err)
	_, err = h.wallet.Withdraw(ctx, account.ID, 30)
	require.NoError(t, err)
	_, err = h.wallet.ConvertBalance(ctx, account.ID, domain.EUR)
	require.NoError(t, err)

	deposits, err := h.wallet.TotalDeposits(ctx, account.ID)
	require.NoError(t, err)
	withdrawals, err := h.wallet.TotalWithdrawals(ctx, account.ID)
	require.NoError(t, err)

	assert.Equal(t, 150.0, deposits)
	assert.Equal(t, 30.0, withdrawals)
}

func TestWallet_DeactivatedAccountIsFrozen(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	account := h.open(t, h.register(t).ID, domain.USD, 10)

	_, err := h.wallet.DeactivateAccount(ctx, account.ID)
	require.NoError(t, err)

	_, err = h.wallet.Deposit(ctx, account.ID, 1)
	assert.ErrorIs(t, err, domain.ErrAccountInactive)
	_, err = h.wallet.Withdraw(ctx, account.ID, 1)
	assert.ErrorIs(t, err, domain.ErrAccountInactive)
	_, err = h.wallet.ConvertBalance(ctx, account.ID, domain.EUR)
	assert.ErrorIs(t, err, domain.ErrAccountInactive)
	_, err = h.wallet.DeactivateAccount(ctx, account.ID)
	assert.ErrorIs(t, err, domain.ErrAccountInactive)

	stored, _ := h.wallet.GetAccount(ctx, account.ID)
	assert.False(t, stored.Active)
	assert.Equal(t, 10.0, stored.Balance)
}

// racingAccounts lets another writer commit between the read and the
// commit of the first attempt.
type racingAccounts struct {
	*memory.AccountRepository
	race func()
}

func (r *racingAccounts) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	acc, err := r.AccountRepository.GetByID(ctx, id)
	if r.race != nil {
		race := r.race
		r.race = nil
		race()
	}
	return acc, err
}

func TestWallet_ConcurrentModificationIsRetried(t *testing.T) {
	racing := &racingAccounts{}
	h := newHarness(t, func(cfg *usecase.WalletConfig) {
		racing.AccountRepository = cfg.Accounts.(*memory.AccountRepository)
		cfg.Accounts = racing
	})
	ctx := context.Background()
	account := h.open(t, h.register(t).ID, domain.USD, 100)

	// a second wallet sharing the store but not the racing repository
	other := usecase.NewWalletUseCase(usecase.WalletConfig{
		Users:        memory.NewUserRepository(h.store),
		Accounts:     h.accounts,
		Transactions: memory.NewTransactionRepository(h.store),
		TxManager:    memory.NewTxManager(h.store),
		IDGen:        memory.NewULIDGenerator(),
	})
	racing.race = func() {
		_, err := other.Deposit(ctx, account.ID, 7)
		require.NoError(t, err)
	}

	result, err := h.wallet.Withdraw(ctx, account.ID, 20)
	require.NoError(t, err)
	assert.Equal(t, 87.0, result.Account.Balance)

	history, err := h.wallet.TransactionHistory(ctx, account.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, domain.TransactionTypeWithdrawal, history[0].Type)
	assert.Equal(t, domain.TransactionTypeDeposit, history[1].Type)
}

func TestWallet_QuoteAndRates(t *testing.T) {
	h := newHarness(t)

	rate, err := h.wallet.ExchangeRate(domain.USD, domain.USD)
	require.NoError(t, err)
	assert.Equal(t, 1.0, rate)

	quote, err := h.wallet.Quote(1000, domain.CLP, domain.USD)
	require.NoError(t, err)
	assert.InDelta(t, 1.2, quote, 1e-9)

	_, err = h.wallet.Quote(-1, domain.CLP, domain.USD)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestWallet_DepositCannotOverflowBalance(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	account := h.open(t, h.register(t).ID, domain.EUR, 0)

	_, err := h.wallet.Deposit(ctx, account.ID, math.MaxFloat64)
	require.NoError(t, err)
	_, err = h.wallet.Deposit(ctx, account.ID, math.MaxFloat64)
	require.ErrorIs(t, err, domain.ErrAmountOutOfRange)
	assert.True(t, domain.IsRecoverable(err))

	stored, err := h.wallet.GetAccount(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, math.MaxFloat64, stored.Balance)

	history, err := h.wallet.TransactionHistory(ctx, account.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)

	result, err := h.wallet.ConvertBalance(ctx, account.ID, domain.USD)
	require.NoError(t, err)
	assert.False(t, math.IsInf(result.ConvertedAmount, 0))

	// USD to CLP multiplies by ~833, which no longer fits.
	_, err = h.wallet.ConvertBalance(ctx, account.ID, domain.CLP)
	require.ErrorIs(t, err, domain.ErrAmountOutOfRange)
	assert.True(t, domain.IsRecoverable(err))

	stored, err = h.wallet.GetAccount(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.USD, stored.Currency)
	assert.Equal(t, result.ConvertedAmount, stored.Balance)
}
