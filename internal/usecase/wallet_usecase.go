package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/iho/gowallet/internal/domain"
)

// WalletUseCase coordinates users, accounts, conversions and the
// transaction log. Every call names the account it acts on.
type WalletUseCase struct {
	users              UserRepository
	accounts           AccountRepository
	transactions       TransactionRepository
	txManager          TransactionManager
	idGen              IDGenerator
	converter          CurrencyConverter
	clock              Clock
	retrier            Retrier
	recorder           Recorder
	maxAccountsPerUser int
}

// WalletConfig wires a WalletUseCase.
type WalletConfig struct {
	Users        UserRepository
	Accounts     AccountRepository
	Transactions TransactionRepository
	TxManager    TransactionManager
	IDGen        IDGenerator
	Converter    CurrencyConverter // defaults to domain.Converter
	Clock        Clock             // defaults to a MonotonicClock over time.Now
	Retrier      Retrier           // defaults to a single attempt
	Recorder     Recorder          // defaults to discarding observations

	MaxAccountsPerUser int // defaults to DefaultMaxAccountsPerUser
}

// NewWalletUseCase creates a new WalletUseCase.
func NewWalletUseCase(cfg WalletConfig) *WalletUseCase {
	if cfg.Converter == nil {
		cfg.Converter = domain.Converter{}
	}
	if cfg.Clock == nil {
		cfg.Clock = NewMonotonicClock(nil)
	}
	if cfg.Retrier == nil {
		cfg.Retrier = noRetry{}
	}
	if cfg.Recorder == nil {
		cfg.Recorder = nopRecorder{}
	}
	if cfg.MaxAccountsPerUser <= 0 {
		cfg.MaxAccountsPerUser = DefaultMaxAccountsPerUser
	}

	return &WalletUseCase{
		users:              cfg.Users,
		accounts:           cfg.Accounts,
		transactions:       cfg.Transactions,
		txManager:          cfg.TxManager,
		idGen:              cfg.IDGen,
		converter:          cfg.Converter,
		clock:              cfg.Clock,
		retrier:            cfg.Retrier,
		recorder:           cfg.Recorder,
		maxAccountsPerUser: cfg.MaxAccountsPerUser,
	}
}

// MaxAccountsPerUser returns the configured account cap.
func (uc *WalletUseCase) MaxAccountsPerUser() int {
	return uc.maxAccountsPerUser
}

// RegisterUserInput represents input for registering a user.
type RegisterUserInput struct {
	FirstName string
	LastName  string
	Email     string
}

// RegisterUser validates and stores a new user.
func (uc *WalletUseCase) RegisterUser(ctx context.Context, input RegisterUserInput) (*domain.User, error) {
	if err := domain.ValidateName(input.FirstName); err != nil {
		return nil, uc.finish(ctx, OpRegisterUser, fmt.Errorf("first name: %w", err))
	}
	if err := domain.ValidateName(input.LastName); err != nil {
		return nil, uc.finish(ctx, OpRegisterUser, fmt.Errorf("last name: %w", err))
	}
	if err := domain.ValidateEmail(input.Email); err != nil {
		return nil, uc.finish(ctx, OpRegisterUser, err)
	}

	user := &domain.User{
		ID:        uc.idGen.Generate(),
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		CreatedAt: uc.clock.Now(),
	}

	if err := uc.users.Create(ctx, user); err != nil {
		return nil, uc.finish(ctx, OpRegisterUser, err)
	}

	zerolog.Ctx(ctx).Debug().Str("user_id", user.ID).Msg("user registered")
	uc.finish(ctx, OpRegisterUser, nil)
	return user, nil
}

// GetUser retrieves a user by ID.
func (uc *WalletUseCase) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return uc.users.GetByID(ctx, id)
}

// ListUsers lists users in registration order.
func (uc *WalletUseCase) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return uc.users.List(ctx)
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	UserID         string
	Currency       domain.Currency
	InitialBalance float64
}

// CreateAccount opens an account for an existing user.
func (uc *WalletUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	if err := domain.ValidateInitialBalance(input.InitialBalance); err != nil {
		return nil, uc.finish(ctx, OpCreateAccount, err)
	}
	if !input.Currency.IsValid() {
		return nil, uc.finish(ctx, OpCreateAccount,
			fmt.Errorf("%w: %q", domain.ErrInvalidCurrency, string(input.Currency)))
	}

	user, err := uc.users.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, uc.finish(ctx, OpCreateAccount, err)
	}

	count, err := uc.accounts.CountByUser(ctx, user.ID)
	if err != nil {
		return nil, uc.finish(ctx, OpCreateAccount, err)
	}
	if count >= uc.maxAccountsPerUser {
		return nil, uc.finish(ctx, OpCreateAccount,
			fmt.Errorf("%w: user already owns %d accounts", domain.ErrAccountLimitExceeded, count))
	}

	account := domain.NewAccount(uc.idGen.Generate(), user.ID, input.Currency, input.InitialBalance, uc.clock.Now())

	err = uc.inTx(ctx, func(tx Transaction) error {
		return uc.accounts.Create(ctx, tx, account)
	})
	if err != nil {
		return nil, uc.finish(ctx, OpCreateAccount, err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("account_id", account.ID).
		Str("user_id", user.ID).
		Str("currency", account.Currency.String()).
		Msg("account created")
	uc.recorder.ObserveAccount(account)
	uc.finish(ctx, OpCreateAccount, nil)
	return account, nil
}

// GetAccount retrieves an account by ID.
func (uc *WalletUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return uc.accounts.GetByID(ctx, id)
}

// ListAccountsByUser lists a user's accounts in creation order.
func (uc *WalletUseCase) ListAccountsByUser(ctx context.Context, userID string) ([]*domain.Account, error) {
	return uc.accounts.ListByUser(ctx, userID)
}

// ListAccounts lists every account in creation order.
func (uc *WalletUseCase) ListAccounts(ctx context.Context) ([]*domain.Account, error) {
	return uc.accounts.List(ctx)
}

// MovementResult is the outcome of a deposit or withdrawal.
type MovementResult struct {
	Account     *domain.Account
	Transaction *domain.Transaction
}

// Deposit credits amount to the account and records a DEPOSIT transaction.
func (uc *WalletUseCase) Deposit(ctx context.Context, accountID string, amount float64) (*MovementResult, error) {
	return uc.move(ctx, OpDeposit, domain.TransactionTypeDeposit, accountID, amount)
}

// Withdraw debits amount from the account and records a WITHDRAWAL transaction.
func (uc *WalletUseCase) Withdraw(ctx context.Context, accountID string, amount float64) (*MovementResult, error) {
	return uc.move(ctx, OpWithdraw, domain.TransactionTypeWithdrawal, accountID, amount)
}

func (uc *WalletUseCase) move(
	ctx context.Context,
	op string,
	typ domain.TransactionType,
	accountID string,
	amount float64,
) (*MovementResult, error) {
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, uc.finish(ctx, op, err)
	}

	var result *MovementResult
	err := uc.retrier.Retry(ctx, func() error {
		account, err := uc.accounts.GetByID(ctx, accountID)
		if err != nil {
			return err
		}
		if !account.Active {
			return domain.ErrAccountInactive
		}

		now := uc.clock.Now()
		var ok bool
		switch typ {
		case domain.TransactionTypeDeposit:
			if err := domain.ValidateDeposit(account.Balance, amount); err != nil {
				return err
			}
			ok = account.Deposit(amount, now)
		case domain.TransactionTypeWithdrawal:
			if amount > account.Balance {
				return fmt.Errorf("%w: requested %v, available %v",
					domain.ErrInsufficientBalance, amount, account.Balance)
			}
			ok = account.Withdraw(amount, now)
		default:
			return fmt.Errorf("%w: unsupported movement %s", domain.ErrInvalidArgument, typ)
		}
		if !ok {
			return domain.ErrOperationFailed
		}

		record := &domain.Transaction{
			ID:             uc.idGen.Generate(),
			AccountID:      account.ID,
			Type:           typ,
			Amount:         amount,
			CurrencyFrom:   account.Currency,
			CurrencyTo:     account.Currency,
			AmountInTarget: amount,
			CreatedAt:      now,
			Description:    typ.Description(),
		}

		if err := uc.commitMutation(ctx, account, record); err != nil {
			return err
		}

		result = &MovementResult{Account: account, Transaction: record}
		return nil
	})
	if err != nil {
		return nil, uc.finish(ctx, op, err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("account_id", accountID).
		Str("type", string(typ)).
		Float64("amount", amount).
		Float64("balance", result.Account.Balance).
		Msg("balance updated")
	uc.recorder.ObserveAccount(result.Account)
	uc.finish(ctx, op, nil)
	return result, nil
}

// ConversionResult is the outcome of converting an account's balance.
type ConversionResult struct {
	Account          *domain.Account
	Transaction      *domain.Transaction
	OriginalCurrency domain.Currency
	OriginalAmount   float64
	ConvertedAmount  float64
	Rate             float64
}

// ConvertBalance converts the whole balance of the account into target and
// records a CONVERSION transaction.
func (uc *WalletUseCase) ConvertBalance(ctx context.Context, accountID string, target domain.Currency) (*ConversionResult, error) {
	if !target.IsValid() {
		return nil, uc.finish(ctx, OpConvertBalance,
			fmt.Errorf("%w: %q", domain.ErrInvalidCurrency, string(target)))
	}

	var result *ConversionResult
	err := uc.retrier.Retry(ctx, func() error {
		account, err := uc.accounts.GetByID(ctx, accountID)
		if err != nil {
			return err
		}
		if !account.Active {
			return domain.ErrAccountInactive
		}

		originalAmount, originalCurrency := account.Balance, account.Currency

		converted, err := uc.converter.Convert(originalAmount, originalCurrency, target)
		if err != nil {
			return err
		}
		rate, err := uc.converter.ExchangeRate(originalCurrency, target)
		if err != nil {
			return err
		}

		now := uc.clock.Now()
		if err := account.ApplyConversion(target, converted, now); err != nil {
			return err
		}

		record := &domain.Transaction{
			ID:             uc.idGen.Generate(),
			AccountID:      account.ID,
			Type:           domain.TransactionTypeConversion,
			Amount:         originalAmount,
			CurrencyFrom:   originalCurrency,
			CurrencyTo:     target,
			AmountInTarget: converted,
			CreatedAt:      now,
			Description:    fmt.Sprintf("Conversion from %s to %s", originalCurrency, target),
		}

		if err := uc.commitMutation(ctx, account, record); err != nil {
			return err
		}

		result = &ConversionResult{
			Account:          account,
			Transaction:      record,
			OriginalCurrency: originalCurrency,
			OriginalAmount:   originalAmount,
			ConvertedAmount:  converted,
			Rate:             rate,
		}
		return nil
	})
	if err != nil {
		return nil, uc.finish(ctx, OpConvertBalance, err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("account_id", accountID).
		Str("from", result.OriginalCurrency.String()).
		Str("to", target.String()).
		Float64("rate", result.Rate).
		Msg("balance converted")
	uc.recorder.ObserveAccount(result.Account)
	uc.recorder.ObserveConversion(result.OriginalCurrency, target)
	uc.finish(ctx, OpConvertBalance, nil)
	return result, nil
}

// DeactivateAccount permanently disables deposits, withdrawals and
// conversions on the account.
func (uc *WalletUseCase) DeactivateAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	var account *domain.Account
	err := uc.retrier.Retry(ctx, func() error {
		acc, err := uc.accounts.GetByID(ctx, accountID)
		if err != nil {
			return err
		}
		if !acc.Active {
			return domain.ErrAccountInactive
		}
		acc.Deactivate(uc.clock.Now())

		if err := uc.inTx(ctx, func(tx Transaction) error {
			return uc.accounts.Update(ctx, tx, acc)
		}); err != nil {
			return err
		}
		account = acc
		return nil
	})
	if err != nil {
		return nil, uc.finish(ctx, OpDeactivateAccount, err)
	}

	zerolog.Ctx(ctx).Debug().Str("account_id", accountID).Msg("account deactivated")
	uc.finish(ctx, OpDeactivateAccount, nil)
	return account, nil
}

// TransactionHistory returns the account's transactions newest first.
func (uc *WalletUseCase) TransactionHistory(ctx context.Context, accountID string) ([]*domain.Transaction, error) {
	return uc.transactions.ListByAccount(ctx, accountID)
}

// GetTransaction retrieves a transaction by ID.
func (uc *WalletUseCase) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	return uc.transactions.GetByID(ctx, id)
}

// TotalDeposits sums the amounts of the account's DEPOSIT transactions.
func (uc *WalletUseCase) TotalDeposits(ctx context.Context, accountID string) (float64, error) {
	return uc.totalByType(ctx, accountID, domain.TransactionTypeDeposit)
}

// TotalWithdrawals sums the amounts of the account's WITHDRAWAL transactions.
func (uc *WalletUseCase) TotalWithdrawals(ctx context.Context, accountID string) (float64, error) {
	return uc.totalByType(ctx, accountID, domain.TransactionTypeWithdrawal)
}

func (uc *WalletUseCase) totalByType(ctx context.Context, accountID string, typ domain.TransactionType) (float64, error) {
	history, err := uc.transactions.ListByAccount(ctx, accountID)
	if err != nil {
		return 0, err
	}

	var total float64
	for _, t := range history {
		if t.Type == typ {
			total += t.Amount
		}
	}
	return total, nil
}

// ExchangeRate returns the fixed rate between two currencies.
func (uc *WalletUseCase) ExchangeRate(from, to domain.Currency) (float64, error) {
	return uc.converter.ExchangeRate(from, to)
}

// Quote converts amount without touching any account.
func (uc *WalletUseCase) Quote(amount float64, from, to domain.Currency) (float64, error) {
	return uc.converter.Convert(amount, from, to)
}

// commitMutation stores the mutated account and its transaction record
// together, or neither.
func (uc *WalletUseCase) commitMutation(ctx context.Context, account *domain.Account, record *domain.Transaction) error {
	return uc.inTx(ctx, func(tx Transaction) error {
		if err := uc.accounts.Update(ctx, tx, account); err != nil {
			return err
		}
		return uc.transactions.Create(ctx, tx, record)
	})
}

func (uc *WalletUseCase) inTx(ctx context.Context, fn func(tx Transaction) error) error {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// finish reports the outcome of op and returns err unchanged.
func (uc *WalletUseCase) finish(ctx context.Context, op string, err error) error {
	uc.recorder.ObserveOperation(op, err)
	if err == nil {
		return nil
	}

	logger := zerolog.Ctx(ctx)
	if domain.IsRecoverable(err) {
		logger.Warn().Err(err).Str("operation", op).Msg("operation rejected")
	} else {
		logger.Error().Err(err).Str("operation", op).Msg("operation failed")
	}
	return err
}

type noRetry struct{}

func (noRetry) Retry(_ context.Context, operation func() error) error {
	return operation()
}

type nopRecorder struct{}

func (nopRecorder) ObserveOperation(string, error) {}

func (nopRecorder) ObserveAccount(*domain.Account) {}

func (nopRecorder) ObserveConversion(domain.Currency, domain.Currency) {}
