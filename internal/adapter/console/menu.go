package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

const historyTimeLayout = "2006-01-02 15:04:05"

var mainOptions = []string{
	"Register new user",
	"Create account",
	"View balance",
	"Deposit",
	"Withdraw",
	"Convert currency",
	"Transaction history",
	"Exit",
}

// errQuit ends the menu loop without an error.
var errQuit = errors.New("quit")

// Menu is the interactive wallet console. It reads one answer per line and
// treats end of input as Exit.
type Menu struct {
	session *usecase.Session
	wallet  *usecase.WalletUseCase
	format  *Formatter
	in      *bufio.Scanner
	out     io.Writer
}

// NewMenu creates a Menu over session reading from in and writing to out.
func NewMenu(session *usecase.Session, format *Formatter, in io.Reader, out io.Writer) *Menu {
	return &Menu{
		session: session,
		wallet:  session.Wallet(),
		format:  format,
		in:      bufio.NewScanner(in),
		out:     out,
	}
}

// Run shows the main menu until the operator exits or input ends.
func (m *Menu) Run(ctx context.Context) error {
	handlers := map[string]func(context.Context) error{
		"1": m.registerUser,
		"2": m.createAccount,
		"3": m.viewBalance,
		"4": m.deposit,
		"5": m.withdraw,
		"6": m.convert,
		"7": m.history,
		"8": func(context.Context) error { return errQuit },
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		m.print(m.format.Menu(mainOptions...))
		choice, err := m.readLine()
		if err != nil {
			return m.stop(ctx, err)
		}
		m.println(m.format.Separator())

		handler, ok := handlers[choice]
		if !ok {
			m.println(m.format.Warning("Invalid option, please try again."))
			continue
		}
		if err := handler(ctx); err != nil {
			return m.stop(ctx, err)
		}
	}
}

func (m *Menu) stop(ctx context.Context, err error) error {
	if errors.Is(err, errQuit) || errors.Is(err, io.EOF) {
		m.println("\nGoodbye!")
		zerolog.Ctx(ctx).Debug().Msg("console closed")
		return nil
	}
	return err
}

func (m *Menu) registerUser(ctx context.Context) error {
	m.println(m.format.Header("Register New User"))

	firstName, err := m.prompt("First name: ")
	if err != nil {
		return err
	}
	lastName, err := m.prompt("Last name: ")
	if err != nil {
		return err
	}
	email, err := m.prompt("Email: ")
	if err != nil {
		return err
	}

	user, err := m.wallet.RegisterUser(ctx, usecase.RegisterUserInput{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
	})
	if err != nil {
		m.fail(err)
	} else {
		m.println(m.format.Success(fmt.Sprintf("User registered: %s (%s)", user.FullName(), user.ID)))
	}
	return m.pause()
}

func (m *Menu) createAccount(ctx context.Context) error {
	m.println(m.format.Header("Create Account"))

	user, err := m.chooseUser(ctx, "No users registered. Register one first.")
	if err != nil || user == nil {
		return err
	}

	existing, err := m.wallet.ListAccountsByUser(ctx, user.ID)
	if err != nil {
		m.fail(err)
		return m.pause()
	}
	if len(existing) > 0 {
		m.println("\nExisting accounts for this user:")
		for _, acc := range existing {
			m.println(fmt.Sprintf("- %s - %s (%s)", acc.ID, m.format.Money(acc.Balance, acc.Currency), acc.Currency))
		}
		m.println("\nCreating an additional account...")
	}

	currencies := domain.Currencies()
	m.println(fmt.Sprintf("\nAvailable currencies (Enter = %s):", currencies[0]))
	for i, c := range currencies {
		m.println(fmt.Sprintf("%d. %s (%s)", i+1, c.Description(), c))
	}
	answer, err := m.prompt("\nSelect currency number [Enter=1]: ")
	if err != nil {
		return err
	}
	idx := 0
	if answer != "" {
		idx = parseChoice(answer, len(currencies))
	}
	if idx < 0 {
		m.println(m.format.Error("Invalid currency"))
		return m.pause()
	}
	currency := currencies[idx]

	answer, err = m.prompt(fmt.Sprintf("\nInitial balance (%s): ", currency.Symbol()))
	if err != nil {
		return err
	}
	balance, ok := parseAmount(answer)
	if !ok || balance < 0 {
		m.fail(domain.ErrInvalidInitialBalance)
		return m.pause()
	}

	account, err := m.session.CreateAccount(ctx, usecase.CreateAccountInput{
		UserID:         user.ID,
		Currency:       currency,
		InitialBalance: balance,
	})
	if err != nil {
		m.fail(err)
	} else {
		m.println(m.format.Success(fmt.Sprintf("Account created: %s - %s",
			account.ID, m.format.Money(account.Balance, account.Currency))))
	}
	return m.pause()
}

func (m *Menu) viewBalance(ctx context.Context) error {
	m.println(m.format.Header("View Balance"))

	users, err := m.listUsers(ctx)
	if err != nil || users == nil {
		return err
	}

	answer, err := m.prompt("\nSelect user number or 'A' to list every account: ")
	if err != nil {
		return err
	}
	if strings.EqualFold(answer, "A") {
		m.listAllAccounts(ctx, users)
		return m.pause()
	}

	idx := parseChoice(answer, len(users))
	if idx < 0 {
		m.println(m.format.Error("Invalid selection"))
		return m.pause()
	}
	user := users[idx]

	account, err := m.chooseAccount(ctx, user)
	if err != nil || account == nil {
		return err
	}

	deposits, err := m.session.TotalDeposits(ctx)
	if err != nil {
		m.fail(err)
		return m.pause()
	}
	withdrawals, err := m.session.TotalWithdrawals(ctx)
	if err != nil {
		m.fail(err)
		return m.pause()
	}

	m.println("User: " + user.FullName())
	m.println("Account number: " + account.ID)
	m.println("Currency: " + account.Currency.Description())
	if !account.Active {
		m.println(m.format.Warning("This account is inactive"))
	}
	m.println("\nBalance: " + m.format.Bold(m.format.Money(account.Balance, account.Currency)))
	m.println("Total deposits: " + m.format.Money(deposits, account.Currency))
	m.println("Total withdrawals: " + m.format.Money(withdrawals, account.Currency))
	return m.pause()
}

func (m *Menu) listAllAccounts(ctx context.Context, users []*domain.User) {
	m.println("\nAll accounts:")
	for _, u := range users {
		accounts, err := m.wallet.ListAccountsByUser(ctx, u.ID)
		if err != nil {
			m.fail(err)
			return
		}
		for _, acc := range accounts {
			m.println(fmt.Sprintf("- User: %s | Account: %s | %s %s",
				u.FullName(), acc.ID, acc.Currency, m.format.Money(acc.Balance, acc.Currency)))
		}
	}
}

func (m *Menu) deposit(ctx context.Context) error {
	m.println(m.format.Header("Deposit"))

	account, err := m.selectUserAndAccount(ctx)
	if err != nil || account == nil {
		return err
	}

	answer, err := m.prompt("Amount to deposit: ")
	if err != nil {
		return err
	}
	amount, ok := parseAmount(answer)
	if !ok || amount <= 0 {
		m.fail(domain.ErrInvalidAmount)
		return m.pause()
	}

	result, err := m.session.Deposit(ctx, amount)
	if err != nil {
		m.fail(err)
	} else {
		m.println(m.format.Success("Current balance: " +
			m.format.Money(result.Account.Balance, result.Account.Currency)))
	}
	return m.pause()
}

func (m *Menu) withdraw(ctx context.Context) error {
	m.println(m.format.Header("Withdraw"))

	account, err := m.selectUserAndAccount(ctx)
	if err != nil || account == nil {
		return err
	}

	m.println("Available balance: " + m.format.Money(account.Balance, account.Currency))
	answer, err := m.prompt("Amount to withdraw: ")
	if err != nil {
		return err
	}
	amount, ok := parseAmount(answer)
	if !ok || amount <= 0 {
		m.fail(domain.ErrInvalidAmount)
		return m.pause()
	}

	result, err := m.session.Withdraw(ctx, amount)
	if err != nil {
		m.fail(err)
	} else {
		m.println(m.format.Success("Current balance: " +
			m.format.Money(result.Account.Balance, result.Account.Currency)))
	}
	return m.pause()
}

func (m *Menu) convert(ctx context.Context) error {
	m.println(m.format.Header("Convert Currency"))

	account, err := m.selectUserAndAccount(ctx)
	if err != nil || account == nil {
		return err
	}

	m.println(fmt.Sprintf("\nCurrent currency: %s (%s)", account.Currency, account.Currency.Description()))
	m.println("Current balance: " + m.format.Money(account.Balance, account.Currency) + "\n")

	currencies := domain.Currencies()
	m.println("Currencies available for conversion:")
	for i, c := range currencies {
		if c != account.Currency {
			m.println(fmt.Sprintf("%d. %s (%s)", i+1, c.Description(), c))
		}
	}

	answer, err := m.prompt("\nSelect target currency number: ")
	if err != nil {
		return err
	}
	idx := parseChoice(answer, len(currencies))
	if idx < 0 || currencies[idx] == account.Currency {
		m.println(m.format.Error("Invalid selection"))
		return m.pause()
	}

	result, err := m.session.ConvertBalance(ctx, currencies[idx])
	if err != nil {
		m.fail(err)
		return m.pause()
	}

	m.println(m.format.Success("Conversion completed:"))
	m.println("  From: " + m.format.Money(result.OriginalAmount, result.OriginalCurrency))
	m.println("  To: " + m.format.Money(result.ConvertedAmount, result.Account.Currency))
	m.println("  Exchange rate: " + m.format.Rate(result.Rate))
	return m.pause()
}

func (m *Menu) history(ctx context.Context) error {
	m.println(m.format.Header("Transaction History"))

	if account, err := m.selectUserAndAccount(ctx); err != nil || account == nil {
		return err
	}

	transactions, err := m.session.TransactionHistory(ctx)
	if err != nil {
		m.fail(err)
		return m.pause()
	}

	if len(transactions) == 0 {
		m.println("\nNo transactions recorded for this account.")
		return m.pause()
	}

	m.println(fmt.Sprintf("\nTotal transactions: %d\n", len(transactions)))
	for _, t := range transactions {
		m.println("├─ " + t.Type.Description())
		m.println("│  Date: " + t.CreatedAt.Local().Format(historyTimeLayout))
		m.println("│  Amount: " + m.format.Money(t.Amount, t.CurrencyFrom))
		if t.Type == domain.TransactionTypeConversion {
			m.println("│  Converted to: " + m.format.Money(t.AmountInTarget, t.CurrencyTo))
		}
		m.println("")
	}
	return m.pause()
}

// selectUserAndAccount asks for a user and one of their accounts and makes
// it current. A nil account with a nil error means the operator was already
// told why nothing was selected.
func (m *Menu) selectUserAndAccount(ctx context.Context) (*domain.Account, error) {
	user, err := m.chooseUser(ctx, "No users registered.")
	if err != nil || user == nil {
		return nil, err
	}
	return m.chooseAccount(ctx, user)
}

func (m *Menu) chooseUser(ctx context.Context, emptyMessage string) (*domain.User, error) {
	users, err := m.wallet.ListUsers(ctx)
	if err != nil {
		m.fail(err)
		return nil, m.pause()
	}
	if len(users) == 0 {
		m.println(m.format.Error(emptyMessage))
		return nil, m.pause()
	}

	m.printUsers(users)
	answer, err := m.prompt("\nSelect user number: ")
	if err != nil {
		return nil, err
	}
	idx := parseChoice(answer, len(users))
	if idx < 0 {
		m.println(m.format.Error("Invalid selection"))
		return nil, m.pause()
	}
	return users[idx], nil
}

// listUsers prints the users, or an error and a pause when there are none.
func (m *Menu) listUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := m.wallet.ListUsers(ctx)
	if err != nil {
		m.fail(err)
		return nil, m.pause()
	}
	if len(users) == 0 {
		m.println(m.format.Error("No users registered."))
		return nil, m.pause()
	}
	m.printUsers(users)
	return users, nil
}

func (m *Menu) printUsers(users []*domain.User) {
	m.println("Registered users:")
	for i, u := range users {
		m.println(fmt.Sprintf("%d. %s (%s)", i+1, u.FullName(), u.Email))
	}
}

func (m *Menu) chooseAccount(ctx context.Context, user *domain.User) (*domain.Account, error) {
	accounts, err := m.wallet.ListAccountsByUser(ctx, user.ID)
	if err != nil {
		m.fail(err)
		return nil, m.pause()
	}
	if len(accounts) == 0 {
		m.println(m.format.Error("The user has no accounts."))
		return nil, m.pause()
	}

	chosen := accounts[0]
	if len(accounts) > 1 {
		m.println("\nUser accounts:")
		for i, acc := range accounts {
			m.println(fmt.Sprintf("%d. %s - %s (%s)", i+1, acc.ID, m.format.Money(acc.Balance, acc.Currency), acc.Currency))
		}
		answer, err := m.prompt("\nSelect account number: ")
		if err != nil {
			return nil, err
		}
		idx := parseChoice(answer, len(accounts))
		if idx < 0 {
			m.println(m.format.Error("Invalid selection"))
			return nil, m.pause()
		}
		chosen = accounts[idx]
	}

	account, err := m.session.Select(ctx, chosen.ID)
	if err != nil {
		m.fail(err)
		return nil, m.pause()
	}
	return account, nil
}

func (m *Menu) fail(err error) {
	m.println(m.format.Error(Message(err)))
}

func (m *Menu) pause() error {
	m.print("\nPress Enter to continue...")
	if _, err := m.readLine(); err != nil {
		return err
	}
	m.print(m.format.ClearScreen())
	return nil
}

func (m *Menu) prompt(label string) (string, error) {
	m.print(label)
	return m.readLine()
}

func (m *Menu) readLine() (string, error) {
	if !m.in.Scan() {
		if err := m.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(m.in.Text()), nil
}

func (m *Menu) print(s string) {
	fmt.Fprint(m.out, s)
}

func (m *Menu) println(s string) {
	fmt.Fprintln(m.out, s)
}

// parseChoice converts a 1-based answer into an index below limit, or -1.
func parseChoice(input string, limit int) int {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || n < 1 || n > limit {
		return -1
	}
	return n - 1
}

// parseAmount parses a decimal amount. Both "." and "," are accepted as the
// decimal separator.
func parseAmount(input string) (float64, bool) {
	input = strings.ReplaceAll(strings.TrimSpace(input), ",", ".")
	v, err := strconv.ParseFloat(input, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
