package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/iho/gowallet/internal/adapter/console"
	"github.com/iho/gowallet/internal/adapter/repository/memory"
	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/infrastructure/config"
	"github.com/iho/gowallet/internal/infrastructure/logger"
	"github.com/iho/gowallet/internal/infrastructure/metrics"
	"github.com/iho/gowallet/internal/usecase"
)

type flags struct {
	logLevel    string
	logFormat   string
	noColor     bool
	metricsFile string
}

// app holds everything a command needs once configuration is resolved.
type app struct {
	cfg     *config.Config
	log     zerolog.Logger
	metrics *metrics.Metrics
	wallet  *usecase.WalletUseCase
	format  *console.Formatter
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		f flags
		a *app
	)

	rootCmd := &cobra.Command{
		Use:           "wallet",
		Short:         "Multi-currency wallet simulator",
		Long:          `An interactive console wallet holding CLP, USD and EUR accounts with fixed exchange rates.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			applyFlags(cmd, f, cfg)
			a = newApp(cfg, cmd.ErrOrStderr())
			cmd.SetContext(a.log.WithContext(cmd.Context()))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			session := usecase.NewSession(a.wallet)
			menu := console.NewMenu(session, a.format, cmd.InOrStdin(), cmd.OutOrStdout())
			return menu.Run(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a == nil || a.cfg.MetricsFile == "" {
				return nil
			}
			if err := a.metrics.WriteTextfile(a.cfg.MetricsFile); err != nil {
				return fmt.Errorf("write metrics: %w", err)
			}
			a.log.Debug().Str("path", a.cfg.MetricsFile).Msg("metrics written")
			return nil
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&f.logLevel, "log-level", "", "Log level: debug, info, warn, error or disabled")
	pf.StringVar(&f.logFormat, "log-format", "", "Log format: console or json")
	pf.BoolVar(&f.noColor, "no-color", false, "Disable ANSI colours")
	pf.StringVar(&f.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file on exit")

	rootCmd.AddCommand(ratesCmd(func() *app { return a }))
	rootCmd.AddCommand(convertCmd(func() *app { return a }))

	return rootCmd
}

// applyFlags lets explicitly set flags win over configuration.
func applyFlags(cmd *cobra.Command, f flags, cfg *config.Config) {
	set := cmd.Flags()
	if set.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if set.Changed("log-format") {
		cfg.LogFormat = f.logFormat
	}
	if set.Changed("no-color") {
		cfg.NoColor = f.noColor
	}
	if set.Changed("metrics-file") {
		cfg.MetricsFile = f.metricsFile
	}
}

func newApp(cfg *config.Config, logOut io.Writer) *app {
	log := logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Out:     logOut,
		NoColor: cfg.NoColor,
	})

	store := memory.NewStore(memory.WithMaxAccountsPerUser(cfg.MaxAccountsPerUser))
	m := metrics.New(prometheus.NewRegistry())

	wallet := usecase.NewWalletUseCase(usecase.WalletConfig{
		Users:              memory.NewUserRepository(store),
		Accounts:           memory.NewAccountRepository(store),
		Transactions:       memory.NewTransactionRepository(store),
		TxManager:          memory.NewTxManager(store),
		IDGen:              memory.NewULIDGenerator(),
		Retrier:            memory.NewRetrier(cfg.RetryMax),
		Recorder:           m,
		MaxAccountsPerUser: cfg.MaxAccountsPerUser,
	})

	log.Debug().
		Int("max_accounts_per_user", wallet.MaxAccountsPerUser()).
		Int("retry_max", cfg.RetryMax).
		Msg("wallet ready")

	return &app{
		cfg:     cfg,
		log:     log,
		metrics: m,
		wallet:  wallet,
		format:  console.NewFormatter(!cfg.NoColor),
	}
}

func ratesCmd(current func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rates",
		Short: "Print the exchange rate between every pair of currencies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := current()
			currencies := domain.Currencies()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprint(w, "FROM\\TO")
			for _, to := range currencies {
				fmt.Fprintf(w, "\t%s", to)
			}
			fmt.Fprintln(w)

			for _, from := range currencies {
				fmt.Fprint(w, from)
				for _, to := range currencies {
					rate, err := a.wallet.ExchangeRate(from, to)
					if err != nil {
						return err
					}
					fmt.Fprintf(w, "\t%s", a.format.Rate(rate))
				}
				fmt.Fprintln(w)
			}
			return w.Flush()
		},
	}
}

func convertCmd(current func() *app) *cobra.Command {
	return &cobra.Command{
		Use:     "convert AMOUNT FROM TO",
		Short:   "Quote a conversion without touching any account",
		Example: "  wallet convert 1500 USD EUR",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := current()

			invalidAmount := fmt.Errorf("invalid amount %q: expected a number of 0 or more", args[0])
			amount, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return invalidAmount
			}
			from, err := domain.ParseCurrency(args[1])
			if err != nil {
				return errors.New(console.Message(err))
			}
			to, err := domain.ParseCurrency(args[2])
			if err != nil {
				return errors.New(console.Message(err))
			}

			converted, err := a.wallet.Quote(amount, from, to)
			if errors.Is(err, domain.ErrInvalidArgument) {
				return invalidAmount
			}
			if err != nil {
				zerolog.Ctx(cmd.Context()).Warn().Err(err).Msg("quote rejected")
				return errors.New(console.Message(err))
			}
			rate, err := a.wallet.ExchangeRate(from, to)
			if err != nil {
				return errors.New(console.Message(err))
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s (rate %s)\n",
				a.format.Money(amount, from), a.format.Money(converted, to), a.format.Rate(rate))
			return nil
		},
	}
}
