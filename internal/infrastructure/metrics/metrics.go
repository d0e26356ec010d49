package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

// OutcomeSuccess labels operations that completed.
const OutcomeSuccess = "success"

// Metrics holds all Prometheus metrics and implements usecase.Recorder.
type Metrics struct {
	registry *prometheus.Registry

	// Operation metrics
	Operations *prometheus.CounterVec

	// Wallet metrics
	UsersRegistered prometheus.Counter
	AccountsCreated prometheus.Counter
	AccountBalance  *prometheus.GaugeVec
	Conversions     *prometheus.CounterVec
}

// New creates the metrics and registers them on registry. A nil registry
// gets a fresh one.
func New(registry *prometheus.Registry) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		Operations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gowallet_operations_total",
				Help: "Total wallet operations by outcome",
			},
			[]string{"operation", "outcome"},
		),

		UsersRegistered: factory.NewCounter(prometheus.CounterOpts{
			Name: "gowallet_users_registered_total",
			Help: "Total number of users registered",
		}),
		AccountsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "gowallet_accounts_created_total",
			Help: "Total number of accounts created",
		}),
		AccountBalance: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "gowallet_account_balance",
				Help: "Current account balance in the account currency",
			},
			[]string{"account_id", "currency"},
		),
		Conversions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gowallet_conversions_total",
				Help: "Total balance conversions by currency pair",
			},
			[]string{"from", "to"},
		),
	}
}

// Registry returns the registry the metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveOperation counts op under its outcome: "success" or the error kind.
func (m *Metrics) ObserveOperation(op string, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = string(domain.ErrorKind(err))
	}
	m.Operations.WithLabelValues(op, outcome).Inc()

	if err != nil {
		return
	}
	switch op {
	case usecase.OpRegisterUser:
		m.UsersRegistered.Inc()
	case usecase.OpCreateAccount:
		m.AccountsCreated.Inc()
	}
}

// ObserveAccount publishes the account balance. Series for the account's
// previous currencies are dropped.
func (m *Metrics) ObserveAccount(account *domain.Account) {
	for _, c := range domain.Currencies() {
		if c != account.Currency {
			m.AccountBalance.DeleteLabelValues(account.ID, c.String())
		}
	}
	m.AccountBalance.WithLabelValues(account.ID, account.Currency.String()).Set(account.Balance)
}

// ObserveConversion counts a conversion between two currencies.
func (m *Metrics) ObserveConversion(from, to domain.Currency) {
	m.Conversions.WithLabelValues(from.String(), to.String()).Inc()
}

// WriteTextfile writes every registered metric to path in the Prometheus
// text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
