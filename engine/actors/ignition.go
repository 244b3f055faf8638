package actors

import (
	"context"
	"time"

	"github.com/facebookgo/clock"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"askora/engine/library"
	"askora/engine/metrics"
	"askora/ledger"
	"askora/state"
)

// SponsorWallet names the treasury wallet that sponsors the market.
const SponsorWallet = "sponsor"

// NewLedger builds a ledger with the configured fees and registers its metrics on reg.
func NewLedger(c clock.Clock, reg prometheus.Registerer) (*ledger.Ledger, error) {
	fees, err := FeesFromConfig(MakeOrGetConfig())
	if err != nil {
		return nil, err
	}
	collector, err := metrics.New(reg)
	if err != nil {
		return nil, err
	}
	return ledger.New(
		ledger.WithClock(c),
		ledger.WithFees(fees),
		ledger.WithMetrics(collector),
		ledger.WithMaxRounds(MakeOrGetConfig().GetInt("maxRounds")),
	), nil
}

// Ignite registers the configured market on l. If its root is not deployed yet,
// MyWallet deploys it with the sponsor treasury as sponsor.
func Ignite(ctx context.Context, l *ledger.Ledger) (*state.Market, error) {
	policy, err := PolicyFromConfig(MakeOrGetConfig())
	if err != nil {
		return nil, err
	}
	codes, err := state.NewCodebook(policy)
	if err != nil {
		return nil, err
	}
	m, err := state.NewMarket(l, codes)
	if err != nil {
		return nil, err
	}
	if s, ok := l.Instance(m.Root); ok && s.Initialized() {
		return m, nil
	}
	deployer, err := FundMyWallet(l)
	if err != nil {
		return nil, err
	}
	sponsor, err := Treasury(l, SponsorWallet)
	if err != nil {
		return nil, err
	}
	deposit, err := AmountFromConfig(MakeOrGetConfig(), "rootDeposit")
	if err != nil {
		return nil, err
	}
	trace, err := m.Deploy(ctx, deployer, sponsor, deposit)
	if err != nil {
		return nil, err
	}
	if failed := trace.Failed(); len(failed) > 0 {
		return nil, errors.Wrap(failed[0].Err, "root deploy")
	}
	library.LogCLI("market root deployed at "+m.Root.String(), 4)
	return m, nil
}

// Treasury returns the named simulation wallet, minting the configured treasury into it on first use.
func Treasury(l *ledger.Ledger, name string) (ledger.Address, error) {
	init, err := ledger.WalletInit([]byte(name))
	if err != nil {
		return ledger.ZeroAddress, err
	}
	return fundOnce(l, init)
}

// FundMyWallet makes MyWallet known to l.
func FundMyWallet(l *ledger.Ledger) (ledger.Address, error) {
	init, err := WalletInit(MyWallet())
	if err != nil {
		return ledger.ZeroAddress, err
	}
	return fundOnce(l, init)
}

func fundOnce(l *ledger.Ledger, init ledger.StateInit) (ledger.Address, error) {
	if _, ok := l.Instance(init.Address()); ok {
		return init.Address(), nil
	}
	amount, err := AmountFromConfig(MakeOrGetConfig(), "treasury")
	if err != nil {
		return ledger.ZeroAddress, err
	}
	return l.Fund(init, amount)
}

// SimulationClock is a mock clock starting at the current wall time.
func SimulationClock() *clock.Mock {
	mock := clock.NewMock()
	mock.Add(time.Duration(time.Now().Unix()) * time.Second)
	return mock
}

// SyncClock moves mock forward to the ledger time if a restored snapshot is ahead of it.
func SyncClock(mock *clock.Mock, l *ledger.Ledger) {
	if now := l.Now(); now > mock.Now().Unix() {
		mock.Add(time.Duration(now-mock.Now().Unix()) * time.Second)
	}
}
