// Package statetest builds a deployed marketplace on a mock clock for tests.
package statetest

import (
	"context"
	"testing"
	"time"

	"github.com/facebookgo/clock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"askora/ledger"
	"askora/market"
	"askora/state"
	acct "askora/state/account"
)

// Genesis is the mock clock's starting time.
var Genesis = time.Unix(1_700_000_000, 0)

// StartingBalance is minted into every fixture wallet.
var StartingBalance = ledger.Coins(1000)

// RootDeposit is sent along with the root deployment.
var RootDeposit = ledger.Coins(1)

type Fixture struct {
	*state.Market
	t     testing.TB
	Clock *clock.Mock
	Ctx   context.Context

	Deployer ledger.Address
	Sponsor  ledger.Address
	Alice    ledger.Address
	Bob      ledger.Address
	Carol    ledger.Address
	Mallory  ledger.Address
}

// New deploys a market under the default policy with the given ledger fees.
func New(t testing.TB, fees ledger.Fees) *Fixture {
	t.Helper()
	mock := clock.NewMock()
	mock.Add(time.Duration(Genesis.Unix()) * time.Second)
	l := ledger.New(ledger.WithClock(mock), ledger.WithFees(fees))
	codes, err := state.NewCodebook(market.DefaultPolicy())
	require.NoError(t, err)
	m, err := state.NewMarket(l, codes)
	require.NoError(t, err)

	f := &Fixture{Market: m, t: t, Clock: mock, Ctx: context.Background()}
	for name, addr := range map[string]*ledger.Address{
		"deployer": &f.Deployer,
		"sponsor":  &f.Sponsor,
		"alice":    &f.Alice,
		"bob":      &f.Bob,
		"carol":    &f.Carol,
		"mallory":  &f.Mallory,
	} {
		*addr, err = l.Treasury(name, StartingBalance)
		require.NoError(t, err)
	}
	RequireOK(t, f.Must(f.Deploy(f.Ctx, f.Deployer, f.Sponsor, RootDeposit)))
	return f
}

// Must fails the test on platform errors and returns the trace.
func (f *Fixture) Must(trace ledger.Trace, err error) ledger.Trace {
	f.t.Helper()
	require.NoError(f.t, err)
	return trace
}

// RequireOK fails unless every transaction in trace committed.
func RequireOK(t testing.TB, trace ledger.Trace) {
	t.Helper()
	require.NotEmpty(t, trace)
	require.Empty(t, trace.Failed(), "failed transactions:\n%s", trace.Failed())
}

// RequireFailure asserts the first failed transaction in trace failed with target.
func RequireFailure(t testing.TB, trace ledger.Trace, target error) ledger.Transaction {
	t.Helper()
	failed := trace.Failed()
	require.NotEmpty(t, failed, "expected a failure in:\n%s", trace)
	require.True(t, errors.Is(failed[0].Err, target), "got %v, want %v", failed[0].Err, target)
	return failed[0]
}

// OpenAccount creates owner's account at price and returns its address.
func (f *Fixture) OpenAccount(t testing.TB, owner ledger.Address, price ledger.Amount) ledger.Address {
	t.Helper()
	RequireOK(t, f.Must(f.CreateAccount(f.Ctx, owner, ledger.Coins(1), price, "answers")))
	addr, err := f.AccountAddress(owner)
	require.NoError(t, err)
	return addr
}

// Ask submits a question to account and returns the question's address.
func (f *Fixture) Ask(t testing.TB, from, account ledger.Address, value ledger.Amount, content string) ledger.Address {
	t.Helper()
	before, err := acct.NextID(f.Ledger, account)
	require.NoError(t, err)
	RequireOK(t, f.Must(f.SubmitQuestion(f.Ctx, from, account, value, content)))
	addr, err := f.QuestionAddress(account, before)
	require.NoError(t, err)
	return addr
}

// Balance of addr.
func (f *Fixture) Balance(addr ledger.Address) ledger.Amount {
	return f.Ledger.Balance(addr)
}

// Advance moves the clock forward.
func (f *Fixture) Advance(d time.Duration) {
	f.Clock.Add(d)
}

// Received sums the value delivered to to with op in trace.
func Received(trace ledger.Trace, to ledger.Address, op ledger.Op) ledger.Amount {
	var total ledger.Amount
	for _, tx := range trace {
		if tx.To == to && tx.Op == op && tx.Success && !tx.Bounced {
			total += tx.Value
		}
	}
	return total
}
