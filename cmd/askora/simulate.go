package main

import (
	"context"
	"fmt"
	"time"

	"github.com/facebookgo/clock"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"askora/engine/actors"
	"askora/engine/library"
	"askora/ledger"
	"askora/state"
	"askora/state/account"
)

func simulateCmd() *cobra.Command {
	var (
		fresh bool
		price string
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a scripted marketplace session and persist the ledger",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := ledger.ParseAmount(price)
			if err != nil {
				return err
			}
			return runSimulation(cmd.Context(), p, fresh)
		},
	}
	cmd.Flags().BoolVar(&fresh, "fresh", false, "ignore the stored ledger and overwrite it")
	cmd.Flags().StringVar(&price, "price", "10", "minimum price of the simulated account")
	return cmd
}

func runSimulation(ctx context.Context, price ledger.Amount, fresh bool) error {
	reg := prometheus.NewRegistry()
	mock := actors.SimulationClock()
	l, err := actors.NewLedger(mock, reg)
	if err != nil {
		return err
	}
	s, err := actors.OpenStore(ctx, l)
	if err != nil {
		return err
	}
	defer s.Stop(ctx)
	if fresh {
		l.Restore(ledger.Snapshot{})
	}
	actors.SyncClock(mock, l)

	m, err := actors.Ignite(ctx, l)
	if err != nil {
		return err
	}
	sim, err := newSimulation(ctx, m, mock)
	if err != nil {
		return err
	}
	for _, step := range sim.script(price) {
		trace, err := step.run()
		if err != nil {
			return errors.Wrap(err, step.name)
		}
		for _, tx := range trace {
			library.LogCLI(tx.String(), 3)
		}
		status := "ok"
		if failed := trace.Failed(); len(failed) > 0 {
			status = "failed: " + failed[0].Err.Error()
		}
		fmt.Printf("%-40s %d transactions, %s\n", step.name, len(trace), status)
	}
	for _, addr := range l.Sweep() {
		fmt.Printf("collected %s\n", addr)
	}
	actors.Persist(s, l)
	printCensus(m)
	printHash(l)
	printMetrics(reg)
	fmt.Println(library.Bye())
	return nil
}

type step struct {
	name string
	run  func() (ledger.Trace, error)
}

type simulation struct {
	ctx               context.Context
	m                 *state.Market
	clock             *clock.Mock
	alice, bob, carol ledger.Address
	aliceAccount      ledger.Address
}

func newSimulation(ctx context.Context, m *state.Market, c *clock.Mock) (*simulation, error) {
	sim := &simulation{ctx: ctx, m: m, clock: c}
	for name, addr := range map[string]*ledger.Address{"alice": &sim.alice, "bob": &sim.bob, "carol": &sim.carol} {
		var err error
		if *addr, err = actors.Treasury(m.Ledger, name); err != nil {
			return nil, err
		}
	}
	var err error
	sim.aliceAccount, err = m.AccountAddress(sim.alice)
	return sim, err
}

// ask submits to alice's account and remembers the id it was given.
func (s *simulation) ask(from ledger.Address, content string, id *uint32) func() (ledger.Trace, error) {
	return func() (ledger.Trace, error) {
		next, err := account.NextID(s.m.Ledger, s.aliceAccount)
		if err != nil {
			return nil, err
		}
		*id = next
		price, err := account.Price(s.m.Ledger, s.aliceAccount)
		if err != nil {
			return nil, err
		}
		return s.m.SubmitQuestion(s.ctx, from, s.aliceAccount, s.m.Codes.Policy.SubmitCost(price)+ledger.Coins(0.1), content)
	}
}

func (s *simulation) script(price ledger.Amount) []step {
	var replied, rejected, expired uint32
	tip := ledger.Coins(0.1)
	window := time.Duration(s.m.Codes.Policy.ExpirationWindow) * time.Second
	return []step{
		{"alice opens an account", func() (ledger.Trace, error) {
			return s.m.CreateAccount(s.ctx, s.alice, ledger.Coins(1), price, "ask me anything")
		}},
		{"bob asks alice", s.ask(s.bob, "what is the airspeed of an unladen swallow?", &replied)},
		{"alice replies", func() (ledger.Trace, error) {
			return s.m.Reply(s.ctx, s.alice, tip, replied, "african or european?")
		}},
		{"carol asks alice", s.ask(s.carol, "can I have your password?", &rejected)},
		{"alice rejects", func() (ledger.Trace, error) {
			return s.m.Reject(s.ctx, s.alice, tip, rejected)
		}},
		{"bob asks again", s.ask(s.bob, "are you there?", &expired)},
		{"carol cancels too early", func() (ledger.Trace, error) {
			return s.cancel(expired)
		}},
		{"carol cancels after expiry", func() (ledger.Trace, error) {
			s.clock.Add(window + 24*time.Hour)
			return s.cancel(expired)
		}},
	}
}

func (s *simulation) cancel(id uint32) (ledger.Trace, error) {
	q, err := s.m.QuestionAddress(s.aliceAccount, id)
	if err != nil {
		return nil, err
	}
	return s.m.CancelExpired(s.ctx, s.carol, q, ledger.Coins(0.1))
}

func printCensus(m *state.Market) {
	fmt.Println("\nACTORS")
	names, counts := m.Census()
	for _, name := range names {
		fmt.Printf("%-14s %d\n", name, counts[name])
	}
	fmt.Printf("\nroot %s holds %s\n", m.Root, m.Ledger.Balance(m.Root))
	for _, a := range m.Accounts() {
		fmt.Printf("account %s owner %s price %s balance %s asked %d submitted %d\n",
			a.Address.Short(), a.Owner.Short(), a.MinPrice, a.Balance, a.NextAssignedID, a.NextSubmittedID)
	}
	for _, q := range m.Questions() {
		fmt.Printf("question %s #%d %s balance %s %q\n", q.Address.Short(), q.ID, q.Status, q.Balance, q.Content)
	}
}

func printMetrics(reg *prometheus.Registry) {
	families, err := reg.Gather()
	if err != nil {
		library.LogCLI(err.Error(), 2)
		return
	}
	fmt.Println("\nMETRICS")
	for _, f := range families {
		for _, metric := range f.GetMetric() {
			var labels string
			for _, lp := range metric.GetLabel() {
				labels += fmt.Sprintf(" %s=%s", lp.GetName(), lp.GetValue())
			}
			value := metric.GetCounter().GetValue()
			if g := metric.GetGauge(); g != nil {
				value = g.GetValue()
			}
			fmt.Printf("%s%s %v\n", f.GetName(), labels, value)
		}
	}
}

func printHash(l *ledger.Ledger) {
	hash, err := l.Snapshot().Hash()
	if err != nil {
		library.LogCLI(err.Error(), 2)
		return
	}
	fmt.Printf("\nledger state hash %s\n", hash)
}
