package main

import (
	"fmt"

	"github.com/eiannone/keyboard"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"askora/engine/actors"
	"askora/engine/library"
	"askora/state"
)

func inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "Browse the stored ledger with single key presses",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			mock := actors.SimulationClock()
			l, err := actors.NewLedger(mock, prometheus.NewRegistry())
			if err != nil {
				return err
			}
			s, err := actors.OpenStore(ctx, l)
			if err != nil {
				return err
			}
			defer s.Stop(ctx)
			actors.SyncClock(mock, l)
			m, err := actors.Ignite(ctx, l)
			if err != nil {
				return err
			}
			terminate := make(chan struct{})
			actors.SetTerminateChan(terminate)
			go cliListener(m)
			<-terminate
			actors.Persist(s, l)
			fmt.Println(library.Bye())
			return nil
		},
	}
}

// cliListener is a cheap and nasty way to look at the ledger. It listens for keypresses and prints state.
func cliListener(m *state.Market) {
	fmt.Println("VIEW CURRENT STATE:\na: accounts\nq: questions\nr: question refs\ns: actor census\nt: ledger time\nh: ledger state hash\nw: current wallet\nc: engine config\nx: sweep storage rent\nQ: to quit")
	for {
		r, k, err := keyboard.GetSingleKey()
		if err != nil {
			library.LogCLI(err.Error(), 1)
			actors.Terminate()
			return
		}
		str := string(r)
		switch str {
		default:
			if k == keyboard.KeyEnter {
				fmt.Println("\n-----------------------------------")
				break
			}
			if r == 0 {
				break
			}
			fmt.Println("Key " + str + " is not bound to anything. See cliListener.go for more details.")
		case "Q":
			actors.Terminate()
			return
		case "a":
			for _, a := range m.Accounts() {
				fmt.Printf("\n%#v\n", a)
			}
		case "q":
			for _, q := range m.Questions() {
				fmt.Printf("\nADDRESS: %s STATUS: %s\n%#v\n", q.Address, q.Status, q)
			}
		case "r":
			for _, ref := range m.QuestionRefs() {
				fmt.Printf("\n%#v\n", ref)
			}
		case "s":
			printCensus(m)
		case "t":
			fmt.Printf("ledger time %d, %d messages pending\n", m.Ledger.Now(), m.Ledger.Pending())
		case "h":
			printHash(m.Ledger)
		case "w":
			w := actors.MyWallet()
			addr, err := actors.WalletAddress(w)
			if err != nil {
				library.LogCLI(err.Error(), 2)
				break
			}
			fmt.Printf("Current Wallet: \n%s\nAddress: %s\nBalance: %s\n", w.PublicKey, addr, m.Ledger.Balance(addr))
		case "c":
			printConfig()
		case "x":
			for _, addr := range m.Ledger.Sweep() {
				fmt.Printf("collected %s\n", addr)
			}
		}
	}
}
