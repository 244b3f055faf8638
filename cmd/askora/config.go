package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"askora/engine/actors"
	"askora/ledger"
)

func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Run: func(*cobra.Command, []string) {
			printConfig()
		},
	}
}

func printConfig() {
	fmt.Println("CURRENT CONFIG")
	conf := actors.MakeOrGetConfig()
	keys := conf.AllKeys()
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Printf("Key: %s; Value: %v\n", k, conf.Get(k))
	}
	policy, err := actors.PolicyFromConfig(conf)
	if err != nil {
		fmt.Printf("\npolicy is invalid: %v\n", err)
		return
	}
	costs := map[string]string{
		"question reserve":        policy.QuestionReserve.String(),
		"forwarding reserve":      policy.ForwardingReserve().String(),
		"submit cost at price 0":  policy.SubmitCost(0).String(),
		"submit cost at price 10": policy.SubmitCost(ledger.Coins(10)).String(),
	}
	names := maps.Keys(costs)
	slices.Sort(names)
	fmt.Println("\nDERIVED COSTS")
	for _, name := range names {
		fmt.Printf("%s: %s\n", name, costs[name])
	}
}
