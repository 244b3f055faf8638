package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"askora/engine/actors"
	"askora/engine/library"
)

func walletCmd() *cobra.Command {
	var generate bool
	cmd := &cobra.Command{
		Use:   "wallet",
		Short: "Show the engine wallet, or generate a throwaway one",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				w   library.Wallet
				err error
			)
			if generate {
				w, err = actors.NewWallet()
			} else {
				w = actors.MyWallet()
			}
			if err != nil {
				return err
			}
			addr, err := actors.WalletAddress(w)
			if err != nil {
				return err
			}
			fmt.Printf("Public Key: %s\nAddress: %s\nSeed Words: %s\n", w.PublicKey, addr, w.SeedWords)
			return nil
		},
	}
	cmd.Flags().BoolVar(&generate, "generate", false, "print a new wallet without saving it")
	return cmd
}
