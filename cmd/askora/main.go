package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"askora/engine/actors"
	"askora/engine/library"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "askora",
		Short:         "Pay-per-question escrow marketplace on a simulated ledger",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Various aspect of this application require global and local settings. To keep things
			// clean and tidy we put these settings in a Viper configuration.
			conf := viper.New()
			if err := conf.BindPFlag("rootDir", cmd.Flags().Lookup("root-dir")); err != nil {
				return err
			}
			if err := conf.BindPFlag("logLevel", cmd.Flags().Lookup("log-level")); err != nil {
				return err
			}
			actors.InitConfig(conf)
			actors.SetConfig(conf)
			library.SetLogLevel(conf.GetInt("logLevel"))
			return nil
		},
	}
	cmd.PersistentFlags().String("root-dir", "", "directory holding config.yaml, the wallet and the ledger store")
	cmd.PersistentFlags().Int("log-level", 4, "0 fatal .. 5 trace")
	cmd.AddCommand(simulateCmd(), inspectCmd(), walletCmd(), configCmd())
	return cmd
}
