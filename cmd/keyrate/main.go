// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

// Command keyrate measures how quickly each finger can press the keys
// around its resting position.
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"vawter.tech/keyrate/abort"
	"vawter.tech/keyrate/internal/config"
	"vawter.tech/keyrate/internal/logging"
)

// app holds the state shared by the subcommands once the root command
// has loaded it.
type app struct {
	cfgFile string
	verbose bool
	logger  *zap.Logger
	cfg     *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:          "keyrate",
		Short:        "Measure single-key typing rates for every finger position",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help commands
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				var err error
				a.logger, err = logging.New(a.verbose, nil)
				return err
			}

			var err error
			a.cfg, err = config.Load(a.cfgFile, cmd.Flags())
			if err != nil {
				return err
			}

			a.logger, err = logging.New(a.verbose, a.cfg)
			return err
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", os.Getenv("KEYRATE_CONFIG"), "config file path (or set KEYRATE_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose logging")
	rootCmd.PersistentFlags().String("data-dir", "", "directory for results and logs (default \"data\")")

	rootCmd.AddCommand(a.singleCmd())
	rootCmd.AddCommand(a.positionsCmd())
	rootCmd.AddCommand(a.showCmd())
	return rootCmd
}

func main() {
	// The signal is the root context, so an interrupt aborts whatever
	// measurement is running.
	sig := abort.New()
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	abort.OnReceive(sig, signals)

	if err := newRootCmd().ExecuteContext(sig); err != nil {
		os.Exit(1)
	}
}
