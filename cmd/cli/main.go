package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"property-financing/internal/logging"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

type rootOptions struct {
	verbose bool
	log     *zap.Logger
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{log: zap.NewNop()}

	root := &cobra.Command{
		Use:   "cli",
		Short: "Evaluate and compare property financing scenarios",
		Long: `Evaluate property purchase scenarios held for a number of years and financed
with cash, a local mortgage, a developer payment plan or a foreign-currency loan.

examples:
  cli evaluate --config examples/scenarios.yaml --scenario A --out results/cashflows.csv
  cli compare --config examples/scenarios.yaml --rank irr
  cli defaults > scenarios.yaml
  cli export --state-db property-financing.db --out backup.json`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if !opts.verbose {
				return nil
			}
			log, err := logging.New("", true)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			opts.log = log
			return nil
		},
	}
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log debug output to stderr")

	root.AddCommand(
		evaluateCommand(opts),
		compareCommand(opts),
		defaultsCommand(),
		exportCommand(opts),
		importCommand(opts),
	)
	return root
}
