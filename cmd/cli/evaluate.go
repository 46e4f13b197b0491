package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"property-financing/internal/analysis"
	"property-financing/internal/config"
	"property-financing/internal/engine"
	"property-financing/internal/model"
	"property-financing/internal/report"
)

func evaluateCommand(opts *rootOptions) *cobra.Command {
	var (
		cfgPath  string
		scenario string
		outPath  string
		showLoan bool
	)

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate one scenario and optionally write its annual cashflows as CSV",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cfgPath == "" {
				return fmt.Errorf("--config is required")
			}
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}

			key, err := pickScenario(cfg, scenario)
			if err != nil {
				return err
			}
			mc := cfg.Scenarios[key].ToModel()
			if mc.Name == "" {
				mc.Name = key
			}
			res := engine.New().Evaluate(mc)
			opts.log.Debug("evaluated scenario",
				zap.String("scenario", key),
				zap.String("mode", string(res.Mode)),
				zap.Float64("irr", res.IRR),
			)

			printResult(cmd, key, res)
			if showLoan {
				printLoanSchedule(cmd, res)
			}

			if outPath != "" {
				if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
					return err
				}
				if err := engine.WriteCashflowCSVFile(outPath, res); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d rows to %s\n", len(res.Years)+1, outPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&cfgPath, "config", "", "Path to YAML config")
	cmd.Flags().StringVar(&scenario, "scenario", "", "Scenario key (optional when the config holds one scenario)")
	cmd.Flags().StringVar(&outPath, "out", "", "Optional: write annual cashflows CSV here")
	cmd.Flags().BoolVar(&showLoan, "loan", false, "Also print the yearly repayment schedule of an amortizing loan")
	return cmd
}

func pickScenario(cfg *config.Config, key string) (string, error) {
	keys := cfg.State().Keys()
	if key != "" {
		if _, ok := cfg.Scenarios[key]; !ok {
			return "", fmt.Errorf("scenario %q not found (have %s)", key, strings.Join(keys, ", "))
		}
		return key, nil
	}
	if len(keys) == 1 {
		return keys[0], nil
	}
	return "", fmt.Errorf("--scenario is required when the config holds several scenarios (have %s)", strings.Join(keys, ", "))
}

func printResult(cmd *cobra.Command, key string, r model.ScenarioResult) {
	out := cmd.OutOrStdout()
	kpis := report.Headline(r)
	sum := analysis.Summarize(r)

	fmt.Fprintf(out, "%s: %s (%s, %d years)\n", key, r.Label, r.Mode, r.HoldYears)
	fmt.Fprintf(out, "  %-24s %s\n", "Purchase Price", report.Money(r.PurchasePrice, r.HomeCurrency))
	fmt.Fprintf(out, "  %-24s %s / %s\n", "Total Acq. Cost", report.Money(r.TotalAcquisitionCost.Home, r.HomeCurrency), report.Money(r.TotalAcquisitionCost.Ref, r.RefCurrency))
	fmt.Fprintf(out, "  %-24s %s\n", "Cash Invested", report.Money(r.CashInvestedRef, r.RefCurrency))
	fmt.Fprintf(out, "  %-24s %s\n", "Debt Service (Year 1)", report.Money(r.DebtServiceYear1Ref, r.RefCurrency))
	fmt.Fprintf(out, "  %-24s %s\n", "Monthly Cashflow", kpis.MonthlyCashflow)
	fmt.Fprintf(out, "  %-24s %s\n", "Net Yield (Year 1)", kpis.NetYield)
	fmt.Fprintf(out, "  %-24s %s\n", "Cash-on-Cash (Year 1)", kpis.CashOnCash)
	fmt.Fprintf(out, "  %-24s %s\n", kpis.IRRLabel, kpis.IRR)
	fmt.Fprintf(out, "  %-24s %s\n", "Sale Proceeds", report.Money(r.Exit.ProceedsRef, r.RefCurrency))
	if sum.PaybackYear > 0 {
		fmt.Fprintf(out, "  %-24s year %d\n", "Payback", sum.PaybackYear)
	} else {
		fmt.Fprintf(out, "  %-24s %s\n", "Payback", report.NA)
	}
}

func printLoanSchedule(cmd *cobra.Command, r model.ScenarioResult) {
	out := cmd.OutOrStdout()
	if len(r.LoanSchedule) == 0 {
		fmt.Fprintln(out, "\nNo amortizing loan in this scenario")
		return
	}
	fmt.Fprintf(out, "\nLoan schedule (%s)\n", r.RefCurrency)
	fmt.Fprintf(out, "  %-4s %16s %16s %16s %16s\n", "year", "payment", "interest", "principal", "balance")
	for _, y := range r.LoanSchedule {
		marker := ""
		if y.Year == r.HoldYears {
			marker = "  <- exit"
		}
		fmt.Fprintf(out, "  %-4d %16s %16s %16s %16s%s\n",
			y.Year,
			report.Money(y.Payment, ""),
			report.Money(y.Interest, ""),
			report.Money(y.Principal, ""),
			report.Money(y.ClosingBalance, ""),
			marker,
		)
	}
}
