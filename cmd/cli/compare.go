package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"property-financing/internal/analysis"
	"property-financing/internal/config"
	"property-financing/internal/engine"
	"property-financing/internal/report"
)

func compareCommand(opts *rootOptions) *cobra.Command {
	var (
		cfgPath string
		rankBy  string
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Evaluate every scenario in a config side by side",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cfgPath == "" {
				return fmt.Errorf("--config is required")
			}
			var metric analysis.Metric
			if rankBy != "" {
				m, ok := analysis.MetricByKey(rankBy)
				if !ok {
					return fmt.Errorf("unknown metric %q", rankBy)
				}
				metric = m
			}

			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			results, err := engine.New().EvaluateAll(cmd.Context(), cfg.State().Models())
			if err != nil {
				return err
			}
			opts.log.Debug("compared scenarios")

			out := cmd.OutOrStdout()
			table := report.BuildTable(results)
			fmt.Fprintf(out, "%-24s", "")
			for _, h := range table.Headers {
				fmt.Fprintf(out, " %-34s", h)
			}
			fmt.Fprintln(out)
			for _, row := range table.Rows {
				fmt.Fprintf(out, "%-24s", row.Label)
				for _, cell := range row.Cells {
					text := cell.Text
					if cell.Best {
						text += " *"
					}
					fmt.Fprintf(out, " %-34s", text)
				}
				fmt.Fprintln(out)
			}
			fmt.Fprintln(out, "\n* best for that metric")

			if rankBy != "" {
				fmt.Fprintf(out, "\n%-4s %-6s %-34s %s\n", "rank", "key", "scenario", strings.ToLower(metric.Label))
				for i, r := range analysis.Rank(results, metric) {
					fmt.Fprintf(out, "%-4d %-6s %-34s %s\n", i+1, r.Key, r.Result.Label, formatMetric(metric, r.Value, r.Result.RefCurrency))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&cfgPath, "config", "", "Path to YAML config")
	cmd.Flags().StringVar(&rankBy, "rank", "", "Optional: also rank scenarios by this metric (irr, net_yield, cash_on_cash, monthly_cashflow, cash_invested, acquisition_cost)")
	return cmd
}

func formatMetric(m analysis.Metric, v float64, refCurrency string) string {
	switch m.Key {
	case analysis.MetricNetYield, analysis.MetricCashOnCash, analysis.MetricIRR:
		return report.Percent(v)
	default:
		return report.Money(v, refCurrency)
	}
}
