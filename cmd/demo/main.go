package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"property-financing/internal/config"
	"property-financing/internal/engine"
	"property-financing/internal/model"
	"property-financing/internal/report"
)

// Demo:
// - Take one scenario (default A, or one from --config)
// - Evaluate it under every financing mode
// - Print the first few projection years to show how the pieces fit together
func main() {
	cfgPath := flag.String("config", "", "Path to YAML config (optional)")
	key := flag.String("scenario", config.KeyA, "Scenario key to take from the config")
	n := flag.Int("n", 3, "Number of projection years to print per mode")
	outDir := flag.String("out", "", "Optional directory to write one cashflow CSV per mode (e.g. results/)")
	flag.Parse()

	sc := config.DefaultScenarioA()
	if *cfgPath != "" {
		cfg, err := config.Load(*cfgPath)
		if err != nil {
			panic(err)
		}
		s, ok := cfg.Scenarios[*key]
		if !ok {
			panic(fmt.Errorf("scenario %q not in %s", *key, *cfgPath))
		}
		sc = s
	}

	fmt.Printf("Scenario: %s (%s, %s)\n", sc.Name, sc.Emirate, report.Money(sc.PurchasePrice, sc.Currency.Home))
	fmt.Printf("Hold=%v years  Rent=%s  Vacancy=%v%%\n\n", sc.HoldYears, report.Money(sc.AnnualRent, sc.Currency.Home), sc.VacancyPct)

	eng := engine.New()
	for _, mode := range model.Modes() {
		variant := sc.Clone()
		variant.Financing.Mode = string(mode)
		variant.Name = fmt.Sprintf("%s [%s]", sc.Name, mode)
		res := eng.Evaluate(variant.ToModel())
		kpis := report.Headline(res)

		fmt.Printf("== %s ==\n", mode)
		fmt.Printf("cash invested=%s  debt service y1=%s  monthly=%s  net yield=%s  coc=%s  %s=%s\n",
			report.Money(res.CashInvestedRef, res.RefCurrency),
			report.Money(res.DebtServiceYear1Ref, res.RefCurrency),
			kpis.MonthlyCashflow,
			kpis.NetYield,
			kpis.CashOnCash,
			kpis.IRRLabel,
			kpis.IRR,
		)
		for i := 0; i < min(*n, len(res.Years)); i++ {
			y := res.Years[i]
			fmt.Printf(
				"  year %2d  rent=%10.0f  opex=%9.0f  noi=%10.0f  debt=%9.0f %s  net=%9.0f %s  cum=%10.0f %s\n",
				y.Year,
				y.CollectedRent,
				y.Opex,
				y.NOI,
				y.DebtServiceRef, res.RefCurrency,
				y.NetCashflowRef, res.RefCurrency,
				y.CumulativeRef, res.RefCurrency,
			)
		}
		fmt.Printf("  exit: sale=%s  payoff=%s  proceeds=%s\n\n",
			report.Money(res.Exit.SalePrice, res.HomeCurrency),
			report.Money(res.Exit.PayoffRef, res.RefCurrency),
			report.Money(res.Exit.ProceedsRef, res.RefCurrency),
		)

		if *outDir != "" {
			if err := os.MkdirAll(*outDir, 0o755); err != nil {
				panic(err)
			}
			path := filepath.Join(*outDir, fmt.Sprintf("cashflows-%s.csv", mode))
			if err := engine.WriteCashflowCSVFile(path, res); err != nil {
				panic(err)
			}
			fmt.Printf("  Wrote CSV: %s\n\n", path)
		}
	}
}
