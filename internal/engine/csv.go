package engine

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"property-financing/internal/model"
)

var cashflowHeader = []string{
	"year",
	"gross_rent",
	"collected_rent",
	"fixed_costs",
	"variable_costs",
	"opex",
	"noi",
	"noi_ref",
	"debt_service_ref",
	"net_cashflow_ref",
	"sale_proceeds_ref",
	"total_ref",
	"cumulative_ref",
}

// WriteCashflowCSV writes the yearly ledger of a result. Row 0 is the initial outlay.
func WriteCashflowCSV(out io.Writer, res model.ScenarioResult) error {
	w := csv.NewWriter(out)

	if err := w.Write(cashflowHeader); err != nil {
		return err
	}

	outlay := 0.0
	if len(res.Cashflows) > 0 {
		outlay = res.Cashflows[0]
	}
	zero := fmtFloat(0)
	year0 := []string{"0", zero, zero, zero, zero, zero, zero, zero, zero, zero, zero, fmtFloat(outlay), fmtFloat(outlay)}
	if err := w.Write(year0); err != nil {
		return err
	}

	for _, r := range res.Years {
		row := []string{
			strconv.Itoa(r.Year),
			fmtFloat(r.GrossRent),
			fmtFloat(r.CollectedRent),
			fmtFloat(r.FixedCosts),
			fmtFloat(r.VariableCosts),
			fmtFloat(r.Opex),
			fmtFloat(r.NOI),
			fmtFloat(r.NOIRef),
			fmtFloat(r.DebtServiceRef),
			fmtFloat(r.NetCashflowRef),
			fmtFloat(r.SaleProceedsRef),
			fmtFloat(r.TotalRef),
			fmtFloat(r.CumulativeRef),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// WriteCashflowCSVFile is WriteCashflowCSV to a file path.
func WriteCashflowCSVFile(path string, res model.ScenarioResult) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return WriteCashflowCSV(f, res)
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
