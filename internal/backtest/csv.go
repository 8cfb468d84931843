package backtest

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/shopspring/decimal"
)

func WriteLedgerCSV(path string, ledger []LedgerRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return WriteLedger(f, ledger)
}

// WriteLedger writes ledger rows as CSV with a header line.
func WriteLedger(out io.Writer, ledger []LedgerRow) error {
	w := csv.NewWriter(out)

	header := []string{
		"step",
		"price",
		"action",
		"state_start",
		"state_end",
		"level_start",
		"level_end",
		"cash_flow",
		"cum_cash_flow",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range ledger {
		row := []string{
			strconv.Itoa(r.Step),
			fmtMoney(r.Price),
			r.Label,
			strconv.Itoa(r.StateStart),
			strconv.Itoa(r.StateEnd),
			fmtFloat(r.LevelStart),
			fmtFloat(r.LevelEnd),
			fmtMoney(r.CashFlow),
			fmtMoney(r.CumCashFlow),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// fmtMoney renders amounts at six fixed decimals.
func fmtMoney(x float64) string {
	return decimal.NewFromFloat(x).StringFixed(6)
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
