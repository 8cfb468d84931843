// Package backtest replays a valuation policy along one price scenario and
// records the resulting ledger.
package backtest

import (
	"fmt"

	"energy-lsmc/internal/lsmc"
)

type Engine struct{}

func New() *Engine { return &Engine{} }

// Run turns a policy path into ledger rows, one per decision step.
func (e *Engine) Run(path *lsmc.Path) (*Result, error) {
	if path == nil {
		return nil, fmt.Errorf("path is nil")
	}
	steps := len(path.Actions)
	if steps == 0 {
		return nil, fmt.Errorf("path has no decision steps")
	}
	if len(path.States) != steps+1 || len(path.Prices) != steps || len(path.CashFlows) != steps {
		return nil, fmt.Errorf("path is inconsistent: %d actions, %d states, %d prices, %d cash flows",
			steps, len(path.States), len(path.Prices), len(path.CashFlows))
	}

	ledger := make([]LedgerRow, 0, steps)
	cum := 0.0
	for idx, a := range path.Actions {
		cum += path.CashFlows[idx]
		ledger = append(ledger, LedgerRow{
			Step:  idx + 1,
			Price: path.Prices[idx],

			Action: a,
			Label:  a.Label(path.Kind),

			StateStart: path.States[idx],
			StateEnd:   path.States[idx+1],
			LevelStart: path.Levels[idx],
			LevelEnd:   path.Levels[idx+1],

			CashFlow:    path.CashFlows[idx],
			CumCashFlow: cum,
		})
	}

	return &Result{
		Kind:         path.Kind,
		Scenario:     path.Scenario,
		Ledger:       ledger,
		Total:        cum,
		PresentValue: path.PresentValue,
		FinalLevel:   path.Levels[steps],
	}, nil
}
