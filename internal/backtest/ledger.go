package backtest

import (
	"energy-lsmc/internal/model"
)

// LedgerRow is one decision step of a replayed scenario.
// This is the primary artifact for "what happened" along one price path.
type LedgerRow struct {
	Step int

	Price float64

	Action model.Action
	Label  string

	StateStart int
	StateEnd   int
	LevelStart float64
	LevelEnd   float64

	CashFlow    float64
	CumCashFlow float64
}

type Result struct {
	Kind     model.ContractKind
	Scenario int

	Ledger       []LedgerRow
	Total        float64
	PresentValue float64
	FinalLevel   float64
}
