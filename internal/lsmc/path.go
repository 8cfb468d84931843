package lsmc

import (
	"fmt"

	"energy-lsmc/internal/model"
)

// PathSpec tells EvaluatePath how to read a policy tensor for one contract
// kind.
type PathSpec struct {
	Kind model.ContractKind
	// Start is the state index before the first decision.
	Start int
	// Discount is the one-step discount factor used for PresentValue.
	Discount float64
	// Level maps a state index to a physical quantity.
	Level func(state int) float64
	// CashFlow is the cash flow of taking action a at price.
	CashFlow func(price float64, a model.Action) float64
}

// Path is the realized trajectory of one scenario under a policy.
type Path struct {
	Kind     model.ContractKind
	Scenario int

	// States[t] and Levels[t] are the state before decision t+1; the last
	// entry is the state after maturity.
	States []int
	Levels []float64

	// Indexed by decision step t-1 for t = 1..T.
	Prices    []float64
	Actions   []model.Action
	CashFlows []float64

	// Total is the undiscounted sum of CashFlows.
	Total float64
	// PresentValue discounts the cash flow of step t by Discount^t.
	PresentValue float64
}

// EvaluatePath walks the policy of one scenario forward from spec.Start.
// The walk only reads the policy and prices, so repeated calls return the
// same path.
func EvaluatePath(policy *PolicyTensor, prices *model.PriceMatrix, scenario int, spec PathSpec) (*Path, error) {
	steps, states, sims := policy.Dims()
	if prices.Steps() != steps || prices.Scenarios() != sims {
		return nil, fmt.Errorf("%w: policy is %d steps x %d scenarios, prices are %d x %d",
			model.ErrShapeMismatch, steps, sims, prices.Steps(), prices.Scenarios())
	}
	if scenario < 0 || scenario >= sims {
		return nil, fmt.Errorf("%w: scenario %d outside 0..%d", model.ErrShapeMismatch, scenario, sims-1)
	}

	path := &Path{
		Kind:      spec.Kind,
		Scenario:  scenario,
		States:    make([]int, 0, steps+1),
		Levels:    make([]float64, 0, steps+1),
		Prices:    make([]float64, 0, steps),
		Actions:   make([]model.Action, 0, steps),
		CashFlows: make([]float64, 0, steps),
	}

	state, df := spec.Start, 1.0
	for t := 1; t <= steps; t++ {
		if err := policy.check(t, state, scenario); err != nil {
			return nil, fmt.Errorf("walk left the state grid: %w", err)
		}
		a := policy.At(t, state, scenario)
		price := prices.At(t, scenario)
		cf := spec.CashFlow(price, a)
		df *= spec.Discount

		path.States = append(path.States, state)
		path.Levels = append(path.Levels, spec.Level(state))
		path.Prices = append(path.Prices, price)
		path.Actions = append(path.Actions, a)
		path.CashFlows = append(path.CashFlows, cf)
		path.Total += cf
		path.PresentValue += df * cf

		state += int(a)
	}
	if state < 0 || state >= states {
		return nil, fmt.Errorf("%w: walk ended at state %d outside 0..%d", model.ErrShapeMismatch, state, states-1)
	}
	path.States = append(path.States, state)
	path.Levels = append(path.Levels, spec.Level(state))
	return path, nil
}
