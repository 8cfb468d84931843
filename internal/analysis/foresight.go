package analysis

import (
	"fmt"
	"math"
	"sort"

	"energy-lsmc/internal/lsmc"
	"energy-lsmc/internal/model"

	"gonum.org/v1/gonum/stat"
)

// Foresight is a perfect-foresight valuation: every scenario is optimized
// with its whole price path known in advance. Its Price bounds the LSMC
// price from above, scenario by scenario.
type Foresight struct {
	Price  float64
	Values []float64 // per scenario, discounted to t=1 like the LSMC values
}

// StorageForesight runs a deterministic dynamic program per scenario over the
// same inventory grid and feasibility window as the LSMC engine.
func StorageForesight(p model.StorageParams, prices *model.PriceMatrix) (*Foresight, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := prices.ExpectShape(p.Steps, p.Scenarios); err != nil {
		return nil, err
	}

	steps, states := prices.Steps(), p.StateCount()
	d, q := p.Discount(), float64(p.DCQ)
	negInf := math.Inf(-1)

	out := &Foresight{Values: make([]float64, prices.Scenarios())}
	dp := make([]float64, states)
	next := make([]float64, states)
	for s := range out.Values {
		for i := range next {
			next[i] = negInf
		}
		next[0] = 0

		for t := steps; t >= 1; t-- {
			price := prices.At(t, s)
			window := lsmc.FeasibilityWindow(t, steps, states)
			for i := range dp {
				dp[i] = negInf
				if i >= window {
					continue
				}
				best := d * next[i]
				if i > 0 {
					best = math.Max(best, q*price+d*next[i-1])
				}
				if i+1 < states {
					best = math.Max(best, -q*price+d*next[i+1])
				}
				dp[i] = best
			}
			dp, next = next, dp
		}
		if math.IsInf(next[0], -1) {
			return nil, fmt.Errorf("%w: no feasible schedule for scenario %d", model.ErrShapeMismatch, s)
		}
		out.Values[s] = next[0]
	}
	out.Price = d * stat.Mean(out.Values, nil)
	return out, nil
}

// SwingForesight picks, per scenario, the best exercise dates with hindsight:
// the take-or-pay minimum is always taken, further rights only while they
// add value.
func SwingForesight(p model.SwingParams, prices *model.PriceMatrix) (*Foresight, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := prices.ExpectShape(p.Steps, p.Scenarios); err != nil {
		return nil, err
	}

	steps, rights, minRights := prices.Steps(), p.Rights(), p.MinRights()
	d := p.Discount()

	out := &Foresight{Values: make([]float64, prices.Scenarios())}
	pv := make([]float64, steps)
	for s := range out.Values {
		df := 1.0
		for t := 1; t <= steps; t++ {
			// Values are expressed at t=1, so step t carries d^(t-1).
			pv[t-1] = df * float64(p.DCQ) * (prices.At(t, s) - p.Strike)
			df *= d
		}
		sort.Sort(sort.Reverse(sort.Float64Slice(pv)))

		total := 0.0
		for k := 0; k < rights && k < steps; k++ {
			if k >= minRights && pv[k] <= 0 {
				break
			}
			total += pv[k]
		}
		out.Values[s] = total
	}
	out.Price = d * stat.Mean(out.Values, nil)
	return out, nil
}
