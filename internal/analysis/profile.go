package analysis

import (
	"sort"

	"energy-lsmc/internal/model"

	"gonum.org/v1/gonum/stat"
)

// StepProfile summarizes the scenario prices at one time step.
type StepProfile struct {
	Step   int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
	P05    float64
	P95    float64
	// Spread is P95 - P05, a rough measure of how much optionality the step offers.
	Spread float64
}

// PriceProfile returns the cross-scenario price distribution of every step
// 0..T. Quantiles interpolate linearly between order statistics.
func PriceProfile(prices *model.PriceMatrix) []StepProfile {
	out := make([]StepProfile, 0, prices.Steps()+1)
	vals := make([]float64, prices.Scenarios())
	for t := 0; t <= prices.Steps(); t++ {
		copy(vals, prices.Row(t))
		sort.Float64s(vals)

		p := StepProfile{
			Step: t,
			Min:  vals[0],
			Max:  vals[len(vals)-1],
			P05:  stat.Quantile(0.05, stat.LinInterp, vals, nil),
			P95:  stat.Quantile(0.95, stat.LinInterp, vals, nil),
		}
		p.Mean, p.StdDev = stat.MeanStdDev(vals, nil)
		if len(vals) < 2 {
			p.StdDev = 0
		}
		p.Spread = p.P95 - p.P05
		out = append(out, p)
	}
	return out
}
