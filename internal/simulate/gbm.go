// Package simulate generates risk-neutral price matrices for the engines.
package simulate

import (
	"math"
	"math/rand/v2"

	"energy-lsmc/internal/model"
)

// DefaultSeed keeps internally simulated valuations reproducible.
const DefaultSeed uint64 = 123

// GBM simulates geometric Brownian motion paths with antithetic variates:
// every normal draw z is used once as z and once as -z.
//
// Rows are time steps 0..p.Steps, columns are p.Scenarios paths. An odd
// scenario count is simulated with one extra path, which is then dropped.
func GBM(p model.MarketParams, seed uint64) (*model.PriceMatrix, error) {
	if seed == 0 {
		seed = DefaultSeed
	}
	n := p.Scenarios
	if n%2 == 1 {
		n++
	}
	half := n / 2

	dt := p.TimeUnit()
	drift := (p.Rate - p.Dividend - 0.5*p.Volatility*p.Volatility) * dt
	vol := p.Volatility * math.Sqrt(dt)

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	z := make([]float64, half)

	rows := make([][]float64, p.Steps+1)
	prev := make([]float64, n)
	for s := range prev {
		prev[s] = p.InitialPrice
	}
	rows[0] = append([]float64(nil), prev[:p.Scenarios]...)

	for t := 1; t <= p.Steps; t++ {
		for k := range z {
			z[k] = rng.NormFloat64()
		}
		cur := make([]float64, n)
		for k, zk := range z {
			cur[k] = prev[k] * math.Exp(drift+vol*zk)
			cur[k+half] = prev[k+half] * math.Exp(drift-vol*zk)
		}
		rows[t] = cur[:p.Scenarios:p.Scenarios]
		prev = cur
	}
	return model.NewPriceMatrix(rows)
}
