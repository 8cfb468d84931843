package simulate

import (
	"math"
	"testing"

	"energy-lsmc/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
)

func market(scenarios int) model.MarketParams {
	return model.MarketParams{
		InitialPrice: 20,
		Maturity:     1,
		Steps:        4,
		Rate:         0.05,
		Dividend:     0.01,
		Volatility:   0.2,
		Scenarios:    scenarios,
		Degree:       2,
	}
}

func TestGBMShapeAndInitialRow(t *testing.T) {
	for _, n := range []int{1, 2, 7, 10} {
		p := market(n)
		m, err := GBM(p, 1)
		require.NoError(t, err)
		assert.Equal(t, p.Steps, m.Steps())
		assert.Equal(t, n, m.Scenarios())
		for _, v := range m.Row(0) {
			assert.Equal(t, p.InitialPrice, v)
		}
		assert.Equal(t, n, p.Scenarios, "configured scenario count is never changed")
	}
}

func TestGBMAntitheticPairs(t *testing.T) {
	p := market(6)
	m, err := GBM(p, 42)
	require.NoError(t, err)

	// Log-returns of paired columns are symmetric around the drift.
	dt := p.TimeUnit()
	drift := (p.Rate - p.Dividend - 0.5*p.Volatility*p.Volatility) * dt
	for t1 := 1; t1 <= p.Steps; t1++ {
		for k := 0; k < 3; k++ {
			up := math.Log(m.At(t1, k) / m.At(t1-1, k))
			down := math.Log(m.At(t1, k+3) / m.At(t1-1, k+3))
			assert.InDelta(t, 2*drift, up+down, 1e-12)
		}
	}
}

func TestGBMMeanFollowsRiskNeutralDrift(t *testing.T) {
	p := market(20000)
	m, err := GBM(p, DefaultSeed)
	require.NoError(t, err)

	dt := p.TimeUnit()
	for t1 := 0; t1 <= p.Steps; t1++ {
		want := p.InitialPrice * math.Exp((p.Rate-p.Dividend)*dt*float64(t1))
		got := stat.Mean(m.Row(t1), nil)
		assert.InEpsilon(t, want, got, 0.01, "t=%d", t1)
	}
}

func TestGBMDeterministicForSeed(t *testing.T) {
	p := market(8)
	a, err := GBM(p, 9)
	require.NoError(t, err)
	b, err := GBM(p, 9)
	require.NoError(t, err)
	for t1 := 0; t1 <= p.Steps; t1++ {
		assert.Equal(t, a.Row(t1), b.Row(t1))
	}
}
