// Package regression estimates continuation values by cross-sectional
// least-squares polynomial regression (the LSMC regression step).
package regression

import (
	"fmt"
	"math"
	"sort"

	"energy-lsmc/internal/model"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Estimator fits a polynomial of fixed degree in today's price to discounted
// next-step values and evaluates it at the same prices.
//
// An Estimator holds no mutable state; Fit may be called concurrently.
type Estimator struct {
	degree int
}

func New(degree int) (*Estimator, error) {
	if degree < 1 {
		return nil, fmt.Errorf("%w: regression degree must be > 0, got %d", model.ErrConfiguration, degree)
	}
	return &Estimator{degree: degree}, nil
}

func (e *Estimator) Degree() int { return e.degree }

// Fit regresses y on x and returns the fitted values at x, one per scenario.
//
// Prices are mapped affinely onto [-1, 1] before building the Vandermonde
// basis; fitted values do not depend on that choice.
//
// When every x is identical the conditional expectation is the sample mean of
// y, which is returned for every scenario. Otherwise fewer than degree+1
// distinct prices is a rank-deficient fit and fails with
// model.ErrNumericInstability.
func (e *Estimator) Fit(x, y []float64) ([]float64, error) {
	n := len(x)
	if n == 0 || n != len(y) {
		return nil, fmt.Errorf("%w: regression needs equal non-empty vectors, got %d prices and %d targets",
			model.ErrShapeMismatch, n, len(y))
	}
	for s, v := range y {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: non-finite regression target at scenario %d", model.ErrNumericInstability, s)
		}
	}

	lo, hi := floats.Min(x), floats.Max(x)
	if lo == hi {
		out := make([]float64, n)
		mean := stat.Mean(y, nil)
		for s := range out {
			out[s] = mean
		}
		return out, nil
	}
	if d := distinct(x, e.degree+1); d < e.degree+1 {
		return nil, fmt.Errorf("%w: %d distinct prices cannot support a degree %d fit",
			model.ErrNumericInstability, d, e.degree)
	}

	mid, half := (hi+lo)/2, (hi-lo)/2
	cols := e.degree + 1
	basis := mat.NewDense(n, cols, nil)
	for s, xs := range x {
		z := (xs - mid) / half
		pow := 1.0
		for k := 0; k < cols; k++ {
			basis.Set(s, k, pow)
			pow *= z
		}
	}

	target := mat.NewVecDense(n, append([]float64(nil), y...))
	var coef mat.VecDense
	if err := coef.SolveVec(basis, target); err != nil {
		return nil, fmt.Errorf("%w: least-squares solve: %v", model.ErrNumericInstability, err)
	}

	fitted := mat.NewVecDense(n, nil)
	fitted.MulVec(basis, &coef)
	return fitted.RawVector().Data, nil
}

// distinct counts distinct values in x, stopping once limit is reached.
func distinct(x []float64, limit int) int {
	sorted := append([]float64(nil), x...)
	sort.Float64s(sorted)
	count := 1
	for i := 1; i < len(sorted) && count < limit; i++ {
		if sorted[i] != sorted[i-1] {
			count++
		}
	}
	return count
}
