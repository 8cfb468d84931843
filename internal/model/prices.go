package model

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// PriceMatrix holds simulated (or supplied) price paths.
// Rows are time steps 0..T, columns are scenarios.
//
// Invariants (checked by NewPriceMatrix):
// - rectangular with at least one row and one column
// - every price finite and > 0
// - row 0 is the same deterministic price for every scenario
type PriceMatrix struct {
	rows [][]float64
}

// NewPriceMatrix copies rows into a validated matrix.
func NewPriceMatrix(rows [][]float64) (*PriceMatrix, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: empty price matrix", ErrShapeMismatch)
	}
	width := len(rows[0])
	out := make([][]float64, len(rows))
	for t, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has %d scenarios, want %d", ErrShapeMismatch, t, len(row), width)
		}
		for s, p := range row {
			if math.IsNaN(p) || math.IsInf(p, 0) || p <= 0 {
				return nil, fmt.Errorf("%w: price at t=%d scenario=%d must be finite and > 0, got %v", ErrShapeMismatch, t, s, p)
			}
		}
		out[t] = append([]float64(nil), row...)
	}
	for s, p := range out[0] {
		if p != out[0][0] {
			return nil, fmt.Errorf("%w: row 0 must be constant across scenarios (scenario %d = %v, scenario 0 = %v)", ErrShapeMismatch, s, p, out[0][0])
		}
	}
	return &PriceMatrix{rows: out}, nil
}

// Steps is the number of decision steps T (rows - 1).
func (m *PriceMatrix) Steps() int { return len(m.rows) - 1 }

// Scenarios is the number of simulated paths.
func (m *PriceMatrix) Scenarios() int { return len(m.rows[0]) }

// Row returns the cross-section at time t. Callers must not modify it.
func (m *PriceMatrix) Row(t int) []float64 { return m.rows[t] }

func (m *PriceMatrix) At(t, scenario int) float64 { return m.rows[t][scenario] }

// Column returns a copy of one scenario path.
func (m *PriceMatrix) Column(scenario int) []float64 {
	out := make([]float64, len(m.rows))
	for t, row := range m.rows {
		out[t] = row[scenario]
	}
	return out
}

// MeanPath returns the cross-sectional mean price at every time step.
func (m *PriceMatrix) MeanPath() []float64 {
	out := make([]float64, len(m.rows))
	for t, row := range m.rows {
		out[t] = stat.Mean(row, nil)
	}
	return out
}

// ExpectShape reports whether the matrix matches the configured horizon.
func (m *PriceMatrix) ExpectShape(steps, scenarios int) error {
	if m.Steps() != steps || m.Scenarios() != scenarios {
		return fmt.Errorf("%w: price matrix is %dx%d, want %dx%d (steps+1 x scenarios)",
			ErrShapeMismatch, len(m.rows), m.Scenarios(), steps+1, scenarios)
	}
	return nil
}

// Repeat builds a deterministic matrix with the same path in every column.
func Repeat(path []float64, scenarios int) (*PriceMatrix, error) {
	rows := make([][]float64, len(path))
	for t, p := range path {
		row := make([]float64, scenarios)
		for s := range row {
			row[s] = p
		}
		rows[t] = row
	}
	return NewPriceMatrix(rows)
}
