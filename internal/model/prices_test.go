package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPriceMatrix(t *testing.T) {
	tests := []struct {
		name    string
		rows    [][]float64
		wantErr bool
	}{
		{name: "valid", rows: [][]float64{{3, 3}, {2.9, 3.1}}},
		{name: "single scenario", rows: [][]float64{{3}, {3}, {3}}},
		{name: "empty", rows: nil, wantErr: true},
		{name: "ragged", rows: [][]float64{{3, 3}, {2.9}}, wantErr: true},
		{name: "row zero varies", rows: [][]float64{{3, 3.1}, {2.9, 3.1}}, wantErr: true},
		{name: "non-positive price", rows: [][]float64{{3, 3}, {0, 3.1}}, wantErr: true},
		{name: "nan price", rows: [][]float64{{3, 3}, {math.NaN(), 3.1}}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewPriceMatrix(tt.rows)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrShapeMismatch)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(tt.rows)-1, m.Steps())
			assert.Equal(t, len(tt.rows[0]), m.Scenarios())
		})
	}
}

func TestPriceMatrixCopiesInput(t *testing.T) {
	rows := [][]float64{{3, 3}, {2, 4}}
	m, err := NewPriceMatrix(rows)
	require.NoError(t, err)
	rows[1][0] = 100
	assert.Equal(t, 2.0, m.At(1, 0))
}

func TestPriceMatrixAccessors(t *testing.T) {
	m, err := NewPriceMatrix([][]float64{{3, 3, 3}, {2, 3, 4}, {1, 5, 6}})
	require.NoError(t, err)

	assert.Equal(t, []float64{3, 3, 5}, m.Column(1))
	assert.InDeltaSlice(t, []float64{3, 3, 4}, m.MeanPath(), 1e-12)
	assert.NoError(t, m.ExpectShape(2, 3))
	assert.ErrorIs(t, m.ExpectShape(3, 3), ErrShapeMismatch)
	assert.ErrorIs(t, m.ExpectShape(2, 2), ErrShapeMismatch)
}

func TestRepeat(t *testing.T) {
	m, err := Repeat([]float64{3, 4, 5}, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, m.Scenarios())
	assert.Equal(t, []float64{4, 4}, m.Row(1))
}

func TestActionLabel(t *testing.T) {
	assert.Equal(t, "WITHDRAW", ActionWithdraw.Label(KindStorage))
	assert.Equal(t, "INJECT", ActionInject.Label(KindStorage))
	assert.Equal(t, "HOLD", ActionHold.Label(KindStorage))
	assert.Equal(t, "EXERCISE", ActionExercise.Label(KindSwing))
	assert.Equal(t, "HOLD", ActionHold.Label(KindSwing))
}
