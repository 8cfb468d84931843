package data

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"energy-lsmc/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadPricesCSV(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{name: "with header", in: "t0,t1,t2\n10,8,11\n10,12,9\n"},
		{name: "without header", in: "10,8,11\n10,12,9\n"},
		{name: "spaces", in: "10, 8, 11\n10, 12, 9\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ReadPricesCSV(strings.NewReader(tt.in))
			require.NoError(t, err)
			assert.Equal(t, 2, m.Steps())
			assert.Equal(t, 2, m.Scenarios())
			assert.Equal(t, []float64{8, 12}, m.Row(1))
			assert.Equal(t, []float64{12, 9}, m.Column(1)[1:])
		})
	}
}

func TestReadPricesCSVErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{name: "empty", in: ""},
		{name: "header only", in: "a,b,c\n"},
		{name: "ragged", in: "10,8,11\n10,12\n"},
		{name: "bad number", in: "10,8,11\n10,x,9\n"},
		{name: "negative price", in: "10,8,11\n10,-1,9\n"},
		{name: "different start", in: "10,8,11\n11,12,9\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadPricesCSV(strings.NewReader(tt.in))
			assert.ErrorIs(t, err, model.ErrShapeMismatch)
		})
	}
}

func TestLoadPricesByExtension(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "prices.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"prices": [[3, 3], [2.9, 3.1], [2.6, 3.5]]}`), 0o644))
	csvPath := filepath.Join(dir, "paths.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("3,2.9,2.6\n3,3.1,3.5\n"), 0o644))

	fromJSON, err := LoadPrices(jsonPath)
	require.NoError(t, err)
	fromCSV, err := LoadPrices(csvPath)
	require.NoError(t, err)

	for step := 0; step <= 2; step++ {
		assert.Equal(t, fromJSON.Row(step), fromCSV.Row(step))
	}

	_, err = LoadPrices(filepath.Join(dir, "missing.csv"))
	assert.Error(t, err)

	badJSON := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(badJSON, []byte(`{"prices": [[3, 3], [2.9]]}`), 0o644))
	_, err = LoadPrices(badJSON)
	assert.ErrorIs(t, err, model.ErrShapeMismatch)
}

func TestTrim(t *testing.T) {
	m, err := model.NewPriceMatrix([][]float64{{5, 5, 5}, {4, 6, 7}, {3, 8, 9}})
	require.NoError(t, err)

	got, err := Trim(m, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Steps())
	assert.Equal(t, []float64{4, 6}, got.Row(1))

	_, err = Trim(m, 3, 2)
	assert.ErrorIs(t, err, model.ErrShapeMismatch)
	_, err = Trim(m, 2, 0)
	assert.ErrorIs(t, err, model.ErrShapeMismatch)
}
