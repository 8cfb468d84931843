// Package data loads price matrices from files and keeps finished
// valuations for later lookup.
package data

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"energy-lsmc/internal/model"
)

// PricesFile is the JSON layout: rows are time steps 0..T, columns are
// scenarios.
type PricesFile struct {
	Prices [][]float64 `json:"prices"`
}

// LoadPrices reads a price matrix, picking the decoder by file extension
// (.json, otherwise CSV).
func LoadPrices(path string) (*model.PriceMatrix, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return LoadPricesJSON(path)
	}
	return LoadPricesCSV(path)
}

func LoadPricesJSON(path string) (*model.PriceMatrix, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f PricesFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	m, err := model.NewPriceMatrix(f.Prices)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

func LoadPricesCSV(path string) (*model.PriceMatrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := ReadPricesCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// ReadPricesCSV reads one scenario path per line (columns are time steps)
// and transposes it into a matrix. A first line that does not parse as
// numbers is taken as a header and skipped.
func ReadPricesCSV(r io.Reader) (*model.PriceMatrix, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	var paths [][]float64
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", model.ErrShapeMismatch, err)
		}
		row, perr := parseRow(rec)
		if perr != nil {
			if line == 1 {
				continue
			}
			return nil, fmt.Errorf("%w: line %d: %v", model.ErrShapeMismatch, line, perr)
		}
		paths = append(paths, row)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no price paths", model.ErrShapeMismatch)
	}

	steps := len(paths[0])
	rows := make([][]float64, steps)
	for t := range rows {
		rows[t] = make([]float64, len(paths))
		for s, path := range paths {
			if len(path) != steps {
				return nil, fmt.Errorf("%w: path %d has %d prices, want %d", model.ErrShapeMismatch, s, len(path), steps)
			}
			rows[t][s] = path[t]
		}
	}
	return model.NewPriceMatrix(rows)
}

func parseRow(rec []string) ([]float64, error) {
	out := make([]float64, len(rec))
	for k, field := range rec {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

// Trim keeps the first steps+1 time rows and the first scenarios paths.
func Trim(m *model.PriceMatrix, steps, scenarios int) (*model.PriceMatrix, error) {
	if steps < 1 || scenarios < 1 || steps > m.Steps() || scenarios > m.Scenarios() {
		return nil, fmt.Errorf("%w: cannot trim %d steps x %d scenarios to %d x %d",
			model.ErrShapeMismatch, m.Steps(), m.Scenarios(), steps, scenarios)
	}
	rows := make([][]float64, steps+1)
	for t := range rows {
		rows[t] = m.Row(t)[:scenarios]
	}
	return model.NewPriceMatrix(rows)
}
