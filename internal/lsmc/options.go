package lsmc

import (
	"go.uber.org/zap"
)

// Options tune how an engine runs; none of them change the result.
type Options struct {
	// Workers bounds how many states of one time step are decided in
	// parallel. <= 1 runs sequentially.
	Workers int

	// Seed drives the internal simulator when no price matrix is supplied.
	// 0 means simulate.DefaultSeed.
	Seed uint64

	// Logger receives start/finish lines at Info and per-step detail at
	// Debug. nil disables logging.
	Logger *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.Workers < 1 {
		o.Workers = 1
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// layer is one time slice of the value function, [state][scenario].
type layer [][]float64

func newLayer(states, scenarios int, fill float64) layer {
	l := make(layer, states)
	for i := range l {
		row := make([]float64, scenarios)
		if fill != 0 {
			for s := range row {
				row[s] = fill
			}
		}
		l[i] = row
	}
	return l
}

// discounted returns d * row as a fresh slice.
func discounted(d float64, row []float64) []float64 {
	out := make([]float64, len(row))
	for s, v := range row {
		out[s] = d * v
	}
	return out
}
