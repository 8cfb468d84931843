// Package lsmc values energy real options (storage facilities and swing
// contracts) by Least-Squares Monte Carlo backward induction over a
// discretized state space.
package lsmc

import (
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"energy-lsmc/internal/model"
	"energy-lsmc/internal/regression"
	"energy-lsmc/internal/simulate"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

// infeasibleValue marks inventory states at the terminal boundary that
// cannot satisfy the end-empty constraint. The feasibility window keeps it
// from ever being chosen.
const infeasibleValue = -10.0

// StorageEngine values a storage facility: each step the holder may
// withdraw one DCQ (sell at the spot price), hold, or inject one DCQ (buy),
// starting and ending at the minimum inventory.
type StorageEngine struct {
	params model.StorageParams
	prices *model.PriceMatrix
	est    *regression.Estimator
	opts   Options
}

// NewStorageEngine validates the parameters and the price matrix. When
// prices is nil the matrix is simulated from the market parameters.
func NewStorageEngine(p model.StorageParams, prices *model.PriceMatrix, opts Options) (*StorageEngine, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()
	if prices == nil {
		sim, err := simulate.GBM(p.MarketParams, opts.Seed)
		if err != nil {
			return nil, fmt.Errorf("simulate prices: %w", err)
		}
		prices = sim
	} else if err := prices.ExpectShape(p.Steps, p.Scenarios); err != nil {
		return nil, err
	}
	est, err := regression.New(p.Degree)
	if err != nil {
		return nil, err
	}
	return &StorageEngine{params: p, prices: prices, est: est, opts: opts}, nil
}

func (e *StorageEngine) Prices() *model.PriceMatrix { return e.prices }

// StorageResult is the output of one storage valuation.
type StorageResult struct {
	// Price is the present value of the facility: the discounted
	// scenario-average of Values.
	Price float64
	// Values is the value at t=1, empty inventory, per scenario.
	Values []float64
	// Layer is the full value function at t=1, [state][scenario].
	Layer [][]float64
	// Policy holds the optimal action for t=1..T.
	Policy *PolicyTensor
	// Windows[t] is the feasibility window for t=0..T+1.
	Windows []int
	// Regressions counts continuation fits performed.
	Regressions int

	Params model.StorageParams
	Prices *model.PriceMatrix
}

// Value runs the backward induction from maturity to t=1.
func (e *StorageEngine) Value() (*StorageResult, error) {
	started := time.Now()
	p := e.params
	steps, sims, states := e.prices.Steps(), e.prices.Scenarios(), p.StateCount()
	log := e.opts.Logger.With(zap.String("kind", string(model.KindStorage)))
	log.Info("valuation started",
		zap.Int("steps", steps),
		zap.Int("scenarios", sims),
		zap.Int("states", states),
		zap.Int("degree", p.Degree),
		zap.Int("workers", e.opts.Workers),
	)

	windows := make([]int, steps+2)
	for t := range windows {
		windows[t] = FeasibilityWindow(t, steps, states)
	}

	policy := NewPolicyTensor(steps, states, sims)
	next := terminalLayer(states, sims)
	var regressions atomic.Int64

	for t := steps; t >= 1; t-- {
		cur, prev := windows[t], windows[t+1]
		step := &storageStep{
			t:           t,
			x:           e.prices.Row(t),
			next:        next,
			d:           p.Discount(),
			q:           float64(p.DCQ),
			est:         e.est,
			policy:      policy,
			regressions: &regressions,
		}
		current := terminalLayer(states, sims)

		var g errgroup.Group
		g.SetLimit(e.opts.Workers)
		counts := map[Regime]int{}
		for i := 0; i < cur; i++ {
			regime := ClassifyState(i, cur, prev)
			counts[regime]++
			g.Go(func() error { return step.decide(i, regime, current[i]) })
		}
		if err := g.Wait(); err != nil {
			log.Error("valuation aborted", zap.Int("t", t), zap.Error(err))
			return nil, fmt.Errorf("storage valuation at t=%d: %w", t, err)
		}
		if ce := log.Check(zap.DebugLevel, "step done"); ce != nil {
			ce.Write(
				zap.Int("t", t),
				zap.Int("window", cur),
				zap.Int("next_window", prev),
				zap.Int("interior", counts[RegimeInterior]),
				zap.Int("upper_boundary", counts[RegimeUpperBoundary]),
				zap.Int("infeasible", counts[RegimeInfeasible]),
				zap.Float64("mean_empty_value", stat.Mean(current[0], nil)),
			)
		}
		next = current
	}

	values := append([]float64(nil), next[0]...)
	res := &StorageResult{
		Price:       p.Discount() * stat.Mean(values, nil),
		Values:      values,
		Layer:       next,
		Policy:      policy,
		Windows:     windows,
		Regressions: int(regressions.Load()),
		Params:      p,
		Prices:      e.prices,
	}
	log.Info("valuation finished",
		zap.Float64("price", res.Price),
		zap.Int("regressions", res.Regressions),
		zap.Duration("elapsed", time.Since(started)),
	)
	return res, nil
}

// Path reconstructs the inventory trajectory and cash flows of one scenario.
func (r *StorageResult) Path(scenario int) (*Path, error) {
	q := float64(r.Params.DCQ)
	return EvaluatePath(r.Policy, r.Prices, scenario, PathSpec{
		Kind:     model.KindStorage,
		Start:    0,
		Discount: r.Params.Discount(),
		Level:    r.Params.Level,
		CashFlow: func(price float64, a model.Action) float64 {
			if a == model.ActionHold {
				return 0
			}
			return -float64(a) * q * price
		},
	})
}

// terminalLayer is V_{T+1}: zero at empty inventory, infeasible elsewhere.
// Every backward step starts from the same shape before deciding states.
func terminalLayer(states, sims int) layer {
	l := newLayer(states, sims, infeasibleValue)
	for s := range l[0] {
		l[0][s] = 0
	}
	return l
}

// storageStep carries the read-only inputs of one backward step. next must
// not be modified while workers run.
type storageStep struct {
	t           int
	x           []float64
	next        layer
	d           float64
	q           float64
	est         *regression.Estimator
	policy      *PolicyTensor
	regressions *atomic.Int64
}

// continuation regresses the discounted next-step value of state j on
// today's price. A state outside the grid yields nil (infeasible).
func (s *storageStep) continuation(j int) ([]float64, error) {
	if j < 0 || j >= len(s.next) {
		return nil, nil
	}
	s.regressions.Add(1)
	fitted, err := s.est.Fit(s.x, discounted(s.d, s.next[j]))
	if err != nil {
		return nil, fmt.Errorf("state %d: %w", j, err)
	}
	return fitted, nil
}

// decide fills out (the value row of state i) and the policy row of state i.
func (s *storageStep) decide(i int, regime Regime, out []float64) error {
	act := s.policy.row(s.t, i)

	var wdra, hold, inj []float64
	var err error
	switch regime {
	case RegimeInfeasible:
		for k := range out {
			out[k] = s.q*s.x[k] + s.d*s.next[i-1][k]
			act[k] = model.ActionWithdraw
		}
		return nil
	case RegimeBase:
		if hold, err = s.continuation(i); err != nil {
			return err
		}
		if inj, err = s.continuation(i + 1); err != nil {
			return err
		}
	case RegimeUpperBoundary:
		if wdra, err = s.continuation(i - 1); err != nil {
			return err
		}
		if hold, err = s.continuation(i); err != nil {
			return err
		}
	case RegimeInterior:
		if wdra, err = s.continuation(i - 1); err != nil {
			return err
		}
		if hold, err = s.continuation(i); err != nil {
			return err
		}
		if inj, err = s.continuation(i + 1); err != nil {
			return err
		}
	default:
		return nil
	}

	for k := range out {
		w, j := math.Inf(-1), math.Inf(-1)
		if wdra != nil {
			w = s.q*s.x[k] + wdra[k]
		}
		if inj != nil {
			j = -s.q*s.x[k] + inj[k]
		}
		a := chooseStorage(w, j, hold[k])
		act[k] = a
		switch a {
		case model.ActionWithdraw:
			out[k] = s.q*s.x[k] + s.d*s.next[i-1][k]
		case model.ActionInject:
			out[k] = -s.q*s.x[k] + s.d*s.next[i+1][k]
		default:
			out[k] = s.d * s.next[i][k]
		}
	}
	return nil
}

// chooseStorage compares estimated withdraw, inject and hold values.
// Infeasible actions are passed as -Inf. Ties go to withdraw over inject,
// and anything not strictly better than holding holds.
func chooseStorage(withdraw, inject, hold float64) model.Action {
	switch {
	case withdraw >= inject && withdraw > hold:
		return model.ActionWithdraw
	case inject > withdraw && inject > hold:
		return model.ActionInject
	default:
		return model.ActionHold
	}
}
