package lsmc

import (
	"fmt"
	"sync/atomic"
	"time"

	"energy-lsmc/internal/model"
	"energy-lsmc/internal/regression"
	"energy-lsmc/internal/simulate"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

// SwingEngine values a swing contract: R = ACQ/DCQ rights, at most one
// exercised per step, each buying DCQ at the strike.
type SwingEngine struct {
	params model.SwingParams
	prices *model.PriceMatrix
	est    *regression.Estimator
	opts   Options
}

// NewSwingEngine validates the parameters and the price matrix. When prices
// is nil the matrix is simulated from the market parameters.
func NewSwingEngine(p model.SwingParams, prices *model.PriceMatrix, opts Options) (*SwingEngine, error) {
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
	return &SwingEngine{params: p, prices: prices, est: est, opts: opts}, nil
}

func (e *SwingEngine) Prices() *model.PriceMatrix { return e.prices }

// SwingResult is the output of one swing valuation.
type SwingResult struct {
	// Price is the discounted scenario-average of Values.
	Price float64
	// Values is the value at t=1 with all rights remaining, per scenario.
	Values []float64
	// Layer is the value function at t=1, [rights remaining][scenario].
	Layer [][]float64
	// Policy holds ActionExercise or ActionHold for t=1..T.
	Policy *PolicyTensor
	// Regressions counts continuation fits performed.
	Regressions int

	Params model.SwingParams
	Prices *model.PriceMatrix
}

// Value runs the backward induction from maturity to t=1.
func (e *SwingEngine) Value() (*SwingResult, error) {
	started := time.Now()
	p := e.params
	steps, sims, rights := e.prices.Steps(), e.prices.Scenarios(), p.Rights()
	log := e.opts.Logger.With(zap.String("kind", string(model.KindSwing)))
	log.Info("valuation started",
		zap.Int("steps", steps),
		zap.Int("scenarios", sims),
		zap.Int("rights", rights),
		zap.Int("min_rights", p.MinRights()),
		zap.Int("degree", p.Degree),
		zap.Int("workers", e.opts.Workers),
	)

	states := rights + 1
	policy := NewPolicyTensor(steps, states, sims)
	var regressions atomic.Int64

	// At maturity every remaining right is exercised if it pays (or if
	// take-or-pay forces it).
	next := newLayer(states, sims, 0)
	for r := 1; r < states; r++ {
		act := policy.row(steps, r)
		forced := e.mustTake(steps, r)
		for s := 0; s < sims; s++ {
			v := e.payoff(e.prices.At(steps, s))
			if forced || v > 0 {
				next[r][s] = v
				act[s] = model.ActionExercise
			}
		}
	}

	for t := steps - 1; t >= 1; t-- {
		step := &swingStep{
			engine:      e,
			t:           t,
			x:           e.prices.Row(t),
			next:        next,
			d:           p.Discount(),
			policy:      policy,
			regressions: &regressions,
		}
		current := newLayer(states, sims, 0)

		var g errgroup.Group
		g.SetLimit(e.opts.Workers)
		for r := max(rights-t+1, 1); r <= rights; r++ {
			g.Go(func() error { return step.decide(r, current[r]) })
		}
		if err := g.Wait(); err != nil {
			log.Error("valuation aborted", zap.Int("t", t), zap.Error(err))
			return nil, fmt.Errorf("swing valuation at t=%d: %w", t, err)
		}
		if ce := log.Check(zap.DebugLevel, "step done"); ce != nil {
			ce.Write(
				zap.Int("t", t),
				zap.Int("lowest_rights", max(rights-t+1, 1)),
				zap.Float64("mean_full_value", stat.Mean(current[rights], nil)),
			)
		}
		next = current
	}

	values := append([]float64(nil), next[rights]...)
	res := &SwingResult{
		Price:       p.Discount() * stat.Mean(values, nil),
		Values:      values,
		Layer:       next,
		Policy:      policy,
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

// payoff is the cash flow of exercising one right at price p. Without an
// enforced take-or-pay an exercise is never worth less than zero; with it,
// forced exercises may lose money.
func (e *SwingEngine) payoff(price float64) float64 {
	return exercisePayoff(e.params, price)
}

// mustTake reports whether holding r rights at step t leaves exactly as
// many (or fewer) steps as the take-or-pay quantity still owed.
func (e *SwingEngine) mustTake(t, r int) bool {
	m := e.params.MinRights()
	if m == 0 {
		return false
	}
	owed := r - (e.params.Rights() - m)
	return owed > 0 && owed >= e.prices.Steps()-t+1
}

func exercisePayoff(p model.SwingParams, price float64) float64 {
	v := float64(p.DCQ) * (price - p.Strike)
	if p.EnforceTakeOrPay {
		return v
	}
	return max(v, 0)
}

// Path reconstructs the exercise schedule and cash flows of one scenario.
func (r *SwingResult) Path(scenario int) (*Path, error) {
	p := r.Params
	return EvaluatePath(r.Policy, r.Prices, scenario, PathSpec{
		Kind:     model.KindSwing,
		Start:    p.Rights(),
		Discount: p.Discount(),
		Level:    func(rights int) float64 { return float64(rights * p.DCQ) },
		CashFlow: func(price float64, a model.Action) float64 {
			if a != model.ActionExercise {
				return 0
			}
			return exercisePayoff(p, price)
		},
	})
}

type swingStep struct {
	engine      *SwingEngine
	t           int
	x           []float64
	next        layer
	d           float64
	policy      *PolicyTensor
	regressions *atomic.Int64
}

func (s *swingStep) decide(r int, out []float64) error {
	act := s.policy.row(s.t, r)
	if s.engine.mustTake(s.t, r) {
		for k := range out {
			out[k] = s.engine.payoff(s.x[k]) + s.d*s.next[r-1][k]
			act[k] = model.ActionExercise
		}
		return nil
	}

	s.regressions.Add(2)
	exercised, err := s.engine.est.Fit(s.x, discounted(s.d, s.next[r-1]))
	if err != nil {
		return fmt.Errorf("rights %d: %w", r-1, err)
	}
	held, err := s.engine.est.Fit(s.x, discounted(s.d, s.next[r]))
	if err != nil {
		return fmt.Errorf("rights %d: %w", r, err)
	}
	for k := range out {
		pay := s.engine.payoff(s.x[k])
		if pay+exercised[k] > held[k] {
			out[k] = pay + s.d*s.next[r-1][k]
			act[k] = model.ActionExercise
		} else {
			out[k] = s.d * s.next[r][k]
		}
	}
	return nil
}
