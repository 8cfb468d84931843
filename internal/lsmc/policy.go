package lsmc

import (
	"fmt"

	"energy-lsmc/internal/model"
)

// PolicyTensor stores the optimal action for every (time, state, scenario)
// cell over decision steps t = 1..T.
type PolicyTensor struct {
	steps     int
	states    int
	scenarios int
	data      []model.Action
}

func NewPolicyTensor(steps, states, scenarios int) *PolicyTensor {
	return &PolicyTensor{
		steps:     steps,
		states:    states,
		scenarios: scenarios,
		data:      make([]model.Action, steps*states*scenarios),
	}
}

// Dims returns (steps, states, scenarios).
func (p *PolicyTensor) Dims() (int, int, int) { return p.steps, p.states, p.scenarios }

// At returns the action at decision step t (1-based), state i, scenario s.
func (p *PolicyTensor) At(t, i, s int) model.Action {
	return p.data[p.offset(t, i)+s]
}

// Scenarios returns a copy of the actions across scenarios for one cell.
func (p *PolicyTensor) Scenarios(t, i int) []model.Action {
	off := p.offset(t, i)
	return append([]model.Action(nil), p.data[off:off+p.scenarios]...)
}

// row is the writable slice for (t, i). Distinct (t, i) rows never overlap,
// so workers deciding different states may write concurrently.
func (p *PolicyTensor) row(t, i int) []model.Action {
	off := p.offset(t, i)
	return p.data[off : off+p.scenarios : off+p.scenarios]
}

func (p *PolicyTensor) offset(t, i int) int {
	return ((t-1)*p.states + i) * p.scenarios
}

func (p *PolicyTensor) check(t, i, s int) error {
	if t < 1 || t > p.steps || i < 0 || i >= p.states || s < 0 || s >= p.scenarios {
		return fmt.Errorf("%w: policy cell (t=%d, state=%d, scenario=%d) outside %dx%dx%d",
			model.ErrShapeMismatch, t, i, s, p.steps, p.states, p.scenarios)
	}
	return nil
}
