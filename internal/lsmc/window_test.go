package lsmc

import (
	"math"
	"testing"

	"energy-lsmc/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestFeasibilityWindowBoundaries(t *testing.T) {
	for steps := 1; steps <= 12; steps++ {
		for states := 1; states <= 8; states++ {
			assert.Equal(t, 0, FeasibilityWindow(0, steps, states), "T=%d K+1=%d", steps, states)
			assert.Equal(t, 1, FeasibilityWindow(1, steps, states), "T=%d K+1=%d", steps, states)
			assert.Equal(t, 1, FeasibilityWindow(steps+1, steps, states), "T=%d K+1=%d", steps, states)
			for step := 1; step <= steps; step++ {
				w := FeasibilityWindow(step, steps, states)
				assert.GreaterOrEqual(t, w, 1)
				assert.LessOrEqual(t, w, states)
			}
		}
	}
}

func TestFeasibilityWindowUnimodal(t *testing.T) {
	for steps := 1; steps <= 15; steps++ {
		for states := 1; states <= 10; states++ {
			falling := false
			prev := FeasibilityWindow(0, steps, states)
			for step := 1; step <= steps+1; step++ {
				w := FeasibilityWindow(step, steps, states)
				assert.LessOrEqual(t, abs(w-prev), 1, "one DCQ per step, T=%d t=%d", steps, step)
				if w < prev {
					falling = true
				}
				if falling {
					assert.LessOrEqual(t, w, prev, "T=%d K+1=%d t=%d", steps, states, step)
				}
				prev = w
			}
		}
	}
}

func TestFeasibilityWindowValues(t *testing.T) {
	tests := []struct {
		name   string
		steps  int
		states int
		want   []int // t = 0..T+1
	}{
		{name: "two steps", steps: 2, states: 2, want: []int{0, 1, 2, 1}},
		{name: "six steps wide grid", steps: 6, states: 10, want: []int{0, 1, 2, 3, 4, 3, 2, 1}},
		{name: "six steps capped", steps: 6, states: 3, want: []int{0, 1, 2, 3, 3, 3, 2, 1}},
		{name: "five steps", steps: 5, states: 10, want: []int{0, 1, 2, 3, 3, 2, 1}},
		{name: "single state", steps: 4, states: 1, want: []int{0, 1, 1, 1, 1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := make([]int, tt.steps+2)
			for step := range got {
				got[step] = FeasibilityWindow(step, tt.steps, tt.states)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyState(t *testing.T) {
	tests := []struct {
		name         string
		i, cur, prev int
		want         Regime
	}{
		{name: "outside window", i: 3, cur: 3, prev: 4, want: RegimeUnreachable},
		{name: "negative", i: -1, cur: 3, prev: 4, want: RegimeUnreachable},
		{name: "empty", i: 0, cur: 3, prev: 1, want: RegimeBase},
		{name: "top of next window", i: 2, cur: 3, prev: 3, want: RegimeUpperBoundary},
		{name: "above next window", i: 2, cur: 3, prev: 2, want: RegimeInfeasible},
		{name: "interior", i: 1, cur: 3, prev: 3, want: RegimeInterior},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyState(tt.i, tt.cur, tt.prev))
		})
	}
}

func TestChooseStorageTieBreaks(t *testing.T) {
	inf := math.Inf(-1)
	tests := []struct {
		name                   string
		withdraw, inject, hold float64
		want                   model.Action
	}{
		{name: "withdraw beats inject on tie", withdraw: 5, inject: 5, hold: 1, want: model.ActionWithdraw},
		{name: "inject strictly best", withdraw: 2, inject: 3, hold: 1, want: model.ActionInject},
		{name: "hold wins ties", withdraw: 4, inject: 4, hold: 4, want: model.ActionHold},
		{name: "inject ties hold", withdraw: inf, inject: 2, hold: 2, want: model.ActionHold},
		{name: "base state", withdraw: inf, inject: 1, hold: 0, want: model.ActionInject},
		{name: "upper boundary", withdraw: 1, inject: inf, hold: 0, want: model.ActionWithdraw},
		{name: "nothing feasible but hold", withdraw: inf, inject: inf, hold: -3, want: model.ActionHold},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, chooseStorage(tt.withdraw, tt.inject, tt.hold))
		})
	}
}
