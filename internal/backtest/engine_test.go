package backtest

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"energy-lsmc/internal/lsmc"
	"energy-lsmc/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storagePath() *lsmc.Path {
	return &lsmc.Path{
		Kind:         model.KindStorage,
		Scenario:     0,
		States:       []int{0, 1, 0},
		Levels:       []float64{0, 1, 0},
		Prices:       []float64{8, 11},
		Actions:      []model.Action{model.ActionInject, model.ActionWithdraw},
		CashFlows:    []float64{-8, 11},
		Total:        3,
		PresentValue: 3,
	}
}

func TestRunBuildsLedger(t *testing.T) {
	res, err := New().Run(storagePath())
	require.NoError(t, err)

	require.Len(t, res.Ledger, 2)
	assert.Equal(t, LedgerRow{
		Step: 1, Price: 8, Action: model.ActionInject, Label: "INJECT",
		StateStart: 0, StateEnd: 1, LevelStart: 0, LevelEnd: 1,
		CashFlow: -8, CumCashFlow: -8,
	}, res.Ledger[0])
	assert.Equal(t, "WITHDRAW", res.Ledger[1].Label)
	assert.Equal(t, 3.0, res.Ledger[1].CumCashFlow)
	assert.Equal(t, 3.0, res.Total)
	assert.Equal(t, 0.0, res.FinalLevel)
	assert.Equal(t, model.KindStorage, res.Kind)
}

func TestRunSwingLabels(t *testing.T) {
	p := &lsmc.Path{
		Kind:      model.KindSwing,
		States:    []int{1, 0, 0},
		Levels:    []float64{5, 0, 0},
		Prices:    []float64{12, 11},
		Actions:   []model.Action{model.ActionExercise, model.ActionHold},
		CashFlows: []float64{10, 0},
	}
	res, err := New().Run(p)
	require.NoError(t, err)
	assert.Equal(t, "EXERCISE", res.Ledger[0].Label)
	assert.Equal(t, "HOLD", res.Ledger[1].Label)
}

func TestRunRejectsBadPaths(t *testing.T) {
	_, err := New().Run(nil)
	assert.Error(t, err)

	_, err = New().Run(&lsmc.Path{})
	assert.Error(t, err)

	broken := storagePath()
	broken.States = broken.States[:2]
	_, err = New().Run(broken)
	assert.Error(t, err)
}

func TestWriteLedger(t *testing.T) {
	res, err := New().Run(storagePath())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteLedger(&buf, res.Ledger))

	want := strings.Join([]string{
		"step,price,action,state_start,state_end,level_start,level_end,cash_flow,cum_cash_flow",
		"1,8.000000,INJECT,0,1,0.000000,1.000000,-8.000000,-8.000000",
		"2,11.000000,WITHDRAW,1,0,1.000000,0.000000,11.000000,3.000000",
	}, "\n") + "\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteLedgerCSV(t *testing.T) {
	res, err := New().Run(storagePath())
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "ledger.csv")
	require.NoError(t, WriteLedgerCSV(out, res.Ledger))

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	assert.Len(t, lines, 3)
}
