package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validMarket() MarketParams {
	return MarketParams{
		InitialPrice: 5,
		Maturity:     1,
		Steps:        12,
		Rate:         0.06,
		Dividend:     0.06,
		Volatility:   0.59,
		Scenarios:    100,
		Degree:       3,
	}
}

func TestStorageParamsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *StorageParams)
		wantErr bool
	}{
		{name: "valid", mutate: func(p *StorageParams) {}},
		{name: "flat facility is allowed", mutate: func(p *StorageParams) { p.MinInventory = p.MaxInventory }},
		{name: "zero steps", mutate: func(p *StorageParams) { p.Steps = 0 }, wantErr: true},
		{name: "negative rate", mutate: func(p *StorageParams) { p.Rate = -0.01 }, wantErr: true},
		{name: "zero volatility", mutate: func(p *StorageParams) { p.Volatility = 0 }, wantErr: true},
		{name: "zero dcq", mutate: func(p *StorageParams) { p.DCQ = 0 }, wantErr: true},
		{name: "negative min inventory", mutate: func(p *StorageParams) { p.MinInventory = -1 }, wantErr: true},
		{name: "max below min", mutate: func(p *StorageParams) { p.MinInventory = 200 }, wantErr: true},
		{name: "zero degree", mutate: func(p *StorageParams) { p.Degree = 0 }, wantErr: true},
		{name: "zero initial price", mutate: func(p *StorageParams) { p.InitialPrice = 0 }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := StorageParams{MarketParams: validMarket(), MaxInventory: 100, MinInventory: 0, DCQ: 10}
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrConfiguration)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestStorageParamsGrid(t *testing.T) {
	p := StorageParams{MarketParams: validMarket(), MaxInventory: 100, MinInventory: 20, DCQ: 10}
	assert.Equal(t, 9, p.StateCount())
	assert.Equal(t, 20.0, p.Level(0))
	assert.Equal(t, 100.0, p.Level(8))
}

func TestSwingParamsValidate(t *testing.T) {
	base := SwingParams{MarketParams: validMarket(), Strike: 20, ACQ: 40, DCQ: 5, TakeOrPay: 10}

	require.NoError(t, base.Validate())
	assert.Equal(t, 8, base.Rights())
	assert.Equal(t, 0, base.MinRights(), "take-or-pay is ignored unless enforced")

	enforced := base
	enforced.EnforceTakeOrPay = true
	require.NoError(t, enforced.Validate())
	assert.Equal(t, 2, enforced.MinRights())

	enforced.TakeOrPay = 11
	assert.Equal(t, 3, enforced.MinRights(), "partial rights round up")

	tooMuch := enforced
	tooMuch.TakeOrPay = 45
	assert.ErrorIs(t, tooMuch.Validate(), ErrConfiguration)

	shortHorizon := enforced
	shortHorizon.Steps = 2
	assert.ErrorIs(t, shortHorizon.Validate(), ErrConfiguration)

	acqBelowDCQ := base
	acqBelowDCQ.ACQ = 4
	assert.ErrorIs(t, acqBelowDCQ.Validate(), ErrConfiguration)
}

func TestMarketParamsDiscount(t *testing.T) {
	p := validMarket()
	p.Rate = 0
	assert.Equal(t, 1.0, p.Discount())
	assert.InDelta(t, 1.0/12, p.TimeUnit(), 1e-12)
}
