package analysis

import (
	"fmt"

	"energy-lsmc/internal/lsmc"
	"energy-lsmc/internal/model"
)

// Decomposition splits a contract's value into the part locked in by
// trading the expected (mean) price path and the remaining option value.
type Decomposition struct {
	Total     float64
	Intrinsic float64
	Extrinsic float64
	Foresight float64
}

// DecomposeStorage values the facility on prices and on their mean path.
// The mean path is valued as two identical scenarios, so the regression
// collapses to the exact continuation value.
func DecomposeStorage(p model.StorageParams, prices *model.PriceMatrix, opts lsmc.Options) (*Decomposition, error) {
	eng, err := lsmc.NewStorageEngine(p, prices, opts)
	if err != nil {
		return nil, err
	}
	total, err := eng.Value()
	if err != nil {
		return nil, err
	}

	mean, mp, err := meanPath(p.MarketParams, eng.Prices())
	if err != nil {
		return nil, err
	}
	ip := p
	ip.MarketParams = mp
	ieng, err := lsmc.NewStorageEngine(ip, mean, opts)
	if err != nil {
		return nil, err
	}
	intrinsic, err := ieng.Value()
	if err != nil {
		return nil, fmt.Errorf("intrinsic value: %w", err)
	}

	bound, err := StorageForesight(p, eng.Prices())
	if err != nil {
		return nil, err
	}
	return &Decomposition{
		Total:     total.Price,
		Intrinsic: intrinsic.Price,
		Extrinsic: total.Price - intrinsic.Price,
		Foresight: bound.Price,
	}, nil
}

// DecomposeSwing is DecomposeStorage for swing contracts.
func DecomposeSwing(p model.SwingParams, prices *model.PriceMatrix, opts lsmc.Options) (*Decomposition, error) {
	eng, err := lsmc.NewSwingEngine(p, prices, opts)
	if err != nil {
		return nil, err
	}
	total, err := eng.Value()
	if err != nil {
		return nil, err
	}

	mean, mp, err := meanPath(p.MarketParams, eng.Prices())
	if err != nil {
		return nil, err
	}
	ip := p
	ip.MarketParams = mp
	ieng, err := lsmc.NewSwingEngine(ip, mean, opts)
	if err != nil {
		return nil, err
	}
	intrinsic, err := ieng.Value()
	if err != nil {
		return nil, fmt.Errorf("intrinsic value: %w", err)
	}

	bound, err := SwingForesight(p, eng.Prices())
	if err != nil {
		return nil, err
	}
	return &Decomposition{
		Total:     total.Price,
		Intrinsic: intrinsic.Price,
		Extrinsic: total.Price - intrinsic.Price,
		Foresight: bound.Price,
	}, nil
}

func meanPath(p model.MarketParams, prices *model.PriceMatrix) (*model.PriceMatrix, model.MarketParams, error) {
	mean, err := model.Repeat(prices.MeanPath(), 2)
	if err != nil {
		return nil, p, fmt.Errorf("mean path: %w", err)
	}
	p.Scenarios = 2
	return mean, p, nil
}
