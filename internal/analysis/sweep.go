package analysis

import (
	"fmt"
	"sort"

	"energy-lsmc/internal/lsmc"
	"energy-lsmc/internal/model"

	"golang.org/x/sync/errgroup"
)

// SweepPoint is the storage value at one volatility.
type SweepPoint struct {
	Volatility float64
	Price      float64
	Foresight  float64
}

// VolatilitySweep values the same facility at each volatility, simulating
// every price matrix from the same seed. Points come back sorted by
// volatility. Sweeps run concurrently, bounded by opts.Workers.
func VolatilitySweep(p model.StorageParams, vols []float64, opts lsmc.Options) ([]SweepPoint, error) {
	if len(vols) == 0 {
		return nil, fmt.Errorf("%w: no volatilities to sweep", model.ErrConfiguration)
	}
	sorted := append([]float64(nil), vols...)
	sort.Float64s(sorted)

	points := make([]SweepPoint, len(sorted))
	var g errgroup.Group
	g.SetLimit(max(opts.Workers, 1))
	for k, vol := range sorted {
		g.Go(func() error {
			q := p
			q.Volatility = vol
			eng, err := lsmc.NewStorageEngine(q, nil, lsmc.Options{Seed: opts.Seed, Logger: opts.Logger})
			if err != nil {
				return fmt.Errorf("volatility %g: %w", vol, err)
			}
			res, err := eng.Value()
			if err != nil {
				return fmt.Errorf("volatility %g: %w", vol, err)
			}
			bound, err := StorageForesight(q, res.Prices)
			if err != nil {
				return fmt.Errorf("volatility %g: %w", vol, err)
			}
			points[k] = SweepPoint{Volatility: vol, Price: res.Price, Foresight: bound.Price}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return points, nil
}
