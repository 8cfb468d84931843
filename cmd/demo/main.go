package main

import (
	"flag"
	"fmt"
	"strings"

	"energy-lsmc/internal/analysis"
	"energy-lsmc/internal/backtest"
	"energy-lsmc/internal/config"
	"energy-lsmc/internal/lsmc"
	"energy-lsmc/internal/model"
)

// Demo:
// - Value a small storage facility and a swing contract on a fixed 7x5 price matrix
// - Print the optimal policy of one scenario and its replayed ledger
// - Show how far the regression policy sits below perfect foresight
var demoPrices = [][]float64{
	{3, 3, 3, 3, 3},
	{3, 2.9, 2.8, 3.1, 3.2},
	{2.9, 2.6, 3.1, 2.7, 3.5},
	{3.4, 2.5, 3.3, 2.9, 3.6},
	{3.1, 2.7, 3.5, 2.4, 3.7},
	{3.2, 2.3, 3, 2, 3.9},
	{2.9, 3, 3.3, 1.8, 4},
}

func main() {
	cfgPath := flag.String("config", "", "Path to YAML config (optional; its contracts replace the defaults)")
	scenario := flag.Int("scenario", 3, "Scenario to replay")
	outCSV := flag.String("out", "", "Optional path to write the storage ledger CSV (e.g. results/demo.csv)")
	flag.Parse()

	prices, err := model.NewPriceMatrix(demoPrices)
	if err != nil {
		panic(err)
	}

	// Defaults (can be overridden via --config).
	market := model.MarketParams{
		InitialPrice: 3,
		Maturity:     1,
		Steps:        prices.Steps(),
		Rate:         0.06,
		Volatility:   0.59,
		Scenarios:    prices.Scenarios(),
		Degree:       2,
	}
	storage := model.StorageParams{MarketParams: market, MaxInventory: 2, MinInventory: 0, DCQ: 1}
	swing := model.SwingParams{MarketParams: market, Strike: 3, ACQ: 3, DCQ: 1}

	if *cfgPath != "" {
		cfg, err := config.Load(*cfgPath)
		if err != nil {
			panic(err)
		}
		if cfg.HasStorage() {
			storage = cfg.Storage.ToModelParams(market)
		}
		if cfg.HasSwing() {
			swing = cfg.Swing.ToModelParams(market)
		}
	}

	fmt.Printf("Price matrix: %d steps x %d scenarios\n", prices.Steps(), prices.Scenarios())
	for _, p := range analysis.PriceProfile(prices) {
		fmt.Printf("  t=%d mean=%.3f p05=%.3f p95=%.3f\n", p.Step, p.Mean, p.P05, p.P95)
	}
	fmt.Println()

	seng, err := lsmc.NewStorageEngine(storage, prices, lsmc.Options{})
	if err != nil {
		panic(err)
	}
	sres, err := seng.Value()
	if err != nil {
		panic(err)
	}
	sbound, err := analysis.StorageForesight(storage, prices)
	if err != nil {
		panic(err)
	}
	fmt.Printf("Storage (inventory %d..%d, DCQ %d)\n", storage.MinInventory, storage.MaxInventory, storage.DCQ)
	fmt.Printf("  value=%.6f  foresight=%.6f  windows=%v\n", sres.Price, sbound.Price, sres.Windows)
	ledger := printPath(sres.Path(*scenario))

	weng, err := lsmc.NewSwingEngine(swing, prices, lsmc.Options{})
	if err != nil {
		panic(err)
	}
	wres, err := weng.Value()
	if err != nil {
		panic(err)
	}
	wbound, err := analysis.SwingForesight(swing, prices)
	if err != nil {
		panic(err)
	}
	fmt.Printf("\nSwing (strike %.2f, %d rights, DCQ %d)\n", swing.Strike, swing.Rights(), swing.DCQ)
	fmt.Printf("  value=%.6f  foresight=%.6f\n", wres.Price, wbound.Price)
	printPath(wres.Path(*scenario))

	if *outCSV != "" {
		if err := backtest.WriteLedgerCSV(*outCSV, ledger); err != nil {
			panic(err)
		}
		fmt.Printf("\nWrote CSV: %s\n", *outCSV)
	}
}

func printPath(path *lsmc.Path, err error) []backtest.LedgerRow {
	if err != nil {
		panic(err)
	}
	res, err := backtest.New().Run(path)
	if err != nil {
		panic(err)
	}
	fmt.Printf("  scenario %d:\n", res.Scenario)
	for _, r := range res.Ledger {
		fmt.Printf(
			"    t=%d price=%5.2f  action=%-8s  level=%5.1f->%5.1f  cf=%7.3f  cum=%7.3f\n",
			r.Step,
			r.Price,
			r.Label,
			r.LevelStart,
			r.LevelEnd,
			r.CashFlow,
			r.CumCashFlow,
		)
	}
	fmt.Printf("  %s\n", strings.Repeat("-", 40))
	fmt.Printf("  total=%.3f  pv=%.3f  final level=%.1f\n", res.Total, res.PresentValue, res.FinalLevel)
	return res.Ledger
}
