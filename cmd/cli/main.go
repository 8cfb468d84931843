package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"energy-lsmc/internal/analysis"
	"energy-lsmc/internal/backtest"
	"energy-lsmc/internal/config"
	"energy-lsmc/internal/data"
	"energy-lsmc/internal/logging"
	"energy-lsmc/internal/lsmc"
	"energy-lsmc/internal/model"
	"energy-lsmc/internal/simulate"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "storage":
		cmdStorage(os.Args[2:])
	case "swing":
		cmdSwing(os.Args[2:])
	case "sweep":
		cmdSweep(os.Args[2:])
	case "decompose":
		cmdDecompose(os.Args[2:])
	case "profile":
		cmdProfile(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli storage   --config configs/storage.yaml [--prices paths.csv] [--scenario 0] [--out results/storage.csv]")
	fmt.Println("  cli swing     --config configs/swing.yaml [--prices paths.csv] [--scenario 0] [--out results/swing.csv]")
	fmt.Println("  cli sweep     --config configs/storage.yaml --vols 0.1,0.3,0.5,0.7")
	fmt.Println("  cli decompose --config configs/storage.yaml [--kind storage|swing]")
	fmt.Println("  cli profile   --config configs/storage.yaml [--prices paths.csv]")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - prices are simulated (GBM) unless --prices or prices_file gives a CSV/JSON matrix")
	fmt.Println("  - --out writes the ledger of --scenario with action=WITHDRAW/HOLD/INJECT/EXERCISE per step")
}

type runFlags struct {
	cfgPath  string
	prices   string
	scenario int
	out      string
}

func parseRun(name string, args []string) runFlags {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	var f runFlags
	fs.StringVar(&f.cfgPath, "config", "", "Path to YAML config")
	fs.StringVar(&f.prices, "prices", "", "Optional price matrix (CSV or JSON); overrides prices_file")
	fs.IntVar(&f.scenario, "scenario", -1, "Optional: replay this scenario under the optimal policy")
	fs.StringVar(&f.out, "out", "", "Optional: write the replayed ledger CSV here")
	_ = fs.Parse(args)

	if f.cfgPath == "" {
		fmt.Println("--config is required")
		os.Exit(2)
	}
	if f.out != "" && f.scenario < 0 {
		f.scenario = 0
	}
	return f
}

func cmdStorage(args []string) {
	f := parseRun("storage", args)
	cfg, logger := load(f.cfgPath)
	defer func() { _ = logger.Sync() }()
	if !cfg.HasStorage() {
		fail(fmt.Errorf("%s has no storage section", f.cfgPath))
	}

	prices := loadPrices(cfg, f.prices)
	params := cfg.StorageParams()

	start := time.Now()
	eng, err := lsmc.NewStorageEngine(params, prices, options(cfg, logger))
	if err != nil {
		fail(err)
	}
	res, err := eng.Value()
	if err != nil {
		fail(err)
	}
	elapsed := time.Since(start)

	fmt.Printf("Storage %q: %d states, %d steps, %d scenarios\n",
		cfg.Storage.Name, params.StateCount(), params.Steps, params.Scenarios)
	fmt.Printf("Price=%.6f StdErr=%.6f Regressions=%d Elapsed=%s\n",
		res.Price, stdError(res.Values, params.Discount()), res.Regressions, elapsed.Round(time.Millisecond))

	if f.scenario >= 0 {
		path, err := res.Path(f.scenario)
		if err != nil {
			fail(err)
		}
		replay(path, f.out)
	}
}

func cmdSwing(args []string) {
	f := parseRun("swing", args)
	cfg, logger := load(f.cfgPath)
	defer func() { _ = logger.Sync() }()
	if !cfg.HasSwing() {
		fail(fmt.Errorf("%s has no swing section", f.cfgPath))
	}

	prices := loadPrices(cfg, f.prices)
	params := cfg.SwingParams()

	start := time.Now()
	eng, err := lsmc.NewSwingEngine(params, prices, options(cfg, logger))
	if err != nil {
		fail(err)
	}
	res, err := eng.Value()
	if err != nil {
		fail(err)
	}
	elapsed := time.Since(start)

	fmt.Printf("Swing %q: %d rights (min %d), %d steps, %d scenarios\n",
		cfg.Swing.Name, params.Rights(), params.MinRights(), params.Steps, params.Scenarios)
	fmt.Printf("Price=%.6f StdErr=%.6f Regressions=%d Elapsed=%s\n",
		res.Price, stdError(res.Values, params.Discount()), res.Regressions, elapsed.Round(time.Millisecond))

	if f.scenario >= 0 {
		path, err := res.Path(f.scenario)
		if err != nil {
			fail(err)
		}
		replay(path, f.out)
	}
}

func cmdSweep(args []string) {
	fs := flag.NewFlagSet("sweep", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config with a storage section")
	vols := fs.String("vols", "0.1,0.2,0.3,0.4,0.5,0.6,0.7,0.8,0.9,1.0", "Comma-separated volatilities")
	_ = fs.Parse(args)

	if *cfgPath == "" {
		fmt.Println("--config is required")
		os.Exit(2)
	}
	cfg, logger := load(*cfgPath)
	defer func() { _ = logger.Sync() }()
	if !cfg.HasStorage() {
		fail(fmt.Errorf("%s has no storage section", *cfgPath))
	}

	sigmas, err := parseFloats(*vols)
	if err != nil {
		fail(err)
	}
	points, err := analysis.VolatilitySweep(cfg.StorageParams(), sigmas, options(cfg, logger))
	if err != nil {
		fail(err)
	}

	fmt.Printf("%-10s %-14s %-14s\n", "vol", "price", "foresight")
	for _, p := range points {
		fmt.Printf("%-10.4f %-14.6f %-14.6f\n", p.Volatility, p.Price, p.Foresight)
	}
}

func cmdDecompose(args []string) {
	fs := flag.NewFlagSet("decompose", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config")
	pricesPath := fs.String("prices", "", "Optional price matrix (CSV or JSON); overrides prices_file")
	kind := fs.String("kind", "", "storage or swing (default: whichever the config defines, storage first)")
	_ = fs.Parse(args)

	if *cfgPath == "" {
		fmt.Println("--config is required")
		os.Exit(2)
	}
	cfg, logger := load(*cfgPath)
	defer func() { _ = logger.Sync() }()

	if *kind == "" {
		*kind = string(model.KindSwing)
		if cfg.HasStorage() {
			*kind = string(model.KindStorage)
		}
	}
	prices := loadPrices(cfg, *pricesPath)

	var (
		dec *analysis.Decomposition
		err error
	)
	switch model.ContractKind(*kind) {
	case model.KindStorage:
		if !cfg.HasStorage() {
			fail(fmt.Errorf("%s has no storage section", *cfgPath))
		}
		dec, err = analysis.DecomposeStorage(cfg.StorageParams(), prices, options(cfg, logger))
	case model.KindSwing:
		if !cfg.HasSwing() {
			fail(fmt.Errorf("%s has no swing section", *cfgPath))
		}
		dec, err = analysis.DecomposeSwing(cfg.SwingParams(), prices, options(cfg, logger))
	default:
		fail(fmt.Errorf("unsupported kind: %q", *kind))
	}
	if err != nil {
		fail(err)
	}

	fmt.Printf("Total=%.6f Intrinsic=%.6f Extrinsic=%.6f Foresight=%.6f\n",
		dec.Total, dec.Intrinsic, dec.Extrinsic, dec.Foresight)
}

func cmdProfile(args []string) {
	fs := flag.NewFlagSet("profile", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config")
	pricesPath := fs.String("prices", "", "Optional price matrix (CSV or JSON); overrides prices_file")
	_ = fs.Parse(args)

	if *cfgPath == "" {
		fmt.Println("--config is required")
		os.Exit(2)
	}
	cfg, logger := load(*cfgPath)
	defer func() { _ = logger.Sync() }()

	prices := loadPrices(cfg, *pricesPath)
	if prices == nil {
		var err error
		prices, err = simulate.GBM(cfg.MarketParams(), cfg.Engine.Seed)
		if err != nil {
			fail(err)
		}
	}

	fmt.Printf("%-5s %-10s %-10s %-10s %-10s %-10s\n", "step", "mean", "stddev", "p05", "p95", "spread")
	for _, p := range analysis.PriceProfile(prices) {
		fmt.Printf("%-5d %-10.4f %-10.4f %-10.4f %-10.4f %-10.4f\n", p.Step, p.Mean, p.StdDev, p.P05, p.P95, p.Spread)
	}
}

func load(path string) (*config.Config, *zap.Logger) {
	cfg, err := config.Load(path)
	if err != nil {
		fail(err)
	}
	logger, err := logging.New(cfg.Engine.LogLevel, true)
	if err != nil {
		fail(err)
	}
	return cfg, logger
}

func options(cfg *config.Config, logger *zap.Logger) lsmc.Options {
	return lsmc.Options{Workers: cfg.Engine.Workers, Seed: cfg.Engine.Seed, Logger: logger}
}

// loadPrices reads the price matrix named by override or the config, trimmed
// to the configured horizon. It returns nil when prices should be simulated.
func loadPrices(cfg *config.Config, override string) *model.PriceMatrix {
	path := cfg.PricesFile
	if override != "" {
		path = override
	}
	if path == "" {
		return nil
	}
	m, err := data.LoadPrices(path)
	if err != nil {
		fail(err)
	}
	if m.Steps() == cfg.Market.Steps && m.Scenarios() == cfg.Market.Scenarios {
		return m
	}
	m, err = data.Trim(m, cfg.Market.Steps, cfg.Market.Scenarios)
	if err != nil {
		fail(err)
	}
	return m
}

func replay(path *lsmc.Path, out string) {
	res, err := backtest.New().Run(path)
	if err != nil {
		fail(err)
	}
	fmt.Printf("Scenario %d: Total=%.6f PV=%.6f FinalLevel=%.3f\n",
		res.Scenario, res.Total, res.PresentValue, res.FinalLevel)
	if out == "" {
		return
	}
	// ensure output dir exists
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		fail(err)
	}
	if err := backtest.WriteLedgerCSV(out, res.Ledger); err != nil {
		fail(err)
	}
	fmt.Printf("Wrote %d rows to %s\n", len(res.Ledger), out)
}

func stdError(values []float64, discount float64) float64 {
	if len(values) < 2 {
		return 0
	}
	return discount * stat.StdDev(values, nil) / math.Sqrt(float64(len(values)))
}

func parseFloats(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("bad volatility %q: %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
