package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"energy-lsmc/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

const market = `
market:
  initial_price: 3
  maturity: 1
  steps: 10
  rate: 0.05
  volatility: 0.4
  scenarios: 200
`

func TestLoadMergesStorageFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "contracts/cavern.yaml", `
storage:
  name: Cavern
  max_inventory: 100
  min_inventory: 10
  dcq: 10
`)
	cfgPath := writeFile(t, dir, "run.yaml", `
storage_file: contracts/cavern.yaml
storage:
  max_inventory: 60
prices_file: paths.csv
`+market)

	c, err := Load(cfgPath)
	require.NoError(t, err)

	assert.Equal(t, StorageConfig{Name: "Cavern", MaxInventory: 60, MinInventory: 10, DCQ: 10}, c.Storage)
	assert.Equal(t, DefaultDegree, c.Engine.Degree)
	assert.Equal(t, 1, c.Engine.Workers)
	assert.Equal(t, "info", c.Engine.LogLevel)
	assert.True(t, c.HasStorage())
	assert.False(t, c.HasSwing())

	p := c.StorageParams()
	assert.Equal(t, 6, p.StateCount())
	assert.Equal(t, 200, p.Scenarios)
	assert.Equal(t, DefaultDegree, p.Degree)
	// Missing relative files stay relative to the working directory.
	assert.Equal(t, "paths.csv", c.PricesFile)
}

func TestLoadSwing(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "swing.yaml", `
swing:
  name: Supply
  strike: 3
  acq: 20
  dcq: 2
`)
	cfgPath := writeFile(t, dir, "run.yaml", `
swing_file: swing.yaml
swing:
  take_or_pay: 8
  enforce_take_or_pay: true
engine:
  degree: 3
  workers: 4
  seed: 9
`+market)

	c, err := Load(cfgPath)
	require.NoError(t, err)
	sp := c.SwingParams()
	assert.Equal(t, 10, sp.Rights())
	assert.Equal(t, 4, sp.MinRights())
	assert.Equal(t, 3, sp.Degree)
	assert.Equal(t, uint64(9), c.Engine.Seed)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		body string
	}{
		{name: "no contract", body: market},
		{name: "bad storage", body: "storage:\n  max_inventory: 10\n  dcq: 0\n" + market},
		{name: "bad market", body: "storage:\n  max_inventory: 10\n  dcq: 1\nmarket:\n  steps: 0\n"},
		{name: "take-or-pay beyond rights", body: "swing:\n  strike: 1\n  acq: 4\n  dcq: 1\n  take_or_pay: 5\n  enforce_take_or_pay: true\n" + market},
		{name: "malformed yaml", body: "storage: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, dir, tt.name+".yaml", tt.body))
			assert.ErrorIs(t, err, model.ErrConfiguration)
		})
	}

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, dir, "dangling.yaml", "storage_file: nowhere.yaml\n"+market))
	assert.Error(t, err)
}

func TestMergeStorage(t *testing.T) {
	base := StorageConfig{Name: "a", MaxInventory: 10, MinInventory: 2, DCQ: 2}
	assert.Equal(t, base, MergeStorage(base, StorageConfig{}))
	assert.Equal(t,
		StorageConfig{Name: "b", MaxInventory: 10, MinInventory: 4, DCQ: 1},
		MergeStorage(base, StorageConfig{Name: "b", MinInventory: 4, DCQ: 1}))
}

func TestMergeSwing(t *testing.T) {
	base := SwingConfig{Name: "a", Strike: 3, ACQ: 10, DCQ: 1}
	got := MergeSwing(base, SwingConfig{Strike: 4, TakeOrPay: 5, EnforceTakeOrPay: true})
	assert.Equal(t, SwingConfig{Name: "a", Strike: 4, ACQ: 10, DCQ: 1, TakeOrPay: 5, EnforceTakeOrPay: true}, got)
}

func TestLoadServerDefaults(t *testing.T) {
	cfg, err := LoadServer()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, time.Hour, cfg.ResultTTL)
	assert.False(t, cfg.Production())
}

func TestLoadServerFromEnv(t *testing.T) {
	t.Setenv("API_PORT", "9090")
	t.Setenv("API_ENV", "production")
	t.Setenv("API_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("API_RESULT_TTL", "5m")
	t.Setenv("API_WORKERS", "0")

	cfg, err := LoadServer()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.Production())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 5*time.Minute, cfg.ResultTTL)
	assert.Equal(t, 1, cfg.Workers)

	t.Setenv("API_PORT", "not-a-port")
	_, err = LoadServer()
	assert.ErrorIs(t, err, model.ErrConfiguration)
}
