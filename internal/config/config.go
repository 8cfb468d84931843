package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"energy-lsmc/internal/model"

	"gopkg.in/yaml.v3"
)

// DefaultDegree is the regression degree used when the config leaves it out.
const DefaultDegree = 5

// Config is the on-disk configuration shape (YAML).
type Config struct {
	// Optional: load storage parameters from a separate YAML (e.g. contracts/storage/*.yaml).
	// If both StorageFile and Storage are provided, Storage overrides StorageFile.
	StorageFile string `yaml:"storage_file"`
	// Same for swing contracts (e.g. contracts/swing/*.yaml).
	SwingFile string `yaml:"swing_file"`

	Market  MarketConfig  `yaml:"market"`
	Storage StorageConfig `yaml:"storage"`
	Swing   SwingConfig   `yaml:"swing"`
	Engine  EngineConfig  `yaml:"engine"`

	// Optional price matrix (CSV or JSON). When empty, prices are simulated.
	PricesFile string `yaml:"prices_file"`
}

type MarketConfig struct {
	InitialPrice float64 `yaml:"initial_price" json:"initial_price"`
	Maturity     float64 `yaml:"maturity" json:"maturity"`
	Steps        int     `yaml:"steps" json:"steps"`
	Rate         float64 `yaml:"rate" json:"rate"`
	Dividend     float64 `yaml:"dividend" json:"dividend"`
	Volatility   float64 `yaml:"volatility" json:"volatility"`
	Scenarios    int     `yaml:"scenarios" json:"scenarios"`
}

type StorageConfig struct {
	Name         string `yaml:"name" json:"name,omitempty"`
	MaxInventory int    `yaml:"max_inventory" json:"max_inventory"`
	MinInventory int    `yaml:"min_inventory" json:"min_inventory"`
	DCQ          int    `yaml:"dcq" json:"dcq"`
}

type SwingConfig struct {
	Name             string  `yaml:"name" json:"name,omitempty"`
	Strike           float64 `yaml:"strike" json:"strike"`
	ACQ              int     `yaml:"acq" json:"acq"`
	DCQ              int     `yaml:"dcq" json:"dcq"`
	TakeOrPay        int     `yaml:"take_or_pay" json:"take_or_pay"`
	EnforceTakeOrPay bool    `yaml:"enforce_take_or_pay" json:"enforce_take_or_pay"`
}

type EngineConfig struct {
	Degree   int    `yaml:"degree" json:"degree"`
	Workers  int    `yaml:"workers" json:"workers"`
	Seed     uint64 `yaml:"seed" json:"seed"`
	LogLevel string `yaml:"log_level" json:"log_level"`
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", model.ErrConfiguration, path, err)
	}
	if c.StorageFile != "" {
		loaded, err := LoadStorageFile(resolve(path, c.StorageFile))
		if err != nil {
			return nil, err
		}
		c.Storage = MergeStorage(loaded, c.Storage)
	}
	if c.SwingFile != "" {
		loaded, err := LoadSwingFile(resolve(path, c.SwingFile))
		if err != nil {
			return nil, err
		}
		c.Swing = MergeSwing(loaded, c.Swing)
	}
	if c.PricesFile != "" {
		c.PricesFile = resolve(path, c.PricesFile)
	}
	return &c, nil
}

// resolve prefers interpreting relative paths as relative to the config file
// directory, falling back to the provided path (relative to cwd) if that
// doesn't exist.
func resolve(configPath, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	cand := filepath.Join(filepath.Dir(configPath), p)
	if _, err := os.Stat(cand); err == nil {
		return cand
	}
	return p
}

// ApplyDefaults fills the engine settings a config may leave out.
func (c *Config) ApplyDefaults() {
	if c.Engine.Degree == 0 {
		c.Engine.Degree = DefaultDegree
	}
	if c.Engine.Workers == 0 {
		c.Engine.Workers = 1
	}
	if c.Engine.LogLevel == "" {
		c.Engine.LogLevel = "info"
	}
}

// HasStorage reports whether a storage contract is configured.
func (c *Config) HasStorage() bool { return c.Storage != StorageConfig{} }

// HasSwing reports whether a swing contract is configured.
func (c *Config) HasSwing() bool { return c.Swing != SwingConfig{} }

// Validate checks every configured contract against the model constraints.
// At least one contract must be present.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if !c.HasStorage() && !c.HasSwing() {
		return fmt.Errorf("%w: config needs a storage or swing section", model.ErrConfiguration)
	}
	if c.HasStorage() {
		if err := c.StorageParams().Validate(); err != nil {
			return fmt.Errorf("storage config invalid: %w", err)
		}
	}
	if c.HasSwing() {
		if err := c.SwingParams().Validate(); err != nil {
			return fmt.Errorf("swing config invalid: %w", err)
		}
	}
	return nil
}

func (c *Config) MarketParams() model.MarketParams {
	return c.Market.ToModelParams(c.Engine.Degree)
}

func (c *Config) StorageParams() model.StorageParams {
	return c.Storage.ToModelParams(c.MarketParams())
}

func (c *Config) SwingParams() model.SwingParams {
	return c.Swing.ToModelParams(c.MarketParams())
}

func (m MarketConfig) ToModelParams(degree int) model.MarketParams {
	return model.MarketParams{
		InitialPrice: m.InitialPrice,
		Maturity:     m.Maturity,
		Steps:        m.Steps,
		Rate:         m.Rate,
		Dividend:     m.Dividend,
		Volatility:   m.Volatility,
		Scenarios:    m.Scenarios,
		Degree:       degree,
	}
}

func (s StorageConfig) ToModelParams(m model.MarketParams) model.StorageParams {
	return model.StorageParams{
		MarketParams: m,
		MaxInventory: s.MaxInventory,
		MinInventory: s.MinInventory,
		DCQ:          s.DCQ,
	}
}

func (s SwingConfig) ToModelParams(m model.MarketParams) model.SwingParams {
	return model.SwingParams{
		MarketParams:     m,
		Strike:           s.Strike,
		ACQ:              s.ACQ,
		DCQ:              s.DCQ,
		TakeOrPay:        s.TakeOrPay,
		EnforceTakeOrPay: s.EnforceTakeOrPay,
	}
}

type storageFileWrapper struct {
	Storage StorageConfig `yaml:"storage"`
}

type swingFileWrapper struct {
	Swing SwingConfig `yaml:"swing"`
}

// LoadStorageFile reads a storage preset (a YAML file with a storage: section).
func LoadStorageFile(path string) (StorageConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return StorageConfig{}, err
	}
	var w storageFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return StorageConfig{}, fmt.Errorf("%w: %s: %v", model.ErrConfiguration, path, err)
	}
	return w.Storage, nil
}

// LoadSwingFile reads a swing preset (a YAML file with a swing: section).
func LoadSwingFile(path string) (SwingConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return SwingConfig{}, err
	}
	var w swingFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return SwingConfig{}, fmt.Errorf("%w: %s: %v", model.ErrConfiguration, path, err)
	}
	return w.Swing, nil
}

// MergeStorage overlays non-zero fields from override onto base.
// This is used when loading a storage file and then applying overrides from the request.
func MergeStorage(base, override StorageConfig) StorageConfig {
	out := base
	if override.Name != "" {
		out.Name = override.Name
	}
	if override.MaxInventory != 0 {
		out.MaxInventory = override.MaxInventory
	}
	// Note: min inventory may legitimately be 0; a zero override keeps the preset.
	if override.MinInventory != 0 {
		out.MinInventory = override.MinInventory
	}
	if override.DCQ != 0 {
		out.DCQ = override.DCQ
	}
	return out
}

// MergeSwing overlays non-zero fields from override onto base.
func MergeSwing(base, override SwingConfig) SwingConfig {
	out := base
	if override.Name != "" {
		out.Name = override.Name
	}
	if override.Strike != 0 {
		out.Strike = override.Strike
	}
	if override.ACQ != 0 {
		out.ACQ = override.ACQ
	}
	if override.DCQ != 0 {
		out.DCQ = override.DCQ
	}
	if override.TakeOrPay != 0 {
		out.TakeOrPay = override.TakeOrPay
	}
	if override.EnforceTakeOrPay {
		out.EnforceTakeOrPay = true
	}
	return out
}
