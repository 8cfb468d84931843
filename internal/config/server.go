package config

import (
	"fmt"
	"time"

	"energy-lsmc/internal/model"

	"github.com/kelseyhightower/envconfig"
)

// ServerConfig is the HTTP API configuration, read from API_* environment
// variables.
type ServerConfig struct {
	Port            int           `envconfig:"PORT" default:"8080"`
	Env             string        `envconfig:"ENV" default:"development"`
	AllowedOrigins  []string      `envconfig:"ALLOWED_ORIGINS" default:"*"`
	ResultTTL       time.Duration `envconfig:"RESULT_TTL" default:"1h"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"15s"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	Workers         int           `envconfig:"WORKERS" default:"1"`
	ContractDir     string        `envconfig:"CONTRACT_DIR" default:"contracts"`
	// MaxScenarios caps scenarios per API valuation.
	MaxScenarios int `envconfig:"MAX_SCENARIOS" default:"20000"`
}

func LoadServer() (*ServerConfig, error) {
	var cfg ServerConfig
	if err := envconfig.Process("API", &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrConfiguration, err)
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("%w: API_PORT out of range: %d", model.ErrConfiguration, cfg.Port)
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &cfg, nil
}

func (c *ServerConfig) Production() bool { return c.Env == "production" }

func (c *ServerConfig) Addr() string { return fmt.Sprintf(":%d", c.Port) }
