package models

import "energy-lsmc/internal/config"

// EngineOptions tune one valuation run.
type EngineOptions struct {
	Degree  int    `json:"degree,omitempty" binding:"omitempty,min=1,max=12"`
	Workers int    `json:"workers,omitempty" binding:"omitempty,min=1,max=64"`
	Seed    uint64 `json:"seed,omitempty"`
}

// ValuationOptions controls what is returned with a valuation.
type ValuationOptions struct {
	// Scenario, when set, returns the policy path of that scenario inline.
	Scenario *int `json:"scenario,omitempty" binding:"omitempty,min=0"`
	// IncludeWindows returns the storage feasibility window per step.
	IncludeWindows bool `json:"include_windows,omitempty"`
}

// ValuationRequest is shared by storage and swing valuations.
//
// Prices is an optional price matrix with rows = time steps 0..T and
// columns = scenarios. When it is given, zero market steps/scenarios/initial
// price are taken from the matrix; otherwise prices are simulated.
type ValuationRequest struct {
	Market  config.MarketConfig `json:"market"`
	Engine  EngineOptions       `json:"engine,omitempty"`
	Prices  [][]float64         `json:"prices,omitempty"`
	Options ValuationOptions    `json:"options,omitempty"`
}

// StorageValuationRequest is the body of POST /api/v1/valuations/storage.
type StorageValuationRequest struct {
	ValuationRequest
	// Contract is an optional preset id from GET /api/v1/contracts; Storage
	// fields override it.
	Contract string               `json:"contract,omitempty"`
	Storage  config.StorageConfig `json:"storage"`
}

// SwingValuationRequest is the body of POST /api/v1/valuations/swing.
type SwingValuationRequest struct {
	ValuationRequest
	Contract string             `json:"contract,omitempty"`
	Swing    config.SwingConfig `json:"swing"`
}

// SweepRequest is the body of POST /api/v1/analysis/sweep.
type SweepRequest struct {
	Market       config.MarketConfig  `json:"market"`
	Engine       EngineOptions        `json:"engine,omitempty"`
	Contract     string               `json:"contract,omitempty"`
	Storage      config.StorageConfig `json:"storage"`
	Volatilities []float64            `json:"volatilities" binding:"required,min=1,max=20,dive,gt=0"`
}

// DecomposeRequest is the body of POST /api/v1/analysis/decompose.
type DecomposeRequest struct {
	ValuationRequest
	Kind     string               `json:"kind" binding:"required,oneof=storage swing"`
	Contract string               `json:"contract,omitempty"`
	Storage  config.StorageConfig `json:"storage"`
	Swing    config.SwingConfig   `json:"swing"`
}
