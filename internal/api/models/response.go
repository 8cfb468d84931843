package models

import "time"

// ValuationResponse represents the response from a valuation run
type ValuationResponse struct {
	ID        string           `json:"id"`
	Kind      string           `json:"kind"`
	Status    string           `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
	Summary   ValuationSummary `json:"summary"`
	Path      *PathResponse    `json:"path,omitempty"`
}

// ValuationSummary contains the aggregated valuation results
type ValuationSummary struct {
	Price       float64 `json:"price"`
	StdError    float64 `json:"std_error"`
	Steps       int     `json:"steps"`
	Scenarios   int     `json:"scenarios"`
	States      int     `json:"states"`
	Regressions int     `json:"regressions"`
	ElapsedMS   int64   `json:"elapsed_ms"`
	Windows     []int   `json:"windows,omitempty"` // storage only, t = 0..T+1
}

// PathResponse is the replay of one scenario under the optimal policy
type PathResponse struct {
	Scenario     int         `json:"scenario"`
	Total        float64     `json:"total"`
	PresentValue float64     `json:"present_value"`
	FinalLevel   float64     `json:"final_level"`
	Ledger       []LedgerRow `json:"ledger"`
}

// LedgerRow represents one decision step of a path
type LedgerRow struct {
	Step        int     `json:"step"`
	Price       float64 `json:"price"`
	Action      string  `json:"action"` // "WITHDRAW", "INJECT", "HOLD", "EXERCISE"
	StateStart  int     `json:"state_start"`
	StateEnd    int     `json:"state_end"`
	LevelStart  float64 `json:"level_start"`
	LevelEnd    float64 `json:"level_end"`
	CashFlow    float64 `json:"cash_flow"`
	CumCashFlow float64 `json:"cum_cash_flow"`
}

// SweepResponse represents the response from a volatility sweep
type SweepResponse struct {
	Points []SweepPoint `json:"points"`
}

// SweepPoint is the value at one volatility
type SweepPoint struct {
	Volatility float64 `json:"volatility"`
	Price      float64 `json:"price"`
	Foresight  float64 `json:"foresight"`
}

// DecomposeResponse splits a value into intrinsic and extrinsic parts
type DecomposeResponse struct {
	Kind      string  `json:"kind"`
	Total     float64 `json:"total"`
	Intrinsic float64 `json:"intrinsic"`
	Extrinsic float64 `json:"extrinsic"`
	Foresight float64 `json:"foresight"`
}

// ContractInfo represents information about a contract preset
type ContractInfo struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`
	Name string `json:"name"`
	File string `json:"file"`
}

// EngineInfo represents information about a valuation engine
type EngineInfo struct {
	Kind        string          `json:"kind"`
	Description string          `json:"description"`
	Parameters  []ParameterInfo `json:"parameters"`
}

// ParameterInfo describes an engine parameter
type ParameterInfo struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"` // "float", "int", "bool"
	Description string      `json:"description"`
	Default     interface{} `json:"default,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
