package model

import "errors"

// Failure classes surfaced by the valuation core. Call sites wrap these with
// context, so match with errors.Is.
var (
	// ErrConfiguration marks a non-positive or out-of-range parameter.
	// Nothing is computed once it is returned.
	ErrConfiguration = errors.New("configuration error")

	// ErrNumericInstability marks a regression that could not be fitted
	// (rank-deficient or ill-conditioned design matrix). It aborts the whole
	// valuation.
	ErrNumericInstability = errors.New("numeric instability")

	// ErrShapeMismatch marks a price matrix (or vector pair) whose
	// dimensions disagree with the configured time steps / scenarios.
	ErrShapeMismatch = errors.New("shape mismatch")
)
