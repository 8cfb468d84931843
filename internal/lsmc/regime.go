package lsmc

// Regime classifies an inventory index at one time step. It decides which
// storage actions are feasible.
type Regime int

const (
	// RegimeInterior: withdraw, hold and inject are all feasible.
	RegimeInterior Regime = iota
	// RegimeBase: empty reservoir, withdraw is infeasible.
	RegimeBase
	// RegimeUpperBoundary: injecting would leave next step's window.
	RegimeUpperBoundary
	// RegimeInfeasible: the level only unwinds in time by withdrawing.
	RegimeInfeasible
	// RegimeUnreachable: outside the current window, never evaluated.
	RegimeUnreachable
)

func (r Regime) String() string {
	switch r {
	case RegimeInterior:
		return "interior"
	case RegimeBase:
		return "base"
	case RegimeUpperBoundary:
		return "upper_boundary"
	case RegimeInfeasible:
		return "infeasible"
	default:
		return "unreachable"
	}
}

// ClassifyState maps an inventory index to its regime given the window at
// this step (current) and at the next, later step (prev).
func ClassifyState(i, current, prev int) Regime {
	switch {
	case i < 0 || i >= current:
		return RegimeUnreachable
	case i == 0:
		return RegimeBase
	case i == prev-1:
		return RegimeUpperBoundary
	case i > prev-1:
		return RegimeInfeasible
	default:
		return RegimeInterior
	}
}
