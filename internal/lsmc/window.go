package lsmc

// FeasibilityWindow returns the number of inventory indices (0..w-1) that are
// reachable at decision step t of a horizon of `steps` steps, on a grid of
// `states` = K+1 levels.
//
// The window is the triangle of states that can be filled from empty at
// t = 1 and emptied again by t = steps+1 while moving at most one DCQ per
// step, capped by the grid size. In DCQ units:
//
//	tau = ceil((T+1)/2), rho = ceil((T+2)/2)
//	w(t) = max(min(K+1, tau-|t-rho|), min(K+1, tau-|t-tau|))
func FeasibilityWindow(t, steps, states int) int {
	tau := (steps + 2) / 2 // ceil((T+1)/2)
	rho := (steps + 3) / 2 // ceil((T+2)/2)
	w := max(min(states, tau-abs(t-rho)), min(states, tau-abs(t-tau)))
	if w < 0 {
		return 0
	}
	return w
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
