package model

// Action is the state-index move recorded in a policy tensor for one
// (time, state, scenario) cell.
//
// Storage: Withdraw = -1 (one DCQ sold), Hold = 0, Inject = +1 (one DCQ bought).
// Swing: Exercise = -1 (one right consumed), Hold = 0.
type Action int8

const (
	ActionWithdraw Action = -1
	ActionHold     Action = 0
	ActionInject   Action = 1

	ActionExercise = ActionWithdraw
)

// ContractKind names the asset a valuation was run for.
type ContractKind string

const (
	KindStorage ContractKind = "storage"
	KindSwing   ContractKind = "swing"
)

// Label is a human-friendly name for the action under a contract kind.
// Keep these values stable; they are intended for CSV output.
func (a Action) Label(kind ContractKind) string {
	switch {
	case a < 0 && kind == KindSwing:
		return "EXERCISE"
	case a < 0:
		return "WITHDRAW"
	case a > 0:
		return "INJECT"
	default:
		return "HOLD"
	}
}
