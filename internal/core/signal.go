package core

// SignalLevel is the three-valued budget threshold outcome.
type SignalLevel int

const (
	SignalNone SignalLevel = iota
	SignalAlert
	SignalExceeded
)

func (l SignalLevel) String() string {
	switch l {
	case SignalAlert:
		return "alert"
	case SignalExceeded:
		return "exceeded"
	default:
		return "none"
	}
}

// Signal is the outcome of evaluating spend against a budget limit.
// Spent and Limit are zero when no budget is set.
type Signal struct {
	Level SignalLevel
	Spent Money
	Limit Money
}
