package powerinfo

import "strings"

// State represents the charging state of a battery.
type State int

const (
	// Unknown indicates the state could not be determined.
	Unknown State = iota
	// Charging indicates the battery is charging.
	Charging
	// Discharging indicates the battery is discharging.
	Discharging
	// Full indicates the battery is full.
	Full
)

var stateNames = [...]string{"unknown", "charging", "discharging", "full"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return stateNames[Unknown]
	}
	return stateNames[s]
}

// ParseState maps a power-supply status string to a State. Matching is
// case-insensitive; anything unrecognized is Unknown.
func ParseState(s string) State {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "charging":
		return Charging
	case "discharging":
		return Discharging
	case "full":
		return Full
	default:
		return Unknown
	}
}

// Reading is a single per-battery sample taken during one poll.
// Percent is nil when the capacity could not be read.
type Reading struct {
	Name    string `json:"name"`
	Percent *int   `json:"percent"`
	State   State  `json:"state"`
}

// Source produces battery readings and the AC adapter state.
// Implementations must not fail a whole poll because a single
// device file is unreadable.
type Source interface {
	// Batteries returns one Reading per detected battery.
	Batteries() ([]Reading, error)
	// ACOnline reports whether any AC adapter is online.
	ACOnline() bool
}

// PluggedIn reports whether the system is currently receiving external
// power: any battery charging or full, or any adapter online.
func PluggedIn(readings []Reading, acOnline bool) bool {
	for _, r := range readings {
		if r.State == Charging || r.State == Full {
			return true
		}
	}
	return acOnline
}

// MinPercent returns the lowest known charge percentage across readings.
// ok is false when no reading carries a percentage.
func MinPercent(readings []Reading) (min int, ok bool) {
	for _, r := range readings {
		if r.Percent == nil {
			continue
		}
		if !ok || *r.Percent < min {
			min = *r.Percent
			ok = true
		}
	}
	return min, ok
}
