package monitor

// Class identifies one of the four notification classes.
type Class int

const (
	// ClassLow fires when discharging at or below the low threshold.
	ClassLow Class = iota
	// ClassHigh fires when charging at or above the high threshold.
	ClassHigh
	// ClassUnplug fires when charging at or above the unplug threshold.
	ClassUnplug
	// ClassFull fires when charging at or above the full threshold.
	ClassFull
)

var classNames = [...]string{"low", "high", "unplug", "full"}

func (c Class) String() string {
	if c < 0 || int(c) >= len(classNames) {
		return "unknown"
	}
	return classNames[c]
}

var classes = []Class{ClassLow, ClassHigh, ClassUnplug, ClassFull}

// Thresholds are the per-class trigger levels, in percent.
type Thresholds struct {
	Low    int
	High   int
	Unplug int
	Full   int
}

// Latch remembers, per battery, which notification classes have already
// fired. A bit stays set while its trigger condition holds continuously and
// clears only when the class's reset condition is observed, so each
// continuous trigger interval produces at most one notification.
type Latch struct {
	Low    bool `json:"low"`
	High   bool `json:"high"`
	Unplug bool `json:"unplug"`
	Full   bool `json:"full"`
}

func (l *Latch) bit(c Class) *bool {
	switch c {
	case ClassLow:
		return &l.Low
	case ClassHigh:
		return &l.High
	case ClassUnplug:
		return &l.Unplug
	default:
		return &l.Full
	}
}

// trigger is the condition that fires a notification for a class.
func trigger(c Class, t Thresholds, percent int, plugged bool) bool {
	switch c {
	case ClassLow:
		return percent <= t.Low && !plugged
	case ClassHigh:
		return plugged && percent >= t.High
	case ClassUnplug:
		return plugged && percent >= t.Unplug
	default:
		return plugged && percent >= t.Full
	}
}

// reset is the condition that re-arms a fired class. The rules are
// deliberately asymmetric per class: low re-arms as soon as external power
// is seen, high only when power is removed, unplug and full also when the
// charge drops back below their thresholds.
func reset(c Class, t Thresholds, percent int, plugged bool) bool {
	switch c {
	case ClassLow:
		return plugged
	case ClassHigh:
		return !plugged
	case ClassUnplug:
		return !plugged || percent < t.Unplug
	default:
		return !plugged || percent < t.Full
	}
}

// Advance evaluates all four classes against the current reading and
// returns the classes that fired this poll. A nil percent leaves every bit
// untouched. Resets are silent.
func (l *Latch) Advance(t Thresholds, percent *int, plugged bool) []Class {
	if percent == nil {
		return nil
	}

	var fired []Class
	for _, c := range classes {
		b := l.bit(c)
		switch {
		case !*b && trigger(c, t, *percent, plugged):
			*b = true
			fired = append(fired, c)
		case *b && reset(c, t, *percent, plugged):
			*b = false
		}
	}
	return fired
}
