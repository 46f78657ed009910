package monitor

import (
	"reflect"
	"testing"
)

var testThresholds = Thresholds{Low: 20, High: 85, Unplug: 95, Full: 100}

func intPtr(i int) *int { return &i }

// step is one poll observation fed to a latch.
type step struct {
	percent   *int
	plugged   bool
	wantFired []Class
	wantLatch Latch
}

func runSteps(t *testing.T, steps []step) {
	t.Helper()
	var l Latch
	for i, s := range steps {
		fired := l.Advance(testThresholds, s.percent, s.plugged)
		if !reflect.DeepEqual(fired, s.wantFired) {
			t.Errorf("step %d: fired = %v, want %v", i, fired, s.wantFired)
		}
		if l != s.wantLatch {
			t.Errorf("step %d: latch = %+v, want %+v", i, l, s.wantLatch)
		}
	}
}

func TestLatchLowFiresOncePerInterval(t *testing.T) {
	runSteps(t, []step{
		// Discharging at 18%: fire once.
		{intPtr(18), false, []Class{ClassLow}, Latch{Low: true}},
		// Still 18%, still unplugged: no repeat.
		{intPtr(18), false, nil, Latch{Low: true}},
		{intPtr(17), false, nil, Latch{Low: true}},
		// Plugged in: silent re-arm even though percent is still low.
		{intPtr(19), true, nil, Latch{}},
		// Unplugged again while still low: a genuine new crossing, re-fire.
		{intPtr(19), false, []Class{ClassLow}, Latch{Low: true}},
	})
}

func TestLatchLowRequiresUnplugged(t *testing.T) {
	// Noisy hardware can report a low percentage while on AC; low must not
	// fire as long as plugged holds.
	runSteps(t, []step{
		{intPtr(15), true, nil, Latch{}},
		{intPtr(15), true, nil, Latch{}},
	})
}

func TestLatchHighResetsOnlyOnUnplug(t *testing.T) {
	runSteps(t, []step{
		{intPtr(85), true, []Class{ClassHigh}, Latch{High: true}},
		{intPtr(90), true, nil, Latch{High: true}},
		// Percent dropping below the threshold while plugged does NOT
		// re-arm high; only removing power does.
		{intPtr(80), true, nil, Latch{High: true}},
		{intPtr(80), false, nil, Latch{}},
		// Replug above threshold: fires again.
		{intPtr(86), true, []Class{ClassHigh}, Latch{High: true}},
	})
}

func TestLatchUnplugResetsBelowThreshold(t *testing.T) {
	runSteps(t, []step{
		// 95 while plugged crosses both the high and unplug thresholds.
		{intPtr(95), true, []Class{ClassHigh, ClassUnplug}, Latch{High: true, Unplug: true}},
		{intPtr(96), true, nil, Latch{High: true, Unplug: true}},
		// Unlike high, unplug re-arms when charge drops below the threshold
		// even while still plugged in.
		{intPtr(94), true, nil, Latch{High: true}},
		{intPtr(95), true, []Class{ClassUnplug}, Latch{High: true, Unplug: true}},
	})
}

func TestLatchFullAndUnplugAreIndependent(t *testing.T) {
	runSteps(t, []step{
		// Crossing 95 first (high crosses too).
		{intPtr(96), true, []Class{ClassHigh, ClassUnplug}, Latch{High: true, Unplug: true}},
		// Reaching 100: full fires while unplug stays latched.
		{intPtr(100), true, []Class{ClassFull}, Latch{High: true, Unplug: true, Full: true}},
		{intPtr(100), true, nil, Latch{High: true, Unplug: true, Full: true}},
		// Unplugging at 100 resets everything.
		{intPtr(100), false, nil, Latch{}},
	})
}

func TestLatchFullAndUnplugFireTogether(t *testing.T) {
	// Jumping straight to 100 fires every plugged class in the same poll;
	// unplug and full carry distinct messages on purpose.
	runSteps(t, []step{
		{intPtr(100), true, []Class{ClassHigh, ClassUnplug, ClassFull}, Latch{High: true, Unplug: true, Full: true}},
	})
}

func TestLatchUnknownPercentLeavesStateUntouched(t *testing.T) {
	runSteps(t, []step{
		{intPtr(18), false, []Class{ClassLow}, Latch{Low: true}},
		// Unreadable capacity: nothing fires, nothing resets, even though
		// plugged changed.
		{nil, true, nil, Latch{Low: true}},
		{nil, false, nil, Latch{Low: true}},
		// Reading returns: plugged resets low silently.
		{intPtr(18), true, nil, Latch{}},
	})
}

func TestLatchUnplugBoundary(t *testing.T) {
	runSteps(t, []step{
		{intPtr(94), true, []Class{ClassHigh}, Latch{High: true}},
		{intPtr(95), true, []Class{ClassUnplug}, Latch{High: true, Unplug: true}},
	})
}

func TestClassString(t *testing.T) {
	tests := []struct {
		c    Class
		want string
	}{
		{ClassLow, "low"},
		{ClassHigh, "high"},
		{ClassUnplug, "unplug"},
		{ClassFull, "full"},
		{Class(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.c.String(); got != tt.want {
			t.Errorf("Class(%d).String() = %q, want %q", tt.c, got, tt.want)
		}
	}
}
