// Package monitor implements the battery polling loop and the per-battery
// notification state machine.
package monitor

import (
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/battwatch/battwatch/pkg/config"
	"github.com/battwatch/battwatch/pkg/notify"
	"github.com/battwatch/battwatch/pkg/powerinfo"
)

// Poll intervals used when charge runs low, regardless of the configured
// base interval.
const (
	fastInterval   = 20 * time.Second
	mediumInterval = 40 * time.Second

	fastBelow   = 20
	mediumBelow = 40
)

// NotifyCallback observes every fired notification, delivery outcome aside.
// Used by the daemon to feed the events API.
type NotifyCallback func(battery string, class Class, n notify.Notification)

// FleetChangeCallback observes battery hot-plug and hot-remove. batteries
// is the new device set.
type FleetChangeCallback func(batteries []string)

// Snapshot is a copy of the monitor state after a poll, for the HTTP API.
type Snapshot struct {
	At           time.Time           `json:"at"`
	Readings     []powerinfo.Reading `json:"readings"`
	Plugged      bool                `json:"plugged"`
	Latches      map[string]Latch    `json:"latches"`
	NextInterval time.Duration       `json:"nextInterval"`
	DryRun       bool                `json:"dryRun"`
}

// Monitor owns the notification latches. All mutation happens on the
// polling goroutine; the mutex only guards the published snapshot and the
// dry-run toggle, which the HTTP API touches.
type Monitor struct {
	cfg           config.Config
	source        powerinfo.Source
	notifier      notify.Notifier
	onNotify      NotifyCallback
	onFleetChange FleetChangeCallback

	latches map[string]*Latch

	mu       sync.RWMutex
	dryRun   bool
	snapshot Snapshot
}

// New creates a Monitor. The latch map starts empty; the first poll
// initializes it through reconciliation.
func New(cfg config.Config, source powerinfo.Source, notifier notify.Notifier) *Monitor {
	return &Monitor{
		cfg:      cfg,
		source:   source,
		notifier: notifier,
		latches:  make(map[string]*Latch),
		dryRun:   cfg.DryRun,
	}
}

// OnNotify registers a callback invoked for every fired notification.
// Must be called before Run.
func (m *Monitor) OnNotify(cb NotifyCallback) {
	m.onNotify = cb
}

// OnFleetChange registers a callback invoked when the battery set changes
// between polls. Not invoked for the initial population. Must be called
// before Run.
func (m *Monitor) OnFleetChange(cb FleetChangeCallback) {
	m.onFleetChange = cb
}

// SetDryRun toggles notification suppression at runtime. The published
// snapshot is updated in place so status queries see the new value before
// the next poll.
func (m *Monitor) SetDryRun(v bool) {
	m.mu.Lock()
	m.dryRun = v
	m.snapshot.DryRun = v
	m.mu.Unlock()
	logrus.Infof("dry-run set to %t", v)
}

// DryRun reports whether delivery is currently suppressed.
func (m *Monitor) DryRun() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dryRun
}

// Snapshot returns a copy of the state published by the last poll.
func (m *Monitor) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot
}

// Run polls until stop is closed. The sleep between polls is a timer
// interrupted by stop, so shutdown never waits out a full interval.
func (m *Monitor) Run(stop <-chan struct{}) {
	for {
		next := m.Poll()

		timer := time.NewTimer(next)
		select {
		case <-timer.C:
		case <-stop:
			timer.Stop()
			logrus.Debug("poll loop stopping")
			return
		}
	}
}

// Poll runs one full cycle: read, aggregate plug state, reconcile the
// battery fleet, advance every latch, and compute the next poll delay.
func (m *Monitor) Poll() time.Duration {
	readings, err := m.source.Batteries()
	if err != nil {
		logrus.Errorf("failed to read batteries: %v", err)
		return m.cfg.Interval
	}

	plugged := powerinfo.PluggedIn(readings, m.source.ACOnline())
	m.reconcile(readings)

	thresholds := Thresholds{
		Low:    m.cfg.LowThreshold,
		High:   m.cfg.HighThreshold,
		Unplug: m.cfg.UnplugThreshold,
		Full:   m.cfg.FullThreshold,
	}

	for _, r := range readings {
		logrus.Infof("Battery %s: %s | status=%s | plugged=%t",
			r.Name, formatPercent(r.Percent), r.State, plugged)

		latch := m.latches[r.Name]
		for _, class := range latch.Advance(thresholds, r.Percent, plugged) {
			m.fire(r.Name, class, *r.Percent)
		}
	}

	min, ok := powerinfo.MinPercent(readings)
	next := NextInterval(m.cfg.Interval, min, ok)

	m.publish(readings, plugged, next)
	return next
}

// reconcile compares the observed battery set against the tracked one and,
// on any difference, throws the whole latch map away. Coarse on purpose:
// partial reconciliation trades a rare duplicate notification for never
// leaking stale keys.
func (m *Monitor) reconcile(readings []powerinfo.Reading) {
	changed := len(readings) != len(m.latches)
	if !changed {
		for _, r := range readings {
			if _, ok := m.latches[r.Name]; !ok {
				changed = true
				break
			}
		}
	}
	if !changed {
		return
	}

	announce := len(m.latches) > 0
	m.latches = make(map[string]*Latch, len(readings))
	names := make([]string, 0, len(readings))
	for _, r := range readings {
		m.latches[r.Name] = &Latch{}
		names = append(names, r.Name)
	}

	if announce {
		logrus.Warn("battery set changed, resetting notification state")
		if m.onFleetChange != nil {
			m.onFleetChange(names)
		}
	}
}

// fire delivers one notification. Delivery failures are logged and ignored;
// the latch bit is already set, matching the at-most-once guarantee.
func (m *Monitor) fire(battery string, class Class, percent int) {
	n := notificationFor(class, battery, percent)

	notifier := m.notifier
	if m.DryRun() {
		notifier = notify.DryRun{}
	}
	if err := notifier.Send(n); err != nil {
		logrus.WithFields(logrus.Fields{
			"battery": battery,
			"class":   class.String(),
		}).Errorf("failed to send notification: %v", err)
	}

	if m.onNotify != nil {
		m.onNotify(battery, class, n)
	}
}

func (m *Monitor) publish(readings []powerinfo.Reading, plugged bool, next time.Duration) {
	latches := make(map[string]Latch, len(m.latches))
	for name, l := range m.latches {
		latches[name] = *l
	}

	m.mu.Lock()
	m.snapshot = Snapshot{
		At:           time.Now(),
		Readings:     readings,
		Plugged:      plugged,
		Latches:      latches,
		NextInterval: next,
		DryRun:       m.dryRun,
	}
	m.mu.Unlock()
}

// NextInterval computes the delay before the next poll from the minimum
// known charge. ok is false when no battery reported a percentage.
func NextInterval(base time.Duration, min int, ok bool) time.Duration {
	if !ok {
		return base
	}
	switch {
	case min <= fastBelow:
		return fastInterval
	case min <= mediumBelow:
		return mediumInterval
	default:
		return base
	}
}

// notificationFor builds the user-facing message for a fired class.
func notificationFor(class Class, battery string, percent int) notify.Notification {
	switch class {
	case ClassLow:
		return notify.Notification{
			Title:   "Battery low",
			Body:    fmt.Sprintf("%s is at %d%%. Plug in the charger.", battery, percent),
			Icon:    "low",
			Urgency: notify.UrgencyCritical,
		}
	case ClassHigh:
		return notify.Notification{
			Title:   "Avoid overcharging",
			Body:    fmt.Sprintf("%s is at %d%%. Consider unplugging to preserve battery health.", battery, percent),
			Icon:    "high",
			Urgency: notify.UrgencyNormal,
			Timeout: 10 * time.Second,
		}
	case ClassUnplug:
		return notify.Notification{
			Title:   "Almost full",
			Body:    fmt.Sprintf("%s is at %d%%. Please unplug the charger.", battery, percent),
			Icon:    "unplug",
			Urgency: notify.UrgencyNormal,
			Timeout: 12 * time.Second,
		}
	default:
		return notify.Notification{
			Title:   "Charging complete",
			Body:    fmt.Sprintf("%s reached %d%%. Please unplug the charger.", battery, percent),
			Icon:    "full",
			Urgency: notify.UrgencyCritical,
		}
	}
}

func formatPercent(p *int) string {
	if p == nil {
		return "?%"
	}
	return fmt.Sprintf("%d%%", *p)
}
