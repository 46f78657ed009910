// Package notify delivers desktop notifications through notify-send or
// directly over D-Bus.
package notify

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Urgency is the freedesktop notification urgency level.
type Urgency string

const (
	// UrgencyNormal is the default urgency.
	UrgencyNormal Urgency = "normal"
	// UrgencyCritical marks notifications that should persist.
	UrgencyCritical Urgency = "critical"
)

// icons maps notification classes to freedesktop icon names.
var icons = map[string]string{
	"low":     "battery-caution",
	"high":    "battery-good",
	"unplug":  "battery-full-charged",
	"full":    "battery-full",
	"default": "battery",
}

// Icon resolves an icon key to a freedesktop icon name, falling back to the
// default battery icon for unknown keys.
func Icon(key string) string {
	if name, ok := icons[key]; ok {
		return name
	}
	return icons["default"]
}

// Notification is a single desktop notification. A zero Timeout means the
// notification does not auto-dismiss.
type Notification struct {
	Title   string
	Body    string
	Icon    string // icon key, resolved through Icon()
	Urgency Urgency
	Timeout time.Duration
}

// Notifier delivers notifications. Delivery failures must not stop
// monitoring; callers log and continue.
type Notifier interface {
	Send(n Notification) error
}

// DryRun wraps a Notifier and suppresses actual delivery, logging the
// would-be notification instead.
type DryRun struct{}

var _ Notifier = DryRun{}

func (DryRun) Send(n Notification) error {
	logrus.WithFields(logrus.Fields{
		"icon":    Icon(n.Icon),
		"urgency": n.Urgency,
		"timeout": n.Timeout,
	}).Infof("[dry-run] notify: %s: %s", n.Title, n.Body)
	return nil
}
