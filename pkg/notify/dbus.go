package notify

import (
	"time"

	"github.com/godbus/dbus/v5"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	notificationsDest = "org.freedesktop.Notifications"
	notificationsPath = "/org/freedesktop/Notifications"
)

// DBus talks to org.freedesktop.Notifications on the session bus directly,
// without shelling out.
type DBus struct {
	conn           *dbus.Conn
	defaultTimeout time.Duration
}

var _ Notifier = &DBus{}

// NewDBus connects to the session bus.
func NewDBus(defaultTimeout time.Duration) (*DBus, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to connect to session bus")
	}
	return &DBus{conn: conn, defaultTimeout: defaultTimeout}, nil
}

func (d *DBus) Send(n Notification) error {
	urgency := byte(1)
	if n.Urgency == UrgencyCritical {
		urgency = 2
	}

	timeout := n.Timeout
	if timeout == 0 && n.Urgency != UrgencyCritical {
		timeout = d.defaultTimeout
	}
	// 0 means the notification never expires.
	expire := int32(timeout.Milliseconds())

	obj := d.conn.Object(notificationsDest, notificationsPath)
	call := obj.Call("org.freedesktop.Notifications.Notify", 0,
		"battwatch",    // app_name
		uint32(0),      // replaces_id
		Icon(n.Icon),   // app_icon
		n.Title,        // summary
		n.Body,         // body
		[]string{},     // actions
		map[string]dbus.Variant{
			"urgency": dbus.MakeVariant(urgency),
		},
		expire,
	)
	if call.Err != nil {
		return pkgerrors.Wrap(call.Err, "Notify call failed")
	}
	logrus.Infof("NOTIFY: %s: %s", n.Title, n.Body)
	return nil
}

// Close releases the bus connection.
func (d *DBus) Close() error {
	return d.conn.Close()
}
