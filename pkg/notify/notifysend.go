package notify

import (
	"os/exec"
	"strconv"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// NotifySend shells out to the notify-send program.
type NotifySend struct {
	path           string
	defaultTimeout time.Duration
}

var _ Notifier = &NotifySend{}

// NewNotifySend locates notify-send in PATH. A missing binary is not fatal:
// sends become logged no-ops so monitoring keeps running.
func NewNotifySend(defaultTimeout time.Duration) *NotifySend {
	path, err := exec.LookPath("notify-send")
	if err != nil {
		logrus.Warn("notify-send not found in PATH, desktop notifications will only be logged")
		path = ""
	}
	return &NotifySend{path: path, defaultTimeout: defaultTimeout}
}

func (s *NotifySend) Send(n Notification) error {
	args := buildArgs(n, s.defaultTimeout)
	if s.path == "" {
		logrus.Infof("notify-send unavailable, would run: notify-send %v", args)
		return nil
	}

	if err := exec.Command(s.path, args...).Run(); err != nil {
		return pkgerrors.Wrap(err, "notify-send failed")
	}
	logrus.Infof("NOTIFY: %s: %s", n.Title, n.Body)
	return nil
}

// buildArgs renders the notify-send argument list. Timeout <= 0 is sent as
// "0", which notify-send treats as no auto-dismiss.
func buildArgs(n Notification, defaultTimeout time.Duration) []string {
	urgency := n.Urgency
	if urgency == "" {
		urgency = UrgencyNormal
	}

	timeout := n.Timeout
	if timeout == 0 && n.Urgency != UrgencyCritical {
		timeout = defaultTimeout
	}
	ms := "0"
	if timeout > 0 {
		ms = strconv.Itoa(int(timeout.Milliseconds()))
	}

	return []string{
		"-u", string(urgency),
		"-i", Icon(n.Icon),
		"-t", ms,
		n.Title,
		n.Body,
	}
}
