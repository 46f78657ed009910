package powerinfo

import (
	"fmt"
	"math"

	"github.com/distatus/battery"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// SystemSource reads battery info through the OS abstraction instead of
// sysfs. Useful on hosts where /sys/class/power_supply is not mounted.
type SystemSource struct{}

var _ Source = &SystemSource{}

// NewSystemSource looks for batteries once so startup can fail early when
// the host has none.
func NewSystemSource() (*SystemSource, error) {
	batteries, err := battery.GetAll()
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to query system batteries")
	}
	if len(batteries) == 0 {
		return nil, pkgerrors.New("no batteries reported by the system")
	}
	return &SystemSource{}, nil
}

func (s *SystemSource) Batteries() ([]Reading, error) {
	batteries, err := battery.GetAll()
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to query system batteries")
	}

	readings := make([]Reading, 0, len(batteries))
	for i, bat := range batteries {
		r := Reading{
			Name:  fmt.Sprintf("BAT%d", i),
			State: mapSystemState(bat.State),
		}
		if bat.Full > 0 {
			pct := int(math.Round(bat.Current / bat.Full * 100))
			if pct > 100 {
				pct = 100
			}
			if pct < 0 {
				pct = 0
			}
			r.Percent = &pct
		} else {
			logrus.WithField("battery", r.Name).Warn("battery reports zero full capacity, percent unknown")
		}
		readings = append(readings, r)
	}
	return readings, nil
}

// ACOnline is derived from battery states: the system abstraction exposes no
// adapter device, so charging or full implies external power.
func (s *SystemSource) ACOnline() bool {
	batteries, err := battery.GetAll()
	if err != nil {
		logrus.Warnf("failed to query system batteries for AC state: %v", err)
		return false
	}
	for _, bat := range batteries {
		if bat.State == battery.Charging || bat.State == battery.Full {
			return true
		}
	}
	return false
}

func mapSystemState(s battery.State) State {
	switch s {
	case battery.Charging:
		return Charging
	case battery.Discharging:
		return Discharging
	case battery.Full:
		return Full
	default:
		return Unknown
	}
}
