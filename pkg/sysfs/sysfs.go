// Package sysfs reads battery and AC adapter state from the Linux
// power-supply class tree (usually /sys/class/power_supply).
package sysfs

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/battwatch/battwatch/pkg/powerinfo"
)

// DefaultRoot is the standard location of the power-supply class tree.
const DefaultRoot = "/sys/class/power_supply"

// ErrNoBatteries is returned when discovery finds no battery devices.
var ErrNoBatteries = errors.New("no battery devices found")

var adapterPrefixes = []string{"ac", "adapter"}

// Source reads per-battery percentage/status and adapter online flags from
// the power-supply tree. Device discovery happens on every poll so hot-plug
// and hot-remove are observed.
type Source struct {
	root string
}

var _ powerinfo.Source = &Source{}

// New returns a Source rooted at root (DefaultRoot when empty). It fails
// with ErrNoBatteries when the tree contains no battery entries.
func New(root string) (*Source, error) {
	if root == "" {
		root = DefaultRoot
	}
	s := &Source{root: root}

	batteries, _, err := s.discover()
	if err != nil {
		return nil, err
	}
	if len(batteries) == 0 {
		return nil, pkgerrors.Wrap(ErrNoBatteries, s.root)
	}
	return s, nil
}

// discover classifies entries of the tree into batteries and adapters by
// name prefix, case-insensitively.
func (s *Source) discover() (batteries, adapters []string, err error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, nil, pkgerrors.Wrapf(err, "failed to read power-supply tree %s", s.root)
	}

	for _, e := range entries {
		name := strings.ToLower(e.Name())
		if strings.HasPrefix(name, "bat") {
			batteries = append(batteries, e.Name())
			continue
		}
		for _, p := range adapterPrefixes {
			if strings.HasPrefix(name, p) {
				adapters = append(adapters, e.Name())
				break
			}
		}
	}
	return batteries, adapters, nil
}

// Batteries returns one reading per battery device. A device whose files
// cannot be read yields a reading with nil percent and unknown state; only
// failure to list the tree itself is an error.
func (s *Source) Batteries() ([]powerinfo.Reading, error) {
	names, _, err := s.discover()
	if err != nil {
		return nil, err
	}

	readings := make([]powerinfo.Reading, 0, len(names))
	for _, name := range names {
		r := powerinfo.Reading{Name: name}

		if cap, ok := s.readFile(name, "capacity"); ok {
			pct, err := strconv.Atoi(cap)
			if err != nil {
				logrus.WithFields(logrus.Fields{
					"battery": name,
					"value":   cap,
				}).Warn("non-numeric capacity value")
			} else {
				r.Percent = &pct
			}
		}

		if status, ok := s.readFile(name, "status"); ok {
			r.State = powerinfo.ParseState(status)
		}

		readings = append(readings, r)
	}
	return readings, nil
}

// ACOnline reports whether any adapter device has online == "1".
func (s *Source) ACOnline() bool {
	_, adapters, err := s.discover()
	if err != nil {
		logrus.Warnf("failed to discover adapters: %v", err)
		return false
	}
	for _, name := range adapters {
		if online, ok := s.readFile(name, "online"); ok && online == "1" {
			return true
		}
	}
	return false
}

// readFile reads and trims one device attribute file. Failures are logged
// with enough context to diagnose and reported through ok.
func (s *Source) readFile(device, file string) (string, bool) {
	path := filepath.Join(s.root, device, file)
	b, err := os.ReadFile(path)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"device": device,
			"file":   path,
		}).Warnf("failed to read device file: %v", err)
		return "", false
	}
	return strings.TrimSpace(string(b)), true
}
