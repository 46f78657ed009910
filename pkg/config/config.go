// Package config holds the daemon configuration. battwatch keeps no
// configuration on disk: the struct is populated from CLI flags and passed
// into the daemon explicitly.
package config

import (
	"os"
	"path/filepath"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Notifier backends.
const (
	NotifierNotifySend = "notify-send"
	NotifierDBus       = "dbus"
)

// Power sources.
const (
	SourceSysfs  = "sysfs"
	SourceSystem = "system"
)

// Config is the full daemon configuration.
type Config struct {
	// Thresholds, in percent.
	LowThreshold    int `json:"lowThreshold"`
	HighThreshold   int `json:"highThreshold"`
	UnplugThreshold int `json:"unplugThreshold"`
	FullThreshold   int `json:"fullThreshold"`

	// Interval is the base poll interval; polling speeds up as charge drops.
	Interval time.Duration `json:"interval"`
	// NotifyTimeout is the default auto-dismiss timeout for notifications.
	NotifyTimeout time.Duration `json:"notifyTimeout"`

	LogPath   string `json:"logPath"`
	NoLogFile bool   `json:"noLogFile"`
	PrintLog  bool   `json:"printLog"`

	// DryRun suppresses notification delivery and only logs.
	DryRun   bool   `json:"dryRun"`
	Notifier string `json:"notifier"`

	Source    string `json:"source"`
	SysfsRoot string `json:"sysfsRoot"`
}

// Default returns the configuration used when no flags are given.
func Default() Config {
	return Config{
		LowThreshold:    20,
		HighThreshold:   85,
		UnplugThreshold: 95,
		FullThreshold:   100,
		Interval:        60 * time.Second,
		NotifyTimeout:   8 * time.Second,
		LogPath:         defaultLogPath(),
		Notifier:        NotifierNotifySend,
		Source:          SourceSysfs,
	}
}

func defaultLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "battery_monitor.log"
	}
	return filepath.Join(home, "battery_monitor.log")
}

// Validate normalizes and checks the configuration.
func (c *Config) Validate() error {
	if c.Interval < time.Second {
		c.Interval = time.Second
	}
	for _, t := range []struct {
		name  string
		value int
	}{
		{"low", c.LowThreshold},
		{"high", c.HighThreshold},
		{"unplug", c.UnplugThreshold},
		{"full", c.FullThreshold},
	} {
		if t.value < 0 || t.value > 100 {
			return pkgerrors.Errorf("%s threshold must be between 0 and 100, got %d", t.name, t.value)
		}
	}
	if c.Notifier != NotifierNotifySend && c.Notifier != NotifierDBus {
		return pkgerrors.Errorf("unknown notifier backend %q", c.Notifier)
	}
	if c.Source != SourceSysfs && c.Source != SourceSystem {
		return pkgerrors.Errorf("unknown power source %q", c.Source)
	}
	return nil
}

// LogrusFields renders the config for the startup log line.
func (c Config) LogrusFields() logrus.Fields {
	return logrus.Fields{
		"interval":        c.Interval,
		"notifyTimeout":   c.NotifyTimeout,
		"logPath":         c.LogPath,
		"noLogFile":       c.NoLogFile,
		"printLog":        c.PrintLog,
		"dryRun":          c.DryRun,
		"notifier":        c.Notifier,
		"source":          c.Source,
		"lowThreshold":    c.LowThreshold,
		"highThreshold":   c.HighThreshold,
		"unplugThreshold": c.UnplugThreshold,
		"fullThreshold":   c.FullThreshold,
	}
}
