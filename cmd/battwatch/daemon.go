package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/battwatch/battwatch/pkg/config"
	"github.com/battwatch/battwatch/pkg/daemon"
	"github.com/battwatch/battwatch/pkg/version"
)

// NewDaemonCommand .
func NewDaemonCommand() *cobra.Command {
	cfg := config.Default()

	cmd := &cobra.Command{
		Use:     "daemon",
		Short:   "Run the battwatch daemon in the foreground",
		GroupID: gAdvanced,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg.LogPath = logPath
			logrus.WithFields(logrus.Fields{
				"version": version.Version,
				"commit":  version.GitCommit,
			}).Info("battwatch daemon starting")
			return daemon.Run(cfg, unixSocketPath)
		},
	}

	f := cmd.Flags()

	f.DurationVarP(&cfg.Interval, "interval", "i", cfg.Interval,
		"Base poll interval. Polling speeds up automatically as the charge drops.")
	f.DurationVarP(&cfg.NotifyTimeout, "timeout", "t", cfg.NotifyTimeout,
		"Default auto-dismiss timeout for non-critical notifications.")
	f.IntVar(&cfg.LowThreshold, "low-threshold", cfg.LowThreshold,
		"Charge percentage at or below which the low-battery alert fires.")
	f.IntVar(&cfg.HighThreshold, "high-threshold", cfg.HighThreshold,
		"Charge percentage at or above which the overcharge warning fires while plugged in.")
	f.IntVar(&cfg.UnplugThreshold, "unplug-threshold", cfg.UnplugThreshold,
		"Charge percentage at or above which the unplug reminder fires while plugged in.")
	f.IntVar(&cfg.FullThreshold, "full-threshold", cfg.FullThreshold,
		"Charge percentage at or above which the charging-complete alert fires while plugged in.")
	f.BoolVar(&cfg.NoLogFile, "no-log-file", cfg.NoLogFile,
		"Do not write a log file, log to the console only.")
	f.BoolVar(&cfg.PrintLog, "print-log", cfg.PrintLog,
		"Echo log file lines to stdout as well.")
	f.BoolVar(&cfg.DryRun, "no-notify", cfg.DryRun,
		"Log notifications instead of delivering them.")
	f.StringVar(&cfg.Notifier, "notifier", cfg.Notifier,
		"Notification backend (notify-send, dbus).")
	f.StringVar(&cfg.Source, "source", cfg.Source,
		"Battery data source (sysfs, system).")
	f.StringVar(&cfg.SysfsRoot, "sysfs-root", cfg.SysfsRoot,
		"Override the power supply sysfs directory. Mostly for testing.")

	return cmd
}
