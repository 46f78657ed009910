package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/battwatch/battwatch/pkg/client"
	"github.com/battwatch/battwatch/pkg/config"
	"github.com/battwatch/battwatch/pkg/sysfs"
)

var (
	logLevel       = "info"
	logPath        = config.Default().LogPath
	unixSocketPath = defaultSocketPath()
)

var (
	gBasic        = "Basic:"
	gAdvanced     = "Advanced:"
	commandGroups = []string{
		gBasic,
		gAdvanced,
	}
)

// defaultSocketPath prefers the per-user runtime dir; the daemon talks to
// the user's session notification service, so it runs unprivileged.
func defaultSocketPath() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "battwatch.sock")
	}
	return filepath.Join(os.TempDir(), "battwatch.sock")
}

func setupLogger() error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %v", err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{})
	if term.IsTerminal(int(os.Stderr.Fd())) {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.Kitchen,
		})
	}

	return nil
}

func handleCmdError(err error) {
	if errors.Is(err, client.ErrDaemonNotRunning) {
		fmt.Fprintln(os.Stderr, "\nError: battwatch daemon is not running")
		fmt.Fprintln(os.Stderr, "Start it with 'battwatch daemon'")
	} else if errors.Is(err, client.ErrPermissionDenied) {
		fmt.Fprintln(os.Stderr, "\nError: Permission Denied")
		fmt.Fprintln(os.Stderr, "  - Check the ownership of the daemon socket")
	}
}

func main() {
	cmd := NewCommand()
	if err := cmd.Execute(); err != nil {
		handleCmdError(err)
		if errors.Is(err, sysfs.ErrNoBatteries) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "battwatch",
		Short: "battwatch watches your battery and notifies you at charge thresholds",
		Long: `battwatch polls the battery charge level and sends a desktop
notification exactly once per threshold crossing: when the charge drops low,
when it is high enough to stop charging, and when it is full.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return setupLogger()
		},
	}

	globalFlags := cmd.PersistentFlags()
	globalFlags.StringVarP(&logLevel, "log-level", "l", "info", "log level (trace, debug, info, warn, error, fatal, panic)")
	globalFlags.StringVar(&logPath, "log-path", logPath, "log file path")
	globalFlags.StringVar(&unixSocketPath, "daemon-socket", unixSocketPath, "battwatch daemon unix socket path")

	for _, i := range commandGroups {
		cmd.AddGroup(&cobra.Group{
			ID:    i,
			Title: i,
		})
	}

	cmd.AddCommand(
		NewDaemonCommand(),
		NewStatusCommand(),
		NewLogCommand(),
		NewWatchCommand(),
		NewDryRunCommand(),
		NewVersionCommand(),
	)

	return cmd
}
