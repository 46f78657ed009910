package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/battwatch/battwatch/pkg/client"
	"github.com/battwatch/battwatch/pkg/config"
	"github.com/battwatch/battwatch/pkg/monitor"
	"github.com/battwatch/battwatch/pkg/powerinfo"
)

// apiClient builds a client lazily so the --daemon-socket flag is honored.
func apiClient() *client.Client {
	return client.NewClient(unixSocketPath)
}

type statusData struct {
	snapshot *monitor.Snapshot
	config   *config.Config
}

// fetchStatusData gathers all data required for the status command from the daemon.
func fetchStatusData() (*statusData, error) {
	c := apiClient()

	snap, err := c.GetStatus()
	if err != nil {
		return nil, fmt.Errorf("failed to get daemon status: %w", err)
	}

	conf, err := c.GetConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to get config: %w", err)
	}

	return &statusData{
		snapshot: snap,
		config:   conf,
	}, nil
}

func NewStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		GroupID: gBasic,
		Short:   "Get the current status of battwatch",
		Long:    `Get battery readings, pending alerts, and daemon configuration.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := fetchStatusData()
			if err != nil {
				return err
			}
			snap := data.snapshot
			conf := data.config

			cmd.Println(bold("Battery status:"))
			if len(snap.Readings) == 0 {
				cmd.Println("  No batteries detected.")
			}
			for _, r := range snap.Readings {
				cmd.Printf("  %s: %s, %s\n", r.Name, bold("%s", formatPercent(r.Percent)), colorState(r.State))
			}
			cmd.Println("  Plugged in: " + bool2Text(snap.Plugged))
			if !snap.At.IsZero() {
				cmd.Printf("  Last poll: %s (next in %s)\n",
					bold("%s", snap.At.Format(time.Kitchen)), bold("%s", snap.NextInterval))
			}

			cmd.Println()

			cmd.Println(bold("Pending alerts:"))
			names := make([]string, 0, len(snap.Latches))
			for name := range snap.Latches {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				l := snap.Latches[name]
				cmd.Printf("  %s:\n", name)
				cmd.Printf("    Low battery (≤%d%%): %s\n", conf.LowThreshold, armed(l.Low))
				cmd.Printf("    Overcharge (≥%d%%): %s\n", conf.HighThreshold, armed(l.High))
				cmd.Printf("    Unplug reminder (≥%d%%): %s\n", conf.UnplugThreshold, armed(l.Unplug))
				cmd.Printf("    Charging complete (≥%d%%): %s\n", conf.FullThreshold, armed(l.Full))
			}

			cmd.Println()

			cmd.Println(bold("Daemon configuration:"))
			cmd.Printf("  Base poll interval: %s\n", bold("%s", conf.Interval))
			cmd.Printf("  Notifier: %s\n", bold("%s", conf.Notifier))
			cmd.Printf("  Source: %s\n", bold("%s", conf.Source))
			if conf.NoLogFile {
				cmd.Printf("  Log file: %s\n", bold("disabled"))
			} else {
				cmd.Printf("  Log file: %s\n", bold("%s", conf.LogPath))
			}
			cmd.Printf("  Dry run: %s\n", bool2Text(conf.DryRun))
			return nil
		},
	}
}

// armed renders whether an alert is still waiting to fire. A set latch means
// the alert already fired and will not repeat until the state reverses.
func armed(latched bool) string {
	if latched {
		return color.New(color.FgYellow).Sprint("already fired")
	}
	return color.New(color.FgGreen).Sprint("armed")
}

func colorState(s powerinfo.State) string {
	switch s {
	case powerinfo.Charging:
		return color.GreenString("charging")
	case powerinfo.Discharging:
		return color.RedString("discharging")
	case powerinfo.Full:
		return "full"
	default:
		return "unknown"
	}
}

func formatPercent(p *int) string {
	if p == nil {
		return "?%"
	}
	return fmt.Sprintf("%d%%", *p)
}

func bool2Text(b bool) string {
	if b {
		return color.New(color.Bold, color.FgGreen).Sprint("✔")
	}
	return color.New(color.Bold, color.FgRed).Sprint("✘")
}

func bold(format string, a ...interface{}) string {
	return color.New(color.Bold).Sprintf(format, a...)
}
