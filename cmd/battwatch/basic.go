package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/battwatch/battwatch/pkg/version"
)

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("%s %s\n", version.Version, version.GitCommit)
			if daemonVersion, err := apiClient().GetVersion(); err == nil {
				cmd.Printf("daemon: %s\n", daemonVersion)
			}
		},
	}
}

func NewDryRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dry-run",
		Short:   "Enable or disable notification delivery",
		GroupID: gAdvanced,
		Long: `Toggle dry-run mode on the running daemon.

In dry-run mode the daemon evaluates thresholds and logs alerts as usual,
but does not deliver desktop notifications.`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "enable",
			Short: "Log alerts without delivering notifications",
			RunE: func(_ *cobra.Command, _ []string) error {
				ret, err := apiClient().SetDryRun(true)
				if err != nil {
					return fmt.Errorf("failed to enable dry run: %w", err)
				}
				if ret != "" {
					logrus.Infof("daemon responded: %s", ret)
				}
				logrus.Infof("successfully enabled dry run")
				return nil
			},
		},
		&cobra.Command{
			Use:   "disable",
			Short: "Resume delivering notifications",
			RunE: func(_ *cobra.Command, _ []string) error {
				ret, err := apiClient().SetDryRun(false)
				if err != nil {
					return fmt.Errorf("failed to disable dry run: %w", err)
				}
				if ret != "" {
					logrus.Infof("daemon responded: %s", ret)
				}
				logrus.Infof("successfully disabled dry run")
				return nil
			},
		},
	)

	return cmd
}
