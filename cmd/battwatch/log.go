package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/battwatch/battwatch/pkg/logfile"
)

func NewLogCommand() *cobra.Command {
	tail := 100

	cmd := &cobra.Command{
		Use:     "log",
		Short:   "Print the daemon log",
		GroupID: gBasic,
		Long: `Print the last lines of the daemon log file.

The log rotates once it exceeds 1 MB; only the current file is printed.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lines, err := logfile.Tail(logPath, tail)
			if err != nil {
				return fmt.Errorf("failed to read log file: %w", err)
			}
			if lines == nil {
				cmd.Printf("no log file at %s\n", logPath)
				return nil
			}
			for _, line := range lines {
				cmd.Println(line)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.IntVarP(&tail, "tail", "n", tail, "Number of trailing lines to print.")

	return cmd
}
