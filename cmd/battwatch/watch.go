package main

import (
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/battwatch/battwatch/pkg/events"
)

func NewWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "watch",
		Short:   "Stream daemon events to the terminal",
		GroupID: gAdvanced,
		Long: `Subscribe to the daemon's event stream and print fired notifications
and battery hot-plug changes as they happen. Runs until interrupted.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := apiClient()
			// Check reachability first so a missing daemon is a proper
			// error instead of a silently closed stream.
			if _, err := c.GetVersion(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			for ev := range c.SubscribeEvents(ctx) {
				switch ev.Name {
				case events.NotificationFired:
					payload, err := events.DecodeAs[events.NotificationFiredEvent](ev)
					if err != nil {
						logrus.WithError(err).Error("failed to decode notification event")
						continue
					}
					cmd.Printf("%s %s [%s] %s: %s\n",
						time.Unix(payload.Ts, 0).Format(time.Kitchen),
						payload.Battery, payload.Class, payload.Title, payload.Body)
				case events.FleetChanged:
					payload, err := events.DecodeAs[events.FleetChangedEvent](ev)
					if err != nil {
						logrus.WithError(err).Error("failed to decode fleet event")
						continue
					}
					cmd.Printf("%s battery set changed: %s\n",
						time.Unix(payload.Ts, 0).Format(time.Kitchen),
						strings.Join(payload.Batteries, ", "))
				default:
					cmd.Printf("%s: %s\n", ev.Name, string(ev.Data))
				}
			}
			return nil
		},
	}
}
