package daemon

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/battwatch/battwatch/pkg/config"
	"github.com/battwatch/battwatch/pkg/events"
	"github.com/battwatch/battwatch/pkg/logfile"
	"github.com/battwatch/battwatch/pkg/monitor"
	"github.com/battwatch/battwatch/pkg/notify"
	"github.com/battwatch/battwatch/pkg/powerinfo"
	"github.com/battwatch/battwatch/pkg/sysfs"
)

var (
	conf   config.Config
	mon    *monitor.Monitor
	sseHub *events.EventHub
)

func setupRoutes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(ginLogger(logrus.StandardLogger()))
	router.GET("/status", getStatus)
	router.GET("/config", getConfig)
	router.GET("/version", getVersion)
	router.GET("/events", getEvents)
	router.PUT("/dry-run", setDryRun)

	return router
}

func newSource(cfg config.Config) (powerinfo.Source, error) {
	switch cfg.Source {
	case config.SourceSysfs:
		root := cfg.SysfsRoot
		if root == "" {
			root = sysfs.DefaultRoot
		}
		return sysfs.New(root)
	case config.SourceSystem:
		return powerinfo.NewSystemSource()
	default:
		return nil, pkgerrors.Errorf("unknown power source %q", cfg.Source)
	}
}

func newNotifier(cfg config.Config) (notify.Notifier, error) {
	switch cfg.Notifier {
	case config.NotifierNotifySend:
		return notify.NewNotifySend(cfg.NotifyTimeout), nil
	case config.NotifierDBus:
		return notify.NewDBus(cfg.NotifyTimeout)
	default:
		return nil, pkgerrors.Errorf("unknown notifier %q", cfg.Notifier)
	}
}

// setupLogFile attaches a rotating file sink to the standard logger. A log
// file that cannot be opened (e.g. read-only home) downgrades to
// stdout/stderr-only logging instead of killing the daemon.
func setupLogFile(cfg config.Config) *logfile.Writer {
	if cfg.NoLogFile {
		return nil
	}
	w, err := logfile.NewWriter(cfg.LogPath)
	if err != nil {
		logrus.WithError(err).Warnf("cannot open log file %s, logging to console only", cfg.LogPath)
		return nil
	}
	logrus.AddHook(logfile.NewHook(w))
	return w
}

func Run(cfg config.Config, unixSocketPath string) error {
	if err := cfg.Validate(); err != nil {
		return pkgerrors.Wrapf(err, "invalid config")
	}
	conf = cfg

	if conf.PrintLog {
		logrus.SetOutput(os.Stdout)
	}
	logWriter := setupLogFile(conf)
	if logWriter != nil {
		defer logWriter.Close()
	}
	logrus.WithFields(conf.LogrusFields()).Infof("config loaded")

	source, err := newSource(conf)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to set up power source")
	}

	notifier, err := newNotifier(conf)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to set up notifier")
	}
	defer func() {
		if closer, ok := notifier.(interface{ Close() error }); ok {
			_ = closer.Close()
		}
	}()

	sseHub = events.NewEventHub()
	defer sseHub.Close()

	mon = monitor.New(conf, source, notifier)
	mon.OnNotify(func(battery string, class monitor.Class, n notify.Notification) {
		sseHub.Publish(events.NotificationFired, events.NotificationFiredEvent{
			Battery: battery,
			Class:   class.String(),
			Title:   n.Title,
			Body:    n.Body,
			Ts:      time.Now().Unix(),
		})
	})
	mon.OnFleetChange(func(batteries []string) {
		sseHub.Publish(events.FleetChanged, events.FleetChangedEvent{
			Batteries: batteries,
			Ts:        time.Now().Unix(),
		})
	})

	router := setupRoutes()
	srv := &http.Server{
		Handler: router,
	}

	// A leftover socket from an unclean shutdown would fail the bind.
	if err := os.Remove(unixSocketPath); err != nil && !os.IsNotExist(err) {
		return pkgerrors.Wrapf(err, "failed to remove stale socket %s", unixSocketPath)
	}
	l, err := net.Listen("unix", unixSocketPath)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to listen on %s", unixSocketPath)
	}

	// Serve HTTP on unix socket
	go func() {
		logrus.Infof("http server listening on %s", l.Addr().String())
		if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatal(err)
		}
	}()

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		logrus.Debugln("monitor loop starts")
		mon.Run(stop)
		close(done)
	}()

	// Handle common process-killing signals, so we can gracefully shut down:
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	// Wait for a SIGINT or SIGTERM:
	sig := <-sigc
	logrus.Infof("caught signal \"%s\": shutting down.", sig)

	logrus.Info("stopping monitor loop")
	close(stop)
	<-done

	logrus.Info("shutting down http server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = srv.Shutdown(ctx)
	if err != nil {
		logrus.Errorf("failed to shutdown http server: %v", err)
	}
	cancel()

	if err := os.Remove(unixSocketPath); err != nil && !os.IsNotExist(err) {
		logrus.Errorf("failed to remove socket: %v", err)
	}

	logrus.Info("exiting")
	return nil
}
