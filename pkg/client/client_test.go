package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/battwatch/battwatch/pkg/events"
)

// newTestDaemon serves handler on a unix socket and returns a client
// pointed at it.
func newTestDaemon(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	sock := filepath.Join(t.TempDir(), "battwatch.sock")
	l, err := net.Listen("unix", sock)
	if err != nil {
		t.Fatalf("failed to listen on %s: %v", sock, err)
	}

	srv := &http.Server{Handler: handler}
	go srv.Serve(l) //nolint:errcheck
	t.Cleanup(func() { srv.Close() })

	return NewClient(sock)
}

func TestGetVersion(t *testing.T) {
	c := newTestDaemon(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/version" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `"1.2.3"`)
	}))

	v, err := c.GetVersion()
	if err != nil {
		t.Fatalf("GetVersion() failed: %v", err)
	}
	if v != "1.2.3" {
		t.Errorf("version = %q, want 1.2.3", v)
	}
}

func TestGetUnknownPathIsNotFound(t *testing.T) {
	c := newTestDaemon(t, http.NotFoundHandler())

	_, err := c.Get("/nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestGetMissingSocketIsDaemonNotRunning(t *testing.T) {
	c := NewClient(filepath.Join(t.TempDir(), "absent.sock"))

	_, err := c.Get("/status")
	if !errors.Is(err, ErrDaemonNotRunning) {
		t.Errorf("error = %v, want ErrDaemonNotRunning", err)
	}
}

func TestSubscribeEvents(t *testing.T) {
	c := newTestDaemon(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/events" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprintf(w, "event:%s\ndata:%s\n\n",
			events.NotificationFired,
			`{"battery":"BAT0","class":"low","title":"Battery low"}`)
		fmt.Fprintf(w, "event:%s\ndata:%s\n\n",
			events.FleetChanged,
			`{"batteries":["BAT0","BAT1"]}`)
		w.(http.Flusher).Flush()
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	ch := c.SubscribeEvents(ctx)

	ev, ok := <-ch
	if !ok {
		t.Fatal("stream closed before first event")
	}
	if ev.Name != events.NotificationFired {
		t.Fatalf("event name = %q, want %q", ev.Name, events.NotificationFired)
	}
	fired, err := events.DecodeAs[events.NotificationFiredEvent](ev)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if fired.Battery != "BAT0" || fired.Class != "low" {
		t.Errorf("payload = %+v", fired)
	}

	ev, ok = <-ch
	if !ok {
		t.Fatal("stream closed before second event")
	}
	if ev.Name != events.FleetChanged {
		t.Fatalf("event name = %q, want %q", ev.Name, events.FleetChanged)
	}
	fleet, err := events.DecodeAs[events.FleetChangedEvent](ev)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(fleet.Batteries) != 2 {
		t.Errorf("batteries = %v, want 2 entries", fleet.Batteries)
	}

	// The handler returned, so the stream ends and the channel closes.
	if _, ok := <-ch; ok {
		t.Error("channel still open after stream ended")
	}
}
