package sysfs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/battwatch/battwatch/pkg/powerinfo"
)

// writeDevice creates a fake power-supply device directory with the given
// attribute files.
func writeDevice(t *testing.T, root, name string, files map[string]string) {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("failed to create device dir: %v", err)
	}
	for file, content := range files {
		if err := os.WriteFile(filepath.Join(dir, file), []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", file, err)
		}
	}
}

func TestNewNoBatteries(t *testing.T) {
	root := t.TempDir()
	writeDevice(t, root, "AC", map[string]string{"online": "1"})

	_, err := New(root)
	if !errors.Is(err, ErrNoBatteries) {
		t.Fatalf("New() error = %v, want ErrNoBatteries", err)
	}
}

func TestNewMissingTree(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "does-not-exist"))
	if err == nil {
		t.Fatal("New() should fail on a missing tree")
	}
}

func TestBatteries(t *testing.T) {
	root := t.TempDir()
	writeDevice(t, root, "BAT0", map[string]string{"capacity": "57\n", "status": "Discharging\n"})
	writeDevice(t, root, "bat1", map[string]string{"capacity": "100", "status": "Full"})
	writeDevice(t, root, "AC", map[string]string{"online": "0"})
	writeDevice(t, root, "hidp0", map[string]string{"capacity": "10"}) // not a battery

	s, err := New(root)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	readings, err := s.Batteries()
	if err != nil {
		t.Fatalf("Batteries() failed: %v", err)
	}
	if len(readings) != 2 {
		t.Fatalf("got %d readings, want 2", len(readings))
	}

	byName := map[string]powerinfo.Reading{}
	for _, r := range readings {
		byName[r.Name] = r
	}

	r0 := byName["BAT0"]
	if r0.Percent == nil || *r0.Percent != 57 {
		t.Errorf("BAT0 percent = %v, want 57", r0.Percent)
	}
	if r0.State != powerinfo.Discharging {
		t.Errorf("BAT0 state = %v, want discharging", r0.State)
	}

	r1 := byName["bat1"]
	if r1.Percent == nil || *r1.Percent != 100 {
		t.Errorf("bat1 percent = %v, want 100", r1.Percent)
	}
	if r1.State != powerinfo.Full {
		t.Errorf("bat1 state = %v, want full", r1.State)
	}
}

func TestBatteriesRecoverablePerReading(t *testing.T) {
	root := t.TempDir()
	// capacity file missing entirely, status garbled
	writeDevice(t, root, "BAT0", map[string]string{"status": "Not charging"})
	// capacity non-numeric
	writeDevice(t, root, "BAT1", map[string]string{"capacity": "abc", "status": "Charging"})

	s, err := New(root)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	readings, err := s.Batteries()
	if err != nil {
		t.Fatalf("Batteries() should not fail on unreadable files: %v", err)
	}
	if len(readings) != 2 {
		t.Fatalf("got %d readings, want 2", len(readings))
	}

	for _, r := range readings {
		if r.Percent != nil {
			t.Errorf("%s percent = %d, want nil", r.Name, *r.Percent)
		}
	}

	byName := map[string]powerinfo.Reading{}
	for _, r := range readings {
		byName[r.Name] = r
	}
	if byName["BAT0"].State != powerinfo.Unknown {
		t.Errorf("BAT0 state = %v, want unknown", byName["BAT0"].State)
	}
	if byName["BAT1"].State != powerinfo.Charging {
		t.Errorf("BAT1 state = %v, want charging", byName["BAT1"].State)
	}
}

func TestACOnline(t *testing.T) {
	tests := []struct {
		name    string
		devices map[string]map[string]string
		want    bool
	}{
		{
			name: "adapter online",
			devices: map[string]map[string]string{
				"BAT0": {"capacity": "50", "status": "Charging"},
				"AC":   {"online": "1"},
			},
			want: true,
		},
		{
			name: "adapter offline",
			devices: map[string]map[string]string{
				"BAT0": {"capacity": "50", "status": "Discharging"},
				"AC0":  {"online": "0"},
			},
			want: false,
		},
		{
			name: "ACAD variant online",
			devices: map[string]map[string]string{
				"BAT0": {"capacity": "50", "status": "Discharging"},
				"ACAD": {"online": "1\n"},
			},
			want: true,
		},
		{
			name: "adapter missing online file",
			devices: map[string]map[string]string{
				"BAT0":    {"capacity": "50", "status": "Discharging"},
				"ADAPTER": {},
			},
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			for name, files := range tt.devices {
				writeDevice(t, root, name, files)
			}
			s, err := New(root)
			if err != nil {
				t.Fatalf("New() failed: %v", err)
			}
			if got := s.ACOnline(); got != tt.want {
				t.Errorf("ACOnline() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHotplugDiscovery(t *testing.T) {
	root := t.TempDir()
	writeDevice(t, root, "BAT0", map[string]string{"capacity": "50", "status": "Discharging"})

	s, err := New(root)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	// A second battery appears after startup.
	writeDevice(t, root, "BAT1", map[string]string{"capacity": "90", "status": "Charging"})

	readings, err := s.Batteries()
	if err != nil {
		t.Fatalf("Batteries() failed: %v", err)
	}
	if len(readings) != 2 {
		t.Fatalf("got %d readings after hot-plug, want 2", len(readings))
	}

	// And the first one disappears.
	if err := os.RemoveAll(filepath.Join(root, "BAT0")); err != nil {
		t.Fatalf("failed to remove device: %v", err)
	}
	readings, err = s.Batteries()
	if err != nil {
		t.Fatalf("Batteries() failed: %v", err)
	}
	if len(readings) != 1 || readings[0].Name != "BAT1" {
		t.Fatalf("got %v after hot-remove, want just BAT1", readings)
	}
}
