// Package logfile provides a size-rotated log file sink for logrus and a
// tail helper for the log subcommand.
package logfile

import (
	"os"
	"strings"
	"sync"

	pkgerrors "github.com/pkg/errors"
)

// MaxSize is the file size beyond which the log is rotated.
const MaxSize = 1_000_000

// Writer appends to a log file and rotates it to "<path>.1" once it grows
// past MaxSize, replacing any prior backup. Rotation is transparent: a fresh
// file is opened and the write proceeds. Writer is safe for concurrent use.
type Writer struct {
	mu      sync.Mutex
	path    string
	maxSize int64
	f       *os.File
}

// NewWriter opens (or creates) the log file for appending.
func NewWriter(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to open log file %s", path)
	}
	return &Writer{path: path, maxSize: MaxSize, f: f}, nil
}

func (w *Writer) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.rotateIfNeeded()
	return w.f.Write(p)
}

// rotateIfNeeded renames the current file to <path>.1 when it exceeds the
// size limit. On any rotation failure the current handle is kept so logging
// never stops.
func (w *Writer) rotateIfNeeded() {
	info, err := w.f.Stat()
	if err != nil || info.Size() <= w.maxSize {
		return
	}

	backup := w.path + ".1"
	if err := os.Remove(backup); err != nil && !os.IsNotExist(err) {
		return
	}
	if err := os.Rename(w.path, backup); err != nil {
		return
	}

	f, err := os.OpenFile(w.path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		// The old handle still points at the renamed file; keep using it.
		return
	}
	_ = w.f.Close()
	w.f = f
}

// Close closes the underlying file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.f.Close()
}

// Tail returns the last n lines of the file at path. A missing file is not
// an error; it yields no lines.
func Tail(path string, n int) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, pkgerrors.Wrapf(err, "failed to read log file %s", path)
	}

	lines := strings.Split(strings.TrimRight(string(b), "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return nil, nil
	}
	if n > 0 && len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines, nil
}
