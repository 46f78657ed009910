package logfile

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// Hook routes logrus entries to the rotating log file with the classic
// "[timestamp] level: message" line format, independent of whatever
// formatter is used on the console output.
type Hook struct {
	w io.Writer
}

var _ logrus.Hook = &Hook{}

// NewHook wraps a writer, usually a *Writer.
func NewHook(w io.Writer) *Hook {
	return &Hook{w: w}
}

func (h *Hook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *Hook) Fire(entry *logrus.Entry) error {
	line := fmt.Sprintf("[%s] %s: %s\n",
		entry.Time.Format("2006-01-02 15:04:05"),
		entry.Level.String(),
		entry.Message)
	_, err := h.w.Write([]byte(line))
	return err
}
