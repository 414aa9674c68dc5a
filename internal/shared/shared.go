// package shared holds the configuration, errors, file naming, and logging used by every download run
package shared

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// NewLogger creates a [log.Logger] writing to w (default [os.Stderr]) with timestamps and caller reporting.
func NewLogger(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	return log.NewWithOptions(w, log.Options{ReportTimestamp: true, ReportCaller: true})
}

// WithLogger creates a child [log.Logger] with the specified key-value pairs added to all log entries.
func WithLogger(l *log.Logger, kv ...any) *log.Logger {
	return l.With(kv...)
}

// NewRunLogger tags every entry of l with a fresh run ID, so interleaved runs can be told apart.
func NewRunLogger(l *log.Logger) *log.Logger {
	return WithLogger(l, "run", GenerateID())
}

// SetLogLevel sets the [log.Level] for the given [log.Logger].
func SetLogLevel(l *log.Logger, ll log.Level) {
	l.SetLevel(ll)
}

// GenerateID returns a new v4 [uuid.UUID] used as a run ID.
func GenerateID() string {
	return uuid.New().String()
}
