// package shared defines shared helpers
package shared

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// NewLogger creates a new [log.Logger] instance with the specified [io.Writer], with timestamps and caller reporting enabled.
//
// The writer defaults to [os.Stderr]
func NewLogger(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := log.Options{ReportTimestamp: true, ReportCaller: true}
	return log.NewWithOptions(w, opts)
}

// WithLogger creates a child [log.Logger] with the specified key-value pairs added to all log entries.
func WithLogger(l *log.Logger, kv ...any) *log.Logger {
	return l.With(kv...)
}

// SetLogLevel sets the [log.Level] for the given [log.Logger].
func SetLogLevel(l *log.Logger, ll log.Level) {
	l.SetLevel(ll)
}

// ParseLogLevel sets the level of l from a name such as "debug" or "warn".
//
// An empty name leaves the level unchanged.
func ParseLogLevel(l *log.Logger, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	lvl, err := log.ParseLevel(name)
	if err != nil {
		return fmt.Errorf("%w: log level %q", ErrInvalidConfig, name)
	}
	SetLogLevel(l, lvl)
	return nil
}

// GenerateID generates a new v4 [uuid.UUID] as a string
func GenerateID() string {
	return uuid.New().String()
}
