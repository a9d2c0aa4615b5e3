// Package logging builds the single zerolog.Logger the rest of this
// program is constructed with. There is no package-level logger:
// every component takes a logger at construction and derives its own
// sub-logger from it, the way this codebase wires every dependency
// explicitly rather than reaching for globals.
package logging

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// New builds a console-writer zerolog.Logger at the given level. level
// is one of "debug", "info", "warn", "error" (case-insensitive); any
// other value is a configuration error, not a silent fallback.
func New(level string) (zerolog.Logger, error) {
	switch strings.ToLower(level) {
	case "debug", "info", "warn", "error":
	default:
		return zerolog.Logger{}, fmt.Errorf("logging: invalid level %q", level)
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("logging: invalid level %q: %w", level, err)
	}

	writer := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05.000",
	}

	return zerolog.New(writer).
		Level(lvl).
		With().
		Timestamp().
		Logger(), nil
}

// Component returns a sub-logger tagged with its owning component, the
// pattern every constructor in this program uses to make log lines
// attributable without threading a name through every call site.
func Component(log zerolog.Logger, name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}
