// Package logging builds the application logger. The terminal belongs to
// the UI, so logs go to a file or nowhere.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

const serviceName = "weather-terminal"

// New returns a logger writing JSON lines to path at the given level. An
// empty path yields a disabled logger. Close the returned closer on exit.
func New(path, level string) (zerolog.Logger, io.Closer, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("parsing log level: %w", err)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	if path == "" {
		return zerolog.Nop(), io.NopCloser(nil), nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("opening log file: %w", err)
	}

	logger := zerolog.New(f).
		Level(lvl).
		With().
		Timestamp().
		Str("service", serviceName).
		Logger()

	return logger, f, nil
}
