// Package logging provides structured file logging for the console.
//
// The TUI owns the terminal, so logs never go to stdout; everything is
// written to a date-named file under the configured log directory.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// Setup opens a log file under dir and returns a logger writing to it.
// The returned cleanup closes the file. If dir is empty, logging is
// disabled and cleanup is a no-op.
func Setup(dir string) (zerolog.Logger, func(), error) {
	if dir == "" {
		return zerolog.New(io.Discard), func() {}, nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("create log dir: %w", err)
	}

	name := fmt.Sprintf("bnbkiosk_%s.log", time.Now().Format("2006-01-02"))
	path := filepath.Join(dir, name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
	}

	logger := zerolog.New(f).With().Timestamp().Logger()
	cleanup := func() { _ = f.Close() }
	return logger, cleanup, nil
}
