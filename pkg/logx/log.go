// Package logx configures the diagnostic logger. User-facing output goes
// through pkg/ui; this logger carries step-level detail behind --verbose.
package logx

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Log is the package-level logger. Defaults to warn level until Setup runs.
var Log = zerolog.New(console(os.Stderr)).Level(zerolog.WarnLevel).With().Timestamp().Logger()

// Setup configures the global logger level. Verbose mode or a non-empty
// DESKCTL_DEBUG environment variable enables debug output.
func Setup(verbose bool) {
	level := zerolog.WarnLevel
	if verbose || os.Getenv("DESKCTL_DEBUG") != "" {
		level = zerolog.DebugLevel
	}
	Log = zerolog.New(console(os.Stderr)).Level(level).With().Timestamp().Logger()
}

func console(w io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
}
