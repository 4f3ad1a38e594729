package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Log output formats accepted by Options.Format.
const (
	FormatAuto    = ""
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Options configures a ZerologLogger.
type Options struct {
	// Output is where records go. Defaults to os.Stderr.
	Output io.Writer
	// Format is FormatConsole, FormatJSON or FormatAuto (console on a terminal,
	// JSON otherwise).
	Format string
	// Level is one of "debug", "info", "warn"/"warning", "error". Defaults to "info".
	Level string
}

// ZerologLogger writes leveled records through rs/zerolog.
type ZerologLogger struct {
	zl     zerolog.Logger
	closer io.Closer
}

// NewZerologLogger creates a zerolog-backed Logger.
func NewZerologLogger(opts Options) *ZerologLogger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	var closer io.Closer
	if f, ok := out.(*os.File); ok && f != os.Stderr && f != os.Stdout {
		closer = f
	}

	w := out
	if useConsole(opts.Format, out) {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	zl := zerolog.New(w).Level(ParseLevel(opts.Level)).With().Timestamp().Logger()
	return &ZerologLogger{zl: zl, closer: closer}
}

// ParseLevel maps a configuration level name to a zerolog level.
// Unknown names map to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func useConsole(format string, out io.Writer) bool {
	switch format {
	case FormatConsole:
		return true
	case FormatJSON:
		return false
	}
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Debug logs at debug level.
func (z *ZerologLogger) Debug(format string, args ...interface{}) {
	z.zl.Debug().Msgf(format, args...)
}

// Info logs at info level.
func (z *ZerologLogger) Info(format string, args ...interface{}) {
	z.zl.Info().Msgf(format, args...)
}

// Warning logs at warn level.
func (z *ZerologLogger) Warning(format string, args ...interface{}) {
	z.zl.Warn().Msgf(format, args...)
}

// Error logs at error level.
func (z *ZerologLogger) Error(format string, args ...interface{}) {
	z.zl.Error().Msgf(format, args...)
}

// Close closes the output file, if the logger owns one.
func (z *ZerologLogger) Close() error {
	if z.closer == nil {
		return nil
	}
	err := z.closer.Close()
	z.closer = nil
	return err
}

var _ Logger = (*ZerologLogger)(nil)
