package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	once sync.Once
	log  zerolog.Logger
)

// Config holds logger settings taken from the application config.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // "console" for development output, anything else is JSON
	Output string // "stdout", "stderr", or a file path
}

// Init configures the package logger. Safe to call more than once; only the
// first call wins.
func Init(cfg Config) {
	once.Do(func() {
		level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
		if err != nil || cfg.Level == "" {
			level = zerolog.InfoLevel
		}
		zerolog.TimeFieldFormat = time.RFC3339

		var out io.Writer
		switch cfg.Output {
		case "", "stdout":
			out = os.Stdout
		case "stderr":
			out = os.Stderr
		default:
			f, ferr := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if ferr != nil {
				out = os.Stderr
			} else {
				out = f
			}
		}

		if cfg.Format == "console" {
			out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
		}

		log = zerolog.New(out).Level(level).With().Timestamp().Logger()
	})
}

// Get returns the package logger, initializing it with defaults if needed.
func Get() *zerolog.Logger {
	Init(Config{})
	return &log
}

// Debug logs at debug level with optional key/value pairs.
func Debug(msg string, kv ...any) { event(Get().Debug(), kv).Msg(msg) }

// Info logs at info level with optional key/value pairs.
func Info(msg string, kv ...any) { event(Get().Info(), kv).Msg(msg) }

// Warn logs at warn level with optional key/value pairs.
func Warn(msg string, kv ...any) { event(Get().Warn(), kv).Msg(msg) }

// Error logs at error level, attaching err when non-nil.
func Error(msg string, err error, kv ...any) {
	e := Get().Error()
	if err != nil {
		e = e.Err(err)
	}
	event(e, kv).Msg(msg)
}

func event(e *zerolog.Event, kv []any) *zerolog.Event {
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		e = e.Interface(key, kv[i+1])
	}
	return e
}
