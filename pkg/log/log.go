// Package log provides structured logging for the linearize library, built
// on zerolog. The package owns a single library-wide logger (silent above
// warn level by default) and registers itself as the sink for warnings
// raised through pkg/errors, so that ConvergenceWarning and friends come out
// as structured zerolog events.
package log

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"

	apperrors "github.com/YuminosukeSato/linearize/pkg/errors"
)

var (
	mu     sync.RWMutex
	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(zerolog.WarnLevel).
		With().Timestamp().Str("library", "linearize").Logger()
)

func init() {
	apperrors.SetZerologWarnFunc(func(warning error) {
		l := Logger()
		if obj, ok := warning.(zerolog.LogObjectMarshaler); ok {
			l.Warn().EmbedObject(obj).Msg("warning")
			return
		}
		l.Warn().Err(warning).Msg("warning")
	})
}

// Logger returns the library-wide logger.
func Logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// SetLogger replaces the library-wide logger. Useful for routing library
// output into an application's own zerolog instance.
func SetLogger(l zerolog.Logger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l
}

// SetOutput redirects log output, keeping the current level and context.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger = logger.Output(w)
}

// SetLevel adjusts the minimum emitted level. Fit progress is logged at
// debug level, so SetLevel(zerolog.DebugLevel) surfaces per-column outcomes.
func SetLevel(level zerolog.Level) {
	mu.Lock()
	defer mu.Unlock()
	logger = logger.Level(level)
}
