package log

import (
	"context"
	"io"
	stdlog "log"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
	"github.com/go-logr/zerologr"
	"github.com/rs/zerolog"
	"github.com/vvakame/foodexpress/internal/config"
)

func FromContext(ctx context.Context) logr.Logger {
	return logr.FromContextOrDiscard(ctx)
}

func WithLogger(ctx context.Context, logger logr.Logger) context.Context {
	return logr.NewContext(ctx, logger)
}

// New builds the process logger. "json" writes zerolog lines, anything else uses the standard logger.
// Verbosity is global to the sink package, the last call wins.
func New(cfg config.Logging, w io.Writer) logr.Logger {
	switch cfg.Format {
	case "json":
		zerologr.SetMaxV(cfg.Verbosity)
		zl := zerolog.New(w).
			Level(zerolog.Level(1 - cfg.Verbosity)).
			With().Timestamp().Logger()
		return zerologr.New(&zl)
	default:
		stdr.SetVerbosity(cfg.Verbosity)
		return stdr.New(stdlog.New(w, "", stdlog.LstdFlags))
	}
}
