package logs

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"cloudburst/config"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

type Params struct {
	fx.In

	Config *config.Config
}

// New builds the process logger on stdout. Every record carries the service
// name and environment.
func New(params Params) (*slog.Logger, error) {
	return newLogger(os.Stdout, params.Config)
}

func newLogger(w io.Writer, cfg *config.Config) (*slog.Logger, error) {
	level, err := parseLogLevel(cfg.Env.Log.Level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: replaceErrorAttr(cfg.Env.Debug),
	}

	var h slog.Handler
	if cfg.Env.Log.Pretty {
		h = slog.NewTextHandler(w, opts)
	} else {
		h = slog.NewJSONHandler(w, opts)
	}

	logger := slog.New(h)
	if cfg.Env.ServiceName != "" {
		logger = logger.With(slog.String("service", cfg.Env.ServiceName))
	}
	if cfg.Env.Env != "" {
		logger = logger.With(slog.String("env", cfg.Env.Env))
	}

	return logger, nil
}

// replaceErrorAttr flattens error values to strings. With stacks enabled the
// pkg/errors stack trace is included.
func replaceErrorAttr(withStack bool) func(groups []string, a slog.Attr) slog.Attr {
	return func(_ []string, a slog.Attr) slog.Attr {
		if a.Value.Kind() != slog.KindAny {
			return a
		}
		err, ok := a.Value.Any().(error)
		if !ok {
			return a
		}
		if withStack {
			return slog.String(a.Key, fmt.Sprintf("%+v", err))
		}

		return slog.String(a.Key, err.Error())
	}
}

func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, errors.Errorf("unknown log level: %s", level)
	}
}
