package logger

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	slogmulti "github.com/samber/slog-multi"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/baharkarakas/charity-donations/internal/config"
)

// New builds the process logger: colored text in dev, JSON in prod, plus a rotating JSON file
// when LOG_FILE is set. The returned func closes the file.
func New(cfg config.Config) (*slog.Logger, func() error) {
	level := parseLevel(cfg.LogLevel, cfg.IsProd())

	var h slog.Handler
	if cfg.IsProd() {
		h = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		h = consoleHandler(os.Stdout, level)
	}

	closer := func() error { return nil }
	if cfg.LogFile != "" {
		file := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    50,
			MaxBackups: 5,
			MaxAge:     28,
		}
		h = slogmulti.Fanout(h, slog.NewJSONHandler(file, &slog.HandlerOptions{Level: level}))
		closer = file.Close
	}
	return slog.New(h), closer
}

func consoleHandler(out io.Writer, level slog.Level) slog.Handler {
	return tint.NewHandler(out, &tint.Options{
		Level: level,
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			if _, ok := attr.Value.Any().(error); attr.Key == "err" || ok {
				return tint.Attr(9, attr)
			}
			return attr
		},
		TimeFormat: time.RFC3339,
		NoColor:    !colors(out),
	})
}

func colors(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) && os.Getenv("TERM") != "dumb"
}

func parseLevel(v string, prod bool) slog.Level {
	switch v {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	if prod {
		return slog.LevelInfo
	}
	return slog.LevelDebug
}
