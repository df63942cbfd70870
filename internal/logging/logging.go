// Package logging builds the command's slog logger from configuration.
//
// Records go to stderr in text or JSON form and, when a log file is
// configured, are also appended to that file as JSON.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	slogmulti "github.com/samber/slog-multi"

	"github.com/lyu-dev/lyu/internal/config"
	"github.com/lyu-dev/lyu/internal/errors"
)

// Logger is a configured logger plus the file it may own.
type Logger struct {
	*slog.Logger

	level *slog.LevelVar
	file  *os.File
}

// New creates a logger writing to w and, if cfg.File is set, to that file.
func New(cfg config.LogConfig, w io.Writer) (*Logger, error) {
	level := new(slog.LevelVar)
	if cfg.Level != "" {
		var l slog.Level
		if err := l.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, errors.New("L003").
				WithDetail("log.level must be one of debug, info, warn, error, got \"" + cfg.Level + "\"").
				Wrap(err)
		}
		level.Set(l)
	}

	opts := &slog.HandlerOptions{Level: level}

	var handlers []slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handlers = append(handlers, slog.NewJSONHandler(w, opts))
	} else {
		handlers = append(handlers, slog.NewTextHandler(w, opts))
	}

	var file *os.File
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, errors.New("L021").
				WithDetail("Cannot open " + cfg.File).
				Wrap(err)
		}
		file = f
		handlers = append(handlers, slog.NewJSONHandler(f, opts))
	}

	return &Logger{
		Logger: slog.New(slogmulti.Fanout(handlers...)),
		level:  level,
		file:   file,
	}, nil
}

// SetLevel changes the level of every handler.
func (l *Logger) SetLevel(level slog.Level) {
	l.level.Set(level)
}

// Level returns the current level.
func (l *Logger) Level() slog.Level {
	return l.level.Level()
}

// Close closes the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
