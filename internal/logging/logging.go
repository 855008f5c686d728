// Package logging builds the structured logger used throughout tupm:
// a colorized, human-oriented handler for local development, and
// plain JSON in staging/production.
package logging

import (
	"context"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/exp/slog"

	"github.com/simmons/tupm/internal/config"
)

// New builds a *slog.Logger appropriate for env (one of
// config.EnvLocal, config.EnvDev, config.EnvProd). Local and dev
// environments log at debug level; local additionally gets a
// colorized, human-readable handler instead of JSON.
func New(env string) *slog.Logger {
	switch env {
	case config.EnvLocal:
		return setupPrettySlog()
	case config.EnvDev:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	default:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
}

func setupPrettySlog() *slog.Logger {
	return slog.New(&prettyHandler{out: os.Stdout, level: slog.LevelDebug})
}

// prettyHandler is a minimal slog.Handler that colorizes the level tag
// and prints attributes inline, for a terminal-friendly local
// development log line instead of raw JSON.
type prettyHandler struct {
	out   io.Writer
	level slog.Level
	attrs []slog.Attr
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	levelColor := colorForLevel(r.Level)
	_, err := io.WriteString(h.out, levelColor.Sprintf("[%s] ", r.Level.String())+r.Message)
	if err != nil {
		return err
	}

	for _, a := range h.attrs {
		io.WriteString(h.out, " "+a.Key+"="+a.Value.String())
	}
	r.Attrs(func(a slog.Attr) bool {
		io.WriteString(h.out, " "+a.Key+"="+a.Value.String())
		return true
	})

	_, err = io.WriteString(h.out, "\n")
	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyHandler{out: h.out, level: h.level, attrs: append(append([]slog.Attr{}, h.attrs...), attrs...)}
}

func (h *prettyHandler) WithGroup(_ string) slog.Handler {
	return h
}

func colorForLevel(level slog.Level) *color.Color {
	switch {
	case level >= slog.LevelError:
		return color.New(color.FgRed, color.Bold)
	case level >= slog.LevelWarn:
		return color.New(color.FgYellow)
	case level >= slog.LevelInfo:
		return color.New(color.FgCyan)
	default:
		return color.New(color.FgWhite)
	}
}
