// Package logging provides the key-value logger used across the scene.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Logger takes a message and alternating key/value pairs.
type Logger interface {
	Debug(msg string, keyValues ...any)
	Info(msg string, keyValues ...any)
	Warn(msg string, keyValues ...any)
	Error(msg string, keyValues ...any)
}

// Adapter routes Logger calls to a *slog.Logger.
type Adapter struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Adapter {
	return &Adapter{logger: logger}
}

func (a *Adapter) Debug(msg string, keyValues ...any) { a.logger.Debug(msg, keyValues...) }
func (a *Adapter) Info(msg string, keyValues ...any)  { a.logger.Info(msg, keyValues...) }
func (a *Adapter) Warn(msg string, keyValues ...any)  { a.logger.Warn(msg, keyValues...) }
func (a *Adapter) Error(msg string, keyValues ...any) { a.logger.Error(msg, keyValues...) }

// With returns an adapter that adds keyValues to every record.
func (a *Adapter) With(keyValues ...any) *Adapter {
	return &Adapter{logger: a.logger.With(keyValues...)}
}

// ParseLevel accepts debug, info, warn or error.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level: %s", s)
}

// NewText builds a text-handler adapter writing to w at level.
func NewText(w io.Writer, level slog.Level) *Adapter {
	return New(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

type nop struct{}

func (nop) Debug(string, ...any) {}
func (nop) Info(string, ...any)  {}
func (nop) Warn(string, ...any)  {}
func (nop) Error(string, ...any) {}

// Nop discards everything.
func Nop() Logger { return nop{} }
