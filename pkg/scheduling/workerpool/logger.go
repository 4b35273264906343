package workerpool

import (
	"context"
	"log/slog"
)

type disabledHandler struct{}

func (disabledHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (disabledHandler) Handle(context.Context, slog.Record) error { return nil }
func (d disabledHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d disabledHandler) WithGroup(string) slog.Handler           { return d }
