package sim

import (
	"context"
	"fmt"
	"log/slog"
)

// A LogHook writes every hook invocation it receives to a structured logger.
type LogHook struct {
	logger *slog.Logger
	level  slog.Level
}

// NewLogHook creates a LogHook that logs at debug level.
func NewLogHook(logger *slog.Logger) *LogHook {
	return &LogHook{logger: logger, level: slog.LevelDebug}
}

// WithLevel changes the level the hook logs at.
func (h *LogHook) WithLevel(level slog.Level) *LogHook {
	h.level = level
	return h
}

// Func logs the position, the item and the detail of the invocation.
func (h *LogHook) Func(ctx HookCtx) {
	if !h.logger.Enabled(context.Background(), h.level) {
		return
	}

	attrs := []any{"pos", ctx.Pos.Name}

	if ctx.Item != nil {
		attrs = append(attrs, "item", describe(ctx.Item))
	}

	if ctx.Detail != nil {
		attrs = append(attrs, "detail", describe(ctx.Detail))
	}

	h.logger.Log(context.Background(), h.level, "hook", attrs...)
}

func describe(v any) string {
	switch v := v.(type) {
	case Named:
		return v.Name()
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%+v", v)
	}
}
