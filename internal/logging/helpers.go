package logging

import (
	"context"
	"log/slog"
)

// FieldError is the key errors are logged under.
const FieldError = "error"

func logAt(logger *slog.Logger, level slog.Level, msg string, args []any) {
	if logger == nil {
		return
	}
	logger.Log(context.Background(), level, msg, args...)
}

// Debug, Info and Warn drop the record when no logger is configured.
func Debug(logger *slog.Logger, msg string, args ...any) { logAt(logger, slog.LevelDebug, msg, args) }
func Info(logger *slog.Logger, msg string, args ...any)  { logAt(logger, slog.LevelInfo, msg, args) }
func Warn(logger *slog.Logger, msg string, args ...any)  { logAt(logger, slog.LevelWarn, msg, args) }

// Error logs msg at error level with err attached under FieldError.
func Error(logger *slog.Logger, msg string, err error, args ...any) {
	if err != nil {
		args = append(args, FieldError, err)
	}
	logAt(logger, slog.LevelError, msg, args)
}
