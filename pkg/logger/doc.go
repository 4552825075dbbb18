// Package logger provides structured logging with configurable log levels.
// It wraps log/slog, choosing a JSON handler in production and a text handler
// elsewhere, and carries request-scoped loggers through a context.
package logger
