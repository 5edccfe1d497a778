// Package logger provides structured logging functionality for the application.
//
// It configures a JSON log/slog logger from server settings and carries
// request-scoped loggers and request ids through context.Context.
package logger
