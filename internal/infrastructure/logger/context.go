package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// contextKey is a type for context keys used by the logger package
type contextKey string

const (
	// LoggerKey is the context key for the logger
	LoggerKey contextKey = "logger"
	// RequestIDKey is the context key for request ID
	RequestIDKey contextKey = "request_id"
	// SessionIDKey is the context key for session ID
	SessionIDKey contextKey = "session_id"
)

// WithContext returns a new context with the logger attached
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// FromContext retrieves the logger from context, returns a no-op logger if not found
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(LoggerKey).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

// WithRequestID adds request ID to context and returns enriched logger
func WithRequestID(ctx context.Context, logger *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, RequestIDKey, requestID)
	enrichedLogger := logger.With(zap.String("request_id", requestID))
	return WithContext(ctx, enrichedLogger), enrichedLogger
}

// WithSessionID adds session ID to context and returns enriched logger
func WithSessionID(ctx context.Context, logger *zap.Logger, sessionID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, SessionIDKey, sessionID)
	enrichedLogger := logger.With(zap.String("session_id", sessionID))
	return WithContext(ctx, enrichedLogger), enrichedLogger
}

// GetRequestID retrieves request ID from context
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// GetSessionID retrieves session ID from context
func GetSessionID(ctx context.Context) string {
	if sessionID, ok := ctx.Value(SessionIDKey).(string); ok {
		return sessionID
	}
	return ""
}

// WithTraceContext adds trace_id and span_id to the logger from the context's span.
// If no valid span exists, returns the original logger unchanged.
func WithTraceContext(ctx context.Context, logger *zap.Logger) *zap.Logger {
	span := trace.SpanFromContext(ctx)
	if span == nil {
		return logger
	}
	spanCtx := span.SpanContext()
	if !spanCtx.IsValid() {
		return logger
	}

	return logger.With(
		zap.String("trace_id", spanCtx.TraceID().String()),
		zap.String("span_id", spanCtx.SpanID().String()),
	)
}

// ContextLogger wraps a zap logger and injects request-scoped fields
// from the context into every entry.
type ContextLogger struct {
	ctx    context.Context
	logger *zap.Logger
}

// L returns a ContextLogger from the given context.
// Usage: logger.L(ctx).Info("message", zap.String("key", "value"))
func L(ctx context.Context) *ContextLogger {
	return &ContextLogger{
		ctx:    ctx,
		logger: FromContext(ctx),
	}
}

// WithLogger returns a ContextLogger using the provided logger instead of
// extracting from context.
func WithLogger(ctx context.Context, logger *zap.Logger) *ContextLogger {
	return &ContextLogger{
		ctx:    ctx,
		logger: logger,
	}
}

// enrichedLogger returns a logger enriched with trace and context fields.
func (cl *ContextLogger) enrichedLogger() *zap.Logger {
	l := cl.logger
	if l == nil {
		l = zap.NewNop()
	}

	l = WithTraceContext(cl.ctx, l)

	if requestID := GetRequestID(cl.ctx); requestID != "" {
		l = l.With(zap.String("request_id", requestID))
	}
	if sessionID := GetSessionID(cl.ctx); sessionID != "" {
		l = l.With(zap.String("session_id", sessionID))
	}

	return l
}

// With creates a child ContextLogger with additional fields.
func (cl *ContextLogger) With(fields ...zap.Field) *ContextLogger {
	return &ContextLogger{
		ctx:    cl.ctx,
		logger: cl.logger.With(fields...),
	}
}

// Debug logs a debug level message with trace context.
func (cl *ContextLogger) Debug(msg string, fields ...zap.Field) {
	cl.enrichedLogger().Debug(msg, fields...)
}

// Info logs an info level message with trace context.
func (cl *ContextLogger) Info(msg string, fields ...zap.Field) {
	cl.enrichedLogger().Info(msg, fields...)
}

// Warn logs a warning level message with trace context.
func (cl *ContextLogger) Warn(msg string, fields ...zap.Field) {
	cl.enrichedLogger().Warn(msg, fields...)
}

// Error logs an error level message with trace context.
func (cl *ContextLogger) Error(msg string, fields ...zap.Field) {
	cl.enrichedLogger().Error(msg, fields...)
}

// Zap returns the underlying zap.Logger enriched with trace context.
func (cl *ContextLogger) Zap() *zap.Logger {
	return cl.enrichedLogger()
}
