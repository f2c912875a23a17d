// Package middleware provides HTTP middleware for the backoffice API.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// MaxRequestIDLength is the maximum length for request IDs taken from headers.
const MaxRequestIDLength = 128

// TracingConfig holds configuration for the tracing middleware.
type TracingConfig struct {
	// ServiceName is the name of the service for trace identification.
	ServiceName string
	// Enabled controls whether tracing is active.
	Enabled bool
}

// DefaultTracingConfig returns default tracing configuration.
func DefaultTracingConfig() TracingConfig {
	return TracingConfig{
		ServiceName: "lerp-backend",
		Enabled:     true,
	}
}

// Tracing returns OpenTelemetry tracing middleware with default configuration.
func Tracing() gin.HandlerFunc {
	return TracingWithConfig(DefaultTracingConfig())
}

// TracingWithConfig returns OpenTelemetry tracing middleware with custom
// configuration. This wraps otelgin and adds request_id and session_id
// span attributes. The span name follows the format "HTTP METHOD
// route_pattern" (e.g. "GET /api/v1/products/:id").
func TracingWithConfig(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	baseMiddleware := otelgin.Middleware(cfg.ServiceName)

	return func(c *gin.Context) {
		baseMiddleware(c)

		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			enrichSpanWithAttributes(c, span)
		}
	}
}

// enrichSpanWithAttributes adds custom attributes to the span from the request context.
func enrichSpanWithAttributes(c *gin.Context, span trace.Span) {
	if requestID := getTraceRequestID(c); requestID != "" {
		span.SetAttributes(attribute.String("request_id", requestID))
	}
	if sessionID := GetSessionID(c); sessionID != "" {
		span.SetAttributes(attribute.String("session_id", sessionID))
	}
}

// getTraceRequestID retrieves the request ID from the gin context or header.
// Header values are truncated to prevent abuse.
func getTraceRequestID(c *gin.Context) string {
	if requestID, exists := c.Get("request_id"); exists {
		if id, ok := requestID.(string); ok && id != "" {
			return id
		}
	}

	headerID := c.GetHeader("X-Request-ID")
	if len(headerID) > MaxRequestIDLength {
		return headerID[:MaxRequestIDLength]
	}
	return headerID
}

// SpanErrorMarker returns a middleware that marks spans with error status
// for HTTP error responses (4xx/5xx).
// This should be placed AFTER the Tracing middleware in the middleware chain.
func SpanErrorMarker() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}

		statusCode := c.Writer.Status()

		if statusCode >= http.StatusBadRequest {
			var errorMessage string
			if statusCode >= http.StatusInternalServerError {
				errorMessage = "Internal Server Error"
			} else if statusCode == http.StatusUnauthorized {
				errorMessage = "Unauthorized"
			} else if statusCode == http.StatusNotFound {
				errorMessage = "Not Found"
			} else {
				errorMessage = "Client Error"
			}

			span.SetStatus(codes.Error, errorMessage)
			span.SetAttributes(attribute.Int("http.status_code", statusCode))
		}
	}
}

// TracingAttributeInjector returns a middleware that injects session
// attributes into the current span after the session middleware has run.
// This should be placed AFTER both Tracing and Session in the chain.
func TracingAttributeInjector() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			enrichSpanWithAttributes(c, span)
		}
		c.Next()
	}
}
