package middleware

import (
	"net/http"

	"github.com/edusaas/backend/internal/infrastructure/logger"
	"github.com/edusaas/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// MaxRequestIDLength bounds request IDs copied into span attributes
const MaxRequestIDLength = 128

type TracingConfig struct {
	ServiceName string
	Enabled     bool
}

// TracingWithConfig starts a server span per request through otelgin
func TracingWithConfig(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return passThrough
	}
	name := cfg.ServiceName
	if name == "" {
		name = "edusaas-backend"
	}
	return otelgin.Middleware(name)
}

// SpanAnnotator decorates the otelgin span. Identity is read after the chain
// returns because the JWT middleware runs per route group, below this one.
// Place it directly after TracingWithConfig.
func SpanAnnotator() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			c.Next()
			return
		}
		if id := getRequestID(c); id != "" {
			span.SetAttributes(attribute.String("request_id", id))
		}

		c.Next()

		if id := GetJWTInstitutionID(c); id != "" {
			span.SetAttributes(attribute.String(telemetry.SpanAttrInstitutionID, id))
		}
		if id := GetJWTUserID(c); id != "" {
			span.SetAttributes(attribute.String("user_id", id))
		}
		if status := c.Writer.Status(); status >= http.StatusBadRequest {
			span.SetStatus(codes.Error, failureReason(status))
		}
	}
}

// otelgin sets its own status for 5xx after this runs
func failureReason(status int) string {
	switch {
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return "access denied"
	case status == http.StatusConflict:
		return "conflict"
	default:
		return "client error"
	}
}

// getRequestID prefers the ID set by RequestID and truncates raw header values
func getRequestID(c *gin.Context) string {
	if id := c.GetString(logger.GinRequestIDKey); id != "" {
		return id
	}
	id := c.GetHeader(RequestIDKey)
	if len(id) > MaxRequestIDLength {
		id = id[:MaxRequestIDLength]
	}
	return id
}
