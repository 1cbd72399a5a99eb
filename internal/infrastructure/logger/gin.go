package logger

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Keys under which the HTTP middleware share values through gin.Context
const (
	GinLoggerKey    = "logger"
	GinRequestIDKey = "request_id"
)

// AccessLog attaches a request-scoped logger to both the gin and the request
// context, then writes one line per request once the handler chain returns.
// Requests to quietPaths (health probes) are logged at debug unless they fail.
func AccessLog(base *zap.Logger, quietPaths ...string) gin.HandlerFunc {
	quiet := make(map[string]struct{}, len(quietPaths))
	for _, p := range quietPaths {
		quiet[p] = struct{}{}
	}

	return func(c *gin.Context) {
		start := time.Now()
		req := c.Request
		requestID := c.GetString(GinRequestIDKey)

		scoped := base.With(zap.String("method", req.Method), zap.String("path", req.URL.Path))
		// the context copy gets request_id from the correlation fields in L
		ctx := WithContext(req.Context(), scoped)
		if requestID != "" {
			ctx = WithRequestID(ctx, requestID)
		}
		c.Request = req.WithContext(ctx)
		log := scoped.With(zap.String("request_id", requestID))
		c.Set(GinLoggerKey, log)

		c.Next()

		status := c.Writer.Status()
		level := statusLevel(status)
		if _, ok := quiet[req.URL.Path]; ok && level == zapcore.InfoLevel {
			level = zapcore.DebugLevel
		}
		ce := log.Check(level, "request")
		if ce == nil {
			return
		}

		fields := make([]zap.Field, 0, 9)
		fields = append(fields,
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.Int("bytes", c.Writer.Size()),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", req.UserAgent()),
		)
		if req.URL.RawQuery != "" {
			fields = append(fields, zap.String("query", req.URL.RawQuery))
		}
		if route := c.FullPath(); route != "" {
			fields = append(fields, zap.String("route", route))
		}
		// set by the JWT middleware further down the chain
		if id := GetInstitutionID(c.Request.Context()); id != "" {
			fields = append(fields, zap.String("institution_id", id))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.Strings("errors", c.Errors.Errors()))
		}
		ce.Write(fields...)
	}
}

func statusLevel(status int) zapcore.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return zapcore.ErrorLevel
	case status >= http.StatusBadRequest:
		return zapcore.WarnLevel
	default:
		return zapcore.InfoLevel
	}
}

// Recovery turns a handler panic into a 500 and logs it with the stack.
// It must run after RequestID so the log line carries the request ID.
func Recovery(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if err, ok := rec.(error); ok && err == http.ErrAbortHandler {
				panic(rec)
			}
			base.Error("panic in handler",
				zap.String("request_id", c.GetString(GinRequestIDKey)),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Any("panic", rec),
				zap.Stack("stack"),
			)
			if !c.Writer.Written() {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"error": gin.H{
						"code":       "ERR_INTERNAL",
						"message":    "Internal server error",
						"request_id": c.GetString(GinRequestIDKey),
					},
				})
				return
			}
			c.Abort()
		}()
		c.Next()
	}
}

// GetGinLogger returns the logger AccessLog stored on c, or a no-op logger
func GetGinLogger(c *gin.Context) *zap.Logger {
	if l, ok := c.Value(GinLoggerKey).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}
