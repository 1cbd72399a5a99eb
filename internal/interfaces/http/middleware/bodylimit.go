package middleware

import (
	"fmt"
	"net/http"

	"github.com/edusaas/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// BodyLimitConfig caps request body size.
type BodyLimitConfig struct {
	MaxBytes int64
	// SkipPaths are routes that read their body under their own cap,
	// such as the Stripe webhook which must see the raw payload.
	SkipPaths []string
}

// BodyLimit caps every request body at maxBytes
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return BodyLimitWithConfig(BodyLimitConfig{MaxBytes: maxBytes})
}

// BodyLimitWithConfig rejects declared oversize bodies up front with 413 and
// wraps the rest so that a body without Content-Length fails on read.
// A non-positive MaxBytes disables the check.
func BodyLimitWithConfig(cfg BodyLimitConfig) gin.HandlerFunc {
	skip := pathSkipper(cfg.SkipPaths, nil)
	message := fmt.Sprintf("Request body exceeds the %d byte limit", cfg.MaxBytes)

	return func(c *gin.Context) {
		if cfg.MaxBytes <= 0 || skip(c.Request.URL.Path) {
			c.Next()
			return
		}
		if c.Request.ContentLength > cfg.MaxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeTooLarge, message, getRequestIDFromContext(c)))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, cfg.MaxBytes)
		c.Next()
	}
}
