package middleware

import (
	"context"
	"strings"

	"github.com/edusaas/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
)

type ProfilingConfig struct {
	Enabled          bool
	SkipPaths        []string
	SkipPathPrefixes []string
}

// ProfilingWithConfig runs the rest of the chain under Pyroscope labels for
// the method, route pattern and controller. The institution label is added
// later by the JWT middleware, once the caller is known.
func ProfilingWithConfig(cfg ProfilingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return passThrough
	}
	skip := pathSkipper(cfg.SkipPaths, cfg.SkipPathPrefixes)

	return func(c *gin.Context) {
		if skip(c.Request.URL.Path) {
			c.Next()
			return
		}
		route := c.FullPath()
		labels := map[string]string{
			telemetry.ProfilingLabelMethod:     c.Request.Method,
			telemetry.ProfilingLabelRoute:      route,
			telemetry.ProfilingLabelController: controllerOf(route),
		}
		nextLabelled(c, labels)
	}
}

// nextLabelled continues the chain with labels added to the request context
func nextLabelled(c *gin.Context, labels map[string]string) {
	telemetry.WithProfilingLabels(c.Request.Context(), labels, func(ctx context.Context) {
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})
}

// controllerOf picks the first literal segment after the API prefix:
// "/api/v1/classes/:id" is "classes".
func controllerOf(route string) string {
	for part := range strings.SplitSeq(route, "/") {
		switch {
		case part == "", part == "api", isVersionSegment(part):
		case part[0] == ':' || part[0] == '*':
		default:
			return part
		}
	}
	return ""
}

func isVersionSegment(s string) bool {
	if len(s) < 2 || (s[0] != 'v' && s[0] != 'V') {
		return false
	}
	return strings.Trim(s[1:], "0123456789") == ""
}
