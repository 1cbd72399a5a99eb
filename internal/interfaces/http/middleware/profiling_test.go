package middleware

import (
	"net/http"
	"net/http/httptest"
	"runtime/pprof"
	"testing"

	"github.com/edusaas/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func profilingRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ProfilingWithConfig(ProfilingConfig{
		Enabled:          true,
		SkipPaths:        []string{"/health"},
		SkipPathPrefixes: []string{"/swagger"},
	}))
	return r
}

func labelsOf(c *gin.Context) map[string]string {
	out := map[string]string{}
	pprof.ForLabels(c.Request.Context(), func(k, v string) bool {
		out[k] = v
		return true
	})
	return out
}

func TestProfilingWithConfig_Disabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ProfilingWithConfig(ProfilingConfig{Enabled: false}))

	var labels map[string]string
	r.GET("/test", func(c *gin.Context) {
		labels = labelsOf(c)
		c.Status(http.StatusOK)
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, labels)
}

func TestProfiling_InstitutionLabelFromJWT(t *testing.T) {
	svc := testJWTService()
	pair, institutionID, _ := issueTestToken(t, svc)

	r := profilingRouter()
	var labels map[string]string
	r.GET("/api/v1/classes/:id", JWTAuthMiddleware(svc), func(c *gin.Context) {
		labels = labelsOf(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/classes/123", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+pair.AccessToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]string{
		telemetry.ProfilingLabelMethod:        "GET",
		telemetry.ProfilingLabelRoute:         "/api/v1/classes/:id",
		telemetry.ProfilingLabelController:    "classes",
		telemetry.ProfilingLabelInstitutionID: institutionID.String(),
	}, labels)
}

func TestProfiling_SkippedPaths(t *testing.T) {
	r := profilingRouter()
	var labelled []string
	record := func(c *gin.Context) {
		if len(labelsOf(c)) > 0 {
			labelled = append(labelled, c.Request.URL.Path)
		}
		c.Status(http.StatusOK)
	}
	r.GET("/health", record)
	r.GET("/swagger/*any", record)
	r.GET("/api/v1/system/ping", record)

	for _, path := range []string{"/health", "/swagger/index.html", "/api/v1/system/ping"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}
	assert.Equal(t, []string{"/api/v1/system/ping"}, labelled)
}

func TestControllerOf(t *testing.T) {
	tests := map[string]string{
		"":                                  "",
		"/api/v1/classes":                   "classes",
		"/api/v1/classes/:id":               "classes",
		"/api/v2/institutions/current/logo": "institutions",
		"/webhooks/stripe":                  "webhooks",
		"/api/v1/:id":                       "",
		"/swagger/*any":                     "swagger",
	}
	for route, want := range tests {
		assert.Equal(t, want, controllerOf(route), route)
	}
}

func TestIsVersionSegment(t *testing.T) {
	assert.True(t, isVersionSegment("v1"))
	assert.True(t, isVersionSegment("V12"))
	assert.False(t, isVersionSegment("v"))
	assert.False(t, isVersionSegment("vx"))
	assert.False(t, isVersionSegment("classes"))
}
