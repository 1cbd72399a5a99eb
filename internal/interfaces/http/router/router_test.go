package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/edusaas/backend/internal/application/diagnostics"
	"github.com/edusaas/backend/internal/infrastructure/auth"
	"github.com/edusaas/backend/internal/infrastructure/config"
	"github.com/edusaas/backend/internal/interfaces/http/handler"
	"github.com/edusaas/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "/api/v2", r.BasePath())
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	group := NewDomainGroup("test", "/test")
	group.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	r.Register(group).Setup()
	assert.Equal(t, []string{"test"}, r.Groups())

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/test/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestDomainGroup(t *testing.T) {
	t.Run("creates group with name and prefix", func(t *testing.T) {
		g := NewDomainGroup("academy", "/classes")
		assert.Equal(t, "academy", g.Name())
		assert.Equal(t, "/classes", g.Prefix())
	})

	t.Run("registers each method", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("test", "/test")
		g.GET("/a", func(c *gin.Context) { c.String(http.StatusOK, "a") }).
			POST("/b", func(c *gin.Context) { c.String(http.StatusCreated, "b") }).
			PUT("/c/:id", func(c *gin.Context) { c.String(http.StatusOK, c.Param("id")) })
		g.RegisterRoutes(engine.Group("/api/v1"))

		tests := []struct {
			method, path string
			code         int
		}{
			{"GET", "/api/v1/test/a", http.StatusOK},
			{"POST", "/api/v1/test/b", http.StatusCreated},
			{"PUT", "/api/v1/test/c/123", http.StatusOK},
			{"DELETE", "/api/v1/test/a", http.StatusNotFound},
		}
		for _, tt := range tests {
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.code, w.Code, "%s %s", tt.method, tt.path)
		}
	})

	t.Run("groups sharing a prefix keep their own middleware", func(t *testing.T) {
		engine := gin.New()
		public := NewDomainGroup("public", "/auth")
		public.POST("/login", func(c *gin.Context) { c.Status(http.StatusOK) })

		private := NewDomainGroup("private", "/auth").Use(func(c *gin.Context) {
			c.AbortWithStatus(http.StatusUnauthorized)
		})
		private.GET("/me", func(c *gin.Context) { c.Status(http.StatusOK) })

		r := NewRouter(engine)
		r.Register(public).Register(private).Setup()

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest("POST", "/api/v1/auth/login", nil))
		assert.Equal(t, http.StatusOK, w.Code)

		w = httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/auth/me", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

type stubRunner struct {
	caller diagnostics.Caller
}

func (s *stubRunner) Run(_ context.Context, caller diagnostics.Caller) []diagnostics.Check {
	s.caller = caller
	return []diagnostics.Check{{Name: diagnostics.CheckAuthentication, Status: diagnostics.StatusPass}}
}

func mountTestAPI(t *testing.T, swagger middleware.SwaggerConfig) (*gin.Engine, *auth.JWTService, *stubRunner) {
	t.Helper()
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "router-test-secret-at-least-32-chars",
		RefreshSecret:          "router-test-refresh-secret-32-chars",
		AccessTokenExpiration:  time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "test",
	})
	runner := &stubRunner{}

	engine := gin.New()
	MountAPI(engine, APIHandlers{
		Auth:          handler.NewAuthHandler(nil),
		Institution:   handler.NewInstitutionHandler(nil),
		Class:         handler.NewClassHandler(nil),
		Diagnostics:   handler.NewDiagnosticsHandler(runner),
		System:        handler.NewSystemHandler("EduSaaS Backend API", "test", nil),
		StripeWebhook: handler.NewStripeWebhookHandler(handler.StripeWebhookHandlerConfig{}),
	}, APIConfig{
		RequireAuth:  middleware.JWTAuthMiddleware(jwtService),
		OptionalAuth: middleware.OptionalJWTAuthMiddleware(jwtService),
		Swagger:      swagger,
		SwaggerHandler: func(c *gin.Context) {
			c.String(http.StatusOK, "docs")
		},
	})
	return engine, jwtService, runner
}

func TestMountAPI_Groups(t *testing.T) {
	engine := gin.New()
	r := MountAPI(engine, APIHandlers{
		Auth:          handler.NewAuthHandler(nil),
		Institution:   handler.NewInstitutionHandler(nil),
		Class:         handler.NewClassHandler(nil),
		Diagnostics:   handler.NewDiagnosticsHandler(&stubRunner{}),
		System:        handler.NewSystemHandler("EduSaaS Backend API", "test", nil),
		StripeWebhook: handler.NewStripeWebhookHandler(handler.StripeWebhookHandlerConfig{}),
	}, APIConfig{RequireAuth: func(c *gin.Context) { c.Next() }, OptionalAuth: func(c *gin.Context) { c.Next() }})

	assert.Equal(t, []string{"system", "auth", "session", "subdomains", "institutions", "academy", "diagnostics"}, r.Groups())
	assert.Equal(t, "/api/v1", r.BasePath())
}

func TestMountAPI_Authentication(t *testing.T) {
	engine, _, _ := mountTestAPI(t, middleware.SwaggerConfig{})

	protected := []struct{ method, path string }{
		{"GET", "/api/v1/classes"},
		{"POST", "/api/v1/classes"},
		{"GET", "/api/v1/classes/" + uuid.NewString()},
		{"GET", "/api/v1/institutions/current"},
		{"PUT", "/api/v1/institutions/current"},
		{"POST", "/api/v1/institutions/current/logo-upload-url"},
		{"POST", "/api/v1/auth/logout"},
		{"GET", "/api/v1/auth/me"},
	}
	for _, route := range protected {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(route.method, route.path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", route.method, route.path)
	}

	// Public routes reach their handler; bad input proves it
	public := []struct {
		method, path string
		code         int
	}{
		{"POST", "/api/v1/auth/signup", http.StatusBadRequest},
		{"POST", "/api/v1/auth/login", http.StatusBadRequest},
		{"POST", "/api/v1/auth/refresh", http.StatusBadRequest},
		{"GET", "/api/v1/institutions/subdomain-availability", http.StatusBadRequest},
		{"GET", "/health", http.StatusOK},
		{"GET", "/api/v1/health", http.StatusOK},
		{"GET", "/api/v1/system/ping", http.StatusOK},
		{"POST", "/webhooks/stripe", http.StatusInternalServerError},
	}
	for _, route := range public {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(route.method, route.path, nil))
		assert.Equal(t, route.code, w.Code, "%s %s", route.method, route.path)
	}
}

func TestMountAPI_DiagnosticsOptionalAuth(t *testing.T) {
	engine, jwtService, runner := mountTestAPI(t, middleware.SwaggerConfig{})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/diagnostics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uuid.Nil, runner.caller.UserID)

	institutionID, userID := uuid.New(), uuid.New()
	pair, err := jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		InstitutionID: institutionID,
		UserID:        userID,
		Email:         "owner@sunrise.edu",
		Role:          "institution_admin",
	})
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/api/v1/diagnostics", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID, runner.caller.UserID)
	assert.Equal(t, institutionID, runner.caller.InstitutionID)
}

func TestMountAPI_Swagger(t *testing.T) {
	engine, _, _ := mountTestAPI(t, middleware.SwaggerConfig{})
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/swagger/index.html", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	engine, _, _ = mountTestAPI(t, middleware.SwaggerConfig{Enabled: true})
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/swagger/index.html", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "docs", w.Body.String())
}
