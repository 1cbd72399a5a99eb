package router

import (
	"github.com/edusaas/backend/internal/interfaces/http/handler"
	"github.com/edusaas/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// StripeWebhookPath is where Stripe delivers events. It sits outside /api so
// the JWT and body-size middleware can exempt it by exact path.
const StripeWebhookPath = "/webhooks/stripe"

// APIHandlers are the HTTP handlers mounted by MountAPI
type APIHandlers struct {
	Auth          *handler.AuthHandler
	Institution   *handler.InstitutionHandler
	Class         *handler.ClassHandler
	Diagnostics   *handler.DiagnosticsHandler
	System        *handler.SystemHandler
	StripeWebhook *handler.StripeWebhookHandler
}

// APIConfig carries the route-level middleware
type APIConfig struct {
	// RequireAuth rejects requests without a valid access token
	RequireAuth gin.HandlerFunc
	// OptionalAuth reads a token when present and never rejects
	OptionalAuth gin.HandlerFunc
	// AuthRateLimit throttles the credential endpoints; nil disables it
	AuthRateLimit gin.HandlerFunc
	Swagger       middleware.SwaggerConfig
	// SwaggerHandler serves the UI; nil leaves /swagger unmounted
	SwaggerHandler gin.HandlerFunc
}

// MountAPI registers every public route on engine:
//
//	GET  /health
//	POST /webhooks/stripe
//	GET  /swagger/*any
//	     /api/v1/...
func MountAPI(engine *gin.Engine, h APIHandlers, cfg APIConfig) *Router {
	engine.GET("/health", h.System.Health)

	// Called by Stripe; authenticated by signature, not JWT
	engine.POST(StripeWebhookPath, h.StripeWebhook.HandleStripeWebhook)

	if cfg.SwaggerHandler != nil {
		engine.GET("/swagger/*any", middleware.SwaggerProtection(cfg.Swagger, cfg.RequireAuth), cfg.SwaggerHandler)
	}

	r := NewRouter(engine, WithAPIVersion("v1"))
	for _, g := range apiGroups(h, cfg) {
		r.Register(g)
	}
	r.Setup()
	return r
}

func apiGroups(h APIHandlers, cfg APIConfig) []*DomainGroup {
	system := NewDomainGroup("system", "")
	system.GET("/health", h.System.Health)
	system.GET("/system/info", h.System.GetSystemInfo)
	system.GET("/system/ping", h.System.Ping)

	authPublic := NewDomainGroup("auth", "/auth")
	if cfg.AuthRateLimit != nil {
		authPublic.Use(cfg.AuthRateLimit)
	}
	authPublic.POST("/signup", h.Auth.Signup)
	authPublic.POST("/login", h.Auth.Login)
	authPublic.POST("/refresh", h.Auth.RefreshToken)

	session := NewDomainGroup("session", "/auth").Use(cfg.RequireAuth)
	session.POST("/logout", h.Auth.Logout)
	session.GET("/me", h.Auth.Me)

	subdomains := NewDomainGroup("subdomains", "/institutions")
	subdomains.GET("/subdomain-availability", h.Institution.CheckSubdomainAvailability)

	institutions := NewDomainGroup("institutions", "/institutions").Use(cfg.RequireAuth)
	institutions.GET("/current", h.Institution.GetCurrent)
	institutions.PUT("/current", h.Institution.UpdateCurrent)
	institutions.POST("/current/logo-upload-url", h.Institution.CreateLogoUploadURL)

	classes := NewDomainGroup("academy", "/classes").Use(cfg.RequireAuth)
	classes.GET("", h.Class.ListClasses)
	classes.POST("", h.Class.CreateClass)
	classes.GET("/:id", h.Class.GetClass)

	// Diagnostics must answer even when the caller's session is broken
	diagnostics := NewDomainGroup("diagnostics", "/diagnostics").Use(cfg.OptionalAuth)
	diagnostics.GET("", h.Diagnostics.Run)

	return []*DomainGroup{system, authPublic, session, subdomains, institutions, classes, diagnostics}
}
