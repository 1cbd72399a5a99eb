package main

import (
	"fmt"

	"github.com/edusaas/backend/internal/infrastructure/config"
	"github.com/edusaas/backend/internal/infrastructure/logger"
	"github.com/edusaas/backend/internal/infrastructure/telemetry"
	"github.com/edusaas/backend/internal/interfaces/http/handler"
	"github.com/edusaas/backend/internal/interfaces/http/middleware"
	"github.com/edusaas/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

var quietPaths = []string{"/health", "/api/v1/health"}

// newEngine builds the gin engine. Global middleware order matters: request
// ID before logging, recovery before everything that can panic, and the
// body limit skipped for the webhook, which must see the exact signed bytes.
func newEngine(cfg *config.Config, log *zap.Logger, tel *telemetry.Telemetry, a *app, cleanup *teardown) (*gin.Engine, error) {
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}

	engine.Use(
		middleware.RequestID(),
		logger.Recovery(log),
		logger.AccessLog(log, quietPaths...),
		middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		}),
		middleware.SpanAnnotator(),
		middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
			MeterProvider: tel.Meter,
			Enabled:       cfg.Telemetry.MetricsEnabled,
			Logger:        log,
		}),
		middleware.ProfilingWithConfig(middleware.ProfilingConfig{
			Enabled:          tel.Profiler.IsEnabled(),
			SkipPaths:        quietPaths,
			SkipPathPrefixes: []string{"/swagger"},
		}),
		middleware.SecureWithConfig(middleware.DefaultSecurityConfig()),
		middleware.CORSWithConfig(corsConfig(cfg.HTTP)),
		middleware.BodyLimitWithConfig(middleware.BodyLimitConfig{
			MaxBytes:  cfg.HTTP.MaxBodySize,
			SkipPaths: []string{router.StripeWebhookPath},
		}),
	)

	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		cleanup.addCloser("rate limiter", func() error { limiter.Stop(); return nil })
		engine.Use(middleware.RateLimitWithConfig(middleware.RateLimitConfig{
			Limiter:   limiter,
			SkipPaths: []string{router.StripeWebhookPath},
		}))
	}
	var authRateLimit gin.HandlerFunc
	if cfg.HTTP.AuthRateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		cleanup.addCloser("auth rate limiter", func() error { limiter.Stop(); return nil })
		authRateLimit = middleware.RateLimit(limiter)
	}

	jwtCfg := middleware.DefaultJWTConfig(a.jwt)
	jwtCfg.TokenBlacklist = a.blacklist
	jwtCfg.Logger = log

	api := router.MountAPI(engine, router.APIHandlers{
		Auth:        handler.NewAuthHandler(a.auth),
		Institution: handler.NewInstitutionHandler(a.institution),
		Class:       handler.NewClassHandler(a.class),
		Diagnostics: handler.NewDiagnosticsHandler(a.diagnostics),
		System:      handler.NewSystemHandler(cfg.App.Name, appVersion, a.db),
		StripeWebhook: handler.NewStripeWebhookHandler(handler.StripeWebhookHandlerConfig{
			Processor: a.webhook,
			Debug:     cfg.App.Debug,
			Logger:    log,
		}),
	}, router.APIConfig{
		RequireAuth:   middleware.JWTAuthMiddlewareWithConfig(jwtCfg),
		OptionalAuth:  middleware.OptionalJWTAuthMiddleware(a.jwt),
		AuthRateLimit: authRateLimit,
		Swagger: middleware.SwaggerConfig{
			Enabled:     cfg.Swagger.Enabled,
			RequireAuth: cfg.Swagger.RequireAuth,
			AllowedIPs:  cfg.Swagger.AllowedIPs,
		},
		SwaggerHandler: ginSwagger.WrapHandler(swaggerFiles.Handler),
	})
	log.Info("API mounted",
		zap.String("base_path", api.BasePath()),
		zap.Strings("groups", api.Groups()),
		zap.Bool("stripe_configured", a.webhook != nil),
	)
	return engine, nil
}

// corsConfig keeps the default method and header lists unless overridden.
// No configured origins means no cross-origin access.
func corsConfig(h config.HTTPConfig) middleware.CORSConfig {
	c := middleware.DefaultCORSConfig()
	c.AllowOrigins = h.CORSAllowOrigins
	if len(h.CORSAllowMethods) > 0 {
		c.AllowMethods = h.CORSAllowMethods
	}
	if len(h.CORSAllowHeaders) > 0 {
		c.AllowHeaders = h.CORSAllowHeaders
	}
	return c
}
