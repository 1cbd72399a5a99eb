package main

import (
	"context"
	"fmt"
	"time"

	academyapp "github.com/edusaas/backend/internal/application/academy"
	billingapp "github.com/edusaas/backend/internal/application/billing"
	"github.com/edusaas/backend/internal/application/diagnostics"
	identityapp "github.com/edusaas/backend/internal/application/identity"
	"github.com/edusaas/backend/internal/domain/academy"
	"github.com/edusaas/backend/internal/infrastructure/auth"
	stripeinfra "github.com/edusaas/backend/internal/infrastructure/billing"
	"github.com/edusaas/backend/internal/infrastructure/cache"
	"github.com/edusaas/backend/internal/infrastructure/config"
	"github.com/edusaas/backend/internal/infrastructure/event"
	"github.com/edusaas/backend/internal/infrastructure/logger"
	"github.com/edusaas/backend/internal/infrastructure/persistence"
	"github.com/edusaas/backend/internal/infrastructure/storage"
	"github.com/edusaas/backend/internal/infrastructure/telemetry"
	"github.com/edusaas/backend/internal/interfaces/http/handler"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// app is everything the HTTP layer needs
type app struct {
	db          *persistence.Database
	jwt         *auth.JWTService
	blacklist   auth.TokenBlacklist
	auth        *identityapp.AuthService
	institution *identityapp.InstitutionService
	class       *academyapp.ClassService
	diagnostics *diagnostics.Service
	// webhook is nil without Stripe keys; the endpoint then answers 500
	webhook handler.WebhookProcessor
}

func buildApp(ctx context.Context, cfg *config.Config, log *zap.Logger, tel *telemetry.Telemetry, cleanup *teardown) (*app, error) {
	db, err := openDatabase(cfg, log)
	if err != nil {
		return nil, err
	}
	cleanup.addCloser("database", db.Close)

	institutions := persistence.NewGormInstitutionRepository(db.DB)
	accounts := persistence.NewGormAdminAccountRepository(db.DB)
	roles := persistence.NewGormUserRoleRepository(db.DB)
	registrations := persistence.NewGormRegistrationRepository(db.DB)
	classes := persistence.NewGormClassRepository(db.DB)
	students := persistence.NewGormStudentRepository(db.DB)

	bus := event.NewInMemoryEventBus(log)
	if academyMetrics, err := telemetry.NewAcademyMetrics(tel.Meter.Meter("edusaas.academy")); err != nil {
		log.Warn("Academy metrics disabled", zap.Error(err))
	} else {
		bus.Subscribe(academyMetrics)
	}
	if err := bus.Start(ctx); err != nil {
		return nil, fmt.Errorf("event bus: %w", err)
	}
	cleanup.add("event bus", bus.Stop)

	blacklist := tokenBlacklist(ctx, cfg.Redis, log, cleanup)

	idempotency, err := cache.NewIdempotencyStoreFactory(cfg.Webhook, cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.App.IsProduction()),
	).CreateStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("webhook idempotency store: %w", err)
	}
	if idempotency != nil {
		cleanup.addCloser("idempotency store", idempotency.Close)
	}

	logos, err := logoStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	stripeCfg := stripeinfra.NewStripeConfig(cfg.Stripe)
	var (
		webhook     handler.WebhookProcessor
		provisioner academy.PaymentLinkProvisioner
	)
	if stripeCfg.IsConfigured() {
		if err := stripeCfg.Validate(); err != nil {
			return nil, fmt.Errorf("stripe: %w", err)
		}
		gateway := stripeinfra.NewStripeGateway(stripeinfra.NewStripeClient(stripeCfg), stripeCfg, log)
		provisioner = gateway

		webhookMetrics, err := telemetry.NewWebhookMetrics(tel.Meter.Meter("edusaas.billing"))
		if err != nil {
			log.Warn("Webhook metrics disabled", zap.Error(err))
		}
		webhook = billingapp.NewWebhookService(billingapp.WebhookServiceConfig{
			Verifier:         stripeinfra.NewWebhookVerifier(stripeCfg.WebhookSecret),
			PaymentLinks:     gateway,
			Classes:          classes,
			Students:         students,
			IdempotencyStore: idempotency,
			IdempotencyTTL:   cfg.Webhook.IdempotencyTTL,
			EventBus:         bus,
			Metrics:          webhookMetrics,
			Logger:           log,
		})
		log.Info("Stripe integration enabled", zap.Bool("test_mode", stripeCfg.IsTestMode))
	} else {
		log.Warn("Stripe keys not configured; webhooks answer 500 and classes get no payment link")
	}

	jwtService := auth.NewJWTService(cfg.JWT)
	return &app{
		db:        db,
		jwt:       jwtService,
		blacklist: blacklist,
		auth: identityapp.NewAuthService(identityapp.AuthServiceConfig{
			Registrations: registrations,
			Institutions:  institutions,
			Accounts:      accounts,
			Roles:         roles,
			JWTService:    jwtService,
			Blacklist:     blacklist,
			EventBus:      bus,
			Logger:        log,
		}),
		institution: identityapp.NewInstitutionService(
			institutions, accounts, roles, logos, cfg.Storage.PresignExpiration, log,
		),
		class: academyapp.NewClassService(academyapp.ClassServiceConfig{
			Classes:      classes,
			Students:     students,
			Institutions: institutions,
			Roles:        roles,
			Provisioner:  provisioner,
			Currency:     stripeCfg.DefaultCurrency,
			EventBus:     bus,
			Logger:       log,
		}),
		diagnostics: diagnostics.NewService(
			accounts, roles, institutions, classes, students, db,
			diagnostics.StripeSettings{
				SecretKey:      cfg.Stripe.SecretKey,
				PublishableKey: cfg.Stripe.PublishableKey,
				WebhookSecret:  cfg.Stripe.WebhookSecret,
				TestMode:       cfg.Stripe.TestMode,
			},
			log,
		),
		webhook: webhook,
	}, nil
}

func openDatabase(cfg *config.Config, log *zap.Logger) (*persistence.Database, error) {
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database,
		logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level)))
	if err != nil {
		return nil, fmt.Errorf("connect to %s:%d/%s: %w", cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName, err)
	}
	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      !cfg.App.IsProduction(),
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBSystem:        "postgresql",
	}, log); err != nil {
		log.Warn("Database tracing not registered", zap.Error(err))
	}
	log.Info("Database connected", zap.String("host", cfg.Database.Host), zap.String("dbname", cfg.Database.DBName))
	return db, nil
}

// tokenBlacklist prefers Redis; without it revocation only holds on this instance
func tokenBlacklist(ctx context.Context, cfg config.RedisConfig, log *zap.Logger, cleanup *teardown) auth.TokenBlacklist {
	client := redis.NewClient(&redis.Options{Addr: cfg.Addr(), Password: cfg.Password, DB: cfg.DB})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		log.Warn("Redis unavailable, token revocation is process-local", zap.Error(err))
		return auth.NewInMemoryTokenBlacklist()
	}
	cleanup.addCloser("redis", client.Close)
	return auth.NewRedisTokenBlacklist(client)
}

func logoStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (identityapp.LogoStorage, error) {
	if !cfg.Storage.IsConfigured() {
		log.Warn("Object storage not configured; logo upload URLs are placeholders")
		return storage.NewPlaceholderLogoStore(), nil
	}
	s3, err := storage.NewS3LogoStore(&cfg.Storage, storage.WithLogger(log))
	if err != nil {
		return nil, fmt.Errorf("object storage: %w", err)
	}
	bucketCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := s3.EnsureBucket(bucketCtx); err != nil {
		log.Warn("Could not verify storage bucket", zap.Error(err))
	}
	return s3, nil
}
