package cache

import (
	"context"
	"fmt"

	"github.com/edusaas/backend/internal/domain/shared"
	"github.com/edusaas/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Idempotency backends accepted in webhook.idempotency_backend
const (
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// IdempotencyStoreFactory creates the webhook idempotency store from configuration
type IdempotencyStoreFactory struct {
	webhook               config.WebhookConfig
	redis                 config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// IdempotencyStoreFactoryOption configures the factory
type IdempotencyStoreFactoryOption func(*IdempotencyStoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) IdempotencyStoreFactoryOption {
	return func(f *IdempotencyStoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis degrades to the
// in-memory store. Default true.
func WithInMemoryFallback(allow bool) IdempotencyStoreFactoryOption {
	return func(f *IdempotencyStoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewIdempotencyStoreFactory creates a new factory
func NewIdempotencyStoreFactory(webhook config.WebhookConfig, redis config.RedisConfig, opts ...IdempotencyStoreFactoryOption) *IdempotencyStoreFactory {
	f := &IdempotencyStoreFactory{
		webhook:               webhook,
		redis:                 redis,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateStore returns the configured store, or nil when the guard is disabled.
// A nil store means every delivery is processed, duplicates included.
func (f *IdempotencyStoreFactory) CreateStore(ctx context.Context) (shared.IdempotencyStore, error) {
	if !f.webhook.IdempotencyEnabled {
		f.logger.Info("webhook idempotency guard disabled; redeliveries are processed again")
		return nil, nil
	}

	switch f.webhook.IdempotencyBackend {
	case BackendMemory:
		f.logger.Info("using in-memory webhook idempotency store")
		return NewInMemoryIdempotencyStore(), nil
	case BackendRedis, "":
		store, err := NewRedisIdempotencyStore(ctx, f.redis)
		if err == nil {
			f.logger.Info("using Redis webhook idempotency store", zap.String("addr", f.redis.Addr()))
			return store, nil
		}
		if !f.allowInMemoryFallback {
			return nil, fmt.Errorf("redis required for webhook idempotency but unavailable: %w", err)
		}
		f.logger.Warn("Redis unavailable, falling back to in-memory idempotency store. "+
			"Duplicate events may be processed when several instances receive webhooks.",
			zap.Error(err))
		return NewInMemoryIdempotencyStore(), nil
	default:
		return nil, fmt.Errorf("unknown idempotency backend %q", f.webhook.IdempotencyBackend)
	}
}
