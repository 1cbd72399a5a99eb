package main

import (
	"context"
	"errors"
	"testing"

	"github.com/edusaas/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestTeardown_ReverseOrderAndKeepsGoing(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	var closed []string
	var td teardown
	td.addCloser("database", func() error { closed = append(closed, "database"); return nil })
	td.add("event bus", func(context.Context) error {
		closed = append(closed, "event bus")
		return errors.New("already stopped")
	})
	td.addCloser("redis", func() error { closed = append(closed, "redis"); return nil })

	td.run(zap.New(core))
	td.run(zap.New(core))

	assert.Equal(t, []string{"redis", "event bus", "database"}, closed)
	if assert.Equal(t, 1, logs.Len()) {
		assert.Equal(t, "event bus", logs.All()[0].ContextMap()["component"])
	}
}

func TestCORSConfig(t *testing.T) {
	c := corsConfig(config.HTTPConfig{})
	assert.Empty(t, c.AllowOrigins)
	assert.Contains(t, c.AllowMethods, "PUT")

	c = corsConfig(config.HTTPConfig{
		CORSAllowOrigins: []string{"https://sunrise.edusaas.example.com"},
		CORSAllowMethods: []string{"GET"},
	})
	assert.Equal(t, []string{"https://sunrise.edusaas.example.com"}, c.AllowOrigins)
	assert.Equal(t, []string{"GET"}, c.AllowMethods)
	assert.Contains(t, c.AllowHeaders, "Authorization")
}
