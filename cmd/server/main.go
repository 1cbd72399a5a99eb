package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/edusaas/backend/internal/infrastructure/config"
	"github.com/edusaas/backend/internal/infrastructure/logger"
	"github.com/edusaas/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"

	_ "github.com/edusaas/backend/docs"
)

//	@title			EduSaaS Backend API
//	@version		1.0
//	@description	White-label education platform: institutions, classes and Stripe-backed student subscriptions.

//	@contact.name	API Support
//	@contact.email	support@edusaas.example.com

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

const (
	appVersion      = "1.0.0"
	shutdownTimeout = 30 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
		Fields: map[string]string{
			"service":     cfg.Telemetry.ServiceName,
			"environment": cfg.App.Env,
		},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, cfg, log)
	stop()
	if err != nil {
		log.Error("Server stopped with error", zap.Error(err))
		_ = logger.Sync(log)
		os.Exit(1)
	}
	_ = logger.Sync(log)
}

// run wires the application and serves until ctx is cancelled. Everything it
// opens is closed in reverse order before it returns.
func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	var cleanup teardown
	defer func() { cleanup.run(log) }()

	// telemetry first so every component below logs through the bridge
	tel, err := telemetry.Setup(ctx, cfg.Telemetry, log)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	cleanup.add("telemetry", tel.Shutdown)
	log = telemetry.BridgeLogger(log, cfg.Telemetry.ServiceName, tel.Logs)

	log.Info("Starting EduSaaS Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", appVersion),
	)

	a, err := buildApp(ctx, cfg, log, tel, &cleanup)
	if err != nil {
		return err
	}
	engine, err := newEngine(cfg, log, tel, a, &cleanup)
	if err != nil {
		return err
	}

	return serve(ctx, &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}, log)
}

func serve(ctx context.Context, srv *http.Server, log *zap.Logger) error {
	listenErr := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		listenErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-listenErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen on %s: %w", srv.Addr, err)
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	log.Info("Server exited gracefully")
	return nil
}

// teardown closes resources last-opened first
type teardown struct {
	steps []teardownStep
}

type teardownStep struct {
	name  string
	close func(context.Context) error
}

func (t *teardown) add(name string, close func(context.Context) error) {
	t.steps = append(t.steps, teardownStep{name, close})
}

// addCloser adapts io.Closer-style cleanups
func (t *teardown) addCloser(name string, close func() error) {
	t.add(name, func(context.Context) error { return close() })
}

func (t *teardown) run(log *zap.Logger) {
	for i := len(t.steps) - 1; i >= 0; i-- {
		step := t.steps[i]
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := step.close(ctx); err != nil {
			log.Error("Cleanup failed", zap.String("component", step.name), zap.Error(err))
		}
		cancel()
	}
	t.steps = nil
}
