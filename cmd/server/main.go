package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/courtsplit/courtsplit/internal/config"
	"github.com/courtsplit/courtsplit/internal/domain/activity"
	"github.com/courtsplit/courtsplit/internal/domain/advice"
	"github.com/courtsplit/courtsplit/internal/domain/allocation"
	"github.com/courtsplit/courtsplit/internal/domain/wizard"
	"github.com/courtsplit/courtsplit/internal/gemini"
	"github.com/courtsplit/courtsplit/internal/logging"
	"github.com/courtsplit/courtsplit/internal/mcp"
	"github.com/courtsplit/courtsplit/internal/postgres"
	"github.com/courtsplit/courtsplit/internal/sqlite"
	"github.com/courtsplit/courtsplit/internal/transport"
	"github.com/joho/godotenv"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

var version = "dev"

func main() {
	// A missing .env file is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger, logCloser, err := logging.New(logging.Options{
		Level:    cfg.Log.Level,
		Path:     cfg.Log.Path,
		MaxBytes: cfg.Log.MaxBytes,
		Stdio:    cfg.Transport.Mode == "stdio",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "log error: %v\n", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	sessionRepo, activityRepo, closeStore, err := openStore(ctx, cfg.DB, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	formatter, err := allocation.NewFormatter(cfg.Display.Locale, cfg.Display.CurrencySymbol)
	if err != nil {
		return err
	}

	var advisor advice.Advisor
	if cfg.Advice.Enabled {
		advisor = gemini.NewClient(gemini.Config{
			APIKey:      cfg.Advice.APIKey,
			Model:       cfg.Advice.Model,
			BaseURL:     cfg.Advice.BaseURL,
			Timeout:     cfg.Advice.Timeout,
			Temperature: cfg.Advice.Temperature,
		}, logger)
		if cfg.Advice.APIKey == "" {
			logger.Warn("advice enabled without an API key; suggestions will fall back")
		}
	}

	adviceSvc := advice.NewService(advisor, cfg.Advice.Timeout, logger)
	activitySvc := activity.NewService(activityRepo, logger)
	wizardSvc := wizard.NewService(sessionRepo, adviceSvc, activitySvc, logger)

	services := mcp.Services{Wizard: wizardSvc, Advice: adviceSvc, Activity: activitySvc}
	mcpServer := mcp.NewServer(mcp.Config{
		Services:  services,
		Formatter: formatter,
		Logger:    logger,
		Version:   version,
	})

	go sweepIdle(ctx, logger, wizardSvc, cfg.Wizard)

	if cfg.Transport.Mode == "stdio" {
		return runStdioMode(ctx, logger, mcpServer)
	}
	router := transport.NewServer(transport.Config{
		Services:  services,
		Formatter: formatter,
		Logger:    logger,
		MCP: sdkmcp.NewStreamableHTTPHandler(
			func(*http.Request) *sdkmcp.Server { return mcpServer },
			&sdkmcp.StreamableHTTPOptions{SessionTimeout: 30 * time.Minute},
		),
	})
	return runHTTPMode(ctx, logger, router, cfg.Server.Addr())
}

// openStore opens the configured database and applies migrations.
func openStore(ctx context.Context, cfg config.DBConfig, logger *slog.Logger) (wizard.Repository, activity.Repository, func(), error) {
	switch cfg.Driver {
	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg.URL)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, nil, err
		}
		logger.Info("database ready", "driver", "postgres")
		return postgres.NewSessionRepository(pool), postgres.NewActivityRepository(pool), pool.Close, nil
	default:
		if err := ensureDBDir(cfg.Path); err != nil {
			return nil, nil, nil, fmt.Errorf("prepare database path: %w", err)
		}
		db, err := sqlite.New(cfg.Path)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := db.RunMigrationsContext(ctx); err != nil {
			_ = db.Close()
			return nil, nil, nil, err
		}
		logger.Info("database ready", "driver", "sqlite", "path", cfg.Path)
		return sqlite.NewSessionRepository(db), sqlite.NewActivityRepository(db), func() { _ = db.Close() }, nil
	}
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// sweepIdle deletes abandoned wizard sessions until ctx ends.
func sweepIdle(ctx context.Context, logger *slog.Logger, svc *wizard.Service, cfg config.WizardConfig) {
	if cfg.IdleTimeout <= 0 || cfg.SweepInterval <= 0 {
		return
	}
	ticker := time.NewTicker(cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if _, err := svc.PurgeIdle(ctx, now.Add(-cfg.IdleTimeout)); err != nil && ctx.Err() == nil {
				logger.Error("idle sweep failed", "error", err)
			}
		}
	}
}

func runStdioMode(ctx context.Context, logger *slog.Logger, mcpServer *sdkmcp.Server) error {
	logger.Info("starting stdio transport")

	// Run blocks until stdin closes or ctx is cancelled.
	if err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		return fmt.Errorf("stdio server: %w", err)
	}
	logger.Info("shutting down")
	return nil
}

func runHTTPMode(ctx context.Context, logger *slog.Logger, handler http.Handler, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
