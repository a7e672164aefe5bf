package main

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/autoji/autoji/internal/api"
	"github.com/autoji/autoji/internal/browser"
	"github.com/autoji/autoji/internal/config"
	"github.com/autoji/autoji/internal/database"
	"github.com/autoji/autoji/internal/emoji"
	"github.com/autoji/autoji/internal/extractor"
	"github.com/autoji/autoji/internal/settings"
	"github.com/autoji/autoji/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Logging)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, cleanup, err := newProductStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize product store", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	settingsStore, err := newSettingsStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize settings store", "error", err)
		os.Exit(1)
	}

	var fetcher browser.Fetcher
	if cfg.Browser.Enabled {
		opts := browser.DefaultOptions()
		opts.Headless = cfg.Browser.Headless
		opts.Timeout = cfg.Browser.Timeout
		opts.MaxRetries = cfg.Browser.Retries

		b, err := browser.New(logger, opts)
		if err != nil {
			logger.Error("failed to initialize browser", "error", err)
			os.Exit(1)
		}
		defer b.Close()
		fetcher = b
	}

	handlers := api.NewHandlers(
		store,
		extractor.New(logger),
		emoji.NewService(logger),
		settingsStore,
		fetcher,
		logger,
	)

	server := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:      api.NewRouter(handlers),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		logger.Info("shutting down server")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown failed", "error", err)
		}
	}()

	logger.Info("server starting", "addr", server.Addr, "storage", cfg.Storage.Backend)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

func newProductStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.ProductStore, func(), error) {
	if cfg.Storage.Backend == "postgres" {
		db, err := database.New(ctx, database.Config{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			Database: cfg.Database.DBName,
		})
		if err != nil {
			return nil, nil, err
		}

		store := database.NewProductStore(db)
		if err := store.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}

		logger.Info("using postgres product store", "host", cfg.Database.Host, "db", cfg.Database.DBName)
		return store, db.Close, nil
	}

	store, err := storage.NewFileStore(cfg.Storage.File)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("using file product store", "file", cfg.Storage.File)
	return store, func() {}, nil
}

func newSettingsStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (settings.Store, error) {
	if !cfg.Redis.Enabled {
		return settings.NewMemoryStore(), nil
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	logger.Info("using redis settings store", "addr", cfg.Redis.Addr)
	return settings.NewRedisStore(client, logger), nil
}
