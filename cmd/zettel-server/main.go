// Package main is the entry point for the Zettel notes server.
// Zettel is a small multi-user note-taking web service.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/prn-tf/zettel-notes/internal/cache/memory"
	rediscache "github.com/prn-tf/zettel-notes/internal/cache/redis"
	"github.com/prn-tf/zettel-notes/internal/config"
	"github.com/prn-tf/zettel-notes/internal/handler"
	"github.com/prn-tf/zettel-notes/internal/i18n"
	"github.com/prn-tf/zettel-notes/internal/repository"
	"github.com/prn-tf/zettel-notes/internal/repository/postgres"
	"github.com/prn-tf/zettel-notes/internal/repository/sqlite"
	"github.com/prn-tf/zettel-notes/internal/service"
	"github.com/prn-tf/zettel-notes/internal/session"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	flag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339Nano
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg := config.MustLoad(*configPath)
	configureLogging(cfg.Logging)

	log.Info().
		Str("version", Version).
		Str("build_time", BuildTime).
		Str("git_commit", GitCommit).
		Str("driver", cfg.Database.Driver).
		Msg("Starting Zettel Notes Server")

	if err := run(cfg, log.Logger); err != nil {
		log.Fatal().Err(err).Msg("server exited with error")
	}
}

func configureLogging(cfg config.LoggingConfig) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "json" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
}

func run(cfg *config.Config, logger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, db, err := buildRepositories(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	// Cache: redis when configured, in-process otherwise. The user cache
	// only serves session rehydration, so either backend works.
	var userCache repository.Cache
	if cfg.Redis.Enabled {
		redisCache, err := rediscache.NewCache(ctx, cfg.Redis, logger)
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer redisCache.Close()
		userCache = redisCache
	} else {
		memCache := memory.NewCache()
		defer memCache.Stop()
		userCache = memCache
	}
	repos.WithUserCache(repository.NewCachedUserRepository(
		repos.User, userCache, cfg.Session.UserCacheTTL, logger,
	))

	bundle, err := i18n.NewBundle(cfg.Locale.Default)
	if err != nil {
		return fmt.Errorf("load locales: %w", err)
	}

	sessions := session.NewStore()
	userService := service.NewUserService(repos.User, logger)
	sessionService := service.NewSessionService(userService, sessions, logger)
	noteService := service.NewNoteService(repos.Note, logger)

	web, err := handler.NewWebHandler(handler.WebConfig{
		UserService:    userService,
		SessionService: sessionService,
		NoteService:    noteService,
		Bundle:         bundle,
		Session:        cfg.Session,
		Locale:         cfg.Locale,
		Logger:         logger,
	})
	if err != nil {
		return fmt.Errorf("create web handler: %w", err)
	}

	router := handler.NewRouter(handler.RouterConfig{
		Web:    web,
		Health: db,
		Logger: logger,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 2)

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	var metricsSrv *http.Server
	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, promhttp.Handler())
		metricsSrv = &http.Server{
			Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Metrics.Port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info().Str("addr", metricsSrv.Addr).Str("path", cfg.Metrics.Path).Msg("metrics listener started")
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("metrics server: %w", err)
			}
		}()
	}

	select {
	case <-ctx.Done():
		logger.Info().Msg("Shutting down server...")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
	if metricsSrv != nil {
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("metrics shutdown failed")
		}
	}

	logger.Info().Msg("server stopped")
	return nil
}

// buildRepositories opens the configured database, runs migrations, and
// returns the repository set plus a handle for health checks and shutdown.
func buildRepositories(ctx context.Context, cfg config.DatabaseConfig, logger zerolog.Logger) (*repository.Repositories, repository.DatabaseHealth, error) {
	switch cfg.Driver {
	case "sqlite":
		db, err := sqlite.NewDB(ctx, sqlite.Config{
			Path:            cfg.Path,
			MaxOpenConns:    1,
			MaxIdleConns:    1,
			ConnMaxLifetime: cfg.ConnMaxLifetime,
			JournalMode:     cfg.JournalMode,
			BusyTimeout:     cfg.BusyTimeout,
			CacheSize:       cfg.CacheSize,
			SynchronousMode: cfg.SynchronousMode,
		}, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite database: %w", err)
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("migrate sqlite database: %w", err)
		}
		return &repository.Repositories{
			User: sqlite.NewUserRepository(db),
			Note: sqlite.NewNoteRepository(db),
		}, db, nil

	case "postgres":
		db, err := postgres.NewDB(ctx, cfg, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres database: %w", err)
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("migrate postgres database: %w", err)
		}
		return &repository.Repositories{
			User: postgres.NewUserRepository(db),
			Note: postgres.NewNoteRepository(db),
		}, db, nil

	default:
		return nil, nil, fmt.Errorf("unknown database driver: %q", cfg.Driver)
	}
}
