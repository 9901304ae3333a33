// cmd/service/app.go
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"portfolio-sync/internal/config"
	"portfolio-sync/internal/database"
	"portfolio-sync/internal/github"
	"portfolio-sync/internal/listcache"
	"portfolio-sync/internal/logging"
	"portfolio-sync/internal/overlay"
	"portfolio-sync/internal/reconcile"
	"portfolio-sync/internal/stats"
	"portfolio-sync/internal/store"
	"portfolio-sync/internal/syncer"
)

// app holds the process-wide dependencies, built once and released by Close.
type app struct {
	cfg    *config.Config
	logger *logging.Logger
	pool   *pgxpool.Pool
	redis  *listcache.Redis
	cache  listcache.Cache
	store  *store.Store
	syncer *syncer.Syncer
}

func newLogger(cfg *config.Config) *logging.Logger {
	return logging.New(logging.Options{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
		Compress:   cfg.LogCompress,
	}, os.Stdout)
}

func newApp(ctx context.Context) (_ *app, err error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	a := &app{cfg: cfg, logger: newLogger(cfg)}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()
	a.logger.Info("Configuration loaded successfully", "http_addr", cfg.HTTPAddr, "authenticated", cfg.GithubToken != "")

	if err := runMigrations(cfg.MigrationsPath, cfg.DBURL); err != nil {
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}
	a.logger.Info("Database migrations applied successfully")

	poolCfg, err := pgxpool.ParseConfig(cfg.DBURL)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_URL: %w", err)
	}
	if cfg.DBMaxConns > 0 {
		poolCfg.MaxConns = cfg.DBMaxConns
	}
	a.pool, err = pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := a.pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	a.logger.Info("Database connection established")

	a.cache = listcache.Noop{}
	if cfg.RedisURL != "" {
		rc, rerr := listcache.NewRedis(ctx, cfg.RedisURL, cfg.ListCacheTTL, a.logger.With("component", "listcache"))
		if rerr != nil {
			a.logger.Warn("Listing cache disabled, Redis unavailable", "error", rerr)
		} else {
			a.redis, a.cache = rc, rc
		}
	}

	a.store = store.New(database.New(a.pool), a.logger.With("component", "store"))

	a.syncer, err = buildSyncer(cfg, a.logger, a.store, a.cache)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func buildSyncer(cfg *config.Config, logger *logging.Logger, st syncer.Store, cache syncer.Invalidator) (*syncer.Syncer, error) {
	gh, err := github.NewClient(github.Options{
		Token:    cfg.GithubToken,
		Username: cfg.GithubUsername,
		BaseURL:  cfg.GithubAPIURL,
		Timeout:  cfg.GithubTimeout,
	}, logger.With("component", "github"))
	if err != nil {
		return nil, fmt.Errorf("failed to create github client: %w", err)
	}

	return syncer.NewSyncer(syncer.Deps{
		Remote:     gh,
		Overlays:   overlay.NewFetcher(gh, cfg.OverlayPath, logger.With("component", "overlay")),
		Stats:      stats.NewCollector(gh, logger.With("component", "stats")),
		Reconciler: reconcile.New(cfg.GithubRawURL),
		Store:      st,
		Cache:      cache,
	}, syncer.Options{
		Concurrency:  cfg.SyncConcurrency,
		ListRetries:  cfg.SyncListRetries,
		Interval:     cfg.SyncInterval,
		Cron:         cfg.SyncCron,
		RunOnStartup: cfg.SyncOnStartup,
	}, logger.With("component", "syncer")), nil
}

func (a *app) Close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.pool != nil {
		a.pool.Close()
	}
	_ = a.logger.Close()
}
