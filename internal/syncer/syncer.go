// internal/syncer/syncer.go
package syncer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	custom_errors "portfolio-sync/internal/errors"
	"portfolio-sync/internal/model"
	"portfolio-sync/internal/overlay"
	"portfolio-sync/internal/reconcile"
)

const defaultConcurrency = 5

// RemoteSource enumerates the account's repositories.
type RemoteSource interface {
	ListRepositories(ctx context.Context) ([]model.RemoteRepository, error)
}

// OverlayFetcher returns nil metadata when a repository carries no usable overlay.
type OverlayFetcher interface {
	Fetch(ctx context.Context, owner, repo, ref string) (*overlay.Metadata, error)
}

// StatsCollector never fails; missing statistics come back as zero values.
type StatsCollector interface {
	Collect(ctx context.Context, owner, repo string) model.DerivedStats
}

// Store is the subset of the Cache Store written by a pass.
type Store interface {
	Upsert(ctx context.Context, repo model.Repository) (model.Repository, error)
	Delete(ctx context.Context, id int64) error
}

// Invalidator drops derived caches once a pass has written new data.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Deps are the collaborators of a Syncer. Cache may be nil.
type Deps struct {
	Remote     RemoteSource
	Overlays   OverlayFetcher
	Stats      StatsCollector
	Reconciler *reconcile.Reconciler
	Store      Store
	Cache      Invalidator
}

// Options tune pass execution and scheduling.
type Options struct {
	Concurrency  int
	ListRetries  int
	Interval     time.Duration
	Cron         string
	RunOnStartup bool
}

// Result is the outcome of one sync pass. UpdatedCount counts successful upserts only.
type Result struct {
	RunID        string
	UpdatedCount int
	Errors       []string
	Repositories []model.Repository
}

// Syncer orchestrates enumeration, overlay and stats fetching, reconciliation and storage.
type Syncer struct {
	deps   Deps
	opts   Options
	logger *slog.Logger

	now       func() time.Time
	sleep     func(ctx context.Context, d time.Duration) error
	retryBase time.Duration

	background sync.WaitGroup
}

// NewSyncer creates a new Syncer instance.
func NewSyncer(deps Deps, opts Options, logger *slog.Logger) *Syncer {
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultConcurrency
	}
	if deps.Reconciler == nil {
		deps.Reconciler = reconcile.New("")
	}
	return &Syncer{
		deps:      deps,
		opts:      opts,
		logger:    logger,
		now:       time.Now,
		sleep:     sleepCtx,
		retryBase: time.Second,
	}
}

// RunSync performs one complete pass and waits for it. The error is non-nil only when the
// repositories could not be enumerated; per-repository failures are listed in Result.Errors.
func (s *Syncer) RunSync(ctx context.Context) (Result, error) {
	res := Result{RunID: uuid.NewString()}
	logger := s.logger.With("run_id", res.RunID)
	started := s.now()
	logger.Info("Starting sync pass", "concurrency", s.opts.Concurrency)

	remotes, err := s.listWithRetry(ctx, logger)
	if err != nil {
		logger.Error("Sync pass aborted, could not enumerate repositories", "error", err)
		return res, fmt.Errorf("enumerate repositories: %w", err)
	}

	candidates := make([]model.RemoteRepository, 0, len(remotes))
	for _, r := range remotes {
		if !r.Fork {
			candidates = append(candidates, r)
			continue
		}
		if err := s.deps.Store.Delete(ctx, r.ID); err != nil && !errors.Is(err, custom_errors.ErrNotFound) {
			res.Errors = append(res.Errors, fmt.Sprintf("%s: remove fork: %v", r.Name, err))
		} else if err == nil {
			logger.Info("Removed forked repository from cache", "repo", r.FullName)
		}
	}
	logger.Info("Enumerated repositories", "total", len(remotes), "forks", len(remotes)-len(candidates))

	stored := make([]*model.Repository, len(candidates))
	failures := make([]error, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Concurrency)
	for i, remote := range candidates {
		g.Go(func() error {
			repo, err := s.syncRepo(gctx, logger, remote)
			if err != nil {
				failures[i] = err
				return nil
			}
			stored[i] = &repo
			return nil
		})
	}
	_ = g.Wait()

	res.Repositories = make([]model.Repository, 0, len(candidates))
	for i, remote := range candidates {
		if failures[i] != nil {
			logger.Error("Failed to sync repository", "repo", remote.FullName, "error", failures[i])
			res.Errors = append(res.Errors, fmt.Sprintf("%s: %v", remote.Name, failures[i]))
			continue
		}
		res.Repositories = append(res.Repositories, *stored[i])
	}
	res.UpdatedCount = len(res.Repositories)
	model.SortForListing(res.Repositories)

	if s.deps.Cache != nil {
		if err := s.deps.Cache.Invalidate(context.WithoutCancel(ctx)); err != nil {
			logger.Warn("Failed to invalidate listing cache", "error", err)
		}
	}

	logger.Info("Sync pass finished",
		"updated", res.UpdatedCount,
		"failed", len(res.Errors),
		"duration", s.now().Sub(started).String(),
	)
	return res, nil
}

// syncRepo handles overlay, stats, reconciliation and storage for one repository.
func (s *Syncer) syncRepo(ctx context.Context, logger *slog.Logger, remote model.RemoteRepository) (model.Repository, error) {
	logger = logger.With("repo", remote.FullName)
	logger.Debug("Syncing repository")

	meta, err := s.deps.Overlays.Fetch(ctx, remote.Owner, remote.Name, remote.Branch())
	if err != nil {
		return model.Repository{}, fmt.Errorf("fetch overlay: %w", err)
	}

	st := s.deps.Stats.Collect(ctx, remote.Owner, remote.Name)

	record := s.deps.Reconciler.Merge(remote, meta, st)
	record.CachedAt = s.now().UTC()

	saved, err := s.deps.Store.Upsert(ctx, record)
	if err != nil {
		return model.Repository{}, fmt.Errorf("store: %w", err)
	}
	logger.Debug("Repository synced", "has_portfolio_meta", saved.HasPortfolioMeta)
	return saved, nil
}
