// internal/syncer/schedule.go
package syncer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Start runs scheduled passes until ctx is cancelled. A cron expression takes precedence
// over the fixed interval; with neither configured only the optional startup pass runs.
func (s *Syncer) Start(ctx context.Context) error {
	if s.opts.RunOnStartup {
		s.runScheduled(ctx)
	}

	switch {
	case s.opts.Cron != "":
		return s.startCron(ctx)
	case s.opts.Interval > 0:
		s.startTicker(ctx)
		return nil
	default:
		s.logger.Info("No sync schedule configured, passes run on demand only")
		<-ctx.Done()
		return nil
	}
}

func (s *Syncer) startTicker(ctx context.Context) {
	s.logger.Info("Starting syncer", "interval", s.opts.Interval.String(), "concurrency", s.opts.Concurrency)
	ticker := time.NewTicker(s.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.runScheduled(ctx)
		case <-ctx.Done():
			s.logger.Info("Syncer shutting down", "reason", ctx.Err())
			return
		}
	}
}

func (s *Syncer) startCron(ctx context.Context) error {
	cl := cronLogger{s.logger}
	c := cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	if _, err := c.AddFunc(s.opts.Cron, func() { s.runScheduled(ctx) }); err != nil {
		return fmt.Errorf("schedule %q: %w", s.opts.Cron, err)
	}

	s.logger.Info("Starting syncer", "cron", s.opts.Cron, "concurrency", s.opts.Concurrency)
	c.Start()
	<-ctx.Done()
	s.logger.Info("Syncer shutting down", "reason", ctx.Err())
	<-c.Stop().Done()
	return nil
}

func (s *Syncer) runScheduled(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if _, err := s.RunSync(ctx); err != nil {
		s.logger.Error("Scheduled sync pass failed", "error", err)
	}
}

// RunAsync starts a pass detached from ctx's cancellation and returns immediately.
// The pass can be awaited with Wait but not cancelled.
func (s *Syncer) RunAsync(ctx context.Context) {
	detached := context.WithoutCancel(ctx)
	s.background.Add(1)
	go func() {
		defer s.background.Done()
		res, err := s.RunSync(detached)
		if err != nil {
			s.logger.Error("Background sync pass failed", "run_id", res.RunID, "error", err)
		}
	}()
}

// Wait blocks until every background pass has finished or ctx is done.
func (s *Syncer) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.background.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// cronLogger routes scheduler events through slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
