// internal/stats/stats.go

// Package stats derives size and activity statistics for a repository from the hosting
// API's secondary endpoints. Collection is best-effort and never fails.
package stats

import (
	"context"
	"log/slog"

	"portfolio-sync/internal/model"
)

// BytesPerLine is the average source line length used to estimate line counts.
const BytesPerLine = 40

// Source is the subset of the hosting API client used for statistics.
type Source interface {
	Languages(ctx context.Context, owner, repo string) (map[string]int64, error)
	CommitCount(ctx context.Context, owner, repo string) (int, error)
	ContributorCount(ctx context.Context, owner, repo string) (int, error)
}

// Collector gathers DerivedStats.
type Collector struct {
	src    Source
	logger *slog.Logger
}

func NewCollector(src Source, logger *slog.Logger) *Collector {
	return &Collector{src: src, logger: logger}
}

// Collect fetches every statistic, degrading each failed call to its zero value.
func (c *Collector) Collect(ctx context.Context, owner, repo string) model.DerivedStats {
	logger := c.logger.With("owner", owner, "repo", repo)
	st := model.DerivedStats{Languages: map[string]int64{}}

	langs, err := c.src.Languages(ctx, owner, repo)
	if err != nil {
		logger.Warn("Failed to fetch language stats", "error", err)
	} else {
		for lang, n := range langs {
			st.Languages[lang] = n
			st.TotalBytes += n
		}
		st.EstimatedLines = EstimateLines(st.TotalBytes)
	}

	if st.CommitCount, err = c.src.CommitCount(ctx, owner, repo); err != nil {
		logger.Warn("Failed to count commits", "error", err)
		st.CommitCount = 0
	}

	if st.ContributorCount, err = c.src.ContributorCount(ctx, owner, repo); err != nil {
		logger.Warn("Failed to count contributors", "error", err)
		st.ContributorCount = 0
	}

	return st
}

// EstimateLines converts a byte count into an approximate number of source lines.
func EstimateLines(totalBytes int64) int {
	if totalBytes <= 0 {
		return 0
	}
	return int(totalBytes / BytesPerLine)
}
