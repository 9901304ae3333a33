// internal/overlay/fetcher.go
package overlay

import (
	"context"
	"errors"
	"log/slog"

	custom_errors "portfolio-sync/internal/errors"
)

// ContentSource reads a file from a repository at a given ref.
type ContentSource interface {
	FileContent(ctx context.Context, owner, repo, path, ref string) ([]byte, error)
}

// Fetcher retrieves and parses the overlay document of a repository.
type Fetcher struct {
	src    ContentSource
	path   string
	logger *slog.Logger
}

// NewFetcher creates a Fetcher reading the document at path (DefaultPath when empty).
func NewFetcher(src ContentSource, path string, logger *slog.Logger) *Fetcher {
	if path == "" {
		path = DefaultPath
	}
	return &Fetcher{src: src, path: path, logger: logger}
}

// Fetch returns the repository's overlay, or nil when it has none.
//
// A missing document, a non-success response, or a document that fails to decode all
// yield (nil, nil). Only transport failures and rate limiting are returned as errors,
// since the remote state is then unknown.
func (f *Fetcher) Fetch(ctx context.Context, owner, repo, ref string) (*Metadata, error) {
	logger := f.logger.With("owner", owner, "repo", repo, "path", f.path)

	raw, err := f.src.FileContent(ctx, owner, repo, f.path, ref)
	switch {
	case err == nil:
	case errors.Is(err, custom_errors.ErrNotFound):
		logger.Debug("No overlay document")
		return nil, nil
	case custom_errors.IsRateLimited(err), custom_errors.IsTransport(err), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return nil, err
	case custom_errors.HasResponse(err):
		logger.Warn("Failed to fetch overlay document, treating as absent", "error", err)
		return nil, nil
	default:
		logger.Warn("Failed to read overlay document, treating as absent", "error", err)
		return nil, nil
	}

	meta, err := Parse(raw)
	if err != nil {
		logger.Error("Failed to parse overlay document, treating as absent", "error", err)
		return nil, nil
	}
	return meta, nil
}
