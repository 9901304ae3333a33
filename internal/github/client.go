// internal/github/client.go
package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	custom_errors "portfolio-sync/internal/errors"
	"portfolio-sync/internal/model"
)

const (
	// listPageSize is the largest page the listing endpoints accept.
	listPageSize   = 100
	defaultTimeout = 30 * time.Second
)

var errNotAFile = errors.New("path is not a file")

// Options configures a Client.
type Options struct {
	// Token switches listing to every owner-affiliated repository visible to the credential.
	Token string
	// Username is the account listed when no Token is configured.
	Username string
	// BaseURL overrides the API root, e.g. for GitHub Enterprise or tests.
	BaseURL string
	Timeout time.Duration
}

// Client is a wrapper around the go-github client.
type Client struct {
	gh            *github.Client
	logger        *slog.Logger
	username      string
	authenticated bool
	pageSize      int
}

// NewClient creates and configures a new Client instance.
// When a token is provided it is used to create an authenticated http.Client.
func NewClient(opts Options, logger *slog.Logger) (*Client, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}

	httpClient := &http.Client{Timeout: opts.Timeout}
	if opts.Token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: opts.Token},
		)
		httpClient = oauth2.NewClient(context.Background(), ts)
		httpClient.Timeout = opts.Timeout
	}

	gh := github.NewClient(httpClient)
	if opts.BaseURL != "" {
		base := opts.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("invalid github base url %q: %w", opts.BaseURL, err)
		}
		gh.BaseURL = u
	}

	return &Client{
		gh:            gh,
		logger:        logger,
		username:      opts.Username,
		authenticated: opts.Token != "",
		pageSize:      listPageSize,
	}, nil
}

// ListRepositories fetches every repository in the configured scope, following pages
// until a short or empty page is returned. Order is as returned by the API (updated desc).
func (c *Client) ListRepositories(ctx context.Context) ([]model.RemoteRepository, error) {
	var all []model.RemoteRepository

	for page := 1; ; page++ {
		c.logger.Debug("Fetching repositories page", "page", page, "authenticated", c.authenticated)

		repos, resp, err := c.listPage(ctx, page)
		if err != nil {
			return nil, wrapErr("list repositories", c.username, "", resp, err)
		}
		c.logRate(resp)

		for _, r := range repos {
			all = append(all, toRemoteRepository(r))
		}

		if len(repos) < c.pageSize {
			break
		}
	}

	return all, nil
}

func (c *Client) listPage(ctx context.Context, page int) ([]*github.Repository, *github.Response, error) {
	lo := github.ListOptions{PerPage: c.pageSize, Page: page}
	if c.authenticated {
		return c.gh.Repositories.ListByAuthenticatedUser(ctx, &github.RepositoryListByAuthenticatedUserOptions{
			Visibility:  "all",
			Affiliation: "owner",
			Sort:        "updated",
			Direction:   "desc",
			ListOptions: lo,
		})
	}
	return c.gh.Repositories.ListByUser(ctx, c.username, &github.RepositoryListByUserOptions{
		Type:        "owner",
		Sort:        "updated",
		Direction:   "desc",
		ListOptions: lo,
	})
}

// FileContent returns the decoded body of a file at ref. A missing file yields an error
// matching custom_errors.ErrNotFound.
func (c *Client) FileContent(ctx context.Context, owner, repo, path, ref string) ([]byte, error) {
	file, _, resp, err := c.gh.Repositories.GetContents(ctx, owner, repo, path, &github.RepositoryContentGetOptions{Ref: ref})
	if err != nil {
		return nil, wrapErr("get contents", owner, repo, resp, err)
	}
	if file == nil {
		return nil, fmt.Errorf("%s: %w", path, errNotAFile)
	}

	content, err := file.GetContent()
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return []byte(content), nil
}

// Languages returns the per-language byte breakdown of a repository.
func (c *Client) Languages(ctx context.Context, owner, repo string) (map[string]int64, error) {
	langs, resp, err := c.gh.Repositories.ListLanguages(ctx, owner, repo)
	if err != nil {
		return nil, wrapErr("list languages", owner, repo, resp, err)
	}
	c.logRate(resp)

	out := make(map[string]int64, len(langs))
	for lang, n := range langs {
		out[lang] = int64(n)
	}
	return out, nil
}

func (c *Client) logRate(resp *github.Response) {
	if resp == nil {
		return
	}
	c.logger.Debug("GitHub rate limit", "remaining", resp.Rate.Remaining, "limit", resp.Rate.Limit, "reset", resp.Rate.Reset.Time)
}

// wrapErr converts a go-github failure into a RemoteError, keeping the status code and
// any rate-limit reset the API reported.
func wrapErr(op, owner, repo string, resp *github.Response, err error) error {
	re := &custom_errors.RemoteError{Op: op, Owner: owner, Repo: repo, Err: err}
	if resp != nil && resp.Response != nil {
		re.StatusCode = resp.StatusCode
	}

	var rle *github.RateLimitError
	var are *github.AbuseRateLimitError
	switch {
	case errors.As(err, &rle):
		re.RateLimited = true
		re.RetryAt = rle.Rate.Reset.Time
	case errors.As(err, &are):
		re.RateLimited = true
		if are.RetryAfter != nil {
			re.RetryAt = time.Now().Add(*are.RetryAfter)
		}
	}
	return re
}

// toRemoteRepository translates a github.Repository object to our internal model.
func toRemoteRepository(r *github.Repository) model.RemoteRepository {
	out := model.RemoteRepository{
		ID:              r.GetID(),
		Owner:           r.GetOwner().GetLogin(),
		Name:            r.GetName(),
		FullName:        r.GetFullName(),
		Description:     r.Description,
		HTMLURL:         r.GetHTMLURL(),
		Language:        r.Language,
		StargazersCount: r.GetStargazersCount(),
		Topics:          r.Topics,
		DefaultBranch:   r.GetDefaultBranch(),
		Fork:            r.GetFork(),
	}
	if out.FullName == "" && out.Owner != "" {
		out.FullName = out.Owner + "/" + out.Name
	}
	if out.Owner == "" {
		out.Owner, _, _ = strings.Cut(out.FullName, "/")
	}
	if r.CreatedAt != nil {
		t := r.CreatedAt.Time
		out.CreatedAt = &t
	}
	if r.UpdatedAt != nil {
		t := r.UpdatedAt.Time
		out.UpdatedAt = &t
	}
	return out
}
