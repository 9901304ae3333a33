// internal/github/counts.go
package github

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/go-github/v62/github"
)

var errNoPagination = errors.New("response carried no pagination metadata")

// countStrategy is one way of recovering a total from the API. Strategies are tried in
// order and the first success wins.
type countStrategy struct {
	name  string
	count func(ctx context.Context, owner, repo string) (int, error)
}

// CommitCount returns the total number of commits on the default branch.
// It returns 0 and the joined strategy errors when every strategy fails.
func (c *Client) CommitCount(ctx context.Context, owner, repo string) (int, error) {
	return c.firstCount(ctx, "commits", owner, repo, c.commitStrategies())
}

// ContributorCount returns the number of contributors to a repository.
func (c *Client) ContributorCount(ctx context.Context, owner, repo string) (int, error) {
	return c.firstCount(ctx, "contributors", owner, repo, c.contributorStrategies())
}

func (c *Client) commitStrategies() []countStrategy {
	return []countStrategy{
		{name: "contributor-sum", count: c.sumContributions},
		{name: "commit-link-header", count: c.commitsFromLinkHeader},
	}
}

func (c *Client) contributorStrategies() []countStrategy {
	return []countStrategy{
		{name: "link-header", count: c.contributorsFromLinkHeader},
		{name: "list-count", count: c.contributorsFromList},
	}
}

func (c *Client) firstCount(ctx context.Context, metric, owner, repo string, strategies []countStrategy) (int, error) {
	var errs []error
	for _, s := range strategies {
		n, err := s.count(ctx, owner, repo)
		if err == nil {
			c.logger.Debug("Resolved count", "metric", metric, "owner", owner, "repo", repo, "strategy", s.name, "count", n)
			return n, nil
		}
		c.logger.Debug("Count strategy failed", "metric", metric, "owner", owner, "repo", repo, "strategy", s.name, "error", err)
		errs = append(errs, fmt.Errorf("%s: %w", s.name, err))
	}
	return 0, errors.Join(errs...)
}

// sumContributions adds up per-contributor commit counts across every contributors page.
func (c *Client) sumContributions(ctx context.Context, owner, repo string) (int, error) {
	opts := &github.ListContributorsOptions{
		ListOptions: github.ListOptions{PerPage: listPageSize},
	}

	total := 0
	for {
		contributors, resp, err := c.gh.Repositories.ListContributors(ctx, owner, repo, opts)
		if err != nil {
			return 0, wrapErr("list contributors", owner, repo, resp, err)
		}
		for _, ctb := range contributors {
			total += ctb.GetContributions()
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return total, nil
}

// commitsFromLinkHeader lists commits one per page; the rel="last" page number is then the total.
func (c *Client) commitsFromLinkHeader(ctx context.Context, owner, repo string) (int, error) {
	commits, resp, err := c.gh.Repositories.ListCommits(ctx, owner, repo, &github.CommitsListOptions{
		ListOptions: github.ListOptions{PerPage: 1},
	})
	if err != nil {
		return 0, wrapErr("list commits", owner, repo, resp, err)
	}
	if resp.LastPage > 0 {
		return resp.LastPage, nil
	}
	return len(commits), nil
}

func (c *Client) contributorsFromLinkHeader(ctx context.Context, owner, repo string) (int, error) {
	_, resp, err := c.gh.Repositories.ListContributors(ctx, owner, repo, &github.ListContributorsOptions{
		ListOptions: github.ListOptions{PerPage: 1},
	})
	if err != nil {
		return 0, wrapErr("list contributors", owner, repo, resp, err)
	}
	if resp.LastPage == 0 {
		return 0, errNoPagination
	}
	return resp.LastPage, nil
}

func (c *Client) contributorsFromList(ctx context.Context, owner, repo string) (int, error) {
	contributors, resp, err := c.gh.Repositories.ListContributors(ctx, owner, repo, &github.ListContributorsOptions{
		ListOptions: github.ListOptions{PerPage: listPageSize},
	})
	if err != nil {
		return 0, wrapErr("list contributors", owner, repo, resp, err)
	}
	return len(contributors), nil
}
