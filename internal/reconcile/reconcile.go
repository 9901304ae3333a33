// internal/reconcile/reconcile.go

// Package reconcile merges a remote repository, its optional overlay and its derived
// statistics into one canonical record.
//
// Field precedence:
//   - identity, description, URL, language, stars, topics, timestamps: remote
//   - display, classification, timeline, links and list fields: overlay, else defaults
//     (title falls back to the repository name)
//   - lines_of_code, commit_count, contributor_count: a positive overlay value, else a
//     positive derived value; contributor_count finally defaults to 1
package reconcile

import (
	"maps"
	"slices"

	"portfolio-sync/internal/model"
	"portfolio-sync/internal/overlay"
)

// Reconciler is stateless apart from the raw content host used for screenshot URLs.
type Reconciler struct {
	rawBaseURL string
}

func New(rawBaseURL string) *Reconciler {
	if rawBaseURL == "" {
		rawBaseURL = overlay.DefaultRawBaseURL
	}
	return &Reconciler{rawBaseURL: rawBaseURL}
}

// Merge builds the canonical record. It is deterministic; CachedAt is left zero for the
// caller to stamp.
func (r *Reconciler) Merge(remote model.RemoteRepository, meta *overlay.Metadata, st model.DerivedStats) model.Repository {
	branch := remote.Branch()

	repo := model.Repository{
		ID:              remote.ID,
		Name:            remote.Name,
		FullName:        remote.FullName,
		Description:     remote.Description,
		HTMLURL:         remote.HTMLURL,
		Language:        remote.Language,
		StargazersCount: remote.StargazersCount,
		Topics:          slices.Clone(remote.Topics),
		DefaultBranch:   branch,
		GithubCreatedAt: remote.CreatedAt,
		GithubUpdatedAt: remote.UpdatedAt,

		Title:     remote.Name,
		Status:    model.StatusCompleted,
		Languages: maps.Clone(st.Languages),

		HasPortfolioMeta: meta != nil,
	}

	var declaredLines, declaredCommits, declaredContributors *int
	if meta != nil {
		if meta.Title != nil && *meta.Title != "" {
			repo.Title = *meta.Title
		}
		repo.Subtitle = meta.Subtitle
		repo.DetailedDescription = meta.DetailedDescription
		repo.ProjectType = slices.Clone(meta.ProjectType)
		repo.Tags = slices.Clone(meta.Tags)
		repo.Status = meta.Status
		repo.Priority = meta.Priority
		repo.StartDate = meta.StartDate
		repo.EndDate = meta.EndDate
		repo.IsOngoing = meta.IsOngoing
		repo.DemoURL = meta.DemoURL
		repo.DocumentationURL = meta.DocumentationURL
		repo.Challenges = meta.Challenges
		repo.Achievements = meta.Achievements
		repo.ClientName = meta.ClientName

		repo.Features = slices.Clone(meta.Features)
		repo.Technologies = slices.Clone(meta.Technologies)
		repo.Screenshots = overlay.ScreenshotURLs(r.rawBaseURL, remote.Owner, remote.Name, branch, meta.Screenshots)
		repo.Roles = slices.Clone(meta.Roles)

		repo.Architecture = meta.Architecture
		repo.SystemComponents = slices.Clone(meta.SystemComponents)
		repo.CorePrinciples = slices.Clone(meta.CorePrinciples)
		repo.AuthFlow = slices.Clone(meta.AuthFlow)
		repo.DataModels = slices.Clone(meta.DataModels)
		repo.TechnicalChallenges = slices.Clone(meta.TechnicalChallenges)
		repo.KeyAchievements = slices.Clone(meta.KeyAchievements)
		repo.CodeSnippets = slices.Clone(meta.CodeSnippets)

		declaredLines = meta.LinesOfCode
		declaredCommits = meta.CommitCount
		declaredContributors = meta.ContributorCount
	}

	repo.LinesOfCode = pickMetric(declaredLines, st.EstimatedLines)
	repo.CommitCount = pickMetric(declaredCommits, st.CommitCount)
	repo.ContributorCount = 1
	if n := pickMetric(declaredContributors, st.ContributorCount); n != nil {
		repo.ContributorCount = *n
	}

	repo.Normalize()
	return repo
}

// pickMetric prefers a positive declared value, then a positive derived one.
func pickMetric(declared *int, derived int) *int {
	if declared != nil && *declared > 0 {
		v := *declared
		return &v
	}
	if derived > 0 {
		v := derived
		return &v
	}
	return nil
}
