// internal/model/models.go
package model

import (
	"time"
)

// RemoteRepository is a repository as listed by the hosting API. It is never persisted as-is.
type RemoteRepository struct {
	ID              int64
	Owner           string
	Name            string
	FullName        string
	Description     *string
	HTMLURL         string
	Language        *string
	StargazersCount int
	Topics          []string
	DefaultBranch   string
	CreatedAt       *time.Time
	UpdatedAt       *time.Time
	Fork            bool
}

// Branch is the default branch, or "main" when the API did not report one.
func (r RemoteRepository) Branch() string {
	if r.DefaultBranch == "" {
		return "main"
	}
	return r.DefaultBranch
}

// DerivedStats are computed from the languages, contributors and commits endpoints.
type DerivedStats struct {
	TotalBytes       int64
	EstimatedLines   int
	Languages        map[string]int64
	CommitCount      int
	ContributorCount int
}

// Repository is the canonical cached record served to the portfolio site.
type Repository struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	FullName        string     `json:"full_name"`
	Description     *string    `json:"description"`
	HTMLURL         string     `json:"html_url"`
	Language        *string    `json:"language"`
	StargazersCount int        `json:"stargazers_count"`
	Topics          []string   `json:"topics"`
	DefaultBranch   string     `json:"default_branch"`
	GithubCreatedAt *time.Time `json:"github_created_at"`
	GithubUpdatedAt *time.Time `json:"github_updated_at"`

	Title               string       `json:"title"`
	Subtitle            *string      `json:"subtitle"`
	ProjectType         []string     `json:"project_type"`
	Tags                []string     `json:"tags"`
	DetailedDescription *string      `json:"detailed_description"`
	Features            []Feature    `json:"features"`
	Technologies        []Technology `json:"technologies"`
	Screenshots         []Screenshot `json:"screenshots"`
	Challenges          *string      `json:"challenges"`
	Achievements        *string      `json:"achievements"`
	Priority            int          `json:"priority"`
	Roles               []Role       `json:"roles"`
	ClientName          *string      `json:"client_name"`
	Status              Status       `json:"status"`
	StartDate           *Date        `json:"start_date"`
	EndDate             *Date        `json:"end_date"`
	IsOngoing           bool         `json:"is_ongoing"`
	DemoURL             *string      `json:"demo_url"`
	DocumentationURL    *string      `json:"documentation_url"`

	LinesOfCode      *int             `json:"lines_of_code"`
	CommitCount      *int             `json:"commit_count"`
	ContributorCount int              `json:"contributor_count"`
	Languages        map[string]int64 `json:"languages"`

	Architecture        *string              `json:"architecture"`
	SystemComponents    []SystemComponent    `json:"system_components"`
	CorePrinciples      []CorePrinciple      `json:"core_principles"`
	AuthFlow            []string             `json:"auth_flow"`
	DataModels          []DataModel          `json:"data_models"`
	TechnicalChallenges []TechnicalChallenge `json:"technical_challenges"`
	KeyAchievements     []string             `json:"key_achievements"`
	CodeSnippets        []CodeSnippet        `json:"code_snippets"`

	HasPortfolioMeta bool      `json:"has_portfolio_meta"`
	CachedAt         time.Time `json:"cached_at"`
}

// Normalize replaces nil list and map fields with empty values.
func (r *Repository) Normalize() {
	r.Topics = orEmpty(r.Topics)
	r.ProjectType = orEmpty(r.ProjectType)
	r.Tags = orEmpty(r.Tags)
	r.Features = orEmpty(r.Features)
	r.Technologies = orEmpty(r.Technologies)
	r.Screenshots = orEmpty(r.Screenshots)
	r.Roles = orEmpty(r.Roles)
	r.SystemComponents = orEmpty(r.SystemComponents)
	r.CorePrinciples = orEmpty(r.CorePrinciples)
	r.AuthFlow = orEmpty(r.AuthFlow)
	r.DataModels = orEmpty(r.DataModels)
	r.TechnicalChallenges = orEmpty(r.TechnicalChallenges)
	r.KeyAchievements = orEmpty(r.KeyAchievements)
	r.CodeSnippets = orEmpty(r.CodeSnippets)
	if r.Languages == nil {
		r.Languages = map[string]int64{}
	}
	if r.Status == "" {
		r.Status = StatusCompleted
	}
	if r.ContributorCount <= 0 {
		r.ContributorCount = 1
	}
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
