// internal/store/store.go

// Package store is the Cache Store: the durable set of canonical repository records.
// Every upsert rewrites the whole row, so repeated passes over the same input converge.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"portfolio-sync/internal/database"
	custom_errors "portfolio-sync/internal/errors"
	"portfolio-sync/internal/model"
)

// Store maps canonical records to and from cache rows.
type Store struct {
	q      database.Querier
	logger *slog.Logger
}

func New(q database.Querier, logger *slog.Logger) *Store {
	return &Store{q: q, logger: logger}
}

// Upsert inserts the record or replaces every column of the existing row with the same id.
func (s *Store) Upsert(ctx context.Context, repo model.Repository) (model.Repository, error) {
	params, err := toParams(repo)
	if err != nil {
		return model.Repository{}, fmt.Errorf("encode repository %d: %w", repo.ID, err)
	}
	row, err := s.q.UpsertRepository(ctx, params)
	if err != nil {
		return model.Repository{}, fmt.Errorf("upsert repository %d: %w", repo.ID, err)
	}
	return s.fromRow(row), nil
}

// All returns every record ordered by priority, then most recently updated, nulls last.
func (s *Store) All(ctx context.Context) ([]model.Repository, error) {
	rows, err := s.q.ListRepositories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list repositories: %w", err)
	}
	repos := make([]model.Repository, 0, len(rows))
	for _, row := range rows {
		repos = append(repos, s.fromRow(row))
	}
	return repos, nil
}

// ByID returns the record with the given id, or an error matching ErrNotFound.
func (s *Store) ByID(ctx context.Context, id int64) (model.Repository, error) {
	row, err := s.q.GetRepository(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Repository{}, fmt.Errorf("repository %d: %w", id, custom_errors.ErrNotFound)
	}
	if err != nil {
		return model.Repository{}, fmt.Errorf("get repository %d: %w", id, err)
	}
	return s.fromRow(row), nil
}

// LastRefreshedAt is the newest cached_at in the store, or nil when it is empty.
func (s *Store) LastRefreshedAt(ctx context.Context) (*time.Time, error) {
	ts, err := s.q.GetLastCachedAt(ctx)
	if err != nil {
		return nil, fmt.Errorf("get last cached_at: %w", err)
	}
	return fromTimestamptz(ts), nil
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	n, err := s.q.CountRepositories(ctx)
	if err != nil {
		return 0, fmt.Errorf("count repositories: %w", err)
	}
	return n, nil
}

// Delete removes one record. Deleting an unknown id returns an error matching ErrNotFound.
func (s *Store) Delete(ctx context.Context, id int64) error {
	n, err := s.q.DeleteRepository(ctx, id)
	if err != nil {
		return fmt.Errorf("delete repository %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("repository %d: %w", id, custom_errors.ErrNotFound)
	}
	return nil
}

func toParams(r model.Repository) (database.UpsertRepositoryParams, error) {
	r.Normalize()
	p := database.UpsertRepositoryParams{
		ID:                  r.ID,
		Name:                r.Name,
		FullName:            r.FullName,
		Description:         toText(r.Description),
		HtmlUrl:             r.HTMLURL,
		Language:            toText(r.Language),
		StargazersCount:     int32(r.StargazersCount),
		Topics:              r.Topics,
		DefaultBranch:       r.DefaultBranch,
		GithubCreatedAt:     toTimestamptz(r.GithubCreatedAt),
		GithubUpdatedAt:     toTimestamptz(r.GithubUpdatedAt),
		Title:               r.Title,
		Subtitle:            toText(r.Subtitle),
		DetailedDescription: toText(r.DetailedDescription),
		Challenges:          toText(r.Challenges),
		Achievements:        toText(r.Achievements),
		Priority:            int32(r.Priority),
		ClientName:          toText(r.ClientName),
		Status:              string(r.Status),
		StartDate:           toDate(r.StartDate),
		EndDate:             toDate(r.EndDate),
		IsOngoing:           r.IsOngoing,
		DemoUrl:             toText(r.DemoURL),
		DocumentationUrl:    toText(r.DocumentationURL),
		LinesOfCode:         toInt4(r.LinesOfCode),
		CommitCount:         toInt4(r.CommitCount),
		ContributorCount:    int32(r.ContributorCount),
		Architecture:        toText(r.Architecture),
		HasPortfolioMeta:    r.HasPortfolioMeta,
		CachedAt:            pgtype.Timestamptz{Time: r.CachedAt, Valid: true},
	}

	docs := []struct {
		dst *[]byte
		v   any
	}{
		{&p.ProjectType, r.ProjectType},
		{&p.Tags, r.Tags},
		{&p.Features, r.Features},
		{&p.Technologies, r.Technologies},
		{&p.Screenshots, r.Screenshots},
		{&p.Roles, r.Roles},
		{&p.Languages, r.Languages},
		{&p.SystemComponents, r.SystemComponents},
		{&p.CorePrinciples, r.CorePrinciples},
		{&p.AuthFlow, r.AuthFlow},
		{&p.DataModels, r.DataModels},
		{&p.TechnicalChallenges, r.TechnicalChallenges},
		{&p.KeyAchievements, r.KeyAchievements},
		{&p.CodeSnippets, r.CodeSnippets},
	}
	for _, d := range docs {
		b, err := json.Marshal(d.v)
		if err != nil {
			return database.UpsertRepositoryParams{}, err
		}
		*d.dst = b
	}
	return p, nil
}

func (s *Store) fromRow(row database.Repository) model.Repository {
	logger := s.logger.With("repo_id", row.ID)
	r := model.Repository{
		ID:                  row.ID,
		Name:                row.Name,
		FullName:            row.FullName,
		Description:         fromText(row.Description),
		HTMLURL:             row.HtmlUrl,
		Language:            fromText(row.Language),
		StargazersCount:     int(row.StargazersCount),
		Topics:              row.Topics,
		DefaultBranch:       row.DefaultBranch,
		GithubCreatedAt:     fromTimestamptz(row.GithubCreatedAt),
		GithubUpdatedAt:     fromTimestamptz(row.GithubUpdatedAt),
		Title:               row.Title,
		Subtitle:            fromText(row.Subtitle),
		ProjectType:         decodeList[string](logger, "project_type", row.ProjectType),
		Tags:                decodeList[string](logger, "tags", row.Tags),
		DetailedDescription: fromText(row.DetailedDescription),
		Features:            decodeList[model.Feature](logger, "features", row.Features),
		Technologies:        decodeList[model.Technology](logger, "technologies", row.Technologies),
		Screenshots:         decodeList[model.Screenshot](logger, "screenshots", row.Screenshots),
		Challenges:          fromText(row.Challenges),
		Achievements:        fromText(row.Achievements),
		Priority:            int(row.Priority),
		Roles:               decodeList[model.Role](logger, "roles", row.Roles),
		ClientName:          fromText(row.ClientName),
		Status:              model.ParseStatus(row.Status),
		StartDate:           fromDate(row.StartDate),
		EndDate:             fromDate(row.EndDate),
		IsOngoing:           row.IsOngoing,
		DemoURL:             fromText(row.DemoUrl),
		DocumentationURL:    fromText(row.DocumentationUrl),
		LinesOfCode:         fromInt4(row.LinesOfCode),
		CommitCount:         fromInt4(row.CommitCount),
		ContributorCount:    int(row.ContributorCount),
		Languages:           decodeMap(logger, "languages", row.Languages),
		Architecture:        fromText(row.Architecture),
		SystemComponents:    decodeList[model.SystemComponent](logger, "system_components", row.SystemComponents),
		CorePrinciples:      decodeList[model.CorePrinciple](logger, "core_principles", row.CorePrinciples),
		AuthFlow:            decodeList[string](logger, "auth_flow", row.AuthFlow),
		DataModels:          decodeList[model.DataModel](logger, "data_models", row.DataModels),
		TechnicalChallenges: decodeList[model.TechnicalChallenge](logger, "technical_challenges", row.TechnicalChallenges),
		KeyAchievements:     decodeList[string](logger, "key_achievements", row.KeyAchievements),
		CodeSnippets:        decodeList[model.CodeSnippet](logger, "code_snippets", row.CodeSnippets),
		HasPortfolioMeta:    row.HasPortfolioMeta,
	}
	if row.CachedAt.Valid {
		r.CachedAt = row.CachedAt.Time
	}
	r.Normalize()
	return r
}

// decodeList degrades a missing or corrupt JSON column to an empty list.
func decodeList[T any](logger *slog.Logger, field string, raw []byte) []T {
	out := []T{}
	if len(raw) == 0 {
		return out
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		logger.Warn("Discarding unreadable stored field", "field", field, "error", err)
		return []T{}
	}
	if out == nil {
		return []T{}
	}
	return out
}

func decodeMap(logger *slog.Logger, field string, raw []byte) map[string]int64 {
	out := map[string]int64{}
	if len(raw) == 0 {
		return out
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		logger.Warn("Discarding unreadable stored field", "field", field, "error", err)
		return map[string]int64{}
	}
	if out == nil {
		return map[string]int64{}
	}
	return out
}

func toText(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}

func fromText(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}

func toTimestamptz(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: *t, Valid: true}
}

func fromTimestamptz(ts pgtype.Timestamptz) *time.Time {
	if !ts.Valid {
		return nil
	}
	t := ts.Time
	return &t
}

func toDate(d *model.Date) pgtype.Date {
	if d == nil {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: d.Time, Valid: true}
}

func fromDate(d pgtype.Date) *model.Date {
	if !d.Valid {
		return nil
	}
	y, m, day := d.Time.Date()
	return &model.Date{Time: time.Date(y, m, day, 0, 0, 0, 0, time.UTC)}
}

func toInt4(n *int) pgtype.Int4 {
	if n == nil {
		return pgtype.Int4{}
	}
	return pgtype.Int4{Int32: int32(*n), Valid: true}
}

func fromInt4(n pgtype.Int4) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int32)
	return &v
}
