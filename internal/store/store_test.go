// internal/store/store_test.go
package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"portfolio-sync/internal/database"
	custom_errors "portfolio-sync/internal/errors"
	"portfolio-sync/internal/model"
)

// MockQuerier is a mock implementation of the database.Querier interface.
type MockQuerier struct {
	mock.Mock
}

func (m *MockQuerier) CountRepositories(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockQuerier) DeleteRepository(ctx context.Context, id int64) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockQuerier) GetLastCachedAt(ctx context.Context) (pgtype.Timestamptz, error) {
	args := m.Called(ctx)
	return args.Get(0).(pgtype.Timestamptz), args.Error(1)
}
func (m *MockQuerier) GetRepository(ctx context.Context, id int64) (database.Repository, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(database.Repository), args.Error(1)
}
func (m *MockQuerier) ListRepositories(ctx context.Context) ([]database.Repository, error) {
	args := m.Called(ctx)
	rows, _ := args.Get(0).([]database.Repository)
	return rows, args.Error(1)
}
func (m *MockQuerier) UpsertRepository(ctx context.Context, arg database.UpsertRepositoryParams) (database.Repository, error) {
	args := m.Called(ctx, arg)
	if fn, ok := args.Get(0).(func(context.Context, database.UpsertRepositoryParams) database.Repository); ok {
		return fn(ctx, arg), args.Error(1)
	}
	return args.Get(0).(database.Repository), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func ptr[T any](v T) *T { return &v }

func fullRecord() model.Repository {
	updated := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	start := model.Date{Time: time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)}
	r := model.Repository{
		ID:               7,
		Name:             "engine",
		FullName:         "octo/engine",
		Description:      ptr("sync engine"),
		HTMLURL:          "https://github.com/octo/engine",
		Language:         ptr("Go"),
		StargazersCount:  3,
		Topics:           []string{"go"},
		DefaultBranch:    "main",
		GithubUpdatedAt:  &updated,
		Title:            "Engine",
		Tags:             []string{"backend"},
		Features:         []model.Feature{{Title: "Sync", Description: "pulls"}},
		Screenshots:      []model.Screenshot{{File: "a.png", Caption: "A", Type: "desktop", URL: "https://raw/a.png"}},
		Roles:            []model.Role{{RoleName: "Lead", ContributionPercentage: 100}},
		Priority:         5,
		Status:           model.StatusInProgress,
		StartDate:        &start,
		CommitCount:      ptr(50),
		ContributorCount: 2,
		Languages:        map[string]int64{"Go": 4000},
		Architecture:     ptr("layered"),
		HasPortfolioMeta: true,
		CachedAt:         time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	r.Normalize()
	return r
}

func TestStore_Upsert(t *testing.T) {
	ctx := context.Background()

	t.Run("writes every column and reads the stored row back", func(t *testing.T) {
		q := new(MockQuerier)
		in := fullRecord()

		q.On("UpsertRepository", ctx, mock.MatchedBy(func(p database.UpsertRepositoryParams) bool {
			return p.ID == 7 &&
				p.Priority == 5 &&
				p.Status == "in_progress" &&
				p.CommitCount == pgtype.Int4{Int32: 50, Valid: true} &&
				!p.LinesOfCode.Valid &&
				string(p.Features) == `[{"title":"Sync","description":"pulls","sub_description":null}]` &&
				string(p.ProjectType) == `[]` &&
				p.CachedAt.Valid
		})).Return(func(_ context.Context, p database.UpsertRepositoryParams) database.Repository {
			return database.Repository(p)
		}, nil).Once()

		out, err := New(q, testLogger()).Upsert(ctx, in)
		require.NoError(t, err)

		if diff := cmp.Diff(in, out); diff != "" {
			t.Errorf("stored record differs (-want +got):\n%s", diff)
		}
		q.AssertExpectations(t)
	})

	t.Run("wraps database failures", func(t *testing.T) {
		q := new(MockQuerier)
		dbErr := errors.New("connection refused")
		q.On("UpsertRepository", ctx, mock.Anything).Return(database.Repository{}, dbErr).Once()

		_, err := New(q, testLogger()).Upsert(ctx, fullRecord())
		assert.ErrorIs(t, err, dbErr)
	})
}

func TestStore_All(t *testing.T) {
	ctx := context.Background()

	t.Run("corrupt structured fields degrade to empty values", func(t *testing.T) {
		q := new(MockQuerier)
		q.On("ListRepositories", ctx).Return([]database.Repository{
			{
				ID:           1,
				Name:         "legacy",
				Title:        "legacy",
				Status:       "unknown",
				Features:     []byte(`{not json`),
				Technologies: []byte(`"a string"`),
				Languages:    []byte(`[1,2]`),
				Tags:         []byte(`null`),
				Roles:        []byte(`[{"role_name":"Dev","contribution_percentage":40}]`),
			},
		}, nil).Once()

		repos, err := New(q, testLogger()).All(ctx)
		require.NoError(t, err)
		require.Len(t, repos, 1)

		r := repos[0]
		assert.NotNil(t, r.Features)
		assert.Empty(t, r.Features)
		assert.Empty(t, r.Technologies)
		assert.NotNil(t, r.Languages)
		assert.Empty(t, r.Languages)
		assert.NotNil(t, r.Tags)
		assert.Empty(t, r.Topics)
		assert.Equal(t, model.StatusCompleted, r.Status)
		assert.Equal(t, 1, r.ContributorCount)
		require.Len(t, r.Roles, 1)
		assert.Equal(t, 40, r.Roles[0].ContributionPercentage)
	})

	t.Run("propagates query failures", func(t *testing.T) {
		q := new(MockQuerier)
		q.On("ListRepositories", ctx).Return(nil, errors.New("boom")).Once()

		_, err := New(q, testLogger()).All(ctx)
		assert.Error(t, err)
	})
}

func TestStore_ByID(t *testing.T) {
	ctx := context.Background()

	t.Run("missing rows are not found", func(t *testing.T) {
		q := new(MockQuerier)
		q.On("GetRepository", ctx, int64(404)).Return(database.Repository{}, pgx.ErrNoRows).Once()

		_, err := New(q, testLogger()).ByID(ctx, 404)
		assert.ErrorIs(t, err, custom_errors.ErrNotFound)
	})

	t.Run("returns the decoded record", func(t *testing.T) {
		q := new(MockQuerier)
		langs, _ := json.Marshal(map[string]int64{"Go": 10})
		q.On("GetRepository", ctx, int64(1)).Return(database.Repository{
			ID: 1, Name: "a", Title: "A", Status: "archived", Languages: langs, ContributorCount: 4,
		}, nil).Once()

		r, err := New(q, testLogger()).ByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, model.StatusArchived, r.Status)
		assert.Equal(t, map[string]int64{"Go": 10}, r.Languages)
		assert.Equal(t, 4, r.ContributorCount)
	})
}

func TestStore_LastRefreshedAt(t *testing.T) {
	ctx := context.Background()

	t.Run("empty store has no timestamp", func(t *testing.T) {
		q := new(MockQuerier)
		q.On("GetLastCachedAt", ctx).Return(pgtype.Timestamptz{}, nil).Once()

		ts, err := New(q, testLogger()).LastRefreshedAt(ctx)
		require.NoError(t, err)
		assert.Nil(t, ts)
	})

	t.Run("returns the newest cached_at", func(t *testing.T) {
		q := new(MockQuerier)
		now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
		q.On("GetLastCachedAt", ctx).Return(pgtype.Timestamptz{Time: now, Valid: true}, nil).Once()

		ts, err := New(q, testLogger()).LastRefreshedAt(ctx)
		require.NoError(t, err)
		require.NotNil(t, ts)
		assert.True(t, now.Equal(*ts))
	})
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()
	q := new(MockQuerier)
	q.On("DeleteRepository", ctx, int64(1)).Return(int64(1), nil).Once()
	q.On("DeleteRepository", ctx, int64(2)).Return(int64(0), nil).Once()

	s := New(q, testLogger())
	assert.NoError(t, s.Delete(ctx, 1))
	assert.ErrorIs(t, s.Delete(ctx, 2), custom_errors.ErrNotFound)
}
