//go:build integration

// cmd/service/integration_test.go
package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"portfolio-sync/internal/api"
	"portfolio-sync/internal/config"
	"portfolio-sync/internal/database"
	"portfolio-sync/internal/listcache"
	"portfolio-sync/internal/logging"
	"portfolio-sync/internal/model"
	"portfolio-sync/internal/overlay"
	"portfolio-sync/internal/store"
)

func setupTestDatabase(ctx context.Context, t *testing.T) (*pgxpool.Pool, func()) {
	// Start a postgres container
	pgContainer, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("test-db"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	// Run migrations
	m, err := migrate.New("file://../../migrations", connStr)
	require.NoError(t, err)
	require.NoError(t, m.Up())

	dbpool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	teardown := func() {
		dbpool.Close()
		require.NoError(t, pgContainer.Terminate(ctx))
	}
	return dbpool, teardown
}

const overlayDoc = `{
	// portfolio overlay
	"display": {"title": "The App"},
	"classification": {"priority": 5, "status": "in_progress"},
	"metrics": {"commit_count": 500},
	"features": [{"title": "Sync", "description": "Keeps data fresh"}],
	"screenshots": [{"file": "home.png", "caption": "Home"}],
}`

func fakeGitHub(t *testing.T) *httptest.Server {
	t.Helper()
	repo := func(id int, name string, fork bool, updated string) string {
		return fmt.Sprintf(`{"id": %d, "name": %q, "full_name": "octo/%s", "owner": {"login": "octo"},
			"html_url": "https://github.com/octo/%s", "fork": %t, "default_branch": "main",
			"stargazers_count": 1, "topics": ["go"], "updated_at": %q}`, id, name, name, name, fork, updated)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/users/octo/repos", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "[%s, %s, %s]",
			repo(1, "app", false, "2024-01-01T00:00:00Z"),
			repo(2, "tool", false, "2024-03-01T00:00:00Z"),
			repo(3, "forked", true, "2024-04-01T00:00:00Z"),
		)
	})
	mux.HandleFunc("/repos/octo/app/contents/portfolio/meta.json", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{
			"type":     "file",
			"encoding": "base64",
			"name":     "meta.json",
			"path":     "portfolio/meta.json",
			"content":  base64.StdEncoding.EncodeToString([]byte(overlayDoc)),
		})
	})
	mux.HandleFunc("/repos/octo/tool/contents/portfolio/meta.json", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message": "Not Found"}`))
	})
	for _, name := range []string{"app", "tool"} {
		mux.HandleFunc("/repos/octo/"+name+"/languages", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"Go": 8000, "SQL": 2000}`))
		})
		mux.HandleFunc("/repos/octo/"+name+"/contributors", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[{"login": "a", "contributions": 30}, {"login": "b", "contributions": 12}]`))
		})
	}
	return httptest.NewServer(mux)
}

func TestSync_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	dbpool, teardown := setupTestDatabase(ctx, t)
	defer teardown()

	gh := fakeGitHub(t)
	defer gh.Close()

	logger := logging.New(logging.Options{Level: "debug"}, os.Stderr)
	cfg := &config.Config{
		GithubUsername:  "octo",
		GithubAPIURL:    gh.URL,
		GithubRawURL:    "https://raw.example.com",
		GithubTimeout:   5 * time.Second,
		OverlayPath:     overlay.DefaultPath,
		SyncConcurrency: 2,
	}
	cacheStore := store.New(database.New(dbpool), logger.Logger)
	appSyncer, err := buildSyncer(cfg, logger, cacheStore, listcache.Noop{})
	require.NoError(t, err)

	// --- ACT ---
	res, err := appSyncer.RunSync(ctx)
	require.NoError(t, err)

	// --- ASSERT ---
	assert.Equal(t, 2, res.UpdatedCount)
	assert.Empty(t, res.Errors)

	all, err := cacheStore.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	app, tool := all[0], all[1]
	assert.Equal(t, "app", app.Name, "priority orders the listing")
	assert.Equal(t, "The App", app.Title)
	assert.True(t, app.HasPortfolioMeta)
	assert.Equal(t, model.StatusInProgress, app.Status)
	require.NotNil(t, app.CommitCount)
	assert.Equal(t, 500, *app.CommitCount, "overlay metric wins")
	assert.Equal(t, 2, app.ContributorCount)
	require.NotNil(t, app.LinesOfCode)
	assert.Equal(t, 250, *app.LinesOfCode)
	require.Len(t, app.Screenshots, 1)
	assert.Equal(t, "https://raw.example.com/octo/app/main/portfolio/screenshots/home.png", app.Screenshots[0].URL)

	assert.Equal(t, "tool", tool.Name)
	assert.Equal(t, "tool", tool.Title)
	assert.False(t, tool.HasPortfolioMeta)
	require.NotNil(t, tool.CommitCount)
	assert.Equal(t, 42, *tool.CommitCount, "derived from contributor contributions")
	assert.Empty(t, tool.Features)

	_, err = cacheStore.ByID(ctx, 3)
	assert.Error(t, err, "forks are never cached")

	// A second pass over the same remote state converges on the same rows.
	_, err = appSyncer.RunSync(ctx)
	require.NoError(t, err)
	again, err := cacheStore.All(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(all, again, cmpopts.IgnoreFields(model.Repository{}, "CachedAt")); diff != "" {
		t.Errorf("second pass changed cached rows (-first +second):\n%s", diff)
	}

	// The read surface serves what the pass stored.
	srv := httptest.NewServer(api.NewRouter(api.Deps{Repos: cacheStore, Syncer: appSyncer}, logger.Logger))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/repos")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var listing struct {
		Repositories []model.Repository `json:"repositories"`
		Total        int                `json:"total"`
		LastUpdated  *time.Time         `json:"last_updated"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listing))
	assert.Equal(t, 2, listing.Total)
	assert.NotNil(t, listing.LastUpdated)
	assert.Equal(t, "app", listing.Repositories[0].Name)
}
