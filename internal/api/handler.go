// internal/api/handler.go
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	custom_errors "portfolio-sync/internal/errors"
	"portfolio-sync/internal/listcache"
	"portfolio-sync/internal/model"
	"portfolio-sync/internal/syncer"
)

const readTimeout = 60 * time.Second

// Repositories is the read side of the Cache Store.
type Repositories interface {
	All(ctx context.Context) ([]model.Repository, error)
	ByID(ctx context.Context, id int64) (model.Repository, error)
	LastRefreshedAt(ctx context.Context) (*time.Time, error)
	Delete(ctx context.Context, id int64) error
}

// Refresher triggers sync passes.
type Refresher interface {
	RunSync(ctx context.Context) (syncer.Result, error)
	RunAsync(ctx context.Context)
}

// Deps is everything the router needs. Cache may be nil.
type Deps struct {
	Repos       Repositories
	Syncer      Refresher
	Cache       listcache.Cache
	Secret      string
	CORSOrigins []string
}

// Handler is the container for API dependencies.
type Handler struct {
	repos  Repositories
	syncer Refresher
	cache  listcache.Cache
	secret string
	logger *slog.Logger
}

// NewRouter creates and configures a new chi router with all API routes.
func NewRouter(deps Deps, logger *slog.Logger) http.Handler {
	h := &Handler{
		repos:  deps.Repos,
		syncer: deps.Syncer,
		cache:  deps.Cache,
		secret: deps.Secret,
		logger: logger,
	}
	if h.cache == nil {
		h.cache = listcache.Noop{}
	}

	origins := deps.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.With(middleware.Timeout(readTimeout)).Get("/health", h.healthCheck)
	r.Route("/api/repos", func(r chi.Router) {
		r.With(middleware.Timeout(readTimeout)).Get("/", h.listRepositories)
		r.With(middleware.Timeout(readTimeout)).Get("/{id}", h.getRepository)

		// A synchronous pass may outlive the read timeout.
		r.Group(func(r chi.Router) {
			r.Use(h.requireSecret)
			r.Post("/refresh", h.refresh)
			r.Post("/refresh/async", h.refreshAsync)
			r.Delete("/{id}", h.deleteRepository)
		})
	})

	return r
}

// healthCheck is a simple health endpoint.
func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type listResponse struct {
	Repositories []model.Repository `json:"repositories"`
	Total        int                `json:"total"`
	LastUpdated  *time.Time         `json:"last_updated"`
}

// listRepositories returns every cached repository in listing order.
// GET /api/repos
func (h *Handler) listRepositories(w http.ResponseWriter, r *http.Request) {
	if body, ok := h.cache.Get(r.Context(), listcache.ListingKey); ok {
		w.Header().Set("X-Cache", "HIT")
		respondWithBody(w, http.StatusOK, body)
		return
	}

	repos, err := h.repos.All(r.Context())
	if err != nil {
		h.logger.Error("Failed to list repositories", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	last, err := h.repos.LastRefreshedAt(r.Context())
	if err != nil {
		h.logger.Error("Failed to read last refresh time", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	body, err := json.Marshal(listResponse{Repositories: repos, Total: len(repos), LastUpdated: last})
	if err != nil {
		h.logger.Error("Failed to encode listing", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	h.cache.Set(r.Context(), listcache.ListingKey, body)
	w.Header().Set("X-Cache", "MISS")
	respondWithBody(w, http.StatusOK, body)
}

// getRepository returns one cached repository.
// GET /api/repos/{id}
func (h *Handler) getRepository(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	repo, err := h.repos.ByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, custom_errors.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Repository not found")
			return
		}
		h.logger.Error("Failed to get repository", "id", id, "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, repo)
}

type refreshResponse struct {
	Message      string   `json:"message"`
	RunID        string   `json:"run_id"`
	UpdatedCount int      `json:"updated_count"`
	Errors       []string `json:"errors"`
}

// refresh runs a sync pass and reports its outcome.
// POST /api/repos/refresh
func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	res, err := h.syncer.RunSync(r.Context())
	if err != nil {
		h.logger.Error("Refresh failed", "run_id", res.RunID, "error", err)
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to refresh repositories: %v", err))
		return
	}

	errs := res.Errors
	if errs == nil {
		errs = []string{}
	}
	msg := fmt.Sprintf("Successfully refreshed %d repositories", res.UpdatedCount)
	if len(errs) > 0 {
		msg = fmt.Sprintf("Refreshed %d repositories with %d errors", res.UpdatedCount, len(errs))
	}
	respondWithJSON(w, http.StatusOK, refreshResponse{
		Message:      msg,
		RunID:        res.RunID,
		UpdatedCount: res.UpdatedCount,
		Errors:       errs,
	})
}

// refreshAsync acknowledges immediately and syncs in the background.
// POST /api/repos/refresh/async
func (h *Handler) refreshAsync(w http.ResponseWriter, r *http.Request) {
	h.syncer.RunAsync(r.Context())
	respondWithJSON(w, http.StatusAccepted, map[string]string{"message": "Refresh started in background"})
}

// deleteRepository removes one record from the cache.
// DELETE /api/repos/{id}
func (h *Handler) deleteRepository(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.repos.Delete(r.Context(), id); err != nil {
		if errors.Is(err, custom_errors.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Repository not found")
			return
		}
		h.logger.Error("Failed to delete repository", "id", id, "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if err := h.cache.Invalidate(r.Context()); err != nil {
		h.logger.Warn("Failed to invalidate listing cache", "error", err)
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("Repository %d deleted", id)})
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondWithError(w, http.StatusBadRequest, "Invalid repository id")
		return 0, false
	}
	return id, true
}
