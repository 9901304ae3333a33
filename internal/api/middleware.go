// internal/api/middleware.go
package api

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	custom_errors "portfolio-sync/internal/errors"
)

// requireSecret gates mutating routes behind the shared secret. With no secret configured
// the routes are open.
func (h *Handler) requireSecret(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.secret == "" {
			next.ServeHTTP(w, r)
			return
		}
		if err := checkSecret(r.Header.Get("Authorization"), h.secret); err != nil {
			status := http.StatusForbidden
			if errors.Is(err, custom_errors.ErrUnauthorized) {
				status = http.StatusUnauthorized
			}
			h.logger.Warn("Rejected refresh request", "path", r.URL.Path, "remote_addr", r.RemoteAddr, "error", err)
			respondWithError(w, status, err.Error())
			return
		}
		next.ServeHTTP(w, r)
	})
}

// checkSecret accepts "Bearer <secret>" or the bare secret.
func checkSecret(header, secret string) error {
	token := strings.TrimSpace(header)
	if scheme, rest, ok := strings.Cut(token, " "); ok && strings.EqualFold(scheme, "bearer") {
		token = strings.TrimSpace(rest)
	} else if strings.EqualFold(token, "bearer") {
		token = ""
	}
	if token == "" {
		return custom_errors.ErrUnauthorized
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
		return custom_errors.ErrForbidden
	}
	return nil
}

// requestLogger logs one structured line per request.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				logger.Info("HTTP request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration", time.Since(start).String(),
					"request_id", middleware.GetReqID(r.Context()),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondWithBody(w, code, body)
}

func respondWithBody(w http.ResponseWriter, code int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(body)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	body, _ := json.Marshal(map[string]string{"error": message})
	respondWithBody(w, code, body)
}
