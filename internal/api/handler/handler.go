// Package handler contains the HTTP handlers for all API endpoints.
package handler

import (
	"net/http"
	"time"

	"github.com/boxline/boxline-data/internal/api/respond"
	"github.com/boxline/boxline-data/internal/config"
	"github.com/boxline/boxline-data/internal/db"
	"github.com/boxline/boxline-data/internal/dispatch"
	"github.com/boxline/boxline-data/internal/factview"
	"github.com/boxline/boxline-data/internal/history"
	"github.com/boxline/boxline-data/internal/interp"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	dispatcher  *dispatch.Dispatcher
	interpreter *interp.Interpreter // nil when no API key is configured
	history     *history.Store      // nil when history is disabled
	handle      *factview.Handle    // nil on the sql backend
	pool        *db.Pool            // nil on the memory backend
	cfg         *config.Config
}

// New creates a Handler with its dependencies. interpreter, hist, handle
// and pool may each be nil; the affected endpoints answer 503 instead.
func New(dispatcher *dispatch.Dispatcher, interpreter *interp.Interpreter, hist *history.Store, handle *factview.Handle, pool *db.Pool, cfg *config.Config) *Handler {
	return &Handler{
		dispatcher:  dispatcher,
		interpreter: interpreter,
		history:     hist,
		handle:      handle,
		pool:        pool,
		cfg:         cfg,
	}
}

// Root handles the root endpoint
// @Summary API root
// @Description Returns basic service information
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"service":     "boxline-data",
		"version":     "1.0.0",
		"environment": h.cfg.Environment,
		"backend":     h.cfg.Backend,
		"docs":        "/docs/index.html",
	})
}

// HealthCheck performs a basic health check
// @Summary Health check
// @Description Returns service health status
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"backend":   h.cfg.Backend,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckDB checks database connectivity
// @Summary Database health check
// @Description Verifies the analytical database is reachable and reports table sizes
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} respond.ErrorResponse
// @Router /health/db [get]
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	if h.pool == nil {
		respond.WriteError(w, http.StatusServiceUnavailable, "DB_NOT_CONFIGURED",
			"the memory backend does not use a database")
		return
	}
	if err := h.pool.HealthCheck(r.Context()); err != nil {
		respond.WriteErrorDetail(w, http.StatusServiceUnavailable, "DB_UNHEALTHY",
			"Database health check failed", err.Error())
		return
	}

	box, games, players, images, err := h.pool.RowCounts(r.Context())
	if err != nil {
		respond.WriteErrorDetail(w, http.StatusServiceUnavailable, "DB_UNHEALTHY",
			"Database row counts failed", err.Error())
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status": "healthy",
		"tables": map[string]int64{
			config.BoxscoreTable:     box,
			config.GamesTable:        games,
			config.PlayerInfoTable:   players,
			config.PlayerImagesTable: images,
		},
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Rebuild rebuilds the in-memory fact view from the current source files
// @Summary Rebuild fact view
// @Description Rebuilds the in-memory fact view and swaps it in atomically
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} respond.ErrorResponse
// @Router /api/v1/admin/rebuild [post]
func (h *Handler) Rebuild(w http.ResponseWriter, r *http.Request) {
	if h.handle == nil {
		respond.WriteError(w, http.StatusServiceUnavailable, "NOT_SUPPORTED",
			"rebuild applies to the memory backend only; reload the database with cmd/ingest instead")
		return
	}

	start := time.Now()
	if err := h.handle.Rebuild(r.Context()); err != nil {
		respond.WriteErrorDetail(w, http.StatusInternalServerError, "REBUILD_FAILED",
			"Fact view rebuild failed", err.Error())
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":     "rebuilt",
		"elapsed_ms": time.Since(start).Milliseconds(),
	})
}
