package api

import (
	"database/sql"
	"net/http"

	"github.com/tasktrackhq/tasktrack-api/internal/api/shared"
	"github.com/tasktrackhq/tasktrack-api/internal/platform/logger"
)

// HealthHandler serves liveness and database-connectivity probes.
type HealthHandler struct {
	db *sql.DB
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db *sql.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// healthResponse is the probe response body.
type healthResponse struct {
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// Live handles GET /health: a static liveness check.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, healthResponse{Status: "ok"})
}

// Database handles GET /health/db: runs a trivial query against the store.
// A store failure is reported as a soft error in the body with a 200
// status, so the probe itself never looks like a transport failure.
func (h *HealthHandler) Database(w http.ResponseWriter, r *http.Request) {
	var one int
	err := h.db.QueryRowContext(r.Context(), "SELECT 1").Scan(&one)
	if err != nil {
		logger.FromContext(r.Context()).Error("database health probe failed", "error", err)
		shared.RespondWithJSON(w, r, http.StatusOK, healthResponse{
			Status: "degraded",
			Detail: "database unreachable",
		})
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, healthResponse{Status: "ok"})
}
