package api

import (
	"net/http"

	"github.com/medstock/medstock/internal/auth"
)

func handleSnapshotRun(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Snapshots == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "SNAPSHOT_NOT_CONFIGURED", "snapshot service is not configured", false, nil)
		return
	}
	if err := requireRole(r, auth.RoleInventoryAdmin); err != nil {
		writeError(r.Context(), w, http.StatusForbidden, "FORBIDDEN", err.Error(), false, nil)
		return
	}

	summary, err := deps.Snapshots.RunOnce(r.Context())
	if err != nil {
		writeError(r.Context(), w, http.StatusInternalServerError, "SNAPSHOT_FAILED", "snapshot run failed", true, map[string]any{
			"details": err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "completed",
		"summary": summary,
	})
}
