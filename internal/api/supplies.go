package api

import (
	"net/http"

	"github.com/medstock/medstock/internal/auth"
)

type supplyCandidate struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func handleListSupplies(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Candidates == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "SUPPLIES_NOT_CONFIGURED", "inventory store is not configured", false, nil)
		return
	}
	if err := requireRole(r, auth.RoleAssistantUser, auth.RoleInventoryAdmin); err != nil {
		writeError(r.Context(), w, http.StatusForbidden, "FORBIDDEN", err.Error(), false, nil)
		return
	}

	candidates, err := deps.Candidates.ListCandidates(r.Context())
	if err != nil {
		writeError(r.Context(), w, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "failed to list supplies", true, map[string]any{"details": err.Error()})
		return
	}

	supplies := make([]supplyCandidate, 0, len(candidates))
	for _, candidate := range candidates {
		supplies = append(supplies, supplyCandidate{ID: candidate.ID, Name: candidate.Name})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"supplies": supplies,
		"count":    len(supplies),
	})
}
