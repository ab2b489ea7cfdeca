package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/agrovision/labeldesk/internal/imagedb"
)

// Stats serves total and verified counts over the entire filtered set.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	filters := imagedb.ParseFilters(r.URL.Query())

	stats, err := h.store.Stats(r.Context(), filters)
	if err != nil {
		log.Error().Err(err).Msg("Failed to compute stats")
		respondError(w, http.StatusInternalServerError, "Failed to compute stats", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"ok":       true,
		"total":    stats.Total,
		"verified": stats.Verified,
	})
}

// Farmers serves the per-farmer directory with overall totals.
func (h *Handler) Farmers(w http.ResponseWriter, r *http.Request) {
	dir, err := h.store.FarmerDirectory(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to load farmers")
		respondError(w, http.StatusInternalServerError, "Failed to load farmers", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"overall": dir.Overall,
		"farmers": dir.Farmers,
	})
}
