package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/agrovision/labeldesk/internal/auth"
	"github.com/agrovision/labeldesk/internal/imagedb"
)

type updateRequest struct {
	ID  string `json:"id"`
	Key string `json:"key"`
	imagedb.UpdateFields
}

// UpdateImage applies a partial correction to one record. Unrecognized
// body fields are ignored; a request naming no record or carrying no
// editable field is rejected before any store call.
func (h *Handler) UpdateImage(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	// The UI sends the record id under "key"; accept either name.
	id := req.ID
	if id == "" {
		id = req.Key
	}

	err := h.store.UpdateImage(r.Context(), id, req.UpdateFields, auth.Identity(r.Context()))
	switch {
	case errors.Is(err, imagedb.ErrMissingID):
		respondError(w, http.StatusBadRequest, "Missing id/key", nil)
	case errors.Is(err, imagedb.ErrNoFields):
		respondError(w, http.StatusBadRequest, "No allowed fields to update", nil)
	case err != nil:
		log.Error().Err(err).Str("id", id).Msg("Failed to update image")
		respondError(w, http.StatusInternalServerError, "Failed to update image", err)
	default:
		respondJSON(w, http.StatusOK, map[string]any{"ok": true})
	}
}
