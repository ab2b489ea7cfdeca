package handlers

import (
	"net/http"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/agrovision/labeldesk/internal/imagedb"
)

// maxUploadBytes caps the multipart memory buffer for image uploads.
const maxUploadBytes = 32 << 20

// Upload ingests one image: the blob goes to object storage, and a
// single metadata record with a fresh id is written for the dashboard
// to pick up.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid multipart form", err)
		return
	}

	file, header, err := r.FormFile("file")
	farmer := r.FormValue("farmer")
	crop := r.FormValue("crop")
	if err != nil || farmer == "" || crop == "" {
		respondError(w, http.StatusBadRequest, "Missing required fields", nil)
		return
	}
	defer file.Close()

	id := uuid.NewString()
	key := "images/" + id + "-" + filepath.Base(header.Filename)

	if err := h.blobs.Upload(r.Context(), key, header.Header.Get("Content-Type"), file); err != nil {
		log.Error().Err(err).Str("key", key).Msg("Failed to store image blob")
		respondError(w, http.StatusInternalServerError, "Upload failed", err)
		return
	}

	if err := h.store.CreateImage(r.Context(), imagedb.NewImage{
		ID:     id,
		Farmer: farmer,
		Crop:   crop,
		S3Key:  key,
	}); err != nil {
		log.Error().Err(err).Str("id", id).Msg("Failed to write image record")
		respondError(w, http.StatusInternalServerError, "Upload failed", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"success": true})
}
