package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/agrovision/labeldesk/internal/imagedb"
)

type imagesResponse struct {
	Items      []imagedb.Image `json:"items"`
	NextCursor *string         `json:"nextCursor"`
}

// Images serves one filtered, cursor-paginated page of image records
// with resolved access URLs.
func (h *Handler) Images(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := imagedb.ParseFilters(q)
	limit := imagedb.ParseLimit(q.Get("limit"))

	page, err := h.store.List(r.Context(), filters, limit, q.Get("cursor"))
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch images")
		respondError(w, http.StatusInternalServerError, "Failed to fetch images", err)
		return
	}

	keys := make([]string, len(page.Images))
	for i := range page.Images {
		keys[i] = page.Images[i].S3Key
	}
	urls := h.blobs.ResolveURLs(r.Context(), keys)
	for i := range page.Images {
		page.Images[i].ImageURL = urls[i]
	}

	resp := imagesResponse{Items: page.Images}
	if page.NextCursor != "" {
		resp.NextCursor = &page.NextCursor
	}
	respondJSON(w, http.StatusOK, resp)
}
