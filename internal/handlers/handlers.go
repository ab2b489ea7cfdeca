// Package handlers exposes the JSON API consumed by the review
// dashboard.
package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/agrovision/labeldesk/internal/imagedb"
)

// ImageStore is the metadata surface the handlers consume.
// Implemented by *imagedb.Store.
type ImageStore interface {
	List(ctx context.Context, f imagedb.Filters, limit int, cursor string) (imagedb.Page, error)
	Stats(ctx context.Context, f imagedb.Filters) (imagedb.Stats, error)
	FarmerDirectory(ctx context.Context) (*imagedb.Directory, error)
	UpdateImage(ctx context.Context, id string, fields imagedb.UpdateFields, updatedBy string) error
	CreateImage(ctx context.Context, rec imagedb.NewImage) error
}

// BlobStore is the object storage surface the handlers consume.
// Implemented by *blobstore.Store.
type BlobStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) error
	ResolveURLs(ctx context.Context, keys []string) []string
}

// Handler contains the API handlers.
type Handler struct {
	store ImageStore
	blobs BlobStore
}

// New creates a new handler instance.
func New(store ImageStore, blobs BlobStore) *Handler {
	return &Handler{store: store, blobs: blobs}
}

// Register mounts the API routes on a router.
func (h *Handler) Register(api *mux.Router) {
	api.HandleFunc("/images", h.Images).Methods(http.MethodGet)
	api.HandleFunc("/images/update", h.UpdateImage).Methods(http.MethodPut)
	api.HandleFunc("/stats", h.Stats).Methods(http.MethodGet)
	api.HandleFunc("/farmers", h.Farmers).Methods(http.MethodGet)
	api.HandleFunc("/upload", h.Upload).Methods(http.MethodPost)
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// respondError reports a failure distinguishable from an empty result.
func respondError(w http.ResponseWriter, status int, label string, err error) {
	body := map[string]any{
		"ok":    false,
		"error": label,
	}
	if err != nil {
		body["message"] = err.Error()
	}
	respondJSON(w, status, body)
}
