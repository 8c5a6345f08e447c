package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mosaiq/gallery/internal/api/middleware"
	"github.com/mosaiq/gallery/internal/api/response"
	"github.com/mosaiq/gallery/internal/models"
)

// GalleryService defines the interface for listing a profile's catalog entries.
type GalleryService interface {
	List(ctx context.Context, profileID uuid.UUID) ([]models.CatalogEntry, error)
}

// GalleryHandler handles HTTP requests for the personal gallery page.
type GalleryHandler struct {
	service GalleryService
}

// NewGalleryHandler creates a new gallery handler.
func NewGalleryHandler(service GalleryService) *GalleryHandler {
	return &GalleryHandler{service: service}
}

// GalleryResponse is the response for a gallery listing.
type GalleryResponse struct {
	Success bool          `json:"success"`
	Results []GalleryItem `json:"results"`
	Count   int           `json:"count"`
}

// GalleryItem is one owned catalog entry.
type GalleryItem struct {
	ID        uuid.UUID `json:"id"`
	Prompt    string    `json:"prompt"`
	ImageURL  string    `json:"imageUrl"`
	CreatedAt string    `json:"createdAt"`
}

// List handles GET /v1/gallery. The route sits behind the auth middleware, so a
// missing profile in context means the chain is miswired, not a client mistake.
func (h *GalleryHandler) List(w http.ResponseWriter, r *http.Request) {
	profileID := middleware.ProfileIDFromContext(r.Context())
	if profileID == nil {
		response.RespondUnauthorized(w, "authentication required")

		return
	}

	entries, err := h.service.List(r.Context(), *profileID)
	if err != nil {
		response.RespondInternalServerError(w, "failed to load gallery")

		return
	}

	items := make([]GalleryItem, len(entries))
	for i := range entries {
		items[i] = GalleryItem{
			ID:        entries[i].ID,
			Prompt:    entries[i].Prompt,
			ImageURL:  entries[i].ImageURL,
			CreatedAt: entries[i].CreatedAt.UTC().Format(time.RFC3339),
		}
	}

	response.RespondJSON(w, http.StatusOK, GalleryResponse{
		Success: true,
		Results: items,
		Count:   len(items),
	})
}
