package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mosaiq/gallery/internal/api/response"
	"github.com/mosaiq/gallery/internal/models"
	"github.com/mosaiq/gallery/internal/service"
)

// SearchService defines the interface for semantic catalog search.
type SearchService interface {
	Search(ctx context.Context, query string) ([]models.CatalogEntryWithScore, error)
}

// SearchHandler handles HTTP requests for semantic search over the catalog.
type SearchHandler struct {
	service SearchService
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(service SearchService) *SearchHandler {
	return &SearchHandler{service: service}
}

// SearchRequest is the body for POST /v1/search.
type SearchRequest struct {
	Query string `json:"query"`
}

// SearchResponse is the response for a successful search.
type SearchResponse struct {
	Success bool               `json:"success"`
	Query   string             `json:"query"`
	Results []SearchResultItem `json:"results"`
	Count   int                `json:"count"`
}

// SearchResultItem is one ranked catalog entry with attribution and similarity.
type SearchResultItem struct {
	ID          uuid.UUID  `json:"id"`
	ProfileID   *uuid.UUID `json:"profileId"`
	DisplayName *string    `json:"displayName"`
	Prompt      string     `json:"prompt"`
	ImageURL    string     `json:"imageUrl"`
	CreatedAt   string     `json:"createdAt"`
	Similarity  float64    `json:"similarity"`
}

// Search handles POST /v1/search.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&req); err != nil {
		response.RespondBadRequest(w, "invalid request body")

		return
	}

	results, err := h.service.Search(r.Context(), req.Query)
	if err != nil {
		if errors.Is(err, service.ErrEmptyQuery) {
			response.RespondBadRequest(w, "query is required")

			return
		}

		response.RespondInternalServerError(w, "search failed")

		return
	}

	items := make([]SearchResultItem, len(results))
	for i := range results {
		items[i] = SearchResultItem{
			ID:          results[i].ID,
			ProfileID:   results[i].ProfileID,
			DisplayName: results[i].DisplayName,
			Prompt:      results[i].Prompt,
			ImageURL:    results[i].ImageURL,
			CreatedAt:   results[i].CreatedAt.UTC().Format(time.RFC3339),
			Similarity:  results[i].Score,
		}
	}

	response.RespondJSON(w, http.StatusOK, SearchResponse{
		Success: true,
		Query:   req.Query,
		Results: items,
		Count:   len(items),
	})
}
