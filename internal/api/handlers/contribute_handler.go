package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/mosaiq/gallery/internal/api/middleware"
	"github.com/mosaiq/gallery/internal/api/response"
	"github.com/mosaiq/gallery/internal/service"
)

// ContributionService defines the interface for recording images into the catalog.
type ContributionService interface {
	Contribute(ctx context.Context, imageURL, prompt string, profileID *uuid.UUID) (uuid.UUID, error)
}

// ContributeHandler handles HTTP requests for catalog contributions.
type ContributeHandler struct {
	service ContributionService
}

// NewContributeHandler creates a new contribution handler.
func NewContributeHandler(service ContributionService) *ContributeHandler {
	return &ContributeHandler{service: service}
}

// ContributeRequest is the body for POST /v1/contribute.
type ContributeRequest struct {
	ImageURL string `json:"imageUrl"`
	Prompt   string `json:"prompt"`
}

// ContributeResponse is the response for a successful contribution.
type ContributeResponse struct {
	Success  bool   `json:"success"`
	ImageURL string `json:"imageUrl"`
}

// Contribute handles POST /v1/contribute. Attribution is taken from the request's
// auth context when a valid token was sent; anonymous contributions are allowed.
func (h *ContributeHandler) Contribute(w http.ResponseWriter, r *http.Request) {
	var req ContributeRequest

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&req); err != nil {
		response.RespondBadRequest(w, "invalid request body")

		return
	}

	profileID := middleware.ProfileIDFromContext(r.Context())

	_, err := h.service.Contribute(r.Context(), req.ImageURL, req.Prompt, profileID)
	if err != nil {
		if errors.Is(err, service.ErrMissingImageURL) || errors.Is(err, service.ErrMissingPrompt) {
			response.RespondBadRequest(w, "imageUrl and prompt are required")

			return
		}

		response.RespondInternalServerError(w, "contribute failed")

		return
	}

	response.RespondJSON(w, http.StatusOK, ContributeResponse{
		Success:  true,
		ImageURL: req.ImageURL,
	})
}
