package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mosaiq/gallery/internal/api/response"
	"github.com/mosaiq/gallery/internal/openai"
	"github.com/mosaiq/gallery/internal/service"
)

// Error codes the generation flow reports to clients. These are the only
// recognized kinds; everything else collapses to unknown.
const (
	CodeBillingLimitReached = "BILLING_LIMIT_REACHED"
	CodeGenerationError     = "GENERATION_ERROR"
	CodeUnknownError        = "UNKNOWN_ERROR"
)

// GenerationService defines the interface for prompt-to-durable-URL generation.
type GenerationService interface {
	Generate(ctx context.Context, prompt, size string) (string, error)
}

// GenerateHandler handles HTTP requests for image generation.
type GenerateHandler struct {
	service GenerationService
}

// NewGenerateHandler creates a new generation handler.
func NewGenerateHandler(service GenerationService) *GenerateHandler {
	return &GenerateHandler{service: service}
}

// GenerateRequest is the body for POST /v1/generate.
type GenerateRequest struct {
	Prompt string `json:"prompt"`
	Size   string `json:"size,omitempty"`
}

// GenerateResponse is the response for a successful generation.
type GenerateResponse struct {
	ImageURL string `json:"imageUrl"`
}

// Generate handles POST /v1/generate.
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&req); err != nil {
		response.RespondBadRequest(w, "invalid request body")

		return
	}

	imageURL, err := h.service.Generate(r.Context(), req.Prompt, req.Size)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyPrompt):
			response.RespondBadRequest(w, "prompt required")
		case errors.Is(err, openai.ErrBillingLimit):
			response.RespondErrorCode(w, http.StatusPaymentRequired,
				"APIの課金制限に達しました。しばらく時間をおいてから再度お試しください。", CodeBillingLimitReached)
		case errors.Is(err, openai.ErrPromptRejected):
			response.RespondErrorCode(w, http.StatusBadRequest,
				"画像生成に失敗しました。プロンプトを変更してお試しください。", CodeGenerationError)
		default:
			response.RespondErrorCode(w, http.StatusInternalServerError,
				"画像生成に失敗しました。", CodeUnknownError)
		}

		return
	}

	response.RespondJSON(w, http.StatusOK, GenerateResponse{ImageURL: imageURL})
}
