package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/mosaiq/gallery/internal/models"
)

// Sentinel errors for contribution input validation.
var (
	ErrMissingImageURL = errors.New("imageUrl is required")
	ErrMissingPrompt   = errors.New("prompt is required")
)

// CatalogInserter provides the catalog write needed for contributions.
type CatalogInserter interface {
	Insert(ctx context.Context, entry models.NewCatalogEntry) (uuid.UUID, error)
}

// ContributionService records a generated image into the shared catalog. The prompt
// is always re-embedded here; vectors computed during search are never reused.
type ContributionService struct {
	embeddingClient EmbeddingClient
	catalogRepo     CatalogInserter
	logger          *slog.Logger
}

// NewContributionService creates a ContributionService. Logger may be nil.
func NewContributionService(embeddingClient EmbeddingClient, catalogRepo CatalogInserter, logger *slog.Logger) *ContributionService {
	if logger == nil {
		logger = slog.Default()
	}

	return &ContributionService{
		embeddingClient: embeddingClient,
		catalogRepo:     catalogRepo,
		logger:          logger,
	}
}

// Contribute embeds the prompt and inserts a catalog row referencing the stored
// image. profileID is optional attribution. Duplicate (imageUrl, prompt) pairs are
// allowed and create distinct rows.
func (s *ContributionService) Contribute(
	ctx context.Context, imageURL, prompt string, profileID *uuid.UUID,
) (uuid.UUID, error) {
	if strings.TrimSpace(imageURL) == "" {
		return uuid.Nil, ErrMissingImageURL
	}

	if strings.TrimSpace(prompt) == "" {
		return uuid.Nil, ErrMissingPrompt
	}

	embedding, err := s.embeddingClient.CreateEmbedding(ctx, prompt)
	if err != nil {
		s.logger.Error("contribute: create embedding failed", "error", err)

		return uuid.Nil, fmt.Errorf("create embedding: %w", err)
	}

	id, err := s.catalogRepo.Insert(ctx, models.NewCatalogEntry{
		ProfileID: profileID,
		Prompt:    prompt,
		ImageURL:  imageURL,
		Embedding: embedding,
	})
	if err != nil {
		s.logger.Error("contribute: catalog insert failed", "error", err)

		return uuid.Nil, fmt.Errorf("catalog insert: %w", err)
	}

	return id, nil
}
