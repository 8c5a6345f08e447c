package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mosaiq/gallery/internal/models"
)

// CatalogRepositoryForGallery provides the per-profile catalog read for the gallery page.
type CatalogRepositoryForGallery interface {
	ListByProfile(ctx context.Context, profileID uuid.UUID) ([]models.CatalogEntry, error)
}

// GalleryService lists the catalog entries owned by one profile.
type GalleryService struct {
	catalogRepo CatalogRepositoryForGallery
	logger      *slog.Logger
}

// NewGalleryService creates a GalleryService. Logger may be nil.
func NewGalleryService(catalogRepo CatalogRepositoryForGallery, logger *slog.Logger) *GalleryService {
	if logger == nil {
		logger = slog.Default()
	}

	return &GalleryService{catalogRepo: catalogRepo, logger: logger}
}

// List returns the profile's catalog entries, newest first.
func (s *GalleryService) List(ctx context.Context, profileID uuid.UUID) ([]models.CatalogEntry, error) {
	entries, err := s.catalogRepo.ListByProfile(ctx, profileID)
	if err != nil {
		s.logger.Error("gallery: list failed", "error", err, "profileId", profileID.String())

		return nil, fmt.Errorf("list catalog entries: %w", err)
	}

	return entries, nil
}
