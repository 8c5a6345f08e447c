package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mosaiq/gallery/internal/models"
)

// SearchLimit is the maximum number of results a search returns.
const SearchLimit = 5

// ErrEmptyQuery is returned for empty or whitespace-only queries (used by handlers for status mapping).
var ErrEmptyQuery = errors.New("query is required and must be non-empty")

// CatalogRepositoryForSearch provides the nearest-neighbor read needed for semantic search.
type CatalogRepositoryForSearch interface {
	NearestByEmbedding(ctx context.Context, queryEmbedding []float32, limit int) ([]models.CatalogEntryWithScore, error)
}

// SearchService performs semantic similarity search over the catalog. Each query is
// embedded fresh and ranked in the store; nothing is cached between requests.
type SearchService struct {
	embeddingClient EmbeddingClient
	catalogRepo     CatalogRepositoryForSearch
	logger          *slog.Logger
}

// NewSearchService creates a SearchService. Logger may be nil (slog default is used).
func NewSearchService(embeddingClient EmbeddingClient, catalogRepo CatalogRepositoryForSearch, logger *slog.Logger) *SearchService {
	if logger == nil {
		logger = slog.Default()
	}

	return &SearchService{
		embeddingClient: embeddingClient,
		catalogRepo:     catalogRepo,
		logger:          logger,
	}
}

// Search returns up to SearchLimit catalog entries ordered by descending similarity
// to the query. The query must be non-empty after trimming; no external call is made
// otherwise. Either the whole flow succeeds or the caller gets one error — partial
// results are never returned.
func (s *SearchService) Search(ctx context.Context, query string) ([]models.CatalogEntryWithScore, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	embedding, err := s.embeddingClient.CreateEmbedding(ctx, query)
	if err != nil {
		s.logger.Error("search: create embedding failed", "error", err)

		return nil, fmt.Errorf("create embedding: %w", err)
	}

	results, err := s.catalogRepo.NearestByEmbedding(ctx, embedding, SearchLimit)
	if err != nil {
		s.logger.Error("search: nearest failed", "error", err)

		return nil, fmt.Errorf("nearest catalog entries: %w", err)
	}

	return results, nil
}
