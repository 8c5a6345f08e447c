package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/mosaiq/gallery/internal/models"
)

// CatalogRepository handles data access for the catalog_entries table.
type CatalogRepository struct {
	db *pgxpool.Pool
}

// NewCatalogRepository creates a new catalog repository.
func NewCatalogRepository(db *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// Insert creates a new catalog row and returns its generated ID. There is no
// uniqueness constraint on (image_url, prompt); duplicate contributions simply
// create duplicate rows.
func (r *CatalogRepository) Insert(ctx context.Context, entry models.NewCatalogEntry) (uuid.UUID, error) {
	vec := pgvector.NewVector(entry.Embedding)

	var id uuid.UUID

	err := r.db.QueryRow(ctx, `
		INSERT INTO catalog_entries (profile_id, prompt, image_url, embedding)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		entry.ProfileID, entry.Prompt, entry.ImageURL, vec,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("catalog insert: %w", err)
	}

	return id, nil
}

// NearestByEmbedding returns the catalog entries nearest to queryEmbedding, with the
// owner's display name left-joined for attribution. Uses cosine distance (<=>);
// score = 1 - distance, so ordering by distance ascending is ordering by score
// descending. Rows without an embedding are excluded.
func (r *CatalogRepository) NearestByEmbedding(
	ctx context.Context, queryEmbedding []float32, limit int,
) ([]models.CatalogEntryWithScore, error) {
	queryVec := pgvector.NewVector(queryEmbedding)

	rows, err := r.db.Query(ctx, `
		SELECT ce.id, ce.profile_id, p.display_name, ce.prompt, ce.image_url, ce.created_at,
		       (1 - (ce.embedding <=> $1)) AS score
		FROM catalog_entries ce
		LEFT JOIN profiles p ON p.id = ce.profile_id
		WHERE ce.embedding IS NOT NULL
		ORDER BY ce.embedding <=> $1
		LIMIT $2`, queryVec, limit)
	if err != nil {
		return nil, fmt.Errorf("nearest catalog entries: %w", err)
	}

	defer rows.Close()

	var results []models.CatalogEntryWithScore

	for rows.Next() {
		var row models.CatalogEntryWithScore

		if err := rows.Scan(
			&row.ID, &row.ProfileID, &row.DisplayName, &row.Prompt, &row.ImageURL, &row.CreatedAt, &row.Score,
		); err != nil {
			return nil, fmt.Errorf("scan catalog entry with score: %w", err)
		}

		results = append(results, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating nearest: %w", err)
	}

	return results, nil
}

// ListByProfile returns all catalog entries owned by the given profile, newest first.
func (r *CatalogRepository) ListByProfile(ctx context.Context, profileID uuid.UUID) ([]models.CatalogEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, profile_id, prompt, image_url, created_at
		FROM catalog_entries
		WHERE profile_id = $1
		ORDER BY created_at DESC`, profileID)
	if err != nil {
		return nil, fmt.Errorf("list catalog entries by profile: %w", err)
	}

	defer rows.Close()

	var entries []models.CatalogEntry

	for rows.Next() {
		var entry models.CatalogEntry

		if err := rows.Scan(&entry.ID, &entry.ProfileID, &entry.Prompt, &entry.ImageURL, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan catalog entry: %w", err)
		}

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating catalog entries: %w", err)
	}

	return entries, nil
}
