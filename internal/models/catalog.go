package models

import (
	"time"

	"github.com/google/uuid"
)

// CatalogEntry represents one image in the shared catalog: the prompt that produced it,
// the durable image URL, and the prompt's embedding. Rows are immutable after insert.
type CatalogEntry struct {
	ID        uuid.UUID  `json:"id"`
	ProfileID *uuid.UUID `json:"profile_id,omitempty"`
	Prompt    string     `json:"prompt"`
	ImageURL  string     `json:"image_url"`
	Embedding []float32  `json:"embedding,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// Profile is the attribution view of an auth-provider user: id and display name only.
type Profile struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
}

// CatalogEntryWithScore is a search result: a catalog entry joined with its owner's
// display name and the similarity score (1 - cosine distance) for the current query.
// Transient, recomputed per query; never persisted.
type CatalogEntryWithScore struct {
	ID          uuid.UUID  `json:"id"`
	ProfileID   *uuid.UUID `json:"profile_id,omitempty"`
	DisplayName *string    `json:"display_name,omitempty"`
	Prompt      string     `json:"prompt"`
	ImageURL    string     `json:"image_url"`
	CreatedAt   time.Time  `json:"created_at"`
	Score       float64    `json:"score"`
}

// NewCatalogEntry holds the fields required to insert a catalog row.
type NewCatalogEntry struct {
	ProfileID *uuid.UUID
	Prompt    string
	ImageURL  string
	Embedding []float32
}
