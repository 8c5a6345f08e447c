package service

import "context"

// EmbeddingClient generates an embedding vector for a text prompt.
type EmbeddingClient interface {
	CreateEmbedding(ctx context.Context, input string) ([]float32, error)
}
