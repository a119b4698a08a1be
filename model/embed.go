// Package model generates embeddings: it chunks extracted text and turns
// chunks and queries into fixed-dimension vectors via an Ollama model.
package model

import (
	"context"

	"ragsearch/types"
)

// Embedder produces embeddings for documents and queries. The two modes
// are asymmetric: retrieval-tuned encoders prefix documents and queries
// differently, so the same text embeds to different vectors per mode.
type Embedder interface {
	EmbedDocument(ctx context.Context, text string) ([]types.Chunk, error)
	EmbedQuery(ctx context.Context, query string) ([]float32, error)
	Dimension() int
}
