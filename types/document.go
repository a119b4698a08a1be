package types

import (
	"time"

	"github.com/google/uuid"
)

// Document is a stored document. Instances are immutable once built: the
// pipelines never mutate a Document after construction.
type Document struct {
	ID        uuid.UUID      `json:"id"`
	Content   []byte         `json:"-"`
	Filename  string         `json:"filename"`
	Metadata  map[string]any `json:"metadata"`
	CreatedAt time.Time      `json:"created_at"`
}

// NewDocument builds a Document with a fresh id and a UTC creation time.
func NewDocument(content []byte, filename string, metadata map[string]any) Document {
	if metadata == nil {
		metadata = map[string]any{}
	}
	return Document{
		ID:        uuid.New(),
		Content:   content,
		Filename:  filename,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}
}

// Chunk is one token-bounded slice of extracted text paired with its
// embedding. Chunks are ephemeral: they are folded into vector metadata
// during upload and never persisted on their own.
type Chunk struct {
	Text      string
	Embedding []float32
}

// Hit is a single vector index search result.
type Hit struct {
	ID       uuid.UUID
	Score    float64
	Metadata map[string]any
}

// QueryResult pairs a document reconstructed from a hit with its
// similarity score and 1-based rank.
type QueryResult struct {
	Document Document
	Score    float64
	Rank     int
}

type DocumentResponse struct {
	ID        uuid.UUID      `json:"id"`
	Filename  string         `json:"filename"`
	Content   string         `json:"content,omitempty"`
	Metadata  map[string]any `json:"metadata"`
	CreatedAt time.Time      `json:"created_at"`
}

type UploadResponse struct {
	Success   bool               `json:"success"`
	Documents []DocumentResponse `json:"documents"`
	Message   string             `json:"message"`
}
