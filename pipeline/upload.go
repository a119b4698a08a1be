// Package pipeline holds the two use cases of the service: uploading a
// document into the index and answering semantic queries against it.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"ragsearch/extract"
	"ragsearch/index"
	"ragsearch/model"
	"ragsearch/store"
	"ragsearch/types"
)

type UploadPipeline struct {
	documents store.DocumentStorer
	vectors   index.Indexer
	embedder  model.Embedder
	parser    extract.Parser
	logger    *slog.Logger
}

func NewUploadPipeline(documents store.DocumentStorer, vectors index.Indexer, embedder model.Embedder, parser extract.Parser) *UploadPipeline {
	return &UploadPipeline{
		documents: documents,
		vectors:   vectors,
		embedder:  embedder,
		parser:    parser,
		logger:    slog.Default(),
	}
}

// ChunkID derives a deterministic UUID from the document id and chunk
// index, so re-uploading the same document overwrites its chunks in the
// index instead of duplicating them.
func ChunkID(docID uuid.UUID, chunkIndex int) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, fmt.Appendf(nil, "%s/%d", docID, chunkIndex))
}

// Execute runs one upload end to end: persist the raw file, extract its
// text, embed the chunks, index each vector in chunk order. The first
// error aborts the remaining steps; already committed writes (the stored
// file, earlier chunks) are left in place without compensation.
func (p *UploadPipeline) Execute(ctx context.Context, content []byte, filename string, metadata map[string]any) (types.Document, error) {
	p.logger.Info("starting document upload", "filename", filename)

	doc := types.NewDocument(content, filename, metadata)

	if err := p.documents.Save(ctx, doc); err != nil {
		return types.Document{}, err
	}
	p.logger.Info("saved document to storage", "id", doc.ID, "filename", doc.Filename)

	text, err := p.parser.Parse(doc)
	if err != nil {
		return types.Document{}, err
	}

	chunks, err := p.embedder.EmbedDocument(ctx, text)
	if err != nil {
		return types.Document{}, err
	}
	p.logger.Info("generated embeddings", "id", doc.ID, "chunks", len(chunks))

	for i, chunk := range chunks {
		vectorMetadata := map[string]any{
			"filename":   doc.Filename,
			"created_at": doc.CreatedAt.Format(time.RFC3339Nano),
		}
		for k, v := range doc.Metadata {
			vectorMetadata[k] = v
		}
		vectorMetadata["chunk"] = chunk.Text
		vectorMetadata["chunk_index"] = i

		if err := p.vectors.Store(ctx, ChunkID(doc.ID, i), chunk.Embedding, vectorMetadata); err != nil {
			return types.Document{}, err
		}
	}
	p.logger.Info("stored embeddings in vector index", "id", doc.ID, "chunks", len(chunks))

	return doc, nil
}
