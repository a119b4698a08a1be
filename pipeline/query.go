package pipeline

import (
	"context"
	"log/slog"
	"time"

	"ragsearch/index"
	"ragsearch/model"
	"ragsearch/types"
)

type QueryPipeline struct {
	vectors  index.Indexer
	embedder model.Embedder
	logger   *slog.Logger
}

func NewQueryPipeline(vectors index.Indexer, embedder model.Embedder) *QueryPipeline {
	return &QueryPipeline{
		vectors:  vectors,
		embedder: embedder,
		logger:   slog.Default(),
	}
}

// Execute encodes the query, asks the index for the topK nearest chunks
// and rebuilds one document per hit from the stored metadata. Ranks
// follow the index ordering, 1-based, no re-breaking of ties. Zero hits
// return an empty list, not an error.
func (p *QueryPipeline) Execute(ctx context.Context, query string, topK int) ([]types.QueryResult, error) {
	p.logger.Info("processing query", "query", query, "top_k", topK)

	queryVector, err := p.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	hits, err := p.vectors.Search(ctx, queryVector, topK)
	if err != nil {
		return nil, err
	}
	p.logger.Info("found similar chunks", "count", len(hits))

	results := make([]types.QueryResult, 0, len(hits))
	for i, hit := range hits {
		doc := types.Document{
			ID:       hit.ID,
			Metadata: hit.Metadata,
		}
		if filename, ok := hit.Metadata["filename"].(string); ok {
			doc.Filename = filename
		}
		if chunk, ok := hit.Metadata["chunk"].(string); ok {
			doc.Content = []byte(chunk)
		}
		if createdAt, ok := hit.Metadata["created_at"].(string); ok {
			if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
				doc.CreatedAt = ts
			}
		}

		results = append(results, types.QueryResult{
			Document: doc,
			Score:    hit.Score,
			Rank:     i + 1,
		})
	}

	return results, nil
}
