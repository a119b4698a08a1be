// Package index stores chunk embeddings in Postgres with the pgvector
// extension and answers cosine-similarity kNN queries.
package index

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"ragsearch/types"
)

// Indexer is the vector index contract. Store has upsert semantics, so
// writing the same id twice overwrites instead of duplicating. Delete is
// part of the contract for operational cleanup; the pipelines never call it.
type Indexer interface {
	Init(ctx context.Context) error
	Store(ctx context.Context, id uuid.UUID, vector []float32, metadata map[string]any) error
	Search(ctx context.Context, vector []float32, topK int) ([]types.Hit, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Close()
}

// candidateMultiplier oversamples the kNN candidate set for recall; the
// response is still truncated to topK.
const candidateMultiplier = 10

type PgVectorIndex struct {
	pool      *pgxpool.Pool
	table     string
	dimension int
	logger    *slog.Logger
}

func NewPgVectorIndex(ctx context.Context, connStr, table string, dimension int) (*PgVectorIndex, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, types.VectorStoreError{Message: "failed to connect to Postgres", Err: err}
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, types.VectorStoreError{Message: "failed to ping Postgres", Err: err}
	}

	return &PgVectorIndex{
		pool:      pool,
		table:     pgx.Identifier{table}.Sanitize(),
		dimension: dimension,
		logger:    slog.Default(),
	}, nil
}

// Init creates the extension, table and cosine index if absent. It is
// idempotent and runs on every process start before traffic is served.
func (p *PgVectorIndex) Init(ctx context.Context) error {
	query := fmt.Sprintf(`
    CREATE EXTENSION IF NOT EXISTS vector;

    CREATE TABLE IF NOT EXISTS %s (
        id UUID PRIMARY KEY,
        embedding vector(%d) NOT NULL,
        metadata JSONB NOT NULL DEFAULT '{}'::jsonb
    );

    CREATE INDEX IF NOT EXISTS idx_chunk_embedding ON %s
    USING ivfflat (embedding vector_cosine_ops)
    WITH (lists = 100);
    `, p.table, p.dimension, p.table)

	if _, err := p.pool.Exec(ctx, query); err != nil {
		return types.VectorStoreError{Message: "failed to initialize collection", Err: err}
	}
	p.logger.Info("vector collection ready", "table", p.table, "dimension", p.dimension)
	return nil
}

func (p *PgVectorIndex) Store(ctx context.Context, id uuid.UUID, vector []float32, metadata map[string]any) error {
	if len(vector) != p.dimension {
		return types.VectorStoreError{
			Message: fmt.Sprintf("vector has %d dimensions, collection expects %d", len(vector), p.dimension),
		}
	}

	query := fmt.Sprintf(`
    INSERT INTO %s (id, embedding, metadata)
    VALUES ($1, $2, $3)
    ON CONFLICT (id) DO UPDATE SET
        embedding = EXCLUDED.embedding,
        metadata = EXCLUDED.metadata
    `, p.table)

	if _, err := p.pool.Exec(ctx, query, id, pgvector.NewVector(vector), metadata); err != nil {
		return types.VectorStoreError{Message: "failed to store vector", Err: err}
	}
	return nil
}

// Search returns up to topK hits ordered by descending cosine similarity.
// The query scans an oversampled candidate set and truncates afterwards.
func (p *PgVectorIndex) Search(ctx context.Context, vector []float32, topK int) ([]types.Hit, error) {
	if len(vector) == 0 {
		return nil, types.SearchError{Message: "empty query vector"}
	}
	if topK <= 0 {
		topK = types.DefaultTopK
	}

	query := fmt.Sprintf(`
    SELECT id, metadata, 1 - (embedding <=> $1) AS score
    FROM %s
    ORDER BY embedding <=> $1
    LIMIT $2
    `, p.table)

	rows, err := p.pool.Query(ctx, query, pgvector.NewVector(vector), topK*candidateMultiplier)
	if err != nil {
		return nil, types.SearchError{Message: "failed to search vectors", Err: err}
	}
	defer rows.Close()

	var hits []types.Hit
	for rows.Next() {
		var hit types.Hit
		if err := rows.Scan(&hit.ID, &hit.Metadata, &hit.Score); err != nil {
			return nil, types.SearchError{Message: "failed to scan search result", Err: err}
		}
		hits = append(hits, hit)
	}
	if err := rows.Err(); err != nil {
		return nil, types.SearchError{Message: "failed to read search results", Err: err}
	}

	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}

func (p *PgVectorIndex) Delete(ctx context.Context, id uuid.UUID) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", p.table)
	if _, err := p.pool.Exec(ctx, query, id); err != nil {
		return types.VectorStoreError{Message: "failed to delete vector", Err: err}
	}
	return nil
}

func (p *PgVectorIndex) Close() {
	if p.pool != nil {
		p.pool.Close()
		p.logger.Info("Postgres connection pool is closed")
	}
}
