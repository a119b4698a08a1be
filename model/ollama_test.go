package model

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ragsearch/types"
)

func newEmbeddingServer(t *testing.T, embedding []float64, prompts *[]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ollamaEmbeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if prompts != nil {
			*prompts = append(*prompts, req.Prompt)
		}
		json.NewEncoder(w).Encode(ollamaEmbeddingResponse{Embedding: embedding})
	}))
}

func TestEmbedQueryUsesQueryPrefix(t *testing.T) {
	var prompts []string
	srv := newEmbeddingServer(t, []float64{1, 0, 0}, &prompts)
	defer srv.Close()

	e := NewOllamaEmbedder(srv.URL, "test-model", 3, nil)
	vec, err := e.EmbedQuery(context.Background(), "what is rag")
	require.NoError(t, err)

	assert.Len(t, vec, 3)
	require.Len(t, prompts, 1)
	assert.Equal(t, "search_query: what is rag", prompts[0])
}

func TestEmbedDocumentUsesDocumentPrefix(t *testing.T) {
	var prompts []string
	srv := newEmbeddingServer(t, []float64{0, 1, 0}, &prompts)
	defer srv.Close()

	chunker, err := NewChunker(100)
	if err != nil {
		t.Skipf("tokenizer unavailable: %v", err)
	}

	e := NewOllamaEmbedder(srv.URL, "test-model", 3, chunker)
	chunks, err := e.EmbedDocument(context.Background(), "hello world")
	require.NoError(t, err)

	require.Len(t, chunks, 1)
	assert.Equal(t, "hello world", chunks[0].Text)
	require.Len(t, prompts, 1)
	assert.Equal(t, "search_document: hello world", prompts[0])
}

func TestEmbedNormalizesVector(t *testing.T) {
	srv := newEmbeddingServer(t, []float64{3, 4}, nil)
	defer srv.Close()

	e := NewOllamaEmbedder(srv.URL, "test-model", 2, nil)
	vec, err := e.EmbedQuery(context.Background(), "query")
	require.NoError(t, err)

	require.Len(t, vec, 2)
	assert.InDelta(t, 0.6, vec[0], 1e-6)
	assert.InDelta(t, 0.8, vec[1], 1e-6)

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-6)
}

func TestEmbedRejectsDimensionMismatch(t *testing.T) {
	srv := newEmbeddingServer(t, []float64{1, 0, 0, 0}, nil)
	defer srv.Close()

	e := NewOllamaEmbedder(srv.URL, "test-model", 3, nil)
	_, err := e.EmbedQuery(context.Background(), "query")

	var embErr types.EmbeddingError
	require.ErrorAs(t, err, &embErr)
	assert.Contains(t, embErr.Message, "dimensions")
}

func TestEmbedSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	e := NewOllamaEmbedder(srv.URL, "missing-model", 3, nil)
	_, err := e.EmbedQuery(context.Background(), "query")

	var embErr types.EmbeddingError
	require.ErrorAs(t, err, &embErr)
	assert.Contains(t, embErr.Message, "status 404")
}

func TestEmbedUnreachableModel(t *testing.T) {
	e := NewOllamaEmbedder("http://127.0.0.1:1/api/embeddings", "test-model", 3, nil)
	_, err := e.EmbedQuery(context.Background(), "query")

	var embErr types.EmbeddingError
	require.ErrorAs(t, err, &embErr)
}
