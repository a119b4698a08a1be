package model

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"ragsearch/types"
)

// Mode prefixes understood by retrieval-tuned Ollama models such as
// nomic-embed-text. Document and query encodings must stay distinct.
const (
	documentPrefix = "search_document: "
	queryPrefix    = "search_query: "
)

// OllamaEmbedder creates embeddings through the Ollama embeddings API.
type OllamaEmbedder struct {
	apiURL    string
	model     string
	dimension int
	chunker   *Chunker
	client    *http.Client
	timeout   time.Duration
}

type ollamaEmbeddingRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type ollamaEmbeddingResponse struct {
	Embedding []float64 `json:"embedding"`
}

func NewOllamaEmbedder(apiURL, model string, dimension int, chunker *Chunker) *OllamaEmbedder {
	return &OllamaEmbedder{
		apiURL:    apiURL,
		model:     model,
		dimension: dimension,
		chunker:   chunker,
		client:    http.DefaultClient,
		timeout:   30 * time.Second,
	}
}

// EmbedDocument chunks the text and encodes each chunk in document mode,
// returning one vector per chunk in chunk order.
func (e *OllamaEmbedder) EmbedDocument(ctx context.Context, text string) ([]types.Chunk, error) {
	pieces := e.chunker.Split(text)
	chunks := make([]types.Chunk, 0, len(pieces))
	for _, piece := range pieces {
		vec, err := e.embed(ctx, documentPrefix+piece)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, types.Chunk{Text: piece, Embedding: vec})
	}
	return chunks, nil
}

// EmbedQuery encodes a raw query string in query mode.
func (e *OllamaEmbedder) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	return e.embed(ctx, queryPrefix+query)
}

func (e *OllamaEmbedder) Dimension() int {
	return e.dimension
}

func (e *OllamaEmbedder) embed(ctx context.Context, prompt string) ([]float32, error) {
	body, err := json.Marshal(ollamaEmbeddingRequest{
		Model:  e.model,
		Prompt: prompt,
	})
	if err != nil {
		return nil, types.EmbeddingError{Message: "failed to marshal request", Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.apiURL, bytes.NewBuffer(body))
	if err != nil {
		return nil, types.EmbeddingError{Message: "failed to create request", Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(httpReq)
	if err != nil {
		return nil, types.EmbeddingError{Message: "failed to reach embedding model", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, types.EmbeddingError{
			Message: fmt.Sprintf("ollama API error: status %d, body: %s", resp.StatusCode, string(respBody)),
		}
	}

	var ollamaResp ollamaEmbeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&ollamaResp); err != nil {
		return nil, types.EmbeddingError{Message: "failed to unmarshal response", Err: err}
	}

	if len(ollamaResp.Embedding) != e.dimension {
		return nil, types.EmbeddingError{
			Message: fmt.Sprintf("model returned %d dimensions, index expects %d",
				len(ollamaResp.Embedding), e.dimension),
		}
	}

	norm := normalize64(ollamaResp.Embedding)
	embedding := make([]float32, len(norm))
	for i, v := range norm {
		embedding[i] = float32(v)
	}
	return embedding, nil
}

// normalize64 scales the vector to unit length so cosine scores stay in
// a comparable range across models.
func normalize64(vec []float64) []float64 {
	var sum float64
	for _, v := range vec {
		sum += v * v
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		return vec
	}
	out := make([]float64, len(vec))
	for i, x := range vec {
		out[i] = x / norm
	}
	return out
}
