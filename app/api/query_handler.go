package api

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"ragsearch/pipeline"
	"ragsearch/types"
)

type QueryHandler struct {
	query  *pipeline.QueryPipeline
	logger *slog.Logger
}

func NewQueryHandler(query *pipeline.QueryPipeline) *QueryHandler {
	return &QueryHandler{
		query:  query,
		logger: slog.Default(),
	}
}

// HandleQuery runs a semantic search and returns the ranked results.
// Search and unexpected failures are mapped to 500 by the ErrorHandler.
func (h *QueryHandler) HandleQuery(c *fiber.Ctx) error {
	var params types.QueryRequest
	if c.BodyParser(&params) != nil {
		return ErrBadRequest()
	}

	if errors := types.Validate(&params); len(errors) > 0 {
		return NewValidationError(errors)
	}

	results, err := h.query.Execute(c.Context(), params.Query, params.TopKOrDefault())
	if err != nil {
		return err
	}

	resultResponses := make([]types.QueryResultResponse, 0, len(results))
	for _, result := range results {
		resultResponses = append(resultResponses, types.QueryResultResponse{
			Document: types.DocumentResponse{
				ID:        result.Document.ID,
				Filename:  result.Document.Filename,
				Content:   string(result.Document.Content),
				Metadata:  result.Document.Metadata,
				CreatedAt: result.Document.CreatedAt,
			},
			Score: result.Score,
			Rank:  result.Rank,
		})
	}

	return c.JSON(types.QueryResponse{
		Query:        params.Query,
		Results:      resultResponses,
		TotalResults: len(resultResponses),
	})
}
