package types

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// DefaultTopK is applied when a query request omits top_k.
const DefaultTopK = 5

type Validater interface {
	Validate() map[string]string
}

func Validate(v Validater) map[string]string {
	return v.Validate()
}

// TopK is a pointer so that an absent top_k falls back to DefaultTopK
// while an explicit out-of-range value (including 0) fails validation.
type QueryRequest struct {
	Query string `json:"query" validate:"required,min=1"`
	TopK  *int   `json:"top_k" validate:"omitempty,gte=1,lte=50"`
}

func (params *QueryRequest) TopKOrDefault() int {
	if params.TopK == nil {
		return DefaultTopK
	}
	return *params.TopK
}

func (params *QueryRequest) Validate() map[string]string {
	validate := validator.New()
	if err := validate.Struct(params); err != nil {
		errs := err.(validator.ValidationErrors)
		errors := make(map[string]string)
		for _, e := range errs {
			errors[e.Field()] = fmt.Sprintf("failed on '%s' tag", e.Tag())
		}
		return errors
	}
	return nil
}

type QueryResultResponse struct {
	Document DocumentResponse `json:"document"`
	Score    float64          `json:"score"`
	Rank     int              `json:"rank"`
}

type QueryResponse struct {
	Query        string                `json:"query"`
	Results      []QueryResultResponse `json:"results"`
	TotalResults int                   `json:"total_results"`
}
