package api

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"ragsearch/types"
)

// ErrorHandler is the single place domain errors become status codes.
// Internal error text is logged but not echoed for generic failures.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var apiErr Error
	if errors.As(err, &apiErr) {
		return c.Status(apiErr.Code).JSON(apiErr)
	}

	var valErr ValidationError
	if errors.As(err, &valErr) {
		return c.Status(valErr.Status).JSON(valErr)
	}

	var invalidErr types.InvalidDocumentError
	if errors.As(err, &invalidErr) {
		return c.Status(fiber.StatusBadRequest).JSON(NewError(fiber.StatusBadRequest, invalidErr.Error()))
	}

	var searchErr types.SearchError
	if errors.As(err, &searchErr) {
		slog.Error("vector search failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).
			JSON(NewError(fiber.StatusInternalServerError, "Search failed"))
	}

	var fibErr *fiber.Error
	if errors.As(err, &fibErr) {
		return c.Status(fibErr.Code).JSON(NewError(fibErr.Code, fibErr.Message))
	}

	slog.Error("request failed", "error", err)
	return c.Status(fiber.StatusInternalServerError).
		JSON(NewError(fiber.StatusInternalServerError, "An unexpected error occurred"))
}

// Error is the generic JSON error body.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"error"`
}

func (e Error) Error() string {
	return e.Message
}

func NewError(code int, err string) Error {
	return Error{
		Code:    code,
		Message: err,
	}
}

func ErrBadRequest() Error {
	return Error{
		Code:    fiber.StatusBadRequest,
		Message: "invalid JSON request",
	}
}

type ValidationError struct {
	Status int               `json:"status"`
	Errors map[string]string `json:"errors"`
}

func (e ValidationError) Error() string {
	return "validation failed"
}

func NewValidationError(errors map[string]string) ValidationError {
	return ValidationError{
		Status: fiber.StatusUnprocessableEntity,
		Errors: errors,
	}
}
