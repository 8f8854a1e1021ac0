package presenter

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/resumebuilder/pkg/importer"
	"github.com/artem13815/resumebuilder/pkg/llm"
	"github.com/artem13815/resumebuilder/pkg/resume"
)

const (
	CodeBadRequest    = "BAD_REQUEST"
	CodeMalformed     = "MALFORMED_INPUT"
	CodeValidation    = "VALIDATION_ERROR"
	CodeBadGateway    = "BAD_GATEWAY"
	CodeConfiguration = "CONFIGURATION_ERROR"
	CodeNotFound      = "NOT_FOUND"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeConflict      = "CONFLICT"
	CodeInternal      = "INTERNAL_ERROR"
)

type ErrorResponse struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Fields  []resume.FieldError `json:"fields,omitempty"`
}

func JSON(c *fiber.Ctx, status int, v any) error {
	return c.Status(status).JSON(v)
}

func Error(c *fiber.Ctx, status int, code, message string) error {
	return JSON(c, status, ErrorResponse{Code: code, Message: message})
}

// Status maps a domain error onto its HTTP status and error code.
func Status(err error) (int, string) {
	switch {
	case errors.Is(err, resume.ErrMalformedInput):
		return http.StatusBadRequest, CodeMalformed
	case errors.Is(err, importer.ErrUnknownFormat):
		return http.StatusBadRequest, CodeBadRequest
	case errors.Is(err, resume.ErrValidation):
		return http.StatusUnprocessableEntity, CodeValidation
	case errors.Is(err, llm.ErrGateway):
		return http.StatusBadGateway, CodeBadGateway
	case errors.Is(err, llm.ErrConfiguration):
		return http.StatusInternalServerError, CodeConfiguration
	case errors.Is(err, resume.ErrNotFound):
		return http.StatusNotFound, CodeNotFound
	}
	return http.StatusInternalServerError, CodeInternal
}

// Body builds the client-facing error for err. Validation errors carry
// every offending field; unexpected errors are logged and hidden.
func Body(ctx context.Context, err error) (int, ErrorResponse) {
	status, code := Status(err)
	resp := ErrorResponse{Code: code, Message: err.Error()}
	var ve *resume.ValidationError
	if errors.As(err, &ve) {
		resp.Fields = ve.Fields
	}
	if code == CodeInternal {
		slog.ErrorContext(ctx, "request failed", "error", err)
		resp.Message = "internal error"
	}
	return status, resp
}

// FromError writes err as an ErrorResponse.
func FromError(c *fiber.Ctx, err error) error {
	status, resp := Body(c.UserContext(), err)
	return JSON(c, status, resp)
}
