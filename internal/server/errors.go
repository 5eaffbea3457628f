package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/company-brief/internal/documents"
	"github.com/jonathan/company-brief/internal/types"
)

// MsgGenerationFailed is the only detail a client sees when generation fails.
const MsgGenerationFailed = "document generation failed"

// ErrBadRequest indicates a request body that could not be decoded
type ErrBadRequest struct {
	Message string
}

func (e *ErrBadRequest) Error() string {
	return e.Message
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		badRequest *ErrBadRequest
		validation *types.ValidationError
		generation *documents.GenerationError
	)
	switch {
	case errors.As(err, &badRequest), errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &generation):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage returns the client-facing message for an error. Only request
// errors are echoed back.
func publicMessage(err error) string {
	var (
		badRequest *ErrBadRequest
		validation *types.ValidationError
	)
	switch {
	case errors.As(err, &badRequest):
		return badRequest.Message
	case errors.As(err, &validation):
		return validation.Message
	case HTTPStatus(err) == http.StatusBadGateway:
		return MsgGenerationFailed
	default:
		return "internal server error"
	}
}
