package utils

import (
	"errors"
	"net/http"
)

// Sentinel errors for the outcomes the API distinguishes. Wrap them with
// fmt.Errorf("...: %w", Err...) so controllers can map them with errors.Is.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrConflict     = errors.New("resource already exists")
	ErrInvalidState = errors.New("invalid state for this operation")
	ErrValidation   = errors.New("validation failed")
	ErrUpstream     = errors.New("upstream service unavailable")
)

// HTTPStatus maps a taxonomy error to the status code the API responds with.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
