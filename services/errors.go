package services

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// Error kinds. Controllers map these onto HTTP status codes; everything else
// is treated as an internal error.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidState = errors.New("invalid state")
	ErrValidation   = errors.New("validation error")
	ErrDependency   = errors.New("dependency failure")
)

// Error wraps a kind with a caller-facing message.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Kind }

func notFound(msg string) error     { return &Error{Kind: ErrNotFound, Message: msg} }
func forbidden(msg string) error    { return &Error{Kind: ErrForbidden, Message: msg} }
func invalidState(msg string) error { return &Error{Kind: ErrInvalidState, Message: msg} }
func validation(msg string) error   { return &Error{Kind: ErrValidation, Message: msg} }

func dependency(msg string, cause error) error {
	if cause != nil {
		msg = msg + ": " + cause.Error()
	}
	return &Error{Kind: ErrDependency, Message: msg}
}

// HTTPStatus maps an engine error to the status code the JSON envelope uses.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, ErrInvalidState):
		return fiber.StatusConflict
	case errors.Is(err, ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrDependency):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
