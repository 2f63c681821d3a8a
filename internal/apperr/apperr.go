// Package apperr defines the application error kinds and the single HTTP
// boundary that translates them to status codes and JSON error bodies.
package apperr

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
)

var (
	// ErrInvalidInput covers empty updates, malformed filter values and
	// failed request validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnauthorized means no identity was presented.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden means the identity lacks the required privilege.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound means a referenced record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate means an equivalent record already exists.
	ErrDuplicate = errors.New("already exists")
)

// StatusCode maps an error to the HTTP status it should surface as.
// Unknown errors are internal.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrDuplicate):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return fiber.StatusNotFound
	}
	return fiber.StatusInternalServerError
}

// ErrorHandler is the fiber error handler for the whole app. Every error
// returned by a handler or middleware ends up here and is rendered as
// {"error": <message>}. Internal errors are logged and masked.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := StatusCode(err)
	message := err.Error()

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	} else if code == fiber.StatusInternalServerError {
		log.Printf("internal error: %s %s: %v", c.Method(), c.Path(), err)
		message = "internal server error"
	}

	return c.Status(code).JSON(fiber.Map{"error": message})
}
