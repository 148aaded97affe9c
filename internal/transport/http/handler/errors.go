package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/Zaharysh37/order-service/internal/repository"
	"github.com/Zaharysh37/order-service/internal/service"
	"github.com/gofiber/fiber/v2"
)

var (
	errInvalidPage = errors.New("page and size must be non-negative integers, size at most 100")
	errInvalidIDs  = errors.New("ids must be a comma-separated list of integers")
)

// errorBody is the structured error contract of the API: a stable status and
// a human-readable message, never internal stack detail.
type errorBody struct {
	Timestamp time.Time   `json:"timestamp"`
	Status    int         `json:"status"`
	Error     string      `json:"error"`
	Message   string      `json:"message"`
	Path      string      `json:"path"`
	Details   interface{} `json:"details,omitempty"`
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, repository.ErrOrderNotFound),
		errors.Is(err, repository.ErrItemNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrAccessDenied):
		return fiber.StatusForbidden
	case errors.Is(err, service.ErrUserServiceUnavailable):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, repository.ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, service.ErrEmptyOrder):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func writeServiceError(c *fiber.Ctx, err error) error {
	status := statusForError(err)

	message := err.Error()
	if status == fiber.StatusInternalServerError {
		message = "an unexpected internal server error occurred"
	}

	return writeBody(c, status, message, nil)
}

func writeBadRequest(c *fiber.Ctx, message string) error {
	return writeBody(c, fiber.StatusBadRequest, message, nil)
}

func writeErrorBadBody(c *fiber.Ctx) error {
	return writeBody(c, fiber.StatusBadRequest, "invalid request body: JSON is malformed", nil)
}

func writeValidationDetails(c *fiber.Ctx, details map[string]string) error {
	return writeBody(c, fiber.StatusBadRequest, "validation failed", details)
}

func writeBody(c *fiber.Ctx, status int, message string, details interface{}) error {
	return c.Status(status).JSON(errorBody{
		Timestamp: time.Now().UTC(),
		Status:    status,
		Error:     http.StatusText(status),
		Message:   message,
		Path:      c.Path(),
		Details:   details,
	})
}
