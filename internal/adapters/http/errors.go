package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/dayroute/internal/core/domain"
)

// APIError is a structured error response.
type APIError struct {
	Status     int               `json:"status"`
	Code       string            `json:"code"`    // bad_request, validation_failed, not_found, unavailable, internal_error
	Message    string            `json:"message"` // Human-readable message
	Kind       string            `json:"kind,omitempty"`
	ActivityID string            `json:"activity_id,omitempty"`
	Fields     map[string]string `json:"fields,omitempty"`
	RequestID  string            `json:"request_id,omitempty"`
}

// newError builds a JSON error response with a request ID.
func newError(c *fiber.Ctx, status int, code string, message string) error {
	return writeError(c, APIError{Status: status, Code: code, Message: message})
}

func writeError(c *fiber.Ctx, e APIError) error {
	e.RequestID, _ = c.Locals("requestid").(string)
	return c.Status(e.Status).JSON(e)
}

// errBadRequest returns a 400 error.
func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusBadRequest, "bad_request", msg)
}

// errInvalidFields returns a 400 error listing each rejected field.
func errInvalidFields(c *fiber.Ctx, fields map[string]string) error {
	return writeError(c, APIError{
		Status:  fiber.StatusBadRequest,
		Code:    "bad_request",
		Message: "request failed validation",
		Fields:  fields,
	})
}

// errValidation returns a 422 error for input the planner rejected.
func errValidation(c *fiber.Ctx, ve *domain.ValidationError) error {
	return writeError(c, APIError{
		Status:     fiber.StatusUnprocessableEntity,
		Code:       "validation_failed",
		Message:    ve.Message,
		Kind:       string(ve.Kind),
		ActivityID: ve.ActivityID,
	})
}

// errNotFound returns a 404 error.
func errNotFound(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusNotFound, "not_found", msg)
}

// errUnavailable returns a 503 error.
func errUnavailable(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusServiceUnavailable, "unavailable", msg)
}

// errInternal returns a 500 error.
func errInternal(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusInternalServerError, "internal_error", msg)
}

// errFromService maps a use case error onto the response envelope.
func errFromService(c *fiber.Ctx, err error) error {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return errValidation(c, ve)
	case errors.Is(err, domain.ErrNotFound):
		return errNotFound(c, err.Error())
	case errors.Is(err, domain.ErrUnavailable):
		return errUnavailable(c, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return newError(c, fiber.StatusGatewayTimeout, "timeout", "request timed out")
	}
	LoggerFromCtx(c.UserContext()).Error("request failed", "path", c.Path(), "error", err)
	return errInternal(c, "internal error")
}
