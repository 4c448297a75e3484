package utils

import "github.com/gofiber/fiber/v2"

// Error kinds used across the API. Every failure response carries one of
// these alongside a human-readable message.
const (
	KindValidation      = "validation"
	KindNotFound        = "not_found"
	KindConflict        = "conflict"
	KindUnauthenticated = "unauthenticated"
	KindForbidden       = "forbidden"
	KindInternal        = "internal"
)

// APIResponse describes the common structure for API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Kind    string      `json:"kind,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message"`
}

// SendSuccess sends a successful JSON response with a message.
func SendSuccess(c *fiber.Ctx, message string, data interface{}) error {
	return SendSuccessWithStatus(c, fiber.StatusOK, message, data)
}

// SendSuccessWithStatus sends a success payload using the provided HTTP status code.
func SendSuccessWithStatus(c *fiber.Ctx, status int, message string, data interface{}) error {
	if message == "" {
		message = "success"
	}
	if status == 0 {
		status = fiber.StatusOK
	}

	return c.Status(status).JSON(APIResponse{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// SendError sends an error JSON response with the given status code and kind.
func SendError(c *fiber.Ctx, status int, kind, message string) error {
	if message == "" {
		message = "error"
	}
	if kind == "" {
		kind = KindInternal
	}

	return c.Status(status).JSON(APIResponse{
		Success: false,
		Kind:    kind,
		Message: message,
	})
}

// SendFailure reports an operation that did not succeed while keeping a
// 200-level status. The legacy add-user surface answers duplicate emails
// this way.
func SendFailure(c *fiber.Ctx, kind, message string) error {
	return c.Status(fiber.StatusOK).JSON(APIResponse{
		Success: false,
		Kind:    kind,
		Message: message,
	})
}
