package utils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse is the body returned for every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse acknowledges operations that have no entity to return.
type MessageResponse struct {
	Message string      `json:"message"`
	ID      interface{} `json:"id,omitempty"`
	Slug    string      `json:"slug,omitempty"`
}

// SendSuccess writes data as a 200 JSON response.
func SendSuccess(c *fiber.Ctx, data interface{}) error {
	return SendSuccessWithStatus(c, fiber.StatusOK, data)
}

// SendSuccessWithStatus writes data as JSON using the provided HTTP status code.
func SendSuccessWithStatus(c *fiber.Ctx, status int, data interface{}) error {
	if status == 0 {
		status = fiber.StatusOK
	}

	return c.Status(status).JSON(data)
}

// SendMessage writes an acknowledgement body.
func SendMessage(c *fiber.Ctx, message string, payload MessageResponse) error {
	if message == "" {
		message = "success"
	}
	payload.Message = message

	return c.Status(fiber.StatusOK).JSON(payload)
}

// SendError sends an error JSON response with the given status code.
func SendError(c *fiber.Ctx, status int, message string) error {
	if message == "" {
		message = "error"
	}

	return c.Status(status).JSON(ErrorResponse{Error: message})
}

// ErrorHandler renders errors that escape handlers, including router-level
// 404 and 405 responses, with the standard error body.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "internal server error"

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		status = fiberErr.Code
		message = fiberErr.Message
	}

	return SendError(c, status, message)
}
