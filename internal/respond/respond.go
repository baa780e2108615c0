// Package respond renders the API's response envelope. Every endpoint wraps
// its payload as {success, message, data} or {success:false, errors}.
package respond

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

const fetchedMessage = "Data fetched successfully."

type successEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

type errorEnvelope struct {
	Success bool `json:"success"`
	Errors  any  `json:"errors"`
}

// Success writes a 200 envelope with the default message.
func Success(c *fiber.Ctx, data any) error {
	return SuccessWithMessage(c, "Success", data)
}

// SuccessWithMessage writes a 200 envelope with a custom message.
func SuccessWithMessage(c *fiber.Ctx, message string, data any) error {
	return c.Status(http.StatusOK).JSON(successEnvelope{Success: true, Message: message, Data: data})
}

// Fetched writes a 200 envelope for read endpoints.
func Fetched(c *fiber.Ctx, data any) error {
	return SuccessWithMessage(c, fetchedMessage, data)
}

// Fail writes an error envelope with the given status.
func Fail(c *fiber.Ctx, status int, errs any) error {
	return c.Status(status).JSON(errorEnvelope{Success: false, Errors: errs})
}

// FailMessage writes an error envelope carrying a single error message.
func FailMessage(c *fiber.Ctx, status int, message string) error {
	return Fail(c, status, fiber.Map{"error": message})
}
