package utils

import "github.com/gofiber/fiber/v2"

// Success and Error write the standard response envelope. Paginated is the
// variant for cursor queries; totalItems counts the rows in this page, not a
// global total.

func Success(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(fiber.Map{
		"data":  data,
		"error": false,
	})
}

func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"data":         nil,
		"error":        true,
		"errorMessage": message,
	})
}

func Paginated(c *fiber.Ctx, data interface{}, totalItems int, cursor *string) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data":       data,
		"totalItems": totalItems,
		"cursor":     cursor,
		"error":      false,
	})
}
