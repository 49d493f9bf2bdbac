package presenter

import "github.com/gofiber/fiber/v2"

// ErrorResponse matches the {"msg": ...} body the frontend expects.
type ErrorResponse struct {
	Msg string `json:"msg"`
}

func JSON(c *fiber.Ctx, status int, v any) error {
	return c.Status(status).JSON(v)
}

func Error(c *fiber.Ctx, status int, msg string) error {
	return JSON(c, status, ErrorResponse{Msg: msg})
}
