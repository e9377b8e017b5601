package utils

import "github.com/gofiber/fiber/v2"

// DetailResponse is the body every error path (and a few informational
// success paths) returns.
type DetailResponse struct {
	Detail string `json:"detail"`
}

// SendDetail sends a {"detail": ...} payload with the given status code.
func SendDetail(c *fiber.Ctx, status int, detail string) error {
	if detail == "" {
		detail = "error"
	}

	return c.Status(status).JSON(DetailResponse{Detail: detail})
}

// SendData sends a domain payload with the given status code.
func SendData(c *fiber.Ctx, status int, payload interface{}) error {
	if status == 0 {
		status = fiber.StatusOK
	}

	return c.Status(status).JSON(payload)
}
