package handlers

import (
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"
)

func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm)
}

// formFile returns the uploaded file under key, or nil when none was sent.
func formFile(c *fiber.Ctx, key string) *multipart.FileHeader {
	if !isMultipart(c) {
		return nil
	}
	fh, err := c.FormFile(key)
	if err != nil {
		return nil
	}
	return fh
}

// parseOptionalBody parses a JSON or form body into out. An empty body
// leaves out untouched.
func parseOptionalBody(c *fiber.Ctx, out interface{}) error {
	if len(c.Body()) == 0 {
		return nil
	}
	return c.BodyParser(out)
}
