package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"socialapi/internal/services"
	"socialapi/pkg/storage"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// ErrorWriter turns service errors into {"msg": ...} responses. Internal
// error detail is attached as "error" only when ExposeDetail is set.
type ErrorWriter struct {
	ExposeDetail bool
	Log          logrus.FieldLogger
}

// NewErrorWriter creates an ErrorWriter.
func NewErrorWriter(exposeDetail bool, log logrus.FieldLogger) *ErrorWriter {
	return &ErrorWriter{ExposeDetail: exposeDetail, Log: log}
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind services.ErrorKind) int {
	switch kind {
	case services.KindNoToken, services.KindInvalidToken, services.KindForbidden:
		return fiber.StatusUnauthorized
	case services.KindNotFound:
		return fiber.StatusNotFound
	case services.KindAlreadyExists, services.KindAlreadyInState, services.KindNotInState, services.KindValidationFailed:
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// Write sends err to the client.
func (w *ErrorWriter) Write(c *fiber.Ctx, err error) error {
	kind := services.KindOf(err)
	status := StatusFor(kind)

	msg := services.MsgServerError
	var se *services.Error
	if kind != services.KindStorageFailure && errors.As(err, &se) {
		msg = se.Message
	}

	body := fiber.Map{"msg": msg}
	if status == fiber.StatusInternalServerError {
		w.Log.WithError(err).WithFields(logrus.Fields{
			"method": c.Method(),
			"path":   c.Path(),
		}).Error("request failed")
		if w.ExposeDetail {
			body["error"] = err.Error()
		}
	}
	return c.Status(status).JSON(body)
}

// WriteUpload reports a failed image upload.
func (w *ErrorWriter) WriteUpload(c *fiber.Ctx, err error) error {
	if errors.Is(err, storage.ErrUnsupportedType) || errors.Is(err, storage.ErrTooLarge) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"msg": fmt.Sprintf("file upload error: %v", err),
		})
	}
	return w.Write(c, err)
}

// newValidator returns a validator reporting fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validationFailed answers 400 with the first failing field as msg and
// every failing field under "errors".
func validationFailed(c *fiber.Ctx, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"msg": "invalid request body"})
	}
	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		details[fe.Field()] = fieldMessage(fe)
	}
	first := verrs[0]
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"msg":    first.Field() + " " + fieldMessage(first),
		"errors": details,
	})
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		return "must be at least " + fe.Param() + " characters long"
	case "max":
		return "must be at most " + fe.Param() + " characters long"
	default:
		return fmt.Sprintf("failed on the '%s' tag", fe.Tag())
	}
}

// BadBody answers 400 for a request body that could not be parsed.
func (w *ErrorWriter) BadBody(c *fiber.Ctx, err error) error {
	body := fiber.Map{"msg": "invalid request body"}
	if w.ExposeDetail {
		body["error"] = err.Error()
	}
	return c.Status(fiber.StatusBadRequest).JSON(body)
}
