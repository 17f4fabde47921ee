package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"socialapi/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	cases := map[services.ErrorKind]int{
		services.KindNoToken:          http.StatusUnauthorized,
		services.KindInvalidToken:     http.StatusUnauthorized,
		services.KindForbidden:        http.StatusUnauthorized,
		services.KindNotFound:         http.StatusNotFound,
		services.KindAlreadyExists:    http.StatusBadRequest,
		services.KindAlreadyInState:   http.StatusBadRequest,
		services.KindNotInState:       http.StatusBadRequest,
		services.KindValidationFailed: http.StatusBadRequest,
		services.KindStorageFailure:   http.StatusInternalServerError,
	}
	for kind, want := range cases {
		assert.Equal(t, want, StatusFor(kind), kind.String())
	}
}

func TestErrorWriterHidesDetailInProduction(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	cause := errors.New("pq: connection refused")

	for _, expose := range []bool{true, false} {
		w := NewErrorWriter(expose, log)
		app := fiber.New()
		app.Get("/", func(c *fiber.Ctx) error {
			return w.Write(c, &services.Error{Kind: services.KindStorageFailure, Message: "failed to load user", Err: cause})
		})

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)
		raw, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Contains(t, string(raw), `"msg":"server error"`)
		if expose {
			assert.Contains(t, string(raw), "connection refused")
		} else {
			assert.NotContains(t, string(raw), "connection refused")
		}
	}
}

func TestBadBodyHidesParserDetailInProduction(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	for _, expose := range []bool{true, false} {
		w := NewErrorWriter(expose, log)
		app := fiber.New()
		app.Post("/", func(c *fiber.Ctx) error {
			var req CommentRequest
			if err := c.BodyParser(&req); err != nil {
				return w.BadBody(c, err)
			}
			return c.SendStatus(fiber.StatusOK)
		})

		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"text":`))
		req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
		resp, err := app.Test(req)
		require.NoError(t, err)
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "invalid request body", body["msg"])
		_, hasDetail := body["error"]
		assert.Equal(t, expose, hasDetail)
	}
}
