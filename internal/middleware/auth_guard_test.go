package middleware_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"socialapi/internal/metrics"
	"socialapi/internal/middleware"
	"socialapi/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test_jwt_secret"

func setupGuard(t *testing.T) (*fiber.App, *services.TokenService, *metrics.Metrics) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	tokens := services.NewTokenService(testJWTSecret, time.Hour)
	m := metrics.New()

	app := fiber.New()
	app.Use(middleware.RequestMetrics(m))
	app.Get("/private", middleware.AuthRequired(tokens, m, log), func(c *fiber.Ctx) error {
		return c.SendString(middleware.UserID(c))
	})
	return app, tokens, m
}

func call(t *testing.T, app *fiber.App, token string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	if token != "" {
		req.Header.Set(middleware.TokenHeader, token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(raw)
}

func msg(t *testing.T, raw string) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal([]byte(raw), &body))
	return body["msg"]
}

func TestAuthRequired_ValidToken(t *testing.T) {
	app, tokens, m := setupGuard(t)
	token, err := tokens.Issue("user-1")
	require.NoError(t, err)

	status, body := call(t, app, token)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "user-1", body)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TokenVerifications.WithLabelValues(metrics.ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues(http.MethodGet, "/private", "200")))
}

func TestAuthRequired_MissingToken(t *testing.T) {
	app, _, m := setupGuard(t)

	status, body := call(t, app, "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, services.MsgNoToken, msg(t, body))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TokenVerifications.WithLabelValues(metrics.ResultMissing)))
}

func TestAuthRequired_RejectedTokensLookAlike(t *testing.T) {
	app, _, m := setupGuard(t)

	expired, err := services.NewTokenService(testJWTSecret, time.Hour).
		WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) }).
		Issue("user-1")
	require.NoError(t, err)
	forged, err := services.NewTokenService("wrong_secret", time.Hour).Issue("user-1")
	require.NoError(t, err)

	for _, token := range []string{"garbage", expired, forged} {
		status, body := call(t, app, token)
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, services.MsgInvalidToken, msg(t, body))
	}

	assert.Equal(t, 1.0, testutil.ToFloat64(m.TokenVerifications.WithLabelValues(services.TokenMalformed.String())))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TokenVerifications.WithLabelValues(services.TokenExpired.String())))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TokenVerifications.WithLabelValues(services.TokenSignatureInvalid.String())))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues(http.MethodGet, "/private", "401")))
}
