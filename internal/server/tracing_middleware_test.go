package server

import (
	"net/http/httptest"
	"testing"

	"quadside/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// traceIDSeen runs a request through the full middleware chain and reports
// whether the tracing middleware stored a trace ID in locals.
func traceIDSeen(t *testing.T, cfg *config.Config) bool {
	t.Helper()
	s := &Server{config: cfg}
	app := fiber.New()
	s.SetupMiddleware(app)

	var sawTraceID bool
	app.Get("/ping", func(c *fiber.Ctx) error {
		_, sawTraceID = c.Locals("traceID").(string)
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/ping", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	return sawTraceID
}

func TestSetupMiddleware_TracingEnabled(t *testing.T) {
	assert.True(t, traceIDSeen(t, &config.Config{TracingEnabled: true}))
}

func TestSetupMiddleware_TracingDisabled(t *testing.T) {
	assert.False(t, traceIDSeen(t, &config.Config{}))
}
