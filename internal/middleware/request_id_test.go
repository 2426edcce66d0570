package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"livraria/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp() *fiber.App {
	app := fiber.New()
	app.Use(middleware.RequestID())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(middleware.RequestIDFrom(c))
	})
	return app
}

func TestRequestID_Generated(t *testing.T) {
	resp, err := newApp().Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)

	id := resp.Header.Get(middleware.HeaderRequestID)
	_, err = uuid.Parse(id)
	assert.NoError(t, err)
}

func TestRequestID_Propagated(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(middleware.HeaderRequestID, "abc-123")
	resp, err := newApp().Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", resp.Header.Get(middleware.HeaderRequestID))
}

func TestRequestID_RejectsUnsafeIDs(t *testing.T) {
	for _, id := range []string{"with space", strings.Repeat("x", 65), "tab\there"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(middleware.HeaderRequestID, id)
		resp, err := newApp().Test(req, -1)
		require.NoError(t, err)
		assert.NotEqual(t, id, resp.Header.Get(middleware.HeaderRequestID))
	}
}
