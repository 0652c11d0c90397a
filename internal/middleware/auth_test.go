package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obadahasan/souqgateway/internal/config"
	"github.com/obadahasan/souqgateway/internal/middleware"
)

func signToken(t *testing.T, key, userID, name string) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": userID, "name": name})
	signed, err := token.SignedString([]byte(key))
	require.NoError(t, err)

	return signed
}

func newAuthedApp(cfg *config.Config) *fiber.App {
	app := fiber.New()
	app.Get("/whoami", middleware.WithAuth(cfg), func(c *fiber.Ctx) error {
		return c.SendString(middleware.UserID(c) + ":" + middleware.UserName(c))
	})
	return app
}

func TestWithAuth(t *testing.T) {
	cfg := &config.Config{}
	cfg.Auth.PrivateKey = "test-signing-key"

	t.Run("accepts a valid bearer token", func(t *testing.T) {
		app := newAuthedApp(cfg)

		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, "test-signing-key", "6001", "Buyer"))

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("rejects a missing header", func(t *testing.T) {
		app := newAuthedApp(cfg)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/whoami", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("rejects a token signed with another key", func(t *testing.T) {
		app := newAuthedApp(cfg)

		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, "wrong-key", "6001", "Buyer"))

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("rejects garbage in the header", func(t *testing.T) {
		app := newAuthedApp(cfg)

		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}
