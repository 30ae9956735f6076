package serverutils

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func newJwtTestApp() *fiber.App {
	app := fiber.New()
	app.Get("/protected", JwtMiddleware, func(ctx *fiber.Ctx) error {
		// Mirrors how the controllers read the identity.
		userId := ctx.Locals("user_id").(string)
		return ctx.SendString(userId)
	})
	return app
}

func TestJwtMiddlewarePassesStringUserIdThrough(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	app := newJwtTestApp()

	token := signToken(t, "test-secret", jwt.MapClaims{
		"user_id": "b3b0ce46-1a47-4f7e-b1e4-90c7a0a0a001",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestJwtMiddlewareRejectsNonStringUserId(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	app := newJwtTestApp()

	// Validly signed, but the claim is numeric.
	token := signToken(t, "test-secret", jwt.MapClaims{
		"user_id": 42,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestJwtMiddlewareRejectsMissingUserId(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	app := newJwtTestApp()

	token := signToken(t, "test-secret", jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
