package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"lms/config"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func protectedApp() *fiber.App {
	app := fiber.New()
	app.Get("/protected", JWTMiddleware, func(c *fiber.Ctx) error {
		userID := c.Locals("userId").(uint)
		role, _ := c.Locals("role").(string)
		return JsonResponse(c, fiber.StatusOK, true, "ok", fiber.Map{
			"user_id": userID,
			"role":    role,
		})
	})
	return app
}

func TestJWTMiddleware_ValidToken(t *testing.T) {
	config.AppConfig = &config.Config{JWTKey: "test-secret"}
	app := protectedApp()

	token, err := GenerateJWT(7, "Sam", "STUDENT", "sam@test.local")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestJWTMiddleware_MissingHeader(t *testing.T) {
	config.AppConfig = &config.Config{JWTKey: "test-secret"}
	app := protectedApp()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestJWTMiddleware_WrongScheme(t *testing.T) {
	config.AppConfig = &config.Config{JWTKey: "test-secret"}
	app := protectedApp()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Basic abc123")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestJWTMiddleware_TamperedToken(t *testing.T) {
	config.AppConfig = &config.Config{JWTKey: "test-secret"}
	app := protectedApp()

	token, err := GenerateJWT(7, "Sam", "STUDENT", "sam@test.local")
	require.NoError(t, err)

	config.AppConfig = &config.Config{JWTKey: "rotated-secret"}
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
