package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boostcart/auth"
	"github.com/boostcart/web/handlers"
	"github.com/boostcart/web/middleware"
)

func TestRequireSessionRejectsMissingOrBadCookie(t *testing.T) {
	verifier := auth.NewVerifier("client-1", "secret-1")

	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
	app.Get("/private", middleware.RequireSession(verifier), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	// No cookie at all
	resp, err := app.Test(httptest.NewRequest("GET", "/private", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	// Cookie that is not a valid session token
	req := httptest.NewRequest("GET", "/private", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: "not-a-jwt"})
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	// Token signed by a different secret
	other := auth.NewVerifier("client-1", "rotated-secret")
	token, err := other.CreateSessionToken("abc123", 1)
	require.NoError(t, err)

	req = httptest.NewRequest("GET", "/private", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: token})
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
