package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-boutique-pos/pkg/jwt"
	"go-boutique-pos/pkg/log"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pinPath = "/api/v1/settings/pin"

type fakeLock struct {
	required bool
	err      error
}

func (f fakeLock) PINRequired() (bool, error) { return f.required, f.err }

func gatedApp(state LockState) *fiber.App {
	app := fiber.New()
	app.Use(CorrelationID())
	api := app.Group("/api/v1", RequirePIN(state, pinPath))
	ok := func(c *fiber.Ctx) error {
		scope, _ := c.Locals("scope").(string)
		return c.SendString("ok:" + scope)
	}
	api.Get("/sales", ok)
	api.Post("/sales", ok)
	api.Put("/settings/pin", ok)
	api.Delete("/settings/pin", ok)
	return app
}

func send(t *testing.T, app *fiber.App, method, path, auth string) int {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

func token(t *testing.T, scope string) string {
	t.Helper()
	tok, _, err := jwt.GenerateToken(scope, time.Hour)
	require.NoError(t, err)
	return "Bearer " + tok
}

func TestRequirePIN_OpenWhenGateOff(t *testing.T) {
	log.SetupTestLogger()
	app := gatedApp(fakeLock{required: false})

	assert.Equal(t, fiber.StatusOK, send(t, app, fiber.MethodPost, "/api/v1/sales", ""))
	assert.Equal(t, fiber.StatusOK, send(t, app, fiber.MethodGet, "/api/v1/sales", "Bearer garbage"))
}

func TestRequirePIN_LockStateFailure(t *testing.T) {
	log.SetupTestLogger()
	app := gatedApp(fakeLock{err: errors.New("no such table: preferences")})

	assert.Equal(t, fiber.StatusInternalServerError, send(t, app, fiber.MethodGet, "/api/v1/sales", ""))
}

func TestRequirePIN_Tokens(t *testing.T) {
	log.SetupTestLogger()
	jwt.SetSecretKey("middleware-test")
	app := gatedApp(fakeLock{required: true})

	session := token(t, jwt.ScopeSession)
	recovery := token(t, jwt.ScopeRecover)
	foreign := token(t, "admin")

	tests := []struct {
		name   string
		method string
		path   string
		auth   string
		want   int
	}{
		{"missing token", fiber.MethodGet, "/api/v1/sales", "", fiber.StatusUnauthorized},
		{"wrong scheme", fiber.MethodGet, "/api/v1/sales", "Token abc", fiber.StatusUnauthorized},
		{"garbage token", fiber.MethodGet, "/api/v1/sales", "Bearer abc.def.ghi", fiber.StatusUnauthorized},
		{"unknown scope", fiber.MethodGet, "/api/v1/sales", foreign, fiber.StatusUnauthorized},
		{"session reads", fiber.MethodGet, "/api/v1/sales", session, fiber.StatusOK},
		{"session writes", fiber.MethodPost, "/api/v1/sales", session, fiber.StatusOK},
		{"lowercase bearer", fiber.MethodPost, "/api/v1/sales", "bearer " + session[len("Bearer "):], fiber.StatusOK},
		{"recovery reads", fiber.MethodGet, "/api/v1/sales", recovery, fiber.StatusOK},
		{"recovery sets pin", fiber.MethodPut, pinPath, recovery, fiber.StatusOK},
		{"recovery cannot write", fiber.MethodPost, "/api/v1/sales", recovery, fiber.StatusForbidden},
		{"recovery cannot disable pin", fiber.MethodDelete, pinPath, recovery, fiber.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, send(t, app, tt.method, tt.path, tt.auth))
		})
	}
}

func upgradeRequest(path string) *http.Request {
	req := httptest.NewRequest(fiber.MethodGet, path, nil)
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")
	req.Header.Set("Sec-WebSocket-Version", "13")
	req.Header.Set("Sec-WebSocket-Key", "dGhlIHNhbXBsZSBub25jZQ==")
	return req
}

func TestRequirePIN_WebSocketHandshake(t *testing.T) {
	log.SetupTestLogger()
	jwt.SetSecretKey("middleware-test")
	session := token(t, jwt.ScopeSession)[len("Bearer "):]

	app := fiber.New()
	app.Use("/ws", RequirePIN(fakeLock{required: true}, pinPath), func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", func(c *fiber.Ctx) error { return c.SendString("upgraded") })

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"no token", "/ws", "", fiber.StatusUnauthorized},
		{"bad query token", "/ws?token=abc.def.ghi", "", fiber.StatusUnauthorized},
		{"query token", "/ws?token=" + session, "", fiber.StatusOK},
		{"header token", "/ws", "Bearer " + session, fiber.StatusOK},
		{"header wins over query", "/ws?token=" + session, "Token abc", fiber.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := upgradeRequest(tt.path)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestRequirePIN_RejectsOtherSecret(t *testing.T) {
	log.SetupTestLogger()
	jwt.SetSecretKey("first")
	stale := token(t, jwt.ScopeSession)
	jwt.SetSecretKey("second")

	app := gatedApp(fakeLock{required: true})
	assert.Equal(t, fiber.StatusUnauthorized, send(t, app, fiber.MethodGet, "/api/v1/sales", stale))
}

func TestCorrelationID(t *testing.T) {
	log.SetupTestLogger()
	app := fiber.New()
	app.Use(CorrelationID())

	var seen interface{}
	app.Get("/", func(c *fiber.Ctx) error {
		seen = c.UserContext().Value(log.CorrelationIDKey)
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	id := resp.Header.Get("X-Correlation-ID")
	assert.NotEmpty(t, id)
	assert.Equal(t, id, seen)
}
