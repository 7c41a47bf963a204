package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"warbler/internal/config"
	"warbler/internal/database"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testConfig() *config.Config {
	return &config.Config{
		Port:            "0",
		SessionSecret:   "test-session-secret",
		SessionTTLHours: 1,
		CSRFProtection:  false,
		Env:             "test",
	}
}

// setupTestServer wires a full server against an in-memory database with
// in-memory sessions (no Redis).
func setupTestServer(t *testing.T) (*Server, *fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	srv, err := NewServerWithDeps(testConfig(), db, nil)
	require.NoError(t, err)

	app := fiber.New()
	srv.SetupRoutes(app)

	return srv, app, db
}

// doJSON performs a JSON request. token, when non-empty, is sent as a Bearer
// header the way API clients carry the session.
func doJSON(t *testing.T, app *fiber.App, method, target, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// signupUser registers an account through the HTTP surface and returns
// (token, userID).
func signupUser(t *testing.T, app *fiber.App, username string) (string, uint) {
	t.Helper()

	resp := doJSON(t, app, http.MethodPost, "/signup", "", map[string]string{
		"username": username,
		"email":    fmt.Sprintf("%s@test.com", username),
		"password": "pass1234",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	user, _ := body["user"].(map[string]any)
	require.NotNil(t, user)
	id, _ := user["id"].(float64)
	require.NotZero(t, id)

	return token, uint(id)
}

// postMessage creates a message for the given session and returns its ID.
func postMessage(t *testing.T, app *fiber.App, token, text string) uint {
	t.Helper()

	resp := doJSON(t, app, http.MethodPost, "/messages/new", token, map[string]string{"text": text})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	msg, _ := body["message"].(map[string]any)
	require.NotNil(t, msg)
	id, _ := msg["id"].(float64)
	require.NotZero(t, id)

	return uint(id)
}
