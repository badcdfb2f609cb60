package app

import (
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	fiber "github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/celestiaorg/taskman/internal/api/v1/middleware"
	"github.com/celestiaorg/taskman/internal/db"
)

func newTestApp(t *testing.T) *App {
	dir := t.TempDir()
	ui := filepath.Join(dir, "ui")
	require.NoError(t, os.MkdirAll(ui, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(ui, "index.html"),
		[]byte(`<link href="app.css"><script src="app.js"></script>`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(ui, "app.css"), []byte("body{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(ui, "app.js"), []byte("1"), 0o644))

	a, err := New(Options{
		DB: db.Options{
			Driver:   db.DriverSQLite,
			Path:     filepath.Join(dir, "projects.db"),
			LogLevel: logger.Silent,
		},
		TodoDBPath: filepath.Join(dir, "todo.db"),
		ExportDir:  filepath.Join(dir, "exports"),
		UIDir:      ui,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestAppServesAPIAndUI(t *testing.T) {
	a := newTestApp(t)
	assert.Len(t, a.Manifest.Entries(), 2)

	tests := []struct {
		name     string
		method   string
		target   string
		body     string
		status   int
		contains string
	}{
		{name: "health", method: "GET", target: "/health", status: 200, contains: `"status":"ok"`},
		{name: "open project", method: "POST", target: "/api/projects/open", body: `{"name":"Alpha"}`, status: 200, contains: `"currentProject":"Alpha"`},
		{name: "unknown api", method: "GET", target: "/api/unknown", status: 404, contains: `"error":"Not found"`},
		{name: "index rewritten", method: "GET", target: "/", status: 200, contains: `href="app.`},
		{name: "missing static", method: "GET", target: "/missing.png", status: 404, contains: `"error":"Not found"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body io.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			}
			req := httptest.NewRequest(tt.method, tt.target, body)
			req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			resp, err := a.Fiber.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			data, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Contains(t, string(data), tt.contains)
			assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))
		})
	}
}

func TestErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Use(middleware.Recover())
	app.Get("/teapot", func(*fiber.Ctx) error { return fiber.NewError(fiber.StatusTeapot, "short") })
	app.Get("/boom", func(*fiber.Ctx) error { return io.ErrUnexpectedEOF })
	app.Get("/panic", func(*fiber.Ctx) error { panic("boom") })

	resp, err := app.Test(httptest.NewRequest("GET", "/teapot", nil))
	require.NoError(t, err)
	data, _ := io.ReadAll(resp.Body)
	assert.Equal(t, fiber.StatusTeapot, resp.StatusCode)
	assert.JSONEq(t, `{"error":"short"}`, string(data))

	resp, err = app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	data, _ = io.ReadAll(resp.Body)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Internal server error"}`, string(data))

	resp, err = app.Test(httptest.NewRequest("GET", "/panic", nil))
	require.NoError(t, err)
	data, _ = io.ReadAll(resp.Body)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Internal server error"}`, string(data))
}
