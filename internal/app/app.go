// Package app assembles the taskman server from its stores, services and routes
package app

import (
	"errors"
	"fmt"

	fiber "github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/celestiaorg/taskman/internal/api/v1/middleware"
	"github.com/celestiaorg/taskman/internal/assets"
	"github.com/celestiaorg/taskman/internal/db"
	"github.com/celestiaorg/taskman/internal/db/repos"
	"github.com/celestiaorg/taskman/internal/db/todo"
	"github.com/celestiaorg/taskman/internal/logger"
	"github.com/celestiaorg/taskman/internal/services"
	"github.com/celestiaorg/taskman/internal/types"
	"github.com/celestiaorg/taskman/pkg/api/v1/handlers"
	"github.com/celestiaorg/taskman/pkg/api/v1/routes"
)

// Options configures a server
type Options struct {
	DB         db.Options
	TodoDBPath string
	ExportDir  string
	UIDir      string
}

// App is a fully wired server. Close releases both stores.
type App struct {
	Fiber    *fiber.App
	DB       *gorm.DB
	Todo     *todo.Store
	Manifest *assets.Manifest
}

// New opens the stores and builds the fiber app
func New(opts Options) (*App, error) {
	database, err := db.New(opts.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to open project database: %w", err)
	}
	todoStore, err := todo.Open(opts.TodoDBPath)
	if err != nil {
		_ = db.Close(database)
		return nil, fmt.Errorf("failed to open todo database: %w", err)
	}

	store := repos.NewStore(database)
	handler := handlers.NewAPIHandler(
		services.NewProjectService(store.Projects, opts.ExportDir),
		services.NewTaskService(store.Tasks),
		services.NewTodoService(todoStore),
	)

	manifest := assets.NewManifest(opts.UIDir)
	if n, err := manifest.Build(); err != nil {
		// the UI is optional; assets are hashed lazily on first use
		logger.Warnf("Asset manifest not built: %v", err)
	} else {
		logger.Infof("Asset manifest built with %d entries from %s", n, manifest.Root())
	}

	app, err := NewFiber(handler, manifest)
	if err != nil {
		_ = todoStore.Close()
		_ = db.Close(database)
		return nil, err
	}

	return &App{
		Fiber:    app,
		DB:       database,
		Todo:     todoStore,
		Manifest: manifest,
	}, nil
}

// NewFiber creates the fiber app serving the API and the static UI
func NewFiber(h *handlers.APIHandler, manifest *assets.Manifest) (*fiber.App, error) {
	table := routes.NewTable()
	if err := routes.RegisterRoutes(table, h); err != nil {
		return nil, fmt.Errorf("failed to register routes: %w", err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          ErrorHandler,
		DisableStartupMessage: true,
	})
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger())
	app.Use(middleware.Recover())
	routes.Mount(app, table)
	app.Use(assets.NewHandler(manifest).Serve)

	return app, nil
}

// ErrorHandler writes errors that escape a handler as {"error": msg}
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := handlers.ErrMsgInternal
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		msg = e.Message
	} else {
		logger.ErrorWithFields("Unhandled error", map[string]interface{}{
			"path":       c.Path(),
			"request_id": c.GetRespHeader(fiber.HeaderXRequestID),
			"error":      err.Error(),
		})
	}

	return c.Status(code).JSON(types.ErrorResponse{Error: msg})
}

// Listen serves on addr until Shutdown is called
func (a *App) Listen(addr string) error {
	return a.Fiber.Listen(addr)
}

// Shutdown stops the server, waiting for in-flight requests
func (a *App) Shutdown() error {
	return a.Fiber.Shutdown()
}

// Close releases the stores
func (a *App) Close() error {
	return errors.Join(a.Todo.Close(), db.Close(a.DB))
}
