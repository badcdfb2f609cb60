package test

import (
	"net/http/httptest"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/celestiaorg/taskman/internal/app"
	"github.com/celestiaorg/taskman/internal/assets"
	"github.com/celestiaorg/taskman/internal/services"
	"github.com/celestiaorg/taskman/pkg/api/v1/client"
	"github.com/celestiaorg/taskman/pkg/api/v1/handlers"
)

// testClientTimeout is the timeout for test API client requests
const testClientTimeout = 5 * time.Second

// SetupServer configures the test suite with a real API server
func SetupServer(suite *Suite) {
	suite.ExportDir = filepath.Join(suite.dir, "exports")
	suite.UIDir = filepath.Join(suite.dir, "ui")

	// Create services
	projectService := services.NewProjectService(suite.Store.Projects, suite.ExportDir)
	taskService := services.NewTaskService(suite.Store.Tasks)
	todoService := services.NewTodoService(suite.TodoStore)

	// Create handlers and the app the binary would run
	handler := handlers.NewAPIHandler(projectService, taskService, todoService)
	suite.Manifest = assets.NewManifest(suite.UIDir)
	fiberApp, err := app.NewFiber(handler, suite.Manifest)
	suite.Require().NoError(err, "Failed to build app")
	suite.App = fiberApp

	// Create test server using adaptor to convert Fiber app to http.Handler
	suite.Server = httptest.NewServer(adaptor.FiberApp(suite.App))

	// Create API client with test configuration
	client, err := client.NewClient(&client.Options{
		BaseURL: suite.Server.URL,
		Timeout: testClientTimeout,
	})
	suite.Require().NoError(err, "Failed to create API client")
	suite.APIClient = client

	// Update cleanup to close server
	originalCleanup := suite.cleanup
	suite.cleanup = func() {
		if suite.Server != nil {
			suite.Server.Close()
		}
		if originalCleanup != nil {
			originalCleanup()
		}
	}
}
