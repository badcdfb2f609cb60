package test

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	fiber "github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/celestiaorg/taskman/internal/assets"
	"github.com/celestiaorg/taskman/internal/db/repos"
	"github.com/celestiaorg/taskman/internal/db/todo"
	"github.com/celestiaorg/taskman/pkg/api/v1/client"
)

// DefaultTestTimeout is the default timeout for test suites.
const DefaultTestTimeout = 30 * time.Second

// Suite encapsulates all components needed for integration testing.
// It provides a complete test setup with:
//   - File-backed project and todo databases
//   - Real API server
//   - Real API client
type Suite struct {
	t *testing.T // The testing.T instance for this suite

	// Server components
	App       *fiber.App
	Server    *httptest.Server
	Manifest  *assets.Manifest
	ExportDir string
	UIDir     string

	// Client components
	APIClient client.Client

	// Database components
	DB        *gorm.DB
	Store     *repos.Store
	TodoStore *todo.Store

	// Context management
	ctx        context.Context
	cancelFunc context.CancelFunc

	// dir holds the suite's scratch files
	dir string

	// Cleanup function
	cleanup func()
}

// NewSuite creates a new test suite.
// The suite must be cleaned up after use by calling Cleanup.
func NewSuite(t *testing.T) *Suite {
	t.Helper()

	// Create suite with default timeout
	ctx, cancel := context.WithTimeout(context.Background(), DefaultTestTimeout)

	suite := &Suite{
		t:          t,
		ctx:        ctx,
		cancelFunc: cancel,
		dir:        t.TempDir(),
	}

	// Initialize cleanup function
	suite.cleanup = func() {
		if suite.cancelFunc != nil {
			suite.cancelFunc()
		}
	}

	// Setup database by default
	SetupTestDB(suite, nil)

	// Setup server by default
	SetupServer(suite)

	return suite
}

// Cleanup tears down the test suite, releasing all resources.
// This should be deferred immediately after creating the suite.
func (s *Suite) Cleanup() {
	if s.cleanup != nil {
		s.cleanup()
		s.cleanup = nil
	}
}

// Context returns the suite's context, which is automatically
// canceled when the suite is cleaned up.
func (s *Suite) Context() context.Context {
	return s.ctx
}

// Require returns a require.Assertions instance for this suite.
// This is a convenience method to avoid passing t around.
func (s *Suite) Require() *require.Assertions {
	return require.New(s.t)
}

// WriteUIFile writes a file into the suite's UI directory
func (s *Suite) WriteUIFile(rel, content string) {
	p := filepath.Join(s.UIDir, filepath.FromSlash(rel))
	s.Require().NoError(os.MkdirAll(filepath.Dir(p), 0o755))
	s.Require().NoError(os.WriteFile(p, []byte(content), 0o644))
}
