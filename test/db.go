// Package test provides utilities for setting up and running tests
package test

import (
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/celestiaorg/taskman/internal/db"
	"github.com/celestiaorg/taskman/internal/db/repos"
	"github.com/celestiaorg/taskman/internal/db/todo"
)

// NewFileBasedTestDB creates a new file-based SQLite project database for
// testing, with the schema migrated. It returns the database connection and
// the path to the temporary directory.
func NewFileBasedTestDB() (*gorm.DB, string, error) {
	tmpDir, err := os.MkdirTemp("", "taskman_test")
	if err != nil {
		return nil, "", fmt.Errorf("failed to create temporary directory: %w", err)
	}
	database, err := db.New(db.Options{
		Driver:   db.DriverSQLite,
		Path:     filepath.Join(tmpDir, "projects.db"),
		LogLevel: logger.Silent,
	})
	if err != nil {
		// Try to clean up the temporary directory, but don't fail if cleanup fails
		if rmErr := os.RemoveAll(tmpDir); rmErr != nil {
			fmt.Printf("Warning: failed to remove temporary directory after database error: %v\n", rmErr)
		}
		return nil, "", fmt.Errorf("failed to open database: %w", err)
	}
	return database, tmpDir, nil
}

// CleanupTestDB closes the database connection and removes the temporary directory.
func CleanupTestDB(database *gorm.DB, tmpDir string) {
	if err := db.Close(database); err != nil {
		fmt.Printf("Error closing database connection: %v\n", err)
	}
	if rmErr := os.RemoveAll(tmpDir); rmErr != nil {
		fmt.Printf("Error removing temporary directory: %v\n", rmErr)
	}
}

// SetupTestDB configures the test suite to use the provided database connection.
// If nil is provided, a new file-based database will be created. The todo
// store always lives next to the suite's temporary files.
func SetupTestDB(suite *Suite, database *gorm.DB) {
	if database != nil {
		suite.DB = database
	} else {
		dbConn, tmpDir, err := NewFileBasedTestDB()
		suite.Require().NoError(err, "Failed to create file-based database")
		suite.DB = dbConn

		oldCleanup := suite.cleanup
		suite.cleanup = func() {
			if oldCleanup != nil {
				oldCleanup()
			}
			// Close database connection and remove temporary directory
			CleanupTestDB(suite.DB, tmpDir)
		}
	}

	todoStore, err := todo.Open(filepath.Join(suite.dir, "todo.db"))
	suite.Require().NoError(err, "Failed to open todo database")
	suite.TodoStore = todoStore

	oldCleanup := suite.cleanup
	suite.cleanup = func() {
		if oldCleanup != nil {
			oldCleanup()
		}
		_ = todoStore.Close()
	}

	// Initialize repositories
	suite.Store = repos.NewStore(suite.DB)
}
