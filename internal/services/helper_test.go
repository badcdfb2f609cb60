package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/celestiaorg/taskman/internal/db"
	"github.com/celestiaorg/taskman/internal/db/repos"
	"github.com/celestiaorg/taskman/internal/db/todo"
)

// TestSetup contains all the components needed for testing
type TestSetup struct {
	DB             *gorm.DB
	TodoStore      *todo.Store
	ProjectService *Project
	TaskService    *Task
	TodoService    *Todo
	ExportDir      string
	ctx            context.Context
}

// NewTestSetup creates a new test setup with a temporary database
func NewTestSetup(t *testing.T) *TestSetup {
	dir := t.TempDir()

	database, err := db.New(db.Options{
		Driver:   db.DriverSQLite,
		Path:     filepath.Join(dir, "projects.db"),
		LogLevel: logger.Silent,
	})
	require.NoError(t, err, "Failed to create test database")

	todoStore, err := todo.Open(filepath.Join(dir, "todo.db"))
	require.NoError(t, err, "Failed to create todo database")

	store := repos.NewStore(database)
	exportDir := filepath.Join(dir, "exports")

	return &TestSetup{
		DB:             database,
		TodoStore:      todoStore,
		ProjectService: NewProjectService(store.Projects, exportDir),
		TaskService:    NewTaskService(store.Tasks),
		TodoService:    NewTodoService(todoStore),
		ExportDir:      exportDir,
		ctx:            context.Background(),
	}
}

// CleanUp cleans up resources after test
func (ts *TestSetup) CleanUp() {
	_ = ts.TodoStore.Close()
	_ = db.Close(ts.DB)
}
