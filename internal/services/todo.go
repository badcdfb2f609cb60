package services

import (
	"context"

	"github.com/celestiaorg/taskman/internal/db/todo"
)

// Todo handles checklist item operations
type Todo struct {
	store *todo.Store
}

// NewTodoService creates a new instance of TodoService
func NewTodoService(store *todo.Store) *Todo {
	return &Todo{store: store}
}

// List returns every todo item
func (s *Todo) List(ctx context.Context) ([]todo.Todo, error) {
	return s.store.List(ctx)
}

// Add stores a new todo item
func (s *Todo) Add(ctx context.Context, in todo.Input) (*todo.Todo, error) {
	return s.store.Add(ctx, in)
}

// Mark sets the done flag of a todo item
func (s *Todo) Mark(ctx context.Context, id int64, done bool) (*todo.Todo, error) {
	return s.store.Mark(ctx, id, done)
}
