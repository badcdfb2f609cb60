package services

import (
	"context"

	"github.com/celestiaorg/taskman/internal/db/models"
	"github.com/celestiaorg/taskman/internal/db/repos"
)

// Task handles task-related operations
type Task struct {
	repo *repos.TaskRepository
}

// NewTaskService creates a new instance of TaskService
func NewTaskService(repo *repos.TaskRepository) *Task {
	return &Task{
		repo: repo,
	}
}

// Create creates a new task in a project
func (s *Task) Create(ctx context.Context, project string, fields models.TaskFields) (*models.Task, error) {
	return s.repo.Create(ctx, project, fields)
}

// Get retrieves a task by project and id
func (s *Task) Get(ctx context.Context, project string, id uint) (*models.Task, error) {
	return s.repo.Get(ctx, project, id)
}

// Update applies the provided fields to a task
func (s *Task) Update(ctx context.Context, project string, id uint, fields models.TaskFields) (*models.Task, error) {
	return s.repo.Update(ctx, project, id, fields)
}

// SetHighlight sets or clears the highlight flag of a task
func (s *Task) SetHighlight(ctx context.Context, project string, id uint, highlight bool) (*models.Task, error) {
	return s.repo.SetHighlight(ctx, project, id, highlight)
}

// Delete deletes a task
func (s *Task) Delete(ctx context.Context, project string, id uint) error {
	return s.repo.Delete(ctx, project, id)
}

// ListByProject returns the canonical project name and its tasks matching filter
func (s *Task) ListByProject(ctx context.Context, project string, filter models.TaskFilter) (string, []models.Task, error) {
	return s.repo.List(ctx, project, filter)
}

// ListByAssignee returns tasks across projects for one assignee
func (s *Task) ListByAssignee(ctx context.Context, assignee string) ([]models.Task, error) {
	return s.repo.ListByAssignee(ctx, assignee)
}

// ListHighlighted returns highlighted tasks across projects
func (s *Task) ListHighlighted(ctx context.Context) ([]models.Highlight, error) {
	return s.repo.ListHighlighted(ctx)
}

// ListAssignees returns the distinct assignees across projects
func (s *Task) ListAssignees(ctx context.Context) ([]string, error) {
	return s.repo.ListAssignees(ctx)
}
