package repos

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/celestiaorg/taskman/internal/db/models"
	"github.com/celestiaorg/taskman/internal/types"
)

// TaskRepository handles database operations for tasks
type TaskRepository struct {
	db *gorm.DB
	w  *writer
}

// NewTaskRepository creates a new instance of TaskRepository
func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return NewStore(db).Tasks
}

// Create validates fields, assigns the next id of the project and stores the
// task. Ids are never reused, even after deletes.
func (r *TaskRepository) Create(ctx context.Context, project string, fields models.TaskFields) (*models.Task, error) {
	task := models.Task{
		Status:   models.TaskStatusToDo,
		Priority: models.TaskPriorityMedium,
		Tags:     models.Tags{},
	}
	if err := task.ApplyFields(fields); err != nil {
		return nil, err
	}
	if task.Summary == "" {
		return nil, fmt.Errorf("%w: task summary cannot be empty", types.ErrInvalidInput)
	}

	err := r.w.tx(ctx, func(tx *gorm.DB) error {
		p, err := findProject(tx, project)
		if err != nil {
			return err
		}
		if err := tx.Model(&models.Project{}).
			Where(models.ProjectNameField+" = ?", p.Name).
			UpdateColumns(map[string]interface{}{
				models.ProjectNextTaskIDField: gorm.Expr(models.ProjectNextTaskIDField + " + 1"),
				"updated_at":                  time.Now(),
			}).Error; err != nil {
			return err
		}
		var next uint
		if err := tx.Model(&models.Project{}).
			Where(models.ProjectNameField+" = ?", p.Name).
			Select(models.ProjectNextTaskIDField).
			Scan(&next).Error; err != nil {
			return err
		}

		task.Project = p.Name
		task.ID = next - 1
		return tx.Create(&task).Error
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// Get retrieves a single task
func (r *TaskRepository) Get(ctx context.Context, project string, id uint) (*models.Task, error) {
	p, err := findProject(r.db.WithContext(ctx), project)
	if err != nil {
		return nil, err
	}
	return getTask(r.db.WithContext(ctx), p.Name, id)
}

// Update applies the provided fields to a task and bumps its updated_at
func (r *TaskRepository) Update(ctx context.Context, project string, id uint, fields models.TaskFields) (*models.Task, error) {
	var task *models.Task
	err := r.w.tx(ctx, func(tx *gorm.DB) error {
		p, err := findProject(tx, project)
		if err != nil {
			return err
		}
		task, err = getTask(tx, p.Name, id)
		if err != nil {
			return err
		}
		if err := task.ApplyFields(fields); err != nil {
			return err
		}
		task.UpdatedAt = time.Now()
		return tx.Save(task).Error
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// SetHighlight sets or clears the highlight flag of a task
func (r *TaskRepository) SetHighlight(ctx context.Context, project string, id uint, highlight bool) (*models.Task, error) {
	return r.Update(ctx, project, id, models.TaskFields{Highlight: &highlight})
}

// Delete removes a single task
func (r *TaskRepository) Delete(ctx context.Context, project string, id uint) error {
	return r.w.tx(ctx, func(tx *gorm.DB) error {
		p, err := findProject(tx, project)
		if err != nil {
			return err
		}
		res := tx.Where(models.TaskProjectField+" = ? AND "+models.TaskIDField+" = ?", p.Name, id).
			Delete(&models.Task{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: task %d in project %q", types.ErrNotFound, id, p.Name)
		}
		return nil
	})
}

// List returns the stored project name and its tasks matching filter, in id order
func (r *TaskRepository) List(ctx context.Context, project string, filter models.TaskFilter) (string, []models.Task, error) {
	var (
		canonical string
		tasks     = []models.Task{}
	)
	err := snapshot(ctx, r.db, func(tx *gorm.DB) error {
		p, err := findProject(tx, project)
		if err != nil {
			return err
		}
		canonical = p.Name

		query, err := applyFilter(tx.Where(models.TaskProjectField+" = ?", p.Name), filter)
		if err != nil {
			return err
		}
		if err := query.Order(models.TaskIDField).Find(&tasks).Error; err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", nil, err
	}
	return canonical, filterTags(tasks, filter.Tags), nil
}

// ListByAssignee returns tasks across all projects whose assignee matches,
// ignoring case. An empty assignee returns every task.
func (r *TaskRepository) ListByAssignee(ctx context.Context, assignee string) ([]models.Task, error) {
	query, err := applyFilter(r.db.WithContext(ctx), models.TaskFilter{Assignee: assignee})
	if err != nil {
		return nil, err
	}
	tasks := []models.Task{}
	if err := query.Order(models.TaskProjectField).Order(models.TaskIDField).Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// ListHighlighted returns every highlighted task across projects
func (r *TaskRepository) ListHighlighted(ctx context.Context) ([]models.Highlight, error) {
	var tasks []models.Task
	if err := r.db.WithContext(ctx).
		Where(models.TaskHighlightField+" = ?", true).
		Order(models.TaskProjectField).
		Order(models.TaskIDField).
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to list highlights: %w", err)
	}
	out := make([]models.Highlight, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ToHighlight())
	}
	return out, nil
}

// ListAssignees returns the distinct non-empty assignees across all tasks.
// Names differing only in case are merged, keeping the first spelling seen.
func (r *TaskRepository) ListAssignees(ctx context.Context) ([]string, error) {
	var names []string
	if err := r.db.WithContext(ctx).Model(&models.Task{}).
		Where(models.TaskAssigneeField+" <> ?", "").
		Order(models.TaskProjectField).
		Order(models.TaskIDField).
		Pluck(models.TaskAssigneeField, &names).Error; err != nil {
		return nil, fmt.Errorf("failed to list assignees: %w", err)
	}

	seen := make(map[string]struct{}, len(names))
	out := []string{}
	for _, name := range names {
		name = strings.TrimSpace(name)
		key := strings.ToLower(name)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, name)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i]) < strings.ToLower(out[j])
	})
	return out, nil
}

func getTask(db *gorm.DB, project string, id uint) (*models.Task, error) {
	var task models.Task
	err := db.Where(models.TaskProjectField+" = ? AND "+models.TaskIDField+" = ?", project, id).
		First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: task %d in project %q", types.ErrNotFound, id, project)
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func applyFilter(query *gorm.DB, filter models.TaskFilter) (*gorm.DB, error) {
	if a := strings.TrimSpace(filter.Assignee); a != "" {
		query = query.Where("LOWER("+models.TaskAssigneeField+") = ?", strings.ToLower(a))
	}
	if filter.Status != "" {
		status, err := models.ParseTaskStatus(filter.Status)
		if err != nil {
			return nil, err
		}
		query = query.Where(models.TaskStatusField+" = ?", status)
	}
	if filter.Priority != "" {
		priority, err := models.ParseTaskPriority(filter.Priority)
		if err != nil {
			return nil, err
		}
		query = query.Where(models.TaskPriorityField+" = ?", priority)
	}
	return query, nil
}

// filterTags keeps tasks carrying every wanted tag. Tags are stored as a JSON
// column so membership is checked here rather than in SQL.
func filterTags(tasks []models.Task, wanted []string) []models.Task {
	wanted = models.NormalizeTags(wanted)
	if len(wanted) == 0 {
		return tasks
	}
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		keep := true
		for _, tag := range wanted {
			if !t.Tags.Has(tag) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, t)
		}
	}
	return out
}
