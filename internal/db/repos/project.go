package repos

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/celestiaorg/taskman/internal/db"
	"github.com/celestiaorg/taskman/internal/db/models"
	"github.com/celestiaorg/taskman/internal/types"
)

// ProjectRepository handles database operations for projects and their tags
type ProjectRepository struct {
	db *gorm.DB
	w  *writer
}

// NewProjectRepository creates a new instance of ProjectRepository
func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return NewStore(db).Projects
}

// OpenOrCreate returns the project with the given name, creating it when absent.
// Lookups ignore case and return the stored spelling.
func (r *ProjectRepository) OpenOrCreate(ctx context.Context, name string) (*models.Project, error) {
	name, err := models.ValidateProjectName(name)
	if err != nil {
		return nil, err
	}

	var project *models.Project
	err = r.w.tx(ctx, func(tx *gorm.DB) error {
		existing, err := findProject(tx, name)
		if err == nil {
			project = existing
			return nil
		}
		if !isNotFound(err) {
			return err
		}
		project = &models.Project{
			Name:       name,
			NameKey:    models.NameKey(name),
			NextTaskID: 1,
		}
		return tx.Create(project).Error
	})
	if db.IsDuplicateKeyError(err) {
		// created concurrently by another process sharing the database
		return findProject(r.db.WithContext(ctx), name)
	}
	if err != nil {
		return nil, err
	}
	return project, nil
}

// Get returns the summary of a single project
func (r *ProjectRepository) Get(ctx context.Context, name string) (*models.ProjectSummary, error) {
	var summary *models.ProjectSummary
	err := snapshot(ctx, r.db, func(tx *gorm.DB) error {
		project, err := findProject(tx, name)
		if err != nil {
			return err
		}
		tags, err := tagsFor(tx, project.Name)
		if err != nil {
			return err
		}
		var count int64
		if err := tx.Model(&models.Task{}).
			Where(models.TaskProjectField+" = ?", project.Name).
			Count(&count).Error; err != nil {
			return err
		}
		summary = &models.ProjectSummary{
			Name:      project.Name,
			Tags:      tags,
			TaskCount: count,
			CreatedAt: project.CreatedAt,
			UpdatedAt: project.UpdatedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// Rename changes a project's name and moves its tasks and tags with it in one
// transaction. A rename that only changes case is allowed.
func (r *ProjectRepository) Rename(ctx context.Context, oldName, newName string) (*models.Project, error) {
	newName, err := models.ValidateProjectName(newName)
	if err != nil {
		return nil, err
	}

	var renamed *models.Project
	err = r.w.tx(ctx, func(tx *gorm.DB) error {
		project, err := findProject(tx, oldName)
		if err != nil {
			return err
		}
		newKey := models.NameKey(newName)
		if newKey != project.NameKey {
			if _, err := findProject(tx, newName); err == nil {
				return fmt.Errorf("%w: project %q already exists", types.ErrNameConflict, newName)
			} else if !isNotFound(err) {
				return err
			}
		}
		if project.Name == newName {
			renamed = project
			return nil
		}

		now := time.Now()
		if err := tx.Model(&models.Project{}).
			Where(models.ProjectNameField+" = ?", project.Name).
			UpdateColumns(map[string]interface{}{
				models.ProjectNameField:    newName,
				models.ProjectNameKeyField: newKey,
				"updated_at":               now,
			}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Task{}).
			Where(models.TaskProjectField+" = ?", project.Name).
			UpdateColumn(models.TaskProjectField, newName).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.ProjectTag{}).
			Where("project = ?", project.Name).
			UpdateColumn("project", newName).Error; err != nil {
			return err
		}

		project.Name = newName
		project.NameKey = newKey
		project.UpdatedAt = now
		renamed = project
		return nil
	})
	if db.IsDuplicateKeyError(err) {
		return nil, fmt.Errorf("%w: project %q already exists", types.ErrNameConflict, newName)
	}
	if err != nil {
		return nil, err
	}
	return renamed, nil
}

// Delete removes a project, its tags and all of its tasks in one transaction.
// It returns the stored spelling of the deleted name.
func (r *ProjectRepository) Delete(ctx context.Context, name string) (string, error) {
	var deleted string
	err := r.w.tx(ctx, func(tx *gorm.DB) error {
		project, err := findProject(tx, name)
		if err != nil {
			return err
		}
		if err := tx.Where("project = ?", project.Name).Delete(&models.ProjectTag{}).Error; err != nil {
			return err
		}
		if err := tx.Where(models.TaskProjectField+" = ?", project.Name).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Where(models.ProjectNameField+" = ?", project.Name).Delete(&models.Project{}).Error; err != nil {
			return err
		}
		deleted = project.Name
		return nil
	})
	return deleted, err
}

// List returns every project with its tags and task count, ordered by name.
// Counts and tags come from the same snapshot.
func (r *ProjectRepository) List(ctx context.Context) ([]models.ProjectSummary, error) {
	var rows []struct {
		Name      string
		CreatedAt time.Time
		UpdatedAt time.Time
		TaskCount int64
	}
	var tags map[string][]string
	err := snapshot(ctx, r.db, func(tx *gorm.DB) error {
		err := tx.Table("projects AS p").
			Select("p.name, p.created_at, p.updated_at, COUNT(t.id) AS task_count").
			Joins("LEFT JOIN tasks AS t ON t.project = p.name").
			Group("p.name, p.name_key, p.created_at, p.updated_at").
			Order("p.name_key").
			Scan(&rows).Error
		if err != nil {
			return fmt.Errorf("failed to list projects: %w", err)
		}
		tags, err = tagsByProject(tx)
		return err
	})
	if err != nil {
		return nil, err
	}

	summaries := make([]models.ProjectSummary, 0, len(rows))
	for _, row := range rows {
		projectTags := tags[row.Name]
		if projectTags == nil {
			projectTags = []string{}
		}
		summaries = append(summaries, models.ProjectSummary{
			Name:      row.Name,
			Tags:      projectTags,
			TaskCount: row.TaskCount,
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
		})
	}
	return summaries, nil
}

// TagsByProject returns the tag list of every project keyed by project name
func (r *ProjectRepository) TagsByProject(ctx context.Context) (map[string][]string, error) {
	var out map[string][]string
	err := snapshot(ctx, r.db, func(tx *gorm.DB) error {
		var err error
		out, err = tagsByProject(tx)
		return err
	})
	return out, err
}

func tagsByProject(tx *gorm.DB) (map[string][]string, error) {
	var names []string
	if err := tx.Model(&models.Project{}).
		Order(models.ProjectNameKeyField).
		Pluck(models.ProjectNameField, &names).Error; err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	var tags []models.ProjectTag
	if err := tx.Order("project, tag").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to list project tags: %w", err)
	}

	out := make(map[string][]string, len(names))
	for _, name := range names {
		out[name] = []string{}
	}
	for _, t := range tags {
		if _, ok := out[t.Project]; ok {
			out[t.Project] = append(out[t.Project], t.Tag)
		}
	}
	return out, nil
}

// Tags returns the stored project name and its tags
func (r *ProjectRepository) Tags(ctx context.Context, name string) (string, []string, error) {
	var (
		canonical string
		tags      []string
	)
	err := snapshot(ctx, r.db, func(tx *gorm.DB) error {
		project, err := findProject(tx, name)
		if err != nil {
			return err
		}
		canonical = project.Name
		tags, err = tagsFor(tx, project.Name)
		return err
	})
	if err != nil {
		return "", nil, err
	}
	return canonical, tags, nil
}

// Snapshot returns a project with its tags and every task in id order, all
// read in one transaction
func (r *ProjectRepository) Snapshot(ctx context.Context, name string) (*models.ProjectSnapshot, error) {
	var snap *models.ProjectSnapshot
	err := snapshot(ctx, r.db, func(tx *gorm.DB) error {
		project, err := findProject(tx, name)
		if err != nil {
			return err
		}
		tasks := []models.Task{}
		if err := tx.Where(models.TaskProjectField+" = ?", project.Name).
			Order(models.TaskIDField).
			Find(&tasks).Error; err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}
		tags, err := tagsFor(tx, project.Name)
		if err != nil {
			return err
		}
		snap = &models.ProjectSnapshot{Name: project.Name, Tags: tags, Tasks: tasks}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// AddTags adds tags to a project. Tags already present are ignored.
func (r *ProjectRepository) AddTags(ctx context.Context, name string, tags []string) (string, []string, error) {
	tags = models.NormalizeTags(tags)
	if len(tags) == 0 {
		return "", nil, fmt.Errorf("%w: no tags provided", types.ErrInvalidInput)
	}

	var (
		canonical string
		result    []string
	)
	err := r.w.tx(ctx, func(tx *gorm.DB) error {
		project, err := findProject(tx, name)
		if err != nil {
			return err
		}
		rows := make([]models.ProjectTag, 0, len(tags))
		for _, tag := range tags {
			rows = append(rows, models.ProjectTag{Project: project.Name, Tag: tag})
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error; err != nil {
			return err
		}
		if err := touchProject(tx, project.Name); err != nil {
			return err
		}
		canonical = project.Name
		result, err = tagsFor(tx, project.Name)
		return err
	})
	if err != nil {
		return "", nil, err
	}
	return canonical, result, nil
}

// RemoveTag removes a tag from a project. Removing an absent tag is not an error.
func (r *ProjectRepository) RemoveTag(ctx context.Context, name, tag string) (string, []string, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return "", nil, fmt.Errorf("%w: no tag provided", types.ErrInvalidInput)
	}

	var (
		canonical string
		result    []string
	)
	err := r.w.tx(ctx, func(tx *gorm.DB) error {
		project, err := findProject(tx, name)
		if err != nil {
			return err
		}
		if err := tx.Where("project = ? AND tag = ?", project.Name, tag).
			Delete(&models.ProjectTag{}).Error; err != nil {
			return err
		}
		if err := touchProject(tx, project.Name); err != nil {
			return err
		}
		canonical = project.Name
		result, err = tagsFor(tx, project.Name)
		return err
	})
	if err != nil {
		return "", nil, err
	}
	return canonical, result, nil
}

func touchProject(tx *gorm.DB, name string) error {
	return tx.Model(&models.Project{}).
		Where(models.ProjectNameField+" = ?", name).
		UpdateColumn("updated_at", time.Now()).Error
}
