// Package repos provides database repository implementations
package repos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"gorm.io/gorm"

	"github.com/celestiaorg/taskman/internal/db/models"
	"github.com/celestiaorg/taskman/internal/types"
)

// Store bundles the repositories that share one project database. Mutations
// through any of them are serialized on a single lock and each runs in one
// transaction.
type Store struct {
	Projects *ProjectRepository
	Tasks    *TaskRepository
}

// NewStore creates the project and task repositories over db
func NewStore(db *gorm.DB) *Store {
	w := &writer{db: db}
	return &Store{
		Projects: &ProjectRepository{db: db, w: w},
		Tasks:    &TaskRepository{db: db, w: w},
	}
}

// writer runs mutating transactions one at a time
type writer struct {
	mu sync.Mutex
	db *gorm.DB
}

func (w *writer) tx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.db.WithContext(ctx).Transaction(fn)
}

// snapshot runs fn in a read-only transaction so that every query in fn sees
// the same committed state
func snapshot(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return db.WithContext(ctx).Transaction(fn, &sql.TxOptions{
		Isolation: sql.LevelRepeatableRead,
		ReadOnly:  true,
	})
}

// findProject looks a project up by its case-folded name
func findProject(db *gorm.DB, name string) (*models.Project, error) {
	key := models.NameKey(name)
	if key == "" {
		return nil, fmt.Errorf("%w: project name is empty", types.ErrNotFound)
	}
	var project models.Project
	err := db.Where(models.ProjectNameKeyField+" = ?", key).First(&project).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: project %q", types.ErrNotFound, name)
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, types.ErrNotFound)
}

func tagsFor(db *gorm.DB, project string) ([]string, error) {
	tags := []string{}
	err := db.Model(&models.ProjectTag{}).
		Where("project = ?", project).
		Order("tag").
		Pluck("tag", &tags).Error
	return tags, err
}
