package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/celestiaorg/taskman/internal/types"
)

// Field names for project model
const (
	// ProjectNameField is the primary key column of the projects table
	ProjectNameField = "name"
	// ProjectNameKeyField holds the lower-cased name used for lookups
	ProjectNameKeyField = "name_key"
	// ProjectNextTaskIDField is the per-project task id counter
	ProjectNextTaskIDField = "next_task_id"
)

// Project is a named container of tasks with its own tag set
type Project struct {
	Name       string    `json:"name" gorm:"primaryKey"`
	NameKey    string    `json:"-" gorm:"not null;uniqueIndex"`
	NextTaskID uint      `json:"-" gorm:"not null;default:1"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ProjectTag is one tag of a project
type ProjectTag struct {
	Project   string    `json:"project" gorm:"primaryKey"`
	Tag       string    `json:"tag" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName overrides the default table name
func (ProjectTag) TableName() string {
	return "project_tags"
}

// ProjectSummary is the listing view of a project
type ProjectSummary struct {
	Name      string    `json:"name"`
	Tags      []string  `json:"tags"`
	TaskCount int64     `json:"task_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProjectSnapshot is a project with its tags and tasks as read at one point in time
type ProjectSnapshot struct {
	Name  string
	Tags  []string
	Tasks []Task
}

// NameKey returns the case-folded form of a project name used for uniqueness.
func NameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ValidateProjectName trims the name and checks that it is safe to use as a
// file name component. It returns the trimmed name.
func ValidateProjectName(name string) (string, error) {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return "", fmt.Errorf("%w: name cannot be empty", types.ErrInvalidName)
	case strings.Contains(name, ".."):
		return "", fmt.Errorf("%w: %q contains '..'", types.ErrInvalidName, name)
	case strings.HasPrefix(name, "."):
		return "", fmt.Errorf("%w: %q starts with '.'", types.ErrInvalidName, name)
	case strings.Contains(name, "/"):
		return "", fmt.Errorf("%w: %q contains '/'", types.ErrInvalidName, name)
	}
	return name, nil
}

// NormalizeTags trims every tag, drops empties and duplicates, and keeps the
// first-seen order.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
