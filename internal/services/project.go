package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/celestiaorg/taskman/internal/db/models"
	"github.com/celestiaorg/taskman/internal/db/repos"
	"github.com/celestiaorg/taskman/internal/logger"
)

// DefaultExportDir is where markdown exports are written when none is configured
const DefaultExportDir = "data/exports"

// exportSuffix is appended to the lower cased project name to form the export file name
const exportSuffix = "_tasks_export.md"

// Project handles project-related operations
type Project struct {
	repo      *repos.ProjectRepository
	exportDir string

	// current is the project most recently opened through this service
	mu      sync.RWMutex
	current string
}

// NewProjectService creates a new instance of ProjectService
func NewProjectService(repo *repos.ProjectRepository, exportDir string) *Project {
	if exportDir == "" {
		exportDir = DefaultExportDir
	}
	return &Project{
		repo:      repo,
		exportDir: exportDir,
	}
}

// OpenOrCreate opens the project with the given name, creating it if needed
func (s *Project) OpenOrCreate(ctx context.Context, name string) (*models.ProjectSummary, error) {
	project, err := s.repo.OpenOrCreate(ctx, name)
	if err != nil {
		return nil, err
	}
	summary, err := s.repo.Get(ctx, project.Name)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.current = summary.Name
	s.mu.Unlock()
	return summary, nil
}

// Current returns the name of the open project, if any
func (s *Project) Current() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.current != ""
}

// Get returns the summary of one project
func (s *Project) Get(ctx context.Context, name string) (*models.ProjectSummary, error) {
	return s.repo.Get(ctx, name)
}

// List returns every project with its tags and task count
func (s *Project) List(ctx context.Context) ([]models.ProjectSummary, error) {
	return s.repo.List(ctx)
}

// TagsByProject returns the tags of every project
func (s *Project) TagsByProject(ctx context.Context) (map[string][]string, error) {
	return s.repo.TagsByProject(ctx)
}

// Tags returns the canonical name and tags of a project
func (s *Project) Tags(ctx context.Context, name string) (string, []string, error) {
	return s.repo.Tags(ctx, name)
}

// AddTags adds tags to a project
func (s *Project) AddTags(ctx context.Context, name string, tags []string) (string, []string, error) {
	return s.repo.AddTags(ctx, name, tags)
}

// RemoveTag removes a tag from a project
func (s *Project) RemoveTag(ctx context.Context, name, tag string) (string, []string, error) {
	return s.repo.RemoveTag(ctx, name, tag)
}

// Rename renames a project and moves its markdown export, if any, to the new path
func (s *Project) Rename(ctx context.Context, oldName, newName string) (*models.Project, error) {
	project, err := s.repo.Rename(ctx, oldName, newName)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	if models.NameKey(s.current) == models.NameKey(oldName) {
		s.current = project.Name
	}
	s.mu.Unlock()

	from, to := s.ExportPath(oldName), s.ExportPath(project.Name)
	if from != to {
		if err := os.Rename(from, to); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.WarnWithFields("Failed to move project export", map[string]interface{}{
				"from":  from,
				"to":    to,
				"error": err.Error(),
			})
		}
	}
	return project, nil
}

// Delete deletes a project with its tags and tasks and removes its markdown export
func (s *Project) Delete(ctx context.Context, name string) (string, error) {
	deleted, err := s.repo.Delete(ctx, name)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	if models.NameKey(s.current) == models.NameKey(deleted) {
		s.current = ""
	}
	s.mu.Unlock()

	path := s.ExportPath(deleted)
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.WarnWithFields("Failed to remove project export", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
	}
	return deleted, nil
}

// ExportPath returns the markdown export location for a project name
func (s *Project) ExportPath(name string) string {
	return filepath.Join(s.exportDir, models.NameKey(name)+exportSuffix)
}

// exportFrontMatter is the YAML header of an export document
type exportFrontMatter struct {
	Project    string   `yaml:"project"`
	Tags       []string `yaml:"tags"`
	TaskCount  int      `yaml:"task_count"`
	ExportedAt string   `yaml:"exported_at"`
}

// Export writes every task of a project, in id order, to its markdown export
// file and returns the path written. An existing export is overwritten.
func (s *Project) Export(ctx context.Context, name string) (string, error) {
	snap, err := s.repo.Snapshot(ctx, name)
	if err != nil {
		return "", err
	}

	doc, err := renderExport(snap.Name, snap.Tags, snap.Tasks, time.Now().UTC())
	if err != nil {
		return "", err
	}

	path := s.ExportPath(snap.Name)
	if err := s.writeExport(path, doc); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}

	logger.InfoWithFields("Exported project", map[string]interface{}{
		"project": snap.Name,
		"tasks":   len(snap.Tasks),
		"path":    path,
	})
	return path, nil
}

// writeExport replaces path with doc through a uniquely named temp file in
// the same directory, so readers only ever see a complete document
func (s *Project) writeExport(path string, doc []byte) error {
	if err := os.MkdirAll(s.exportDir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.exportDir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(doc); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func renderExport(project string, tags []string, tasks []models.Task, now time.Time) ([]byte, error) {
	if tags == nil {
		tags = []string{}
	}
	header, err := yaml.Marshal(exportFrontMatter{
		Project:    project,
		Tags:       tags,
		TaskCount:  len(tasks),
		ExportedAt: now.Format(time.RFC3339),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode export header: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(header)
	buf.WriteString("---\n\n")
	fmt.Fprintf(&buf, "# %s tasks\n\n", project)
	buf.WriteString("| ID | Summary | Assignee | Status | Priority | Tags | Highlight | Remarks |\n")
	buf.WriteString("|---|---|---|---|---|---|---|---|\n")
	for _, t := range tasks {
		highlight := ""
		if t.Highlight {
			highlight = "yes"
		}
		fmt.Fprintf(&buf, "| %d | %s | %s | %s | %s | %s | %s | %s |\n",
			t.ID,
			cell(t.Summary),
			cell(t.Assignee),
			t.Status,
			t.Priority,
			cell(strings.Join(t.Tags, ", ")),
			highlight,
			cell(t.Remarks),
		)
	}
	return buf.Bytes(), nil
}

// cell escapes a value for a markdown table cell
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\n", "<br>")
}
