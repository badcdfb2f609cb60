package handlers

import (
	"github.com/celestiaorg/taskman/internal/db/models"
	"github.com/celestiaorg/taskman/internal/db/todo"
	"github.com/celestiaorg/taskman/internal/types"
)

// ProjectListResponse is returned by the project listing
type ProjectListResponse struct {
	Projects []models.ProjectSummary `json:"projects"`
}

// ProjectTagsResponse carries the tags of every project
type ProjectTagsResponse struct {
	TagsByProject map[string][]string `json:"tagsByProject"`
}

// TagsResponse carries the tags of one project
type TagsResponse struct {
	Project string   `json:"project"`
	Tags    []string `json:"tags"`
}

// ProjectOpenResponse is returned when a project is opened or created
type ProjectOpenResponse struct {
	types.OKResponse
	CurrentProject string                `json:"currentProject"`
	Project        models.ProjectSummary `json:"project"`
}

// StateResponse reports the open project. CurrentProject is null when no
// project has been opened.
type StateResponse struct {
	CurrentProject *string `json:"currentProject"`
}

// ProjectRenameResponse is returned after a rename
type ProjectRenameResponse struct {
	types.OKResponse
	Project string `json:"project"`
}

// ProjectDeleteResponse is returned after a delete
type ProjectDeleteResponse struct {
	types.OKResponse
	Deleted string `json:"deleted"`
}

// ProjectExportResponse is returned after writing a markdown export
type ProjectExportResponse struct {
	types.OKResponse
	Path string `json:"path"`
}

// TaskListResponse is returned by task listings. Project is empty for
// cross-project listings.
type TaskListResponse struct {
	Project string        `json:"project,omitempty"`
	Tasks   []models.Task `json:"tasks"`
}

// TaskCreateResponse is returned after creating a task
type TaskCreateResponse struct {
	types.OKResponse
	ID   uint        `json:"id"`
	Task models.Task `json:"task"`
}

// TaskResponse is returned after updating a task
type TaskResponse struct {
	types.OKResponse
	Task models.Task `json:"task"`
}

// TaskDeleteResponse is returned after deleting a task
type TaskDeleteResponse struct {
	types.OKResponse
	ID uint `json:"id"`
}

// AssigneesResponse lists the distinct assignees
type AssigneesResponse struct {
	Assignees []string `json:"assignees"`
}

// HighlightsResponse lists highlighted tasks across projects
type HighlightsResponse struct {
	Highlights []models.Highlight `json:"highlights"`
}

// TodoListResponse lists todo items
type TodoListResponse struct {
	Items []todo.Todo `json:"items"`
}

// TodoResponse is returned after adding a todo
type TodoResponse struct {
	types.OKResponse
	Item todo.Todo `json:"item"`
}

// TodoMarkResponse is returned after marking a todo
type TodoMarkResponse struct {
	types.OKResponse
	ID   int64     `json:"id"`
	Done bool      `json:"done"`
	Item todo.Todo `json:"item"`
}
