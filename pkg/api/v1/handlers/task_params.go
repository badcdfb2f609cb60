package handlers

import (
	"fmt"
	"strings"

	"github.com/celestiaorg/taskman/internal/db/models"
)

// TaskCreateParams defines the parameters for creating a task
type TaskCreateParams struct {
	models.TaskFields
}

// Validate validates the parameters for creating a task
func (p TaskCreateParams) Validate() error {
	if p.Summary == nil || strings.TrimSpace(*p.Summary) == "" {
		return fmt.Errorf("%s", ErrMsgTaskSummaryRequired)
	}
	return nil
}

// TaskUpdateParams defines the parameters for updating a task
type TaskUpdateParams struct {
	ID     ID                 `json:"id"`
	Fields *models.TaskFields `json:"fields"`
}

// Validate validates the parameters for updating a task
func (p TaskUpdateParams) Validate() error {
	if err := validateID(p.ID); err != nil {
		return err
	}
	if p.Fields == nil {
		return fmt.Errorf("%s", ErrMsgTaskFieldsRequired)
	}
	return nil
}

// TaskDeleteParams defines the parameters for deleting a task
type TaskDeleteParams struct {
	ID ID `json:"id"`
}

// Validate validates the parameters for deleting a task
func (p TaskDeleteParams) Validate() error {
	return validateID(p.ID)
}

// TaskHighlightParams defines the parameters for setting the highlight flag of a task
type TaskHighlightParams struct {
	ID        ID    `json:"id"`
	Highlight *bool `json:"highlight"`
}

// Validate validates the parameters for setting the highlight flag
func (p TaskHighlightParams) Validate() error {
	if err := validateID(p.ID); err != nil {
		return err
	}
	if p.Highlight == nil {
		return fmt.Errorf("%s", ErrMsgInvalidHighlight)
	}
	return nil
}

// TaskListParams defines the filters of a project task listing, read from the query string
type TaskListParams struct {
	Assignee string
	Status   string
	Priority string
	Tags     []string
}

// Filter converts the params into a repository filter
func (p TaskListParams) Filter() models.TaskFilter {
	return models.TaskFilter{
		Assignee: p.Assignee,
		Status:   p.Status,
		Priority: p.Priority,
		Tags:     p.Tags,
	}
}

// taskListParams reads the listing filters from the query. Tags may be given
// as repeated tag parameters or as a comma separated list.
func taskListParams(req Request) TaskListParams {
	var tags []string
	for _, v := range req.Query["tag"] {
		tags = append(tags, strings.Split(v, ",")...)
	}
	return TaskListParams{
		Assignee: req.Query.Get("assignee"),
		Status:   req.Query.Get("status"),
		Priority: req.Query.Get("priority"),
		Tags:     models.NormalizeTags(tags),
	}
}
