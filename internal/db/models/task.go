package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/celestiaorg/taskman/internal/types"
)

// Field names for task model
const (
	// TaskProjectField is the owning project column
	TaskProjectField = "project"
	// TaskIDField is the per-project id column
	TaskIDField = "id"
	// TaskStatusField is the field name for task status
	TaskStatusField = "status"
	// TaskPriorityField is the field name for task priority
	TaskPriorityField = "priority"
	// TaskAssigneeField is the field name for task assignee
	TaskAssigneeField = "assignee"
	// TaskHighlightField is the field name for the highlight flag
	TaskHighlightField = "highlight"
)

// TaskStatus represents the current state of a task
type TaskStatus string

// Task status constants
const (
	TaskStatusToDo       TaskStatus = "To Do"
	TaskStatusInProgress TaskStatus = "In Progress"
	TaskStatusReview     TaskStatus = "Review"
	TaskStatusDone       TaskStatus = "Done"
	TaskStatusBlocked    TaskStatus = "Blocked"
	TaskStatusCancelled  TaskStatus = "Cancelled"
)

// TaskStatuses lists every valid status in display order
var TaskStatuses = []TaskStatus{
	TaskStatusToDo,
	TaskStatusInProgress,
	TaskStatusReview,
	TaskStatusDone,
	TaskStatusBlocked,
	TaskStatusCancelled,
}

// TaskPriority represents how urgent a task is
type TaskPriority string

// Task priority constants
const (
	TaskPriorityLow      TaskPriority = "Low"
	TaskPriorityMedium   TaskPriority = "Medium"
	TaskPriorityHigh     TaskPriority = "High"
	TaskPriorityCritical TaskPriority = "Critical"
)

// TaskPriorities lists every valid priority from lowest to highest
var TaskPriorities = []TaskPriority{
	TaskPriorityLow,
	TaskPriorityMedium,
	TaskPriorityHigh,
	TaskPriorityCritical,
}

// Tags is a set of strings. Task stores it as a JSON array through gorm's
// json serializer.
type Tags []string

// Has reports whether tag is in the set
func (t Tags) Has(tag string) bool {
	for _, v := range t {
		if v == tag {
			return true
		}
	}
	return false
}

// Task is a unit of work belonging to exactly one project
type Task struct {
	Project   string       `json:"project" gorm:"primaryKey"`
	ID        uint         `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Summary   string       `json:"summary" gorm:"not null"`
	Assignee  string       `json:"assignee" gorm:"not null;default:'';index"`
	Remarks   string       `json:"remarks" gorm:"type:text"`
	Status    TaskStatus   `json:"status" gorm:"not null;index"`
	Priority  TaskPriority `json:"priority" gorm:"not null"`
	Tags      Tags         `json:"tags" gorm:"serializer:json;type:text"`
	Highlight bool         `json:"highlight" gorm:"not null;index"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// TaskFields carries a partial set of task fields. Nil members are left untouched.
type TaskFields struct {
	Summary   *string   `json:"summary,omitempty"`
	Assignee  *string   `json:"assignee,omitempty"`
	Remarks   *string   `json:"remarks,omitempty"`
	Status    *string   `json:"status,omitempty"`
	Priority  *string   `json:"priority,omitempty"`
	Tags      *[]string `json:"tags,omitempty"`
	Highlight *bool     `json:"highlight,omitempty"`
}

// TaskFilter narrows a task listing. Empty members match everything.
type TaskFilter struct {
	Assignee string
	Status   string
	Priority string
	// Tags requires every listed tag to be present on the task
	Tags []string
}

// Highlight is the cross-project view of a highlighted task
type Highlight struct {
	ID       uint         `json:"id"`
	Project  string       `json:"project"`
	Summary  string       `json:"summary"`
	Assignee string       `json:"assignee"`
	Status   TaskStatus   `json:"status"`
	Priority TaskPriority `json:"priority"`
}

// String returns the string representation of the task status
func (s TaskStatus) String() string {
	return string(s)
}

// ParseTaskStatus converts a string to a TaskStatus, ignoring case and
// surrounding whitespace
func ParseTaskStatus(str string) (TaskStatus, error) {
	str = strings.TrimSpace(str)
	for _, s := range TaskStatuses {
		if strings.EqualFold(str, string(s)) {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: invalid task status %q", types.ErrInvalidEnum, str)
}

// UnmarshalJSON implements json.Unmarshaler for TaskStatus
func (s *TaskStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	status, err := ParseTaskStatus(str)
	if err != nil {
		return err
	}
	*s = status
	return nil
}

// String returns the string representation of the task priority
func (p TaskPriority) String() string {
	return string(p)
}

// ParseTaskPriority converts a string to a TaskPriority, ignoring case and
// surrounding whitespace
func ParseTaskPriority(str string) (TaskPriority, error) {
	str = strings.TrimSpace(str)
	for _, p := range TaskPriorities {
		if strings.EqualFold(str, string(p)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: invalid task priority %q", types.ErrInvalidEnum, str)
}

// UnmarshalJSON implements json.Unmarshaler for TaskPriority
func (p *TaskPriority) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	priority, err := ParseTaskPriority(str)
	if err != nil {
		return err
	}
	*p = priority
	return nil
}

// Validate ensures that the task data is valid
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Summary) == "" {
		return fmt.Errorf("%w: task summary cannot be empty", types.ErrInvalidInput)
	}
	if _, err := ParseTaskStatus(string(t.Status)); err != nil {
		return err
	}
	if _, err := ParseTaskPriority(string(t.Priority)); err != nil {
		return err
	}
	return nil
}

// BeforeCreate is a GORM hook that runs before creating a new task
func (t *Task) BeforeCreate(_ *gorm.DB) error {
	if t.Status == "" {
		t.Status = TaskStatusToDo
	}
	if t.Priority == "" {
		t.Priority = TaskPriorityMedium
	}
	if t.Tags == nil {
		t.Tags = Tags{}
	}
	return t.Validate()
}

// AfterFind is a GORM hook that runs after loading a task. Rows written with
// a JSON null come back as an empty set.
func (t *Task) AfterFind(_ *gorm.DB) error {
	if t.Tags == nil {
		t.Tags = Tags{}
	}
	return nil
}

// ApplyFields validates fields and copies the provided ones onto the task.
// The task is left untouched when validation fails.
func (t *Task) ApplyFields(f TaskFields) error {
	next := *t
	if f.Summary != nil {
		next.Summary = strings.TrimSpace(*f.Summary)
		if next.Summary == "" {
			return fmt.Errorf("%w: task summary cannot be empty", types.ErrInvalidInput)
		}
	}
	if f.Assignee != nil {
		next.Assignee = strings.TrimSpace(*f.Assignee)
	}
	if f.Remarks != nil {
		next.Remarks = *f.Remarks
	}
	if f.Status != nil {
		status, err := ParseTaskStatus(*f.Status)
		if err != nil {
			return err
		}
		next.Status = status
	}
	if f.Priority != nil {
		priority, err := ParseTaskPriority(*f.Priority)
		if err != nil {
			return err
		}
		next.Priority = priority
	}
	if f.Tags != nil {
		next.Tags = Tags(NormalizeTags(*f.Tags))
	}
	if f.Highlight != nil {
		next.Highlight = *f.Highlight
	}
	*t = next
	return nil
}

// ToHighlight projects the task onto the highlights view
func (t Task) ToHighlight() Highlight {
	return Highlight{
		ID:       t.ID,
		Project:  t.Project,
		Summary:  t.Summary,
		Assignee: t.Assignee,
		Status:   t.Status,
		Priority: t.Priority,
	}
}
