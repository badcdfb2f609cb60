// Package todo stores standalone checklist items in their own sqlite database
package todo

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// Priority is the urgency of a todo item
type Priority string

// Priority values
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// DueDateLayout is the calendar date format accepted for due dates
const DueDateLayout = "2006-01-02"

// ParsePriority maps s to a known priority. Unknown or empty values are medium.
func ParsePriority(s string) Priority {
	switch p := Priority(strings.ToLower(strings.TrimSpace(s))); p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return p
	default:
		return PriorityMedium
	}
}

// People is an ordered list of names as accepted on input
type People []string

// UnmarshalJSON accepts either a JSON array of names or a comma separated string
func (p *People) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*p = People{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*p = ParsePeople(s)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("people must be a string or a list of strings")
	}
	*p = NormalizePeople(list)
	return nil
}

// ParsePeople splits a comma separated list of names
func ParsePeople(s string) People {
	return NormalizePeople(strings.Split(s, ","))
}

// NormalizePeople trims each name and drops empty ones, keeping order
func NormalizePeople(names []string) People {
	out := People{}
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// NormalizeDueDate returns s when it is an ISO calendar date and "" otherwise
func NormalizeDueDate(s string) string {
	s = strings.TrimSpace(s)
	if _, err := time.Parse(DueDateLayout, s); err != nil {
		return ""
	}
	return s
}

// Todo is a checklist item independent of projects
type Todo struct {
	ID        int64                       `json:"id" db:"id"`
	Title     string                      `json:"title" db:"title"`
	Note      string                      `json:"note" db:"note"`
	DueDate   string                      `json:"due_date" db:"due_date"`
	Priority  Priority                    `json:"priority" db:"priority"`
	People    datatypes.JSONSlice[string] `json:"people" db:"people"`
	Done      bool                        `json:"done" db:"done"`
	CreatedAt time.Time                   `json:"created_at" db:"created_at"`
	UpdatedAt time.Time                   `json:"updated_at" db:"updated_at"`
}

// Input holds the fields accepted when adding a todo
type Input struct {
	Title    string `json:"title"`
	Note     string `json:"note"`
	DueDate  string `json:"due_date"`
	Priority string `json:"priority"`
	People   People `json:"people"`
	Done     bool   `json:"done"`
}

// normalize builds the item that Add stores
func (in Input) normalize(now time.Time) Todo {
	return Todo{
		Title:     strings.TrimSpace(in.Title),
		Note:      in.Note,
		DueDate:   NormalizeDueDate(in.DueDate),
		Priority:  ParsePriority(in.Priority),
		People:    datatypes.JSONSlice[string](NormalizePeople(in.People)),
		Done:      in.Done,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
