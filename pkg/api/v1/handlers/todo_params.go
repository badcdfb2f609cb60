package handlers

import (
	"fmt"
	"strings"

	"github.com/celestiaorg/taskman/internal/db/todo"
)

// TodoAddParams defines the parameters for adding a todo
type TodoAddParams struct {
	todo.Input
}

// Validate validates the parameters for adding a todo
func (p TodoAddParams) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("%s", ErrMsgTodoTitleRequired)
	}
	return nil
}

// TodoMarkParams defines the parameters for marking a todo done or not done
type TodoMarkParams struct {
	ID   ID    `json:"id"`
	Done *bool `json:"done"`
}

// Validate validates the parameters for marking a todo
func (p TodoMarkParams) Validate() error {
	if err := validateID(p.ID); err != nil {
		return err
	}
	if p.Done == nil {
		return fmt.Errorf("%s", ErrMsgInvalidDone)
	}
	return nil
}
