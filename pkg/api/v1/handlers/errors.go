// Package handlers provides HTTP request handling
package handlers

import (
	"errors"
	"net/http"

	"github.com/celestiaorg/taskman/internal/types"
)

// Common error messages
const (
	ErrMsgInvalidParams   = "Invalid parameters"
	ErrMsgInvalidJSONBody = "Invalid JSON body"
	ErrMsgNotFound        = "Not found"
	ErrMsgInternal        = "Internal server error"
	ErrMsgIDRequired      = "Missing id"
	ErrMsgInvalidID       = "Invalid id"
)

// Project error messages
const (
	ErrMsgProjNameRequired    = "Project name is required"
	ErrMsgProjNewNameRequired = "New project name is required"
	ErrMsgTagsRequired        = "At least one tag is required"
	ErrMsgTagRequired         = "Tag is required"
)

// Task error messages
const (
	ErrMsgTaskSummaryRequired = "Task summary is required"
	ErrMsgTaskFieldsRequired  = "Missing fields"
	ErrMsgInvalidHighlight    = "Invalid highlight"
)

// Todo error messages
const (
	ErrMsgTodoTitleRequired = "Title is required"
	ErrMsgInvalidDone       = "Invalid done"
)

// errorResult maps a service error onto a response. Validation errors and
// lookups that miss carry their message to the client; anything else becomes
// a generic 500 with the cause kept for logging.
func errorResult(err error) Result {
	switch {
	case types.IsClientError(err):
		return Fail(http.StatusBadRequest, err.Error())
	case errors.Is(err, types.ErrNotFound):
		return Fail(http.StatusNotFound, err.Error())
	case errors.Is(err, types.ErrNameConflict):
		return Fail(http.StatusConflict, err.Error())
	default:
		return Result{
			Status:  http.StatusInternalServerError,
			Payload: types.ErrorResponse{Error: ErrMsgInternal},
			Err:     err,
		}
	}
}
