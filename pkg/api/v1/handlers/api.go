package handlers

import (
	"context"

	"github.com/celestiaorg/taskman/internal/services"
	"github.com/celestiaorg/taskman/internal/types"
)

// APIHandler is a handler for the API
type APIHandler struct {
	project *services.Project
	task    *services.Task
	todo    *services.Todo
}

// NewAPIHandler creates a new API handler
func NewAPIHandler(project *services.Project, task *services.Task, todo *services.Todo) *APIHandler {
	return &APIHandler{
		project: project,
		task:    task,
		todo:    todo,
	}
}

// Health is the liveness probe
func (h *APIHandler) Health(_ context.Context, _ Request) Result {
	return OK(types.HealthResponse{Status: "ok"})
}
