package handlers

import (
	"context"
	"net/http"

	"github.com/celestiaorg/taskman/internal/types"
)

// ListTasks handles listing the tasks of a project
func (h *APIHandler) ListTasks(ctx context.Context, req Request) Result {
	params := taskListParams(req)
	project, tasks, err := h.task.ListByProject(ctx, req.Param("name"), params.Filter())
	if err != nil {
		return errorResult(err)
	}
	return OK(TaskListResponse{Project: project, Tasks: tasks})
}

// CreateTask handles creating a task in a project
func (h *APIHandler) CreateTask(ctx context.Context, req Request) Result {
	params, err := parseParams[TaskCreateParams](req)
	if err != nil {
		return invalidParams(err)
	}
	if err := params.Validate(); err != nil {
		return Fail(http.StatusBadRequest, err.Error())
	}

	task, err := h.task.Create(ctx, req.Param("name"), params.TaskFields)
	if err != nil {
		return errorResult(err)
	}
	return OK(TaskCreateResponse{
		OKResponse: types.OKResponse{OK: true},
		ID:         task.ID,
		Task:       *task,
	})
}

// UpdateTask handles a partial update of a task
func (h *APIHandler) UpdateTask(ctx context.Context, req Request) Result {
	params, err := parseParams[TaskUpdateParams](req)
	if err != nil {
		return invalidParams(err)
	}
	if err := params.Validate(); err != nil {
		return Fail(http.StatusBadRequest, err.Error())
	}

	task, err := h.task.Update(ctx, req.Param("name"), uint(params.ID), *params.Fields)
	if err != nil {
		return errorResult(err)
	}
	return OK(TaskResponse{
		OKResponse: types.OKResponse{OK: true},
		Task:       *task,
	})
}

// DeleteTask handles deleting a task
func (h *APIHandler) DeleteTask(ctx context.Context, req Request) Result {
	params, err := parseParams[TaskDeleteParams](req)
	if err != nil {
		return invalidParams(err)
	}
	if err := params.Validate(); err != nil {
		return Fail(http.StatusBadRequest, err.Error())
	}

	if err := h.task.Delete(ctx, req.Param("name"), uint(params.ID)); err != nil {
		return errorResult(err)
	}
	return OK(TaskDeleteResponse{
		OKResponse: types.OKResponse{OK: true},
		ID:         uint(params.ID),
	})
}

// HighlightTask handles setting or clearing the highlight flag of a task
func (h *APIHandler) HighlightTask(ctx context.Context, req Request) Result {
	params, err := parseParams[TaskHighlightParams](req)
	if err != nil {
		return invalidParams(err)
	}
	if err := params.Validate(); err != nil {
		return Fail(http.StatusBadRequest, err.Error())
	}

	task, err := h.task.SetHighlight(ctx, req.Param("name"), uint(params.ID), *params.Highlight)
	if err != nil {
		return errorResult(err)
	}
	return OK(TaskResponse{
		OKResponse: types.OKResponse{OK: true},
		Task:       *task,
	})
}

// ListTasksByAssignee handles listing tasks across projects for one assignee
func (h *APIHandler) ListTasksByAssignee(ctx context.Context, req Request) Result {
	tasks, err := h.task.ListByAssignee(ctx, req.Query.Get("assignee"))
	if err != nil {
		return errorResult(err)
	}
	return OK(TaskListResponse{Tasks: tasks})
}

// ListAssignees handles listing the distinct assignees across projects
func (h *APIHandler) ListAssignees(ctx context.Context, _ Request) Result {
	assignees, err := h.task.ListAssignees(ctx)
	if err != nil {
		return errorResult(err)
	}
	return OK(AssigneesResponse{Assignees: assignees})
}

// ListHighlights handles listing highlighted tasks across projects
func (h *APIHandler) ListHighlights(ctx context.Context, _ Request) Result {
	highlights, err := h.task.ListHighlighted(ctx)
	if err != nil {
		return errorResult(err)
	}
	return OK(HighlightsResponse{Highlights: highlights})
}
