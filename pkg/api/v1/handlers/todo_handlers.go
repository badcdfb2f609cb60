package handlers

import (
	"context"
	"net/http"

	"github.com/celestiaorg/taskman/internal/types"
)

// ListTodos handles listing every todo item
func (h *APIHandler) ListTodos(ctx context.Context, _ Request) Result {
	items, err := h.todo.List(ctx)
	if err != nil {
		return errorResult(err)
	}
	return OK(TodoListResponse{Items: items})
}

// AddTodo handles adding a todo item
func (h *APIHandler) AddTodo(ctx context.Context, req Request) Result {
	params, err := parseParams[TodoAddParams](req)
	if err != nil {
		return invalidParams(err)
	}
	if err := params.Validate(); err != nil {
		return Fail(http.StatusBadRequest, err.Error())
	}

	item, err := h.todo.Add(ctx, params.Input)
	if err != nil {
		return errorResult(err)
	}
	return OK(TodoResponse{
		OKResponse: types.OKResponse{OK: true},
		Item:       *item,
	})
}

// MarkTodo handles marking a todo item done or not done
func (h *APIHandler) MarkTodo(ctx context.Context, req Request) Result {
	params, err := parseParams[TodoMarkParams](req)
	if err != nil {
		return invalidParams(err)
	}
	if err := params.Validate(); err != nil {
		return Fail(http.StatusBadRequest, err.Error())
	}

	item, err := h.todo.Mark(ctx, int64(params.ID), *params.Done)
	if err != nil {
		return errorResult(err)
	}
	return OK(TodoMarkResponse{
		OKResponse: types.OKResponse{OK: true},
		ID:         item.ID,
		Done:       item.Done,
		Item:       *item,
	})
}
