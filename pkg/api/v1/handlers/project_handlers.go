package handlers

import (
	"context"
	"net/http"

	"github.com/celestiaorg/taskman/internal/types"
)

// ListProjects handles listing every project with its tags and task count
func (h *APIHandler) ListProjects(ctx context.Context, _ Request) Result {
	projects, err := h.project.List(ctx)
	if err != nil {
		return errorResult(err)
	}
	return OK(ProjectListResponse{Projects: projects})
}

// ListProjectTags handles listing the tags of every project
func (h *APIHandler) ListProjectTags(ctx context.Context, _ Request) Result {
	tags, err := h.project.TagsByProject(ctx)
	if err != nil {
		return errorResult(err)
	}
	return OK(ProjectTagsResponse{TagsByProject: tags})
}

// GetProjectTags handles listing the tags of one project
func (h *APIHandler) GetProjectTags(ctx context.Context, req Request) Result {
	name, tags, err := h.project.Tags(ctx, req.Param("name"))
	if err != nil {
		return errorResult(err)
	}
	return OK(TagsResponse{Project: name, Tags: tags})
}

// AddProjectTags handles adding tags to a project
func (h *APIHandler) AddProjectTags(ctx context.Context, req Request) Result {
	params, err := parseParams[ProjectAddTagsParams](req)
	if err != nil {
		return invalidParams(err)
	}
	if err := params.Validate(); err != nil {
		return Fail(http.StatusBadRequest, err.Error())
	}

	name, tags, err := h.project.AddTags(ctx, req.Param("name"), params.Tags)
	if err != nil {
		return errorResult(err)
	}
	return OK(TagsResponse{Project: name, Tags: tags})
}

// RemoveProjectTag handles removing a tag from a project
func (h *APIHandler) RemoveProjectTag(ctx context.Context, req Request) Result {
	params, err := parseParams[ProjectRemoveTagParams](req)
	if err != nil {
		return invalidParams(err)
	}
	if err := params.Validate(); err != nil {
		return Fail(http.StatusBadRequest, err.Error())
	}

	name, tags, err := h.project.RemoveTag(ctx, req.Param("name"), params.Tag)
	if err != nil {
		return errorResult(err)
	}
	return OK(TagsResponse{Project: name, Tags: tags})
}

// GetState handles reporting the project most recently opened
func (h *APIHandler) GetState(_ context.Context, _ Request) Result {
	var res StateResponse
	if name, ok := h.project.Current(); ok {
		res.CurrentProject = &name
	}
	return OK(res)
}

// OpenProject handles opening a project, creating it if it does not exist
func (h *APIHandler) OpenProject(ctx context.Context, req Request) Result {
	params, err := parseParams[ProjectOpenParams](req)
	if err != nil {
		return invalidParams(err)
	}
	if err := params.Validate(); err != nil {
		return Fail(http.StatusBadRequest, err.Error())
	}

	project, err := h.project.OpenOrCreate(ctx, params.Name)
	if err != nil {
		return errorResult(err)
	}
	return OK(ProjectOpenResponse{
		OKResponse:     types.OKResponse{OK: true},
		CurrentProject: project.Name,
		Project:        *project,
	})
}

// RenameProject handles renaming a project
func (h *APIHandler) RenameProject(ctx context.Context, req Request) Result {
	params, err := parseParams[ProjectRenameParams](req)
	if err != nil {
		return invalidParams(err)
	}
	if err := params.Validate(); err != nil {
		return Fail(http.StatusBadRequest, err.Error())
	}

	project, err := h.project.Rename(ctx, params.OldName, params.NewName)
	if err != nil {
		return errorResult(err)
	}
	return OK(ProjectRenameResponse{
		OKResponse: types.OKResponse{OK: true},
		Project:    project.Name,
	})
}

// DeleteProject handles deleting a project with its tags and tasks
func (h *APIHandler) DeleteProject(ctx context.Context, req Request) Result {
	params, err := parseParams[ProjectDeleteParams](req)
	if err != nil {
		return invalidParams(err)
	}
	if err := params.Validate(); err != nil {
		return Fail(http.StatusBadRequest, err.Error())
	}

	deleted, err := h.project.Delete(ctx, params.Name)
	if err != nil {
		return errorResult(err)
	}
	return OK(ProjectDeleteResponse{
		OKResponse: types.OKResponse{OK: true},
		Deleted:    deleted,
	})
}

// ExportProject handles writing the markdown export of a project
func (h *APIHandler) ExportProject(ctx context.Context, req Request) Result {
	path, err := h.project.Export(ctx, req.Param("name"))
	if err != nil {
		return errorResult(err)
	}
	return OK(ProjectExportResponse{
		OKResponse: types.OKResponse{OK: true},
		Path:       path,
	})
}
