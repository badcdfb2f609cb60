// Package client provides the API client for interacting with the taskman API
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/celestiaorg/taskman/internal/db/models"
	"github.com/celestiaorg/taskman/internal/db/todo"
	"github.com/celestiaorg/taskman/internal/types"
	"github.com/celestiaorg/taskman/pkg/api/v1/handlers"
	"github.com/celestiaorg/taskman/pkg/api/v1/routes"
)

// DefaultTimeout is the default timeout for API requests
const DefaultTimeout = 30 * time.Second

// Client is the interface for API client
type Client interface {
	// Health Check
	HealthCheck(ctx context.Context) (types.HealthResponse, error)

	// Project methods
	GetState(ctx context.Context) (string, bool, error)
	ListProjects(ctx context.Context) ([]models.ProjectSummary, error)
	ListProjectTags(ctx context.Context) (map[string][]string, error)
	GetProjectTags(ctx context.Context, project string) (handlers.TagsResponse, error)
	AddProjectTags(ctx context.Context, project string, params handlers.ProjectAddTagsParams) (handlers.TagsResponse, error)
	RemoveProjectTag(ctx context.Context, project string, params handlers.ProjectRemoveTagParams) (handlers.TagsResponse, error)
	OpenProject(ctx context.Context, params handlers.ProjectOpenParams) (handlers.ProjectOpenResponse, error)
	RenameProject(ctx context.Context, params handlers.ProjectRenameParams) (handlers.ProjectRenameResponse, error)
	DeleteProject(ctx context.Context, params handlers.ProjectDeleteParams) (handlers.ProjectDeleteResponse, error)
	ExportProject(ctx context.Context, project string) (handlers.ProjectExportResponse, error)

	// Task methods
	ListTasks(ctx context.Context, project string, params handlers.TaskListParams) (handlers.TaskListResponse, error)
	CreateTask(ctx context.Context, project string, params handlers.TaskCreateParams) (models.Task, error)
	UpdateTask(ctx context.Context, project string, params handlers.TaskUpdateParams) (models.Task, error)
	DeleteTask(ctx context.Context, project string, params handlers.TaskDeleteParams) error
	HighlightTask(ctx context.Context, project string, params handlers.TaskHighlightParams) (models.Task, error)
	ListTasksByAssignee(ctx context.Context, assignee string) ([]models.Task, error)
	ListAssignees(ctx context.Context) ([]string, error)
	ListHighlights(ctx context.Context) ([]models.Highlight, error)

	// Todo methods
	ListTodos(ctx context.Context) ([]todo.Todo, error)
	AddTodo(ctx context.Context, params handlers.TodoAddParams) (todo.Todo, error)
	MarkTodo(ctx context.Context, params handlers.TodoMarkParams) (todo.Todo, error)
}

var _ Client = &APIClient{}

// Options contains configuration options for the API client
type Options struct {
	// BaseURL is the base URL of the API
	BaseURL string

	// Timeout is the request timeout
	Timeout time.Duration
}

// DefaultOptions returns the default client options
func DefaultOptions() *Options {
	return &Options{
		BaseURL: routes.DefaultBaseURL,
		Timeout: DefaultTimeout,
	}
}

// APIClient implements the Client interface
type APIClient struct {
	baseURL string
	timeout time.Duration
}

// NewClient creates a new API client with the given options
func NewClient(opts *Options) (Client, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	// Validate the base URL
	_, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	return &APIClient{
		baseURL: opts.BaseURL,
		timeout: timeout,
	}, nil
}

// createAgent creates a new Fiber Agent for the given method and endpoint
func (c *APIClient) createAgent(ctx context.Context, method, endpoint string, body interface{}) (*fiber.Agent, error) {
	// Resolve the endpoint URL
	fullURL := c.baseURL + endpoint

	// The API only routes GET and POST
	var agent *fiber.Agent
	switch method {
	case http.MethodGet:
		agent = fiber.Get(fullURL)
	case http.MethodPost:
		agent = fiber.Post(fullURL)
	default:
		return nil, fmt.Errorf("unsupported HTTP method: %s", method)
	}

	// Set timeout from context or client default
	if deadline, ok := ctx.Deadline(); ok {
		agent.Timeout(time.Until(deadline))
	} else {
		agent.Timeout(c.timeout)
	}

	// Set common headers
	agent.Set("Content-Type", "application/json")
	agent.Set("Accept", "application/json")

	// Add body if provided
	if body != nil {
		agent.JSON(body)
	}

	return agent, nil
}

// doRequest sends the HTTP request and processes the response
func (c *APIClient) doRequest(agent *fiber.Agent, v interface{}) error {
	// Execute the request
	statusCode, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("error sending request: %w", errs[0])
	}

	// Check for non-success status codes
	if statusCode < 200 || statusCode >= 300 {
		var errResp types.ErrorResponse
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
			return &fiber.Error{Code: statusCode, Message: errResp.Error}
		}
		// If we can't decode the error response, return an error with the raw body as the message
		return &fiber.Error{
			Code:    statusCode,
			Message: string(body),
		}
	}

	// Decode the response body if a target is provided
	if v != nil && len(body) > 0 {
		if err := json.Unmarshal(body, v); err != nil {
			return fmt.Errorf("error decoding response: %w", err)
		}
	}

	return nil
}

// executeRequest creates an agent, sends the request, and processes the response
func (c *APIClient) executeRequest(ctx context.Context, method, endpoint string, body, response interface{}) error {
	agent, err := c.createAgent(ctx, method, endpoint, body)
	if err != nil {
		return err
	}

	return c.doRequest(agent, response)
}

// taskQuery converts listing filters into query parameters
func taskQuery(params handlers.TaskListParams) url.Values {
	q := url.Values{}
	if params.Assignee != "" {
		q.Set("assignee", params.Assignee)
	}
	if params.Status != "" {
		q.Set("status", params.Status)
	}
	if params.Priority != "" {
		q.Set("priority", params.Priority)
	}
	for _, tag := range params.Tags {
		q.Add("tag", tag)
	}
	return q
}

// Health check implementation

// HealthCheck checks the health of the API
func (c *APIClient) HealthCheck(ctx context.Context) (types.HealthResponse, error) {
	var response types.HealthResponse
	if err := c.executeRequest(ctx, http.MethodGet, routes.HealthCheckURL(), nil, &response); err != nil {
		return types.HealthResponse{}, err
	}
	return response, nil
}

// Project methods implementation

// GetState returns the project the server has open, if any
func (c *APIClient) GetState(ctx context.Context) (string, bool, error) {
	var response handlers.StateResponse
	if err := c.executeRequest(ctx, http.MethodGet, routes.GetStateURL(), nil, &response); err != nil {
		return "", false, err
	}
	if response.CurrentProject == nil {
		return "", false, nil
	}
	return *response.CurrentProject, true, nil
}

// ListProjects lists every project with its tags and task count
func (c *APIClient) ListProjects(ctx context.Context) ([]models.ProjectSummary, error) {
	var response handlers.ProjectListResponse
	if err := c.executeRequest(ctx, http.MethodGet, routes.ListProjectsURL(), nil, &response); err != nil {
		return []models.ProjectSummary{}, err
	}
	return response.Projects, nil
}

// ListProjectTags lists the tags of every project
func (c *APIClient) ListProjectTags(ctx context.Context) (map[string][]string, error) {
	var response handlers.ProjectTagsResponse
	if err := c.executeRequest(ctx, http.MethodGet, routes.ListProjectTagsURL(), nil, &response); err != nil {
		return map[string][]string{}, err
	}
	return response.TagsByProject, nil
}

// GetProjectTags returns the tags of one project
func (c *APIClient) GetProjectTags(ctx context.Context, project string) (handlers.TagsResponse, error) {
	var response handlers.TagsResponse
	err := c.executeRequest(ctx, http.MethodGet, routes.GetProjectTagsURL(project), nil, &response)
	return response, err
}

// AddProjectTags adds tags to a project
func (c *APIClient) AddProjectTags(ctx context.Context, project string, params handlers.ProjectAddTagsParams) (handlers.TagsResponse, error) {
	var response handlers.TagsResponse
	err := c.executeRequest(ctx, http.MethodPost, routes.AddProjectTagsURL(project), params, &response)
	return response, err
}

// RemoveProjectTag removes a tag from a project
func (c *APIClient) RemoveProjectTag(ctx context.Context, project string, params handlers.ProjectRemoveTagParams) (handlers.TagsResponse, error) {
	var response handlers.TagsResponse
	err := c.executeRequest(ctx, http.MethodPost, routes.RemoveProjectTagURL(project), params, &response)
	return response, err
}

// OpenProject opens a project, creating it when it does not exist
func (c *APIClient) OpenProject(ctx context.Context, params handlers.ProjectOpenParams) (handlers.ProjectOpenResponse, error) {
	var response handlers.ProjectOpenResponse
	err := c.executeRequest(ctx, http.MethodPost, routes.OpenProjectURL(), params, &response)
	return response, err
}

// RenameProject renames a project
func (c *APIClient) RenameProject(ctx context.Context, params handlers.ProjectRenameParams) (handlers.ProjectRenameResponse, error) {
	var response handlers.ProjectRenameResponse
	err := c.executeRequest(ctx, http.MethodPost, routes.RenameProjectURL(), params, &response)
	return response, err
}

// DeleteProject deletes a project with its tags and tasks
func (c *APIClient) DeleteProject(ctx context.Context, params handlers.ProjectDeleteParams) (handlers.ProjectDeleteResponse, error) {
	var response handlers.ProjectDeleteResponse
	err := c.executeRequest(ctx, http.MethodPost, routes.DeleteProjectURL(), params, &response)
	return response, err
}

// ExportProject writes the markdown export of a project on the server
func (c *APIClient) ExportProject(ctx context.Context, project string) (handlers.ProjectExportResponse, error) {
	var response handlers.ProjectExportResponse
	err := c.executeRequest(ctx, http.MethodPost, routes.ExportProjectURL(project), struct{}{}, &response)
	return response, err
}

// Task methods implementation

// ListTasks lists the tasks of a project matching the filters
func (c *APIClient) ListTasks(ctx context.Context, project string, params handlers.TaskListParams) (handlers.TaskListResponse, error) {
	var response handlers.TaskListResponse
	err := c.executeRequest(ctx, http.MethodGet, routes.ListTasksURL(project, taskQuery(params)), nil, &response)
	return response, err
}

// CreateTask creates a task in a project
func (c *APIClient) CreateTask(ctx context.Context, project string, params handlers.TaskCreateParams) (models.Task, error) {
	var response handlers.TaskCreateResponse
	if err := c.executeRequest(ctx, http.MethodPost, routes.CreateTaskURL(project), params, &response); err != nil {
		return models.Task{}, err
	}
	return response.Task, nil
}

// UpdateTask applies a partial update to a task
func (c *APIClient) UpdateTask(ctx context.Context, project string, params handlers.TaskUpdateParams) (models.Task, error) {
	var response handlers.TaskResponse
	if err := c.executeRequest(ctx, http.MethodPost, routes.UpdateTaskURL(project), params, &response); err != nil {
		return models.Task{}, err
	}
	return response.Task, nil
}

// DeleteTask deletes a task
func (c *APIClient) DeleteTask(ctx context.Context, project string, params handlers.TaskDeleteParams) error {
	return c.executeRequest(ctx, http.MethodPost, routes.DeleteTaskURL(project), params, nil)
}

// HighlightTask sets or clears the highlight flag of a task
func (c *APIClient) HighlightTask(ctx context.Context, project string, params handlers.TaskHighlightParams) (models.Task, error) {
	var response handlers.TaskResponse
	if err := c.executeRequest(ctx, http.MethodPost, routes.HighlightTaskURL(project), params, &response); err != nil {
		return models.Task{}, err
	}
	return response.Task, nil
}

// ListTasksByAssignee lists the tasks of one assignee across projects
func (c *APIClient) ListTasksByAssignee(ctx context.Context, assignee string) ([]models.Task, error) {
	var response handlers.TaskListResponse
	q := url.Values{"assignee": {assignee}}
	if err := c.executeRequest(ctx, http.MethodGet, routes.ListTasksByAssigneeURL(q), nil, &response); err != nil {
		return []models.Task{}, err
	}
	return response.Tasks, nil
}

// ListAssignees lists the distinct assignees across projects
func (c *APIClient) ListAssignees(ctx context.Context) ([]string, error) {
	var response handlers.AssigneesResponse
	if err := c.executeRequest(ctx, http.MethodGet, routes.ListAssigneesURL(), nil, &response); err != nil {
		return []string{}, err
	}
	return response.Assignees, nil
}

// ListHighlights lists highlighted tasks across projects
func (c *APIClient) ListHighlights(ctx context.Context) ([]models.Highlight, error) {
	var response handlers.HighlightsResponse
	if err := c.executeRequest(ctx, http.MethodGet, routes.ListHighlightsURL(), nil, &response); err != nil {
		return []models.Highlight{}, err
	}
	return response.Highlights, nil
}

// Todo methods implementation

// ListTodos lists every todo item
func (c *APIClient) ListTodos(ctx context.Context) ([]todo.Todo, error) {
	var response handlers.TodoListResponse
	if err := c.executeRequest(ctx, http.MethodGet, routes.ListTodosURL(), nil, &response); err != nil {
		return []todo.Todo{}, err
	}
	return response.Items, nil
}

// AddTodo adds a todo item
func (c *APIClient) AddTodo(ctx context.Context, params handlers.TodoAddParams) (todo.Todo, error) {
	var response handlers.TodoResponse
	if err := c.executeRequest(ctx, http.MethodPost, routes.AddTodoURL(), params, &response); err != nil {
		return todo.Todo{}, err
	}
	return response.Item, nil
}

// MarkTodo marks a todo item done or not done
func (c *APIClient) MarkTodo(ctx context.Context, params handlers.TodoMarkParams) (todo.Todo, error) {
	var response handlers.TodoMarkResponse
	if err := c.executeRequest(ctx, http.MethodPost, routes.MarkTodoURL(), params, &response); err != nil {
		return todo.Todo{}, err
	}
	return response.Item, nil
}
