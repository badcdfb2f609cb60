// Package routes defines the API routes and URL structure
package routes

import (
	"fmt"
	"net/url"
	"strings"
	"sync"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/celestiaorg/taskman/pkg/api/v1/handlers"
)

/*

To keep this file organized, routes should be organized in the following way:

1. Smallest scope first (i.e. project routes before task routes)
2. Order routes in GET, POST order.
	a. Static segments go before param segments that could swallow them,
	   matching is first-match in declaration order.
3. For clarity, naming should match the action (i.e. CreateTask, DeleteTask)

*/

// API base configuration
const (
	// DefaultPort is the default port for the API
	DefaultPort = "8080"
	// APIPrefix is the prefix for all API endpoints
	APIPrefix = "/api"
)

// DefaultBaseURL is the default base URL for the API
var DefaultBaseURL = fmt.Sprintf("http://localhost:%s", DefaultPort)

// Route names for lookup
const (
	// Health check
	HealthCheck = "HealthCheck"

	// Project routes
	GetState         = "GetState"
	ListProjects     = "ListProjects"
	ListProjectTags  = "ListProjectTags"
	GetProjectTags   = "GetProjectTags"
	AddProjectTags   = "AddProjectTags"
	RemoveProjectTag = "RemoveProjectTag"
	OpenProject      = "OpenProject"
	RenameProject    = "RenameProject"
	DeleteProject    = "DeleteProject"
	ExportProject    = "ExportProject"

	// Task routes
	ListTasks           = "ListTasks"
	CreateTask          = "CreateTask"
	UpdateTask          = "UpdateTask"
	DeleteTask          = "DeleteTask"
	HighlightTask       = "HighlightTask"
	ListTasksByAssignee = "ListTasksByAssignee"
	ListAssignees       = "ListAssignees"
	ListHighlights      = "ListHighlights"

	// Todo routes
	ListTodos = "ListTodos"
	AddTodo   = "AddTodo"
	MarkTodo  = "MarkTodo"
)

// routeCache stores route patterns by name for URL building
var (
	routeCache     map[string]string
	routeCacheMu   sync.RWMutex
	routeCacheInit sync.Once
)

// RegisterRoutes adds every API route to table
func RegisterRoutes(table *Table, h *handlers.APIHandler) error {
	routes := []struct {
		method  string
		pattern string
		name    string
		handler handlers.HandlerFunc
	}{
		// Health check
		{fiber.MethodGet, "/health", HealthCheck, h.Health},

		// Projects
		{fiber.MethodGet, APIPrefix + "/state", GetState, h.GetState},
		{fiber.MethodGet, APIPrefix + "/projects", ListProjects, h.ListProjects},
		{fiber.MethodGet, APIPrefix + "/project-tags", ListProjectTags, h.ListProjectTags},
		{fiber.MethodGet, APIPrefix + "/projects/:name/tags", GetProjectTags, h.GetProjectTags},
		{fiber.MethodPost, APIPrefix + "/projects/open", OpenProject, h.OpenProject},
		{fiber.MethodPost, APIPrefix + "/projects/edit-name", RenameProject, h.RenameProject},
		{fiber.MethodPost, APIPrefix + "/projects/delete", DeleteProject, h.DeleteProject},
		{fiber.MethodPost, APIPrefix + "/projects/:name/tags/add", AddProjectTags, h.AddProjectTags},
		{fiber.MethodPost, APIPrefix + "/projects/:name/tags/remove", RemoveProjectTag, h.RemoveProjectTag},
		{fiber.MethodPost, APIPrefix + "/projects/:name/export", ExportProject, h.ExportProject},

		// Tasks
		{fiber.MethodGet, APIPrefix + "/projects/:name/tasks", ListTasks, h.ListTasks},
		{fiber.MethodGet, APIPrefix + "/tasks", ListTasksByAssignee, h.ListTasksByAssignee},
		{fiber.MethodGet, APIPrefix + "/assignees", ListAssignees, h.ListAssignees},
		{fiber.MethodGet, APIPrefix + "/highlights", ListHighlights, h.ListHighlights},
		{fiber.MethodPost, APIPrefix + "/projects/:name/tasks/create", CreateTask, h.CreateTask},
		{fiber.MethodPost, APIPrefix + "/projects/:name/tasks/update", UpdateTask, h.UpdateTask},
		{fiber.MethodPost, APIPrefix + "/projects/:name/tasks/delete", DeleteTask, h.DeleteTask},
		{fiber.MethodPost, APIPrefix + "/projects/:name/tasks/highlight", HighlightTask, h.HighlightTask},

		// Todos
		{fiber.MethodGet, APIPrefix + "/todo", ListTodos, h.ListTodos},
		{fiber.MethodPost, APIPrefix + "/todo/add", AddTodo, h.AddTodo},
		{fiber.MethodPost, APIPrefix + "/todo/mark", MarkTodo, h.MarkTodo},
	}

	for _, r := range routes {
		if err := table.Add(r.method, r.pattern, r.name, r.handler); err != nil {
			return err
		}
	}
	return nil
}

// Mount installs the dispatcher for table on app. Requests it does not claim
// continue to the handlers registered after it.
func Mount(app *fiber.App, table *Table) {
	app.Use(NewDispatcher(table).Handle)
}

// initRouteCache initializes the route cache by registering the routes with an empty handler
func initRouteCache() {
	routeCacheInit.Do(func() {
		cache := make(map[string]string)

		table := NewTable()
		if err := RegisterRoutes(table, &handlers.APIHandler{}); err != nil {
			panic(fmt.Sprintf("invalid route table: %v", err))
		}
		for _, route := range table.Routes() {
			cache[route.Name] = route.Pattern
		}

		routeCacheMu.Lock()
		routeCache = cache
		routeCacheMu.Unlock()
	})
}

// GetRoute returns the route pattern for the given route name
func GetRoute(name string) string {
	initRouteCache()

	routeCacheMu.RLock()
	defer routeCacheMu.RUnlock()
	return routeCache[name]
}

// BuildURL builds a URL for the given route name and parameters. Parameter
// values are path-escaped.
func BuildURL(routeName string, params map[string]string, queryParams url.Values) string {
	route := GetRoute(routeName)
	if route == "" {
		return ""
	}

	// Replace parameters in the route
	for param, value := range params {
		route = strings.ReplaceAll(route, ":"+param, url.PathEscape(value))
	}

	// Add query parameters if any
	if len(queryParams) > 0 {
		route = fmt.Sprintf("%s?%s", route, queryParams.Encode())
	}

	return route
}

// Health check route helper

// HealthCheckURL returns the URL for the health check endpoint
func HealthCheckURL() string {
	return BuildURL(HealthCheck, nil, nil)
}

// Project route helpers

// GetStateURL returns the URL for the open project
func GetStateURL() string {
	return BuildURL(GetState, nil, nil)
}

// ListProjectsURL returns the URL for listing projects
func ListProjectsURL() string {
	return BuildURL(ListProjects, nil, nil)
}

// ListProjectTagsURL returns the URL for listing the tags of every project
func ListProjectTagsURL() string {
	return BuildURL(ListProjectTags, nil, nil)
}

// GetProjectTagsURL returns the URL for the tags of one project
func GetProjectTagsURL(name string) string {
	return BuildURL(GetProjectTags, map[string]string{"name": name}, nil)
}

// AddProjectTagsURL returns the URL for adding tags to a project
func AddProjectTagsURL(name string) string {
	return BuildURL(AddProjectTags, map[string]string{"name": name}, nil)
}

// RemoveProjectTagURL returns the URL for removing a tag from a project
func RemoveProjectTagURL(name string) string {
	return BuildURL(RemoveProjectTag, map[string]string{"name": name}, nil)
}

// OpenProjectURL returns the URL for opening a project
func OpenProjectURL() string {
	return BuildURL(OpenProject, nil, nil)
}

// RenameProjectURL returns the URL for renaming a project
func RenameProjectURL() string {
	return BuildURL(RenameProject, nil, nil)
}

// DeleteProjectURL returns the URL for deleting a project
func DeleteProjectURL() string {
	return BuildURL(DeleteProject, nil, nil)
}

// ExportProjectURL returns the URL for exporting a project
func ExportProjectURL(name string) string {
	return BuildURL(ExportProject, map[string]string{"name": name}, nil)
}

// Task route helpers

// ListTasksURL returns the URL for listing the tasks of a project
func ListTasksURL(name string, queryParams url.Values) string {
	return BuildURL(ListTasks, map[string]string{"name": name}, queryParams)
}

// CreateTaskURL returns the URL for creating a task
func CreateTaskURL(name string) string {
	return BuildURL(CreateTask, map[string]string{"name": name}, nil)
}

// UpdateTaskURL returns the URL for updating a task
func UpdateTaskURL(name string) string {
	return BuildURL(UpdateTask, map[string]string{"name": name}, nil)
}

// DeleteTaskURL returns the URL for deleting a task
func DeleteTaskURL(name string) string {
	return BuildURL(DeleteTask, map[string]string{"name": name}, nil)
}

// HighlightTaskURL returns the URL for highlighting a task
func HighlightTaskURL(name string) string {
	return BuildURL(HighlightTask, map[string]string{"name": name}, nil)
}

// ListTasksByAssigneeURL returns the URL for listing tasks across projects
func ListTasksByAssigneeURL(queryParams url.Values) string {
	return BuildURL(ListTasksByAssignee, nil, queryParams)
}

// ListAssigneesURL returns the URL for listing assignees
func ListAssigneesURL() string {
	return BuildURL(ListAssignees, nil, nil)
}

// ListHighlightsURL returns the URL for listing highlighted tasks
func ListHighlightsURL() string {
	return BuildURL(ListHighlights, nil, nil)
}

// Todo route helpers

// ListTodosURL returns the URL for listing todos
func ListTodosURL() string {
	return BuildURL(ListTodos, nil, nil)
}

// AddTodoURL returns the URL for adding a todo
func AddTodoURL() string {
	return BuildURL(AddTodo, nil, nil)
}

// MarkTodoURL returns the URL for marking a todo
func MarkTodoURL() string {
	return BuildURL(MarkTodo, nil, nil)
}
