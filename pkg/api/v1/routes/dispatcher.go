package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/celestiaorg/taskman/internal/api/v1/middleware"
	"github.com/celestiaorg/taskman/internal/logger"
	"github.com/celestiaorg/taskman/internal/types"
	"github.com/celestiaorg/taskman/pkg/api/v1/handlers"
)

// Dispatcher serves the routes of a Table. Requests under /api/ and /health
// that match no route get a 404; anything else is passed on to the next
// fiber handler.
type Dispatcher struct {
	table *Table
}

// NewDispatcher creates a dispatcher for table
func NewDispatcher(table *Table) *Dispatcher {
	return &Dispatcher{table: table}
}

// Handle is the fiber handler
func (d *Dispatcher) Handle(c *fiber.Ctx) error {
	path := c.Path()
	route, params, ok := d.table.Match(c.Method(), path)
	if !ok {
		if isAPIPath(path) {
			return c.Status(fiber.StatusNotFound).JSON(types.ErrorResponse{Error: handlers.ErrMsgNotFound})
		}
		return c.Next()
	}
	c.Locals(middleware.RouteNameKey, route.Name)

	req := handlers.Request{
		Params: params,
		Query:  queryValues(c),
		Body:   json.RawMessage("{}"),
	}
	if route.Method == fiber.MethodPost {
		body := bytes.TrimSpace(c.Body())
		if len(body) > 0 {
			if !isJSONObject(body) {
				return c.Status(fiber.StatusBadRequest).JSON(types.ErrorResponse{Error: handlers.ErrMsgInvalidJSONBody})
			}
			req.Body = json.RawMessage(append([]byte(nil), body...))
		}
	}

	res := route.Handler(c.UserContext(), req)
	if res.Status == 0 {
		res.Status = http.StatusOK
	}
	if res.Err != nil {
		fields := map[string]interface{}{
			"route":      route.Name,
			"method":     c.Method(),
			"path":       path,
			"status":     res.Status,
			"request_id": c.GetRespHeader(fiber.HeaderXRequestID),
			"error":      res.Err.Error(),
		}
		if res.Status >= http.StatusInternalServerError {
			logger.ErrorWithFields("Request failed", fields)
		} else {
			logger.DebugWithFields("Request rejected", fields)
		}
	}
	return c.Status(res.Status).JSON(res.Payload)
}

func queryValues(c *fiber.Ctx) url.Values {
	values, err := url.ParseQuery(string(c.Request().URI().QueryString()))
	if err != nil {
		return url.Values{}
	}
	return values
}

func isJSONObject(body []byte) bool {
	return body[0] == '{' && json.Valid(body)
}

func isAPIPath(path string) bool {
	return path == "/api" || strings.HasPrefix(path, "/api/") ||
		path == "/health" || strings.HasPrefix(path, "/health/")
}
