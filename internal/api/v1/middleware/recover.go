package middleware

import (
	"fmt"
	"runtime/debug"

	fiber "github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	log "github.com/celestiaorg/taskman/internal/logger"
)

// Recover returns a middleware that turns a panic in a later handler into an
// error for the app's error handler, logging the panic with its stack
func Recover() fiber.Handler {
	return recover.New(recover.Config{
		EnableStackTrace:  true,
		StackTraceHandler: logPanic,
	})
}

func logPanic(c *fiber.Ctx, e interface{}) {
	route, _ := c.Locals(RouteNameKey).(string)
	log.ErrorWithFields("Handler panicked", map[string]interface{}{
		"route":      route,
		"method":     c.Method(),
		"path":       c.Path(),
		"request_id": c.GetRespHeader(fiber.HeaderXRequestID),
		"panic":      fmt.Sprint(e),
		"stack":      string(debug.Stack()),
	})
}
