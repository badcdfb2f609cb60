package middleware

import (
	"time"

	fiber "github.com/gofiber/fiber/v2"

	log "github.com/celestiaorg/taskman/internal/logger"
)

// RouteNameKey is the fiber.Ctx local under which the dispatcher stores the
// name of the matched route
const RouteNameKey = "route_name"

// Logger returns a middleware that logs HTTP requests
func Logger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		// Continue chain. Errors are written here so the logged status is final.
		if err := c.Next(); err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		// After request
		stop := time.Now()
		latency := stop.Sub(start)

		handler, _ := c.Locals(RouteNameKey).(string)
		if handler == "" {
			handler = "static"
		}

		log.InfoWithFields("Request", map[string]interface{}{
			"timestamp":  stop.Format("2006/01/02 - 15:04:05"),
			"status":     c.Response().StatusCode(),
			"latency":    latency,
			"ip":         c.IP(),
			"method":     c.Method(),
			"path":       c.Path(),
			"handler":    handler,
			"request_id": c.GetRespHeader(fiber.HeaderXRequestID),
		})

		return nil
	}
}
