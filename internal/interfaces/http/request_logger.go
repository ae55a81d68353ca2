package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Kardex-api/pkg/logger"
)

// RequestLogger registra cada petición con método, ruta, status y
// duración. Va después de recover para loguear también los 500.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		log.Info().
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode()).
			Dur("duration", time.Since(start)).
			Msg("request")
		return err
	}
}
