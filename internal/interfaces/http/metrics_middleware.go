package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/almacen-api/pkg/metrics"
)

// MetricsMiddleware registra contador y duración por petición HTTP.
// Usa la ruta registrada (c.Route().Path) y no la URL cruda para acotar la
// cardinalidad de las etiquetas.
func MetricsMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		method := c.Method()
		path := c.Route().Path
		code := strconv.Itoa(status)
		if metrics.HTTPRequestsTotal != nil {
			metrics.HTTPRequestsTotal.WithLabelValues(method, path, code).Inc()
		}
		if metrics.HTTPRequestDuration != nil {
			metrics.HTTPRequestDuration.WithLabelValues(method, path, code).Observe(time.Since(start).Seconds())
		}
		return err
	}
}
