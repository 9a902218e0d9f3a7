package middleware

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
)

var (
	httpMetrics     *fiberprometheus.FiberPrometheus
	httpMetricsOnce sync.Once
)

// InitMetrics registers the HTTP request metrics middleware and mounts the
// Prometheus endpoint at path. Collectors are registered once per process.
func InitMetrics(app *fiber.App, serviceName, path string) {
	httpMetricsOnce.Do(func() {
		httpMetrics = fiberprometheus.New(serviceName)
	})
	httpMetrics.RegisterAt(app, path)
	app.Use(httpMetrics.Middleware)
}
