package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
)

var httpMetrics *fiberprometheus.FiberPrometheus

// InitMetrics registers HTTP request metrics for the service and returns the
// collector middleware. Calling it again reuses the first registration.
func InitMetrics(serviceName string) fiber.Handler {
	if httpMetrics == nil {
		httpMetrics = fiberprometheus.New(serviceName)
	}
	return httpMetrics.Middleware
}

// RegisterMetricsRoute mounts the Prometheus scrape endpoint on path.
func RegisterMetricsRoute(app *fiber.App, path string) {
	if httpMetrics == nil {
		httpMetrics = fiberprometheus.New("campusvibe")
	}
	httpMetrics.RegisterAt(app, path)
}
