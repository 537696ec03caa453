// handlers/dashboard_routes.go
package handlers

import (
	"eco-learn-system/middleware"
	"eco-learn-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupDashboardRoutes(app *fiber.App, dashboardService *services.DashboardService) {
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Get("/dashboard/stats", dashboardService.GetStats)
	secured.Get("/me", dashboardService.GetProfile)
}
