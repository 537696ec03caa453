// handlers/admin_routes.go
package handlers

import (
	"eco-learn-system/middleware"
	"eco-learn-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupAdminRoutes(app *fiber.App, adminService *services.AdminService) {
	admin := app.Group("/s/admin", middleware.UserContextMiddleware(), middleware.RequireAdmin())

	admin.Get("/dashboard", adminService.Dashboard)
	admin.Get("/students", adminService.Students)
}
