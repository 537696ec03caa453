// handlers/course_routes.go
package handlers

import (
	"eco-learn-system/middleware"
	"eco-learn-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupCourseRoutes(app *fiber.App, courseService *services.CourseService) {
	// 🔐 Secured routes — require user context (userID, roles), enforced via middleware
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Get("/courses", courseService.ListCourses)
	secured.Get("/courses/:id", courseService.GetCourse)

	// ✍️ Admin-only course management
	admin := app.Group("/s/admin", middleware.UserContextMiddleware(), middleware.RequireAdmin())

	admin.Post("/courses", courseService.CreateCourse)
	admin.Put("/courses/:id", courseService.UpdateCourse)
	admin.Delete("/courses/:id", courseService.DeleteCourse)
	admin.Post("/courses/:id/thumbnail", courseService.UploadThumbnail)
}
