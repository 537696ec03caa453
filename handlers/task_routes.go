// handlers/task_routes.go
package handlers

import (
	"eco-learn-system/middleware"
	"eco-learn-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupTaskRoutes(app *fiber.App, taskService *services.TaskService) {
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Get("/tasks", taskService.ListTasks)
	secured.Post("/tasks/:id/complete", taskService.CompleteTask)
	secured.Post("/tasks/:id/proof", taskService.UploadProof)

	admin := app.Group("/s/admin", middleware.UserContextMiddleware(), middleware.RequireAdmin())

	admin.Post("/tasks", taskService.CreateTask)
	admin.Put("/tasks/:id", taskService.UpdateTask)
	admin.Delete("/tasks/:id", taskService.DeleteTask)
}
