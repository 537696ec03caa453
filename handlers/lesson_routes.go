// handlers/lesson_routes.go
package handlers

import (
	"eco-learn-system/middleware"
	"eco-learn-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupLessonRoutes(app *fiber.App, lessonService *services.LessonService) {
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Get("/courses/:courseId/lessons", lessonService.ListLessons)
	secured.Get("/lessons/:id", lessonService.GetLesson)
	secured.Post("/lessons/:id/complete", lessonService.CompleteLesson)
	secured.Put("/lessons/:id/notes", lessonService.SaveNotes)

	admin := app.Group("/s/admin", middleware.UserContextMiddleware(), middleware.RequireAdmin())

	admin.Post("/courses/:courseId/lessons", lessonService.CreateLesson)
	admin.Put("/lessons/:id", lessonService.UpdateLesson)
	admin.Delete("/lessons/:id", lessonService.DeleteLesson)
	admin.Post("/lessons/:id/video", lessonService.UploadVideo)
}
