// handlers/quiz_routes.go
package handlers

import (
	"eco-learn-system/middleware"
	"eco-learn-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupQuizRoutes(app *fiber.App, quizService *services.QuizService) {
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Get("/quizzes", quizService.ListQuizzes)
	secured.Get("/quizzes/:id", quizService.GetQuiz)
	// Questions are served without the correct answer index
	secured.Get("/quizzes/:id/questions", quizService.GetQuestions)
	secured.Post("/quizzes/:id/submit", quizService.SubmitQuiz)

	admin := app.Group("/s/admin", middleware.UserContextMiddleware(), middleware.RequireAdmin())

	admin.Post("/quizzes", quizService.CreateQuiz)
	admin.Put("/quizzes/:id", quizService.UpdateQuiz)
	admin.Delete("/quizzes/:id", quizService.DeleteQuiz)
}
