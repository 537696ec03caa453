// handlers/carbon_routes.go
package handlers

import (
	"eco-learn-system/middleware"
	"eco-learn-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupCarbonRoutes(app *fiber.App, carbonService *services.CarbonService) {
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Get("/carbon", carbonService.GetEmissions)
	secured.Post("/carbon", carbonService.LogEmissions)
	secured.Get("/carbon/score", carbonService.GetScore)
}
