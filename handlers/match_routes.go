package handlers

import (
	"team-ops-system/middleware"
	"team-ops-system/models"
	"team-ops-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupMatchRoutes(app *fiber.App, session, serviceAuth fiber.Handler, matches *services.MatchService) {
	matchGroup := app.Group("/matches", session)
	matchGroup.Get("/", matches.ListMatches)
	matchGroup.Post("/",
		middleware.RequireRole(models.RoleAnalyst, models.RoleCoach, models.RoleAdmin),
		matches.CreateMatch,
	)

	// Recorder ingestion, service token only
	app.Post("/internal/matches/import", serviceAuth, matches.ImportMatches)
}
