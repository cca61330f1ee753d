package handlers

import (
	"team-ops-system/middleware"
	"team-ops-system/models"
	"team-ops-system/services"

	"github.com/gofiber/fiber/v2"
)

// SetupAnalyticsRoutes mounts the stats, scouting and draft screens behind session.
func SetupAnalyticsRoutes(app *fiber.App, session fiber.Handler, stats *services.StatsService, scouting *services.ScoutingService, draft *services.DraftService) {
	app.Get("/stats/champions", session, stats.GetChampionStats)

	scoutingGroup := app.Group("/scouting", session)
	scoutingGroup.Get("/:team_id", scouting.GetReport)
	scoutingGroup.Post("/:team_id/export",
		middleware.RequireRole(models.RoleCoach, models.RoleAdmin),
		scouting.ExportReport,
	)

	app.Get("/draft/:session_id/context", session, draft.GetContext)
}
