package handlers

import (
	"team-ops-system/middleware"
	"team-ops-system/models"
	"team-ops-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App, session fiber.Handler, auth *services.AuthService) {
	app.Post("/auth/login", auth.Login)
	app.Post("/auth/logout", auth.Logout)
	app.Get("/auth/me", session, auth.Me)

	admin := app.Group("/admin", session, middleware.RequireRole(models.RoleAdmin))
	admin.Get("/users", auth.ListUsers)
	admin.Post("/users", auth.CreateUser)
	admin.Patch("/users/:id/role", auth.UpdateUserRole)
}

func SetupHealthRoutes(app *fiber.App) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
}
