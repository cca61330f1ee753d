package services

import (
	"errors"
	"strings"

	"team-ops-system/analytics"
	"team-ops-system/logging"

	"github.com/gofiber/fiber/v2"
)

// respondError maps repository errors onto HTTP responses. Everything that is
// not a missing record is reported as the generic data error.
func respondError(c *fiber.Ctx, err error) error {
	if errors.Is(err, ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	}
	logging.Logger().Errorf("[API] %s %s failed: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": ErrDataUnavailable.Error(),
	})
}

// parseChampionFilter reads the recognized filter fields from the query string.
func parseChampionFilter(c *fiber.Ctx) analytics.ChampionFilter {
	return analytics.ChampionFilter{
		Role:           optionalQuery(c, "role"),
		GameVersion:    optionalQuery(c, "game_version"),
		TacticalStyle:  optionalQuery(c, "tactical_style"),
		LaneAllocation: optionalQuery(c, "lane_allocation"),
		ChampionClass:  optionalQuery(c, "champion_class"),
	}
}

func optionalQuery(c *fiber.Ctx, key string) *string {
	v := strings.TrimSpace(c.Query(key))
	if v == "" {
		return nil
	}
	return &v
}
