package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ProffsKontakt/provision-tracker-sub000/internal/pkg/statistics"
)

// HandleGetStats returns the cached dashboard totals.
func HandleGetStats(c *fiber.Ctx) error {
	return c.JSON(statistics.GetStatisticsData())
}
