// handlers/leaderboard.go
package handlers

import (
	"strconv"

	"habit-tracking-system/middleware"
	"habit-tracking-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupLeaderboardRoutes(app *fiber.App, leaderboardService *services.LeaderboardService) {
	securedGroup := app.Group("/s", middleware.UserContextMiddleware())

	securedGroup.Get("/leaderboard", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		radius, _ := strconv.ParseFloat(c.Query("radius_km", "5"), 64)
		page, _ := strconv.Atoi(c.Query("page", "1"))
		pageSize, _ := strconv.Atoi(c.Query("page_size", "20"))

		req := services.LeaderboardRequest{
			Scope:    c.Query("scope", "friends"),
			Period:   c.Query("period", "week"),
			View:     c.Query("view", "standard"),
			RadiusKm: radius,
			Page:     page,
			PageSize: pageSize,
		}
		if req.Scope != "friends" && req.Scope != "nearby" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "scope must be friends or nearby",
			})
		}
		if req.Period != "week" && req.Period != "month" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "period must be week or month",
			})
		}

		data, err := leaderboardService.GetLeaderboard(c.Context(), userID, req)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to build leaderboard",
				"cause": err.Error(),
			})
		}
		return c.JSON(data)
	})
}
