// handlers/activity.go
package handlers

import (
	"errors"

	"habit-tracking-system/middleware"
	"habit-tracking-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupActivityRoutes(app *fiber.App, scoringService *services.ScoringService, trackableService *services.TrackableService) {
	// 🔐 Secured routes — require user context from the gateway
	securedGroup := app.Group("/s", middleware.UserContextMiddleware())

	securedGroup.Post("/trackables", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var req services.ProvisionRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		t, err := trackableService.Provision(userID, req)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "failed to provision trackable",
				"cause": err.Error(),
			})
		}
		return c.Status(fiber.StatusCreated).JSON(t)
	})

	securedGroup.Get("/trackables", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		list, err := trackableService.ListForUser(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to list trackables",
				"cause": err.Error(),
			})
		}
		return c.JSON(list)
	})

	// The core write path: append a log, rescore the day, return the
	// feedback the UI renders (points, streak movement, milestone).
	securedGroup.Post("/trackables/:id/logs", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		trackableID := c.Params("id")

		var req services.LogRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}

		feedback, err := scoringService.LogActivity(c.Context(), userID, trackableID, req)
		if err != nil {
			if errors.Is(err, services.ErrTrackableNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "trackable not found",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to score activity",
				"cause": err.Error(),
			})
		}
		return c.JSON(feedback)
	})

	// Admin endpoints
	adminGroup := app.Group("/s/admin", middleware.UserContextMiddleware(), middleware.RequireRole("admin"))

	adminGroup.Post("/points/grant", func(c *fiber.Ctx) error {
		type Req struct {
			UserID string `json:"user_id" validate:"required,uuid"`
			Points int64  `json:"points" validate:"required,min=1"`
			Reason string `json:"reason" validate:"max=255"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}

		if err := scoringService.GrantPoints(c.Context(), req.UserID, req.Points, req.Reason); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "points grant failed",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{
			"message": "points granted successfully",
			"user_id": req.UserID,
			"points":  req.Points,
		})
	})
}
