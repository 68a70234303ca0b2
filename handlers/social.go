// handlers/social.go
package handlers

import (
	"errors"

	"habit-tracking-system/middleware"
	"habit-tracking-system/services"
	"habit-tracking-system/utils"

	"github.com/gofiber/fiber/v2"
)

func SetupSocialRoutes(app *fiber.App, socialService *services.SocialService) {
	securedGroup := app.Group("/s", middleware.UserContextMiddleware())

	securedGroup.Get("/users/search", socialService.SearchUsers)

	securedGroup.Get("/social/friends", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		friends, err := socialService.ListFriends(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to list friends",
				"cause": err.Error(),
			})
		}
		return c.JSON(friends)
	})

	securedGroup.Post("/social/follow/:targetId", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		targetID := c.Params("targetId")

		if err := socialService.RequestFollow(userID, targetID); err != nil {
			status := fiber.StatusInternalServerError
			switch {
			case errors.Is(err, services.ErrSelfFollow), errors.Is(err, services.ErrEdgeBlocked):
				status = fiber.StatusBadRequest
			case errors.Is(err, services.ErrNoSuchTarget):
				status = fiber.StatusNotFound
			}
			return c.Status(status).JSON(fiber.Map{
				"error": "follow request failed",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"message": "follow requested"})
	})

	securedGroup.Post("/social/respond/:requesterId", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		requesterID := c.Params("requesterId")

		type Req struct {
			Action string `json:"action"` // accept | deny
		}
		var req Req
		if err := c.BodyParser(&req); err != nil || (req.Action != "accept" && req.Action != "deny") {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "action must be accept or deny",
			})
		}

		if err := socialService.RespondToFollow(userID, requesterID, req.Action == "accept"); err != nil {
			status := fiber.StatusInternalServerError
			if errors.Is(err, services.ErrNoSuchEdge) {
				status = fiber.StatusNotFound
			}
			return c.Status(status).JSON(fiber.Map{
				"error": "failed to respond to follow request",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"message": "follow " + req.Action + "ed"})
	})

	securedGroup.Post("/social/block/:targetId", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		targetID := c.Params("targetId")

		if err := socialService.Block(userID, targetID); err != nil {
			status := fiber.StatusInternalServerError
			if errors.Is(err, services.ErrSelfFollow) {
				status = fiber.StatusBadRequest
			}
			return c.Status(status).JSON(fiber.Map{
				"error": "block failed",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"message": "user blocked"})
	})

	// Location opt-in: coordinates arrive here, only the coarse geohash
	// cell ever touches the database.
	securedGroup.Put("/me/location", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		type Req struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		if req.Lat < -90 || req.Lat > 90 || req.Lon < -180 || req.Lon > 180 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "coordinates out of range",
			})
		}

		cell := utils.EncodeCell(req.Lat, req.Lon, utils.CellPrecision)
		if err := socialService.SetLocation(userID, cell); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to store location",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"message": "location sharing enabled", "cell": cell})
	})

	securedGroup.Delete("/me/location", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		if err := socialService.ClearLocation(userID); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to clear location",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"message": "location sharing disabled"})
	})
}
