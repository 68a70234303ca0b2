// services/users.go
package services

import (
	"strconv"
	"strings"

	"habit-tracking-system/models"

	"github.com/gofiber/fiber/v2"
)

// SearchUsers searches the local TrackerUser snapshot table, for the
// add-friends flow.
func (s *SocialService) SearchUsers(c *fiber.Ctx) error {
	query := c.Query("q", "")
	limitStr := c.Query("limit", "50")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 || limit > 100 {
		limit = 50
	}

	db := s.DB.Model(&models.TrackerUser{}).
		Where("is_active = ?", true).
		Limit(limit)

	if query != "" {
		searchTerm := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
		db = db.Where("LOWER(username) LIKE ?", searchTerm)
	}

	var users []models.TrackerUser
	if err := db.Find(&users).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "search failed", "details": err.Error()})
	}

	// Minimal response shape — never leak location cells or emails here.
	type UserSummary struct {
		ExternalUserID string  `json:"external_user_id"`
		Username       string  `json:"username"`
		DisplayName    *string `json:"display_name,omitempty"`
		AvatarURL      *string `json:"avatar_url,omitempty"`
	}

	res := make([]UserSummary, len(users))
	for i, u := range users {
		res[i] = UserSummary{
			ExternalUserID: u.ExternalUserID,
			Username:       u.Username,
			DisplayName:    u.DisplayName,
			AvatarURL:      u.ProfilePictureURL,
		}
	}
	return c.JSON(res)
}
