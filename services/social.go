package services

import (
	"errors"
	"fmt"
	"log"

	"habit-tracking-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrSelfFollow   = errors.New("cannot follow yourself")
	ErrEdgeBlocked  = errors.New("follow blocked")
	ErrNoSuchEdge   = errors.New("no pending follow request")
	ErrNoSuchTarget = errors.New("target user not found")
)

// SocialService maintains the directed follow graph that CohortBuilder
// reads. Thin by design — the ranking side only cares about accepted
// and blocked edges.
type SocialService struct {
	DB *gorm.DB
}

func NewSocialService(db *gorm.DB) *SocialService {
	return &SocialService{DB: db}
}

// RequestFollow creates (or revives) a pending requester→target edge.
// A blocked edge in either direction makes the pair invisible to each
// other, so the request is refused.
func (s *SocialService) RequestFollow(requesterID, targetID string) error {
	if requesterID == targetID {
		return ErrSelfFollow
	}
	var target models.TrackerUser
	if err := s.DB.Where("external_user_id = ? AND is_active = ?", targetID, true).
		First(&target).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoSuchTarget
		}
		return err
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		var blockedCount int64
		if err := tx.Model(&models.FollowEdge{}).
			Where("((requester_id = ? AND target_id = ?) OR (requester_id = ? AND target_id = ?)) AND status = ?",
				requesterID, targetID, targetID, requesterID, models.FollowStatusBlocked).
			Count(&blockedCount).Error; err != nil {
			return err
		}
		if blockedCount > 0 {
			return ErrEdgeBlocked
		}

		var edge models.FollowEdge
		err := tx.Where("requester_id = ? AND target_id = ?", requesterID, targetID).
			First(&edge).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(&models.FollowEdge{
				ID:          uuid.NewString(),
				RequesterID: requesterID,
				TargetID:    targetID,
				Status:      models.FollowStatusPending,
			}).Error
		}
		if err != nil {
			return err
		}
		if edge.Status == models.FollowStatusAccepted || edge.Status == models.FollowStatusPending {
			return nil // already connected or already asked
		}
		return tx.Model(&edge).Update("status", models.FollowStatusPending).Error
	})
}

// RespondToFollow lets the target accept or deny a pending request.
func (s *SocialService) RespondToFollow(targetID, requesterID string, accept bool) error {
	status := models.FollowStatusDenied
	if accept {
		status = models.FollowStatusAccepted
	}
	res := s.DB.Model(&models.FollowEdge{}).
		Where("requester_id = ? AND target_id = ? AND status = ?",
			requesterID, targetID, models.FollowStatusPending).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNoSuchEdge
	}
	log.Printf("🤝 Follow %s: %s → %s", status, requesterID, targetID)
	return nil
}

// Block marks the requester→target edge blocked (creating it if
// missing) and tears down any accepted edge in the other direction.
// One blocked edge is enough to exclude the pair from each other's
// cohorts, so the reverse edge is deleted rather than rewritten.
func (s *SocialService) Block(requesterID, targetID string) error {
	if requesterID == targetID {
		return ErrSelfFollow
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var edge models.FollowEdge
		err := tx.Where("requester_id = ? AND target_id = ?", requesterID, targetID).
			First(&edge).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := tx.Create(&models.FollowEdge{
				ID:          uuid.NewString(),
				RequesterID: requesterID,
				TargetID:    targetID,
				Status:      models.FollowStatusBlocked,
			}).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		} else if err := tx.Model(&edge).Update("status", models.FollowStatusBlocked).Error; err != nil {
			return err
		}

		return tx.Where("requester_id = ? AND target_id = ? AND status <> ?",
			targetID, requesterID, models.FollowStatusBlocked).
			Delete(&models.FollowEdge{}).Error
	})
}

// ListFriends returns profiles for every accepted connection.
func (s *SocialService) ListFriends(userID string) ([]models.TrackerUser, error) {
	var edges []models.FollowEdge
	if err := s.DB.Where("(requester_id = ? OR target_id = ?) AND status = ?",
		userID, userID, models.FollowStatusAccepted).
		Find(&edges).Error; err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(edges))
	for _, e := range edges {
		if e.RequesterID == userID {
			ids = append(ids, e.TargetID)
		} else {
			ids = append(ids, e.RequesterID)
		}
	}
	if len(ids) == 0 {
		return []models.TrackerUser{}, nil
	}
	var friends []models.TrackerUser
	err := s.DB.Where("external_user_id IN ? AND is_active = ?", ids, true).
		Order("username ASC").
		Find(&friends).Error
	return friends, err
}

// SetLocation opts the user into nearby leaderboards: only the coarse
// cell is stored, never the coordinates it came from.
func (s *SocialService) SetLocation(userID, cell string) error {
	res := s.DB.Model(&models.TrackerUser{}).
		Where("external_user_id = ?", userID).
		Update("location_cell", cell)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("no local user record for %s", userID)
	}
	return nil
}

// ClearLocation opts the user back out.
func (s *SocialService) ClearLocation(userID string) error {
	return s.DB.Model(&models.TrackerUser{}).
		Where("external_user_id = ?", userID).
		Update("location_cell", nil).Error
}
