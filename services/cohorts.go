package services

import (
	"context"

	"habit-tracking-system/models"
	"habit-tracking-system/utils"

	"gorm.io/gorm"
)

// Cohort is the derived, request-scoped set of user ids eligible for a
// ranking request. Always contains the requester; never persisted;
// order carries no meaning (ranking re-sorts).
type Cohort struct {
	UserIDs         []string
	UserHasLocation bool // nearby scope only; false means "no location, cohort is just me"
}

// CohortService resolves friends-graph and geohash-ring cohorts.
type CohortService struct {
	DB *gorm.DB
}

func NewCohortService(db *gorm.DB) *CohortService {
	return &CohortService{DB: db}
}

// FriendsCohort: everyone with an accepted edge to or from the
// requester, minus blocked users, filtered to active accounts. Zero
// friends leaves a cohort of one.
func (s *CohortService) FriendsCohort(ctx context.Context, userID string) (*Cohort, error) {
	db := s.DB.WithContext(ctx)

	var edges []models.FollowEdge
	if err := db.Where("(requester_id = ? OR target_id = ?) AND status = ?",
		userID, userID, models.FollowStatusAccepted).
		Find(&edges).Error; err != nil {
		return nil, err
	}

	blocked, err := s.blockedSet(db, userID)
	if err != nil {
		return nil, err
	}

	candidates := make([]string, 0, len(edges))
	for _, e := range edges {
		other := e.RequesterID
		if other == userID {
			other = e.TargetID
		}
		if other == userID {
			continue
		}
		if _, isBlocked := blocked[other]; isBlocked {
			continue
		}
		candidates = append(candidates, other)
	}

	ids, err := s.filterActive(db, candidates)
	if err != nil {
		return nil, err
	}
	return &Cohort{UserIDs: dedupeWith(ids, userID), UserHasLocation: true}, nil
}

// NearbyCohort: active, non-blocked users whose stored location cell
// falls inside the geohash ring around the requester's cell. A
// requester without a location short-circuits to a cohort of one with
// UserHasLocation=false — no nearby scan is performed.
func (s *CohortService) NearbyCohort(ctx context.Context, userID string, radiusKm float64) (*Cohort, error) {
	db := s.DB.WithContext(ctx)

	var me models.TrackerUser
	err := db.Where("external_user_id = ?", userID).First(&me).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, err
	}
	if me.LocationCell == nil {
		return &Cohort{UserIDs: []string{userID}, UserHasLocation: false}, nil
	}
	cell := utils.NormalizeCell(*me.LocationCell)
	if cell == "" {
		return &Cohort{UserIDs: []string{userID}, UserHasLocation: false}, nil
	}

	if radiusKm < 1 {
		radiusKm = 1
	} else if radiusKm > 50 {
		radiusKm = 50
	}
	ring := utils.CellsWithinRadius(cell, radiusKm)

	var nearby []string
	if err := db.Model(&models.TrackerUser{}).
		Where("location_cell IN ? AND is_active = ? AND external_user_id <> ?", ring, true, userID).
		Pluck("external_user_id", &nearby).Error; err != nil {
		return nil, err
	}

	blocked, err := s.blockedSet(db, userID)
	if err != nil {
		return nil, err
	}
	kept := nearby[:0]
	for _, id := range nearby {
		if _, isBlocked := blocked[id]; !isBlocked {
			kept = append(kept, id)
		}
	}

	return &Cohort{UserIDs: dedupeWith(kept, userID), UserHasLocation: true}, nil
}

// blockedSet: users with a blocked edge touching userID, in either
// direction — a block excludes both sides from each other's cohorts.
func (s *CohortService) blockedSet(db *gorm.DB, userID string) (map[string]struct{}, error) {
	var edges []models.FollowEdge
	if err := db.Where("(requester_id = ? OR target_id = ?) AND status = ?",
		userID, userID, models.FollowStatusBlocked).
		Find(&edges).Error; err != nil {
		return nil, err
	}
	out := make(map[string]struct{}, len(edges))
	for _, e := range edges {
		if e.RequesterID != userID {
			out[e.RequesterID] = struct{}{}
		}
		if e.TargetID != userID {
			out[e.TargetID] = struct{}{}
		}
	}
	return out, nil
}

func (s *CohortService) filterActive(db *gorm.DB, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var active []string
	err := db.Model(&models.TrackerUser{}).
		Where("external_user_id IN ? AND is_active = ?", ids, true).
		Pluck("external_user_id", &active).Error
	return active, err
}

// dedupeWith de-duplicates ids and guarantees self is present.
func dedupeWith(ids []string, self string) []string {
	seen := map[string]struct{}{self: {}}
	out := []string{self}
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
