package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"habit-tracking-system/models"
	"habit-tracking-system/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ScoringService owns the log → evaluate → streak → points pipeline.
// Every log write recomputes the affected day wholesale inside one
// transaction: two near-simultaneous writes for the same trackable and
// day must not interleave the ledger delete/insert steps.
type ScoringService struct {
	DB         *gorm.DB
	Trackables *TrackableService
	Loc        *time.Location // local calendar for day boundaries
}

func NewScoringService(db *gorm.DB, trackables *TrackableService) *ScoringService {
	return &ScoringService{DB: db, Trackables: trackables, Loc: time.UTC}
}

// LogRequest is one raw activity event from the client.
type LogRequest struct {
	ValueNum    *float64          `json:"value_num,omitempty"`
	ValueText   *string           `json:"value_text,omitempty"`
	Meta        map[string]string `json:"meta,omitempty"`
	OccurredAt  *time.Time        `json:"occurred_at,omitempty"`
	ClientLogID *string           `json:"client_log_id,omitempty"`
}

// StreakChange reports a streak moving from → to within one recompute.
type StreakChange struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// MilestoneHit reports a streak milestone reached this recompute.
type MilestoneHit struct {
	Day   int   `json:"day"`
	Bonus int64 `json:"bonus"`
}

// LogFeedback is returned to the UI layer after a log write.
type LogFeedback struct {
	GoalMet       bool          `json:"goal_met"`
	PointsEarned  int64         `json:"points_earned"`
	StreakUpdated *StreakChange `json:"streak_updated,omitempty"`
	Milestone     *MilestoneHit `json:"milestone,omitempty"`
	Message       string        `json:"message"`
}

// dayScore is the internal result of rescoring one (trackable, day).
type dayScore struct {
	Met          bool
	Progress     models.ProgressSnapshot
	Points       int64
	PrevStreak   int
	NewStreak    int
	MilestoneDay int
	Bonus        int64
}

// LogActivity appends the log and recomputes the whole day it lands
// in. Idempotent per day: repeating with an unchanged log set leaves
// outcome, streak, and ledger rows identical — and a replayed
// client_log_id inserts no second row at all.
func (s *ScoringService) LogActivity(ctx context.Context, userID, trackableID string, req LogRequest) (*LogFeedback, error) {
	occurredAt := time.Now()
	if req.OccurredAt != nil {
		occurredAt = *req.OccurredAt
	}
	day := utils.DayKey(occurredAt, s.Loc)

	var result *dayScore
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		t, err := s.Trackables.GetOwnedTx(tx, trackableID, userID)
		if err != nil {
			return err
		}

		insert := true
		if req.ClientLogID != nil {
			var dup int64
			if err := tx.Model(&models.ActivityLog{}).
				Where("trackable_id = ? AND client_log_id = ?", trackableID, *req.ClientLogID).
				Count(&dup).Error; err != nil {
				return err
			}
			if dup > 0 {
				// Offline replay — keep the existing row, still rescore.
				log.Printf("🔁 Duplicate client_log_id %s for trackable %s, skipping insert", *req.ClientLogID, trackableID)
				insert = false
			}
		}
		if insert {
			entry := models.ActivityLog{
				ID:             uuid.NewString(),
				ExternalUserID: userID,
				TrackableID:    trackableID,
				OccurredAt:     occurredAt,
				ValueNum:       req.ValueNum,
				ValueText:      req.ValueText,
				Meta:           req.Meta,
				ClientLogID:    req.ClientLogID,
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
		}

		res, err := s.rescoreDayTx(tx, t, day)
		if err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	fb := &LogFeedback{
		GoalMet:      result.Met,
		PointsEarned: result.Points,
		Message:      feedbackMessage(result),
	}
	if result.NewStreak != result.PrevStreak {
		fb.StreakUpdated = &StreakChange{From: result.PrevStreak, To: result.NewStreak}
	}
	if result.MilestoneDay > 0 {
		fb.Milestone = &MilestoneHit{Day: result.MilestoneDay, Bonus: result.Bonus}
	}
	return fb, nil
}

// RescoreDay recomputes one (trackable, day) from its stored logs.
// Used by the nightly sweep; same transaction boundary as a log write.
func (s *ScoringService) RescoreDay(ctx context.Context, trackableID, day string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var t models.Trackable
		if err := tx.Where("id = ?", trackableID).First(&t).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTrackableNotFound
			}
			return err
		}
		_, err := s.rescoreDayTx(tx, &t, day)
		return err
	})
}

// rescoreDayTx replays the full pipeline for one day inside the
// caller's transaction: load logs → evaluate → advance streak →
// replace outcome and ledger rows.
func (s *ScoringService) rescoreDayTx(tx *gorm.DB, t *models.Trackable, day string) (*dayScore, error) {
	dayStart, err := time.ParseInLocation(utils.DayKeyLayout, day, s.Loc)
	if err != nil {
		return nil, fmt.Errorf("bad day key %q: %w", day, err)
	}
	dayEnd := dayStart.AddDate(0, 0, 1)

	var logs []models.ActivityLog
	if err := tx.Where("trackable_id = ? AND occurred_at >= ? AND occurred_at < ?", t.ID, dayStart, dayEnd).
		Order("occurred_at ASC").
		Find(&logs).Error; err != nil {
		return nil, err
	}

	eval := EvaluateGoal(t.Goal, logs)

	var state models.StreakState
	err = tx.Where("external_user_id = ? AND trackable_id = ?", t.ExternalUserID, t.ID).
		First(&state).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		state = models.StreakState{
			ID:             uuid.NewString(),
			ExternalUserID: t.ExternalUserID,
			TrackableID:    t.ID,
		}
		if err := tx.Create(&state).Error; err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	streak := AdvanceStreak(state, eval.MetGoal, day, t.Scoring)

	var points int64
	if eval.MetGoal {
		points = t.Scoring.BasePoints
	}
	points += streak.BonusAwarded

	// Outcome: replace wholesale, keyed on (trackable, day).
	outcome := models.DailyOutcome{
		ID:             uuid.NewString(),
		ExternalUserID: t.ExternalUserID,
		TrackableID:    t.ID,
		Day:            day,
		MetGoal:        eval.MetGoal,
		Progress:       eval.Progress,
		PointsEarned:   points,
	}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "trackable_id"}, {Name: "day"}},
		DoUpdates: clause.AssignmentColumns([]string{"met_goal", "progress", "points_earned", "updated_at"}),
	}).Create(&outcome).Error; err != nil {
		return nil, err
	}

	// Streak: a miss zeroes the current streak but leaves best streak
	// and last met day alone.
	updates := map[string]interface{}{"current_streak": 0}
	if eval.MetGoal {
		updates = map[string]interface{}{
			"current_streak": streak.NewStreak,
			"best_streak":    streak.BestStreak,
			"last_met_day":   day,
		}
	}
	if err := tx.Model(&models.StreakState{}).Where("id = ?", state.ID).
		Updates(updates).Error; err != nil {
		return nil, err
	}

	// Ledger: delete-then-reinsert per (user, trackable, day, source)
	// so a rescored day never double counts.
	var basePoints int64
	if eval.MetGoal {
		basePoints = t.Scoring.BasePoints
	}
	if err := s.replaceLedgerTx(tx, t, day, models.PointsSourceTrackableGoal, basePoints, "goal met"); err != nil {
		return nil, err
	}
	if err := s.replaceLedgerTx(tx, t, day, models.PointsSourceStreakBonus, streak.BonusAwarded,
		fmt.Sprintf("streak day %d", streak.MilestoneDay)); err != nil {
		return nil, err
	}

	return &dayScore{
		Met:          eval.MetGoal,
		Progress:     eval.Progress,
		Points:       points,
		PrevStreak:   state.CurrentStreak,
		NewStreak:    streak.NewStreak,
		MilestoneDay: streak.MilestoneDay,
		Bonus:        streak.BonusAwarded,
	}, nil
}

// replaceLedgerTx deletes any existing row for the scope and inserts a
// fresh one when points > 0 (zero-point rows are omitted entirely).
func (s *ScoringService) replaceLedgerTx(tx *gorm.DB, t *models.Trackable, day string, source models.PointsSource, points int64, reason string) error {
	if err := tx.Where("external_user_id = ? AND trackable_id = ? AND day = ? AND source = ?",
		t.ExternalUserID, t.ID, day, source).
		Delete(&models.PointsLedgerEntry{}).Error; err != nil {
		return err
	}
	if points <= 0 {
		return nil
	}
	return tx.Create(&models.PointsLedgerEntry{
		ID:             uuid.NewString(),
		ExternalUserID: t.ExternalUserID,
		TrackableID:    t.ID,
		Day:            day,
		Source:         source,
		Points:         points,
		Reason:         reason,
	}).Error
}

// GrantPoints writes an admin ledger entry for today, replacing any
// earlier grant for the same day.
func (s *ScoringService) GrantPoints(ctx context.Context, userID string, points int64, reason string) error {
	day := utils.DayKey(time.Now(), s.Loc)
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("external_user_id = ? AND trackable_id = ? AND day = ? AND source = ?",
			userID, "", day, models.PointsSourceAdmin).
			Delete(&models.PointsLedgerEntry{}).Error; err != nil {
			return err
		}
		err := tx.Create(&models.PointsLedgerEntry{
			ID:             uuid.NewString(),
			ExternalUserID: userID,
			TrackableID:    "",
			Day:            day,
			Source:         models.PointsSourceAdmin,
			Points:         points,
			Reason:         reason,
		}).Error
		if err == nil {
			log.Printf("🎁 Admin points granted: %d → %s (reason: %s)", points, userID, reason)
		}
		return err
	})
}

func feedbackMessage(res *dayScore) string {
	switch {
	case res.MilestoneDay > 0:
		return fmt.Sprintf("🔥 %d-day streak! +%d bonus points (%d total today)", res.MilestoneDay, res.Bonus, res.Points)
	case res.Met && res.NewStreak > res.PrevStreak && res.NewStreak > 1:
		return fmt.Sprintf("Goal met — %d days in a row! +%d points", res.NewStreak, res.Points)
	case res.Met:
		return fmt.Sprintf("Goal met! +%d points", res.Points)
	default:
		return "Logged — keep going to hit today's goal"
	}
}
