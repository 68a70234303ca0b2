package models

import "time"

// ProgressSnapshot summarizes how far a day's logs got toward the goal.
type ProgressSnapshot struct {
	Current float64 `json:"current,omitempty"`
	Target  float64 `json:"target,omitempty"`
	Unit    string  `json:"unit,omitempty"`
	Bedtime string  `json:"bedtime,omitempty"`
	Cutoff  string  `json:"cutoff,omitempty"`
}

// DailyOutcome: at most one row per (trackable, day); recomputing a day
// replaces the row wholesale, never accumulates into it.
type DailyOutcome struct {
	ID             string `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string `gorm:"index;not null" json:"external_user_id"`
	TrackableID    string `gorm:"uniqueIndex:idx_outcome_day;not null" json:"trackable_id"`
	Day            string `gorm:"uniqueIndex:idx_outcome_day;type:varchar(10);not null" json:"day"` // YYYY-MM-DD

	MetGoal      bool             `json:"met_goal"`
	Progress     ProgressSnapshot `gorm:"type:jsonb;serializer:json" json:"progress"`
	PointsEarned int64            `json:"points_earned" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// PointsSource tags where a ledger entry came from.
type PointsSource string

const (
	PointsSourceTrackableGoal PointsSource = "trackable_goal"
	PointsSourceStreakBonus   PointsSource = "streak_bonus"
	PointsSourcePenalty       PointsSource = "penalty"
	PointsSourceAdmin         PointsSource = "admin"
)

// PointsLedgerEntry: at most one row per (user, trackable, day, source).
// Rescoring a day deletes then reinserts rather than appending, so a
// day rescored after new logs arrive never double counts.
type PointsLedgerEntry struct {
	ID             string       `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string       `gorm:"uniqueIndex:idx_ledger_scope;index:idx_ledger_user_day;not null" json:"external_user_id"`
	TrackableID    string       `gorm:"uniqueIndex:idx_ledger_scope;not null" json:"trackable_id"`
	Day            string       `gorm:"uniqueIndex:idx_ledger_scope;index:idx_ledger_user_day;type:varchar(10);not null" json:"day"`
	Source         PointsSource `gorm:"uniqueIndex:idx_ledger_scope;type:varchar(24);not null" json:"source"`

	Points int64  `json:"points"`
	Reason string `json:"reason,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}
