package models

// StreakState: one row per (user, trackable). Mutated exactly once per
// scoring recompute for a given day; created at zero when the
// trackable is provisioned.
type StreakState struct {
	ID             string `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string `gorm:"uniqueIndex:idx_streak_owner;not null" json:"external_user_id"`
	TrackableID    string `gorm:"uniqueIndex:idx_streak_owner;not null" json:"trackable_id"`

	CurrentStreak int `json:"current_streak" gorm:"default:0"`
	BestStreak    int `json:"best_streak" gorm:"default:0"`

	// LastMetDay is a YYYY-MM-DD day key; empty until the goal has
	// been met at least once.
	LastMetDay string `gorm:"type:varchar(10)" json:"last_met_day,omitempty"`

	Timestamps
}
