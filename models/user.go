package models

import (
	"time"

	"gorm.io/gorm"
)

// TrackerUser is a local snapshot of user data needed for scoring and
// leaderboards. Owned and managed solely by the Habit service.
// Populated via sync worker from the Profile Service's user table.
type TrackerUser struct {
	ID                string  `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID    string  `gorm:"uniqueIndex;not null" json:"external_user_id"` // the profile service's UUID
	Username          string  `gorm:"index;not null" json:"username"`
	DisplayName       *string `json:"display_name,omitempty"`
	ProfilePictureURL *string `json:"profile_picture_url,omitempty"`

	// IsActive mirrors the profile service's account status; inactive
	// users never appear in any cohort. No column default: GORM drops a
	// zero-valued field that carries a default tag, which would store an
	// explicit false as true. Every create site sets this field.
	IsActive bool `json:"is_active" gorm:"index"`

	// LocationCell is a coarse geohash cell, never raw coordinates.
	// nil means location sharing is off and the user is invisible to
	// (and excluded from) nearby leaderboards.
	LocationCell *string `json:"location_cell,omitempty" gorm:"index"`

	LastSeen  *time.Time `json:"last_seen,omitempty"`
	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time  `json:"updated_at" gorm:"autoUpdateTime"`

	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
