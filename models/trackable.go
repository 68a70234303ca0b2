package models

import (
	"time"

	"gorm.io/gorm"
)

// GoalType discriminates the Goal union. Exactly one variant's fields
// are meaningful for a given goal.
type GoalType string

const (
	GoalTypeBinary     GoalType = "binary"      // daily yes/no checklist
	GoalTypeTarget     GoalType = "target"      // accumulate a value up to a threshold
	GoalTypeRange      GoalType = "range"       // accumulated value must land in [min,max]
	GoalTypeTimeWindow GoalType = "time_window" // a logged time-of-day must be <= cutoff
)

// Goal is the rule that defines "success" for one day.
type Goal struct {
	Type GoalType `json:"type"`

	// target
	Target float64 `json:"target,omitempty"`
	Unit   string  `json:"unit,omitempty"`

	// range — Min defaults to 0, Max nil means unbounded above
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`

	// time_window — "HH:mm" cutoff, e.g. "23:00"
	Cutoff string `json:"cutoff,omitempty"`
}

// Milestone awards bonus points when a streak hits exactly Day
// consecutive days (day 3, not every 3rd day).
type Milestone struct {
	Day    int   `json:"day"`
	Points int64 `json:"points"`
}

// ScoringConfig: base points per met day plus ordered streak milestones.
type ScoringConfig struct {
	BasePoints int64       `json:"base_points"`
	Milestones []Milestone `json:"milestones,omitempty"`
}

var DefaultScoringConfig = ScoringConfig{
	BasePoints: 10,
	Milestones: []Milestone{
		{Day: 3, Points: 5},
		{Day: 7, Points: 10},
		{Day: 14, Points: 20},
		{Day: 30, Points: 50},
	},
}

// Trackable is a user's configured instance of a habit template
// (e.g. "my water goal"), carrying its own Goal and ScoringConfig.
type Trackable struct {
	ID             string `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string `gorm:"index;not null" json:"external_user_id"`
	TemplateCode   string `gorm:"index;not null" json:"template_code"`
	Category       string `gorm:"type:varchar(16);not null;index" json:"category"` // water/diet/sleep/exercise
	Name           string `gorm:"not null" json:"name"`

	Goal    Goal          `gorm:"type:jsonb;serializer:json" json:"goal"`
	Scoring ScoringConfig `gorm:"type:jsonb;serializer:json" json:"scoring"`

	IsActive bool `json:"is_active" gorm:"default:true"`

	Timestamps
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
