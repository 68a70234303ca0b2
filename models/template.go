package models

import "time"

// HabitTemplate: static catalog row a Trackable is provisioned from
// (loaded from DB, seeded at boot).
type HabitTemplate struct {
	ID          string `gorm:"primaryKey;type:uuid"`
	Code        string `gorm:"uniqueIndex;not null"`             // slug, e.g. "daily-water"
	Category    string `gorm:"type:varchar(16);not null;index"`  // water, diet, sleep, exercise
	Name        string `gorm:"not null"`
	Description string
	Emoji       string `gorm:"size:10"`

	DefaultGoal    Goal          `gorm:"type:jsonb;serializer:json"`
	DefaultScoring ScoringConfig `gorm:"type:jsonb;serializer:json"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Built-in catalog (seeded on boot if missing; codes are slugified from
// the names so client deep links stay stable).
var TemplateCatalog = []HabitTemplate{
	{
		Name:        "Daily Water",
		Category:    "water",
		Emoji:       "💧",
		Description: "Drink your daily water target",
		DefaultGoal: Goal{Type: GoalTypeTarget, Target: 2500, Unit: "ml"},
	},
	{
		Name:        "Clean Eating",
		Category:    "diet",
		Emoji:       "🥗",
		Description: "Check off a clean-eating day",
		DefaultGoal: Goal{Type: GoalTypeBinary},
	},
	{
		Name:        "Early Bedtime",
		Category:    "sleep",
		Emoji:       "😴",
		Description: "Be in bed by your cutoff time",
		DefaultGoal: Goal{Type: GoalTypeTimeWindow, Cutoff: "23:00"},
	},
	{
		Name:        "Daily Exercise",
		Category:    "exercise",
		Emoji:       "🏃",
		Description: "Log at least 30 minutes of movement",
		DefaultGoal: Goal{Type: GoalTypeTarget, Target: 30, Unit: "min"},
	},
}
