package services

import (
	"testing"

	"habit-tracking-system/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory sqlite GORM handle with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.TrackerUser{},
		&models.HabitTemplate{},
		&models.Trackable{},
		&models.ActivityLog{},
		&models.StreakState{},
		&models.DailyOutcome{},
		&models.PointsLedgerEntry{},
		&models.FollowEdge{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, externalID, username string, active bool, cell *string) {
	t.Helper()
	u := models.TrackerUser{
		ID:             uuid.NewString(),
		ExternalUserID: externalID,
		Username:       username,
		IsActive:       active,
		LocationCell:   cell,
	}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("seed user %s: %v", externalID, err)
	}
}

func seedTrackable(t *testing.T, db *gorm.DB, userID, category string, goal models.Goal, scoring models.ScoringConfig) *models.Trackable {
	t.Helper()
	tr := models.Trackable{
		ID:             uuid.NewString(),
		ExternalUserID: userID,
		TemplateCode:   "test-" + category,
		Category:       category,
		Name:           "test " + category,
		Goal:           goal,
		Scoring:        scoring,
		IsActive:       true,
	}
	if err := db.Create(&tr).Error; err != nil {
		t.Fatalf("seed trackable: %v", err)
	}
	return &tr
}

func seedEdge(t *testing.T, db *gorm.DB, requester, target string, status models.FollowStatus) {
	t.Helper()
	e := models.FollowEdge{
		ID:          uuid.NewString(),
		RequesterID: requester,
		TargetID:    target,
		Status:      status,
	}
	if err := db.Create(&e).Error; err != nil {
		t.Fatalf("seed edge %s→%s: %v", requester, target, err)
	}
}
