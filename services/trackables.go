package services

import (
	"errors"
	"fmt"
	"log"

	"habit-tracking-system/models"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// ErrTrackableNotFound: the trackable doesn't exist, is inactive, or
// belongs to someone else. The write paths refuse to operate on it.
var ErrTrackableNotFound = errors.New("trackable not found or not owned")

type TrackableService struct {
	DB *gorm.DB
}

func NewTrackableService(db *gorm.DB) *TrackableService {
	return &TrackableService{DB: db}
}

// SeedTemplates inserts the built-in habit catalog (idempotent —
// existing codes are left alone). Codes are slugified from names.
func (s *TrackableService) SeedTemplates() error {
	for _, tpl := range models.TemplateCatalog {
		tpl.Code = slug.Make(tpl.Name)
		tpl.ID = uuid.NewString()
		tpl.DefaultScoring = models.DefaultScoringConfig

		var count int64
		if err := s.DB.Model(&models.HabitTemplate{}).Where("code = ?", tpl.Code).Count(&count).Error; err != nil {
			return fmt.Errorf("seed template %s: %w", tpl.Code, err)
		}
		if count > 0 {
			continue
		}
		if err := s.DB.Create(&tpl).Error; err != nil {
			return fmt.Errorf("seed template %s: %w", tpl.Code, err)
		}
		log.Printf("🌱 Seeded habit template: %s (%s)", tpl.Name, tpl.Code)
	}
	return nil
}

// ProvisionRequest creates a trackable from a template; Goal/Scoring
// override the template defaults when set.
type ProvisionRequest struct {
	TemplateCode string                `json:"template_code"`
	Name         string                `json:"name"`
	Goal         *models.Goal          `json:"goal,omitempty"`
	Scoring      *models.ScoringConfig `json:"scoring,omitempty"`
}

// Provision creates the trackable plus its zeroed streak row in one
// transaction.
func (s *TrackableService) Provision(userID string, req ProvisionRequest) (*models.Trackable, error) {
	var tpl models.HabitTemplate
	if err := s.DB.Where("code = ?", req.TemplateCode).First(&tpl).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("unknown habit template %q", req.TemplateCode)
		}
		return nil, err
	}

	t := models.Trackable{
		ID:             uuid.NewString(),
		ExternalUserID: userID,
		TemplateCode:   tpl.Code,
		Category:       tpl.Category,
		Name:           tpl.Name,
		Goal:           tpl.DefaultGoal,
		Scoring:        tpl.DefaultScoring,
		IsActive:       true,
	}
	if req.Name != "" {
		t.Name = req.Name
	}
	if req.Goal != nil {
		t.Goal = *req.Goal
	}
	if req.Scoring != nil {
		t.Scoring = *req.Scoring
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&t).Error; err != nil {
			return err
		}
		streak := models.StreakState{
			ID:             uuid.NewString(),
			ExternalUserID: userID,
			TrackableID:    t.ID,
		}
		return tx.Create(&streak).Error
	})
	if err != nil {
		return nil, err
	}
	log.Printf("✅ Trackable provisioned: %s (%s) for %s", t.Name, t.Category, userID)
	return &t, nil
}

func (s *TrackableService) ListForUser(userID string) ([]models.Trackable, error) {
	var out []models.Trackable
	err := s.DB.Where("external_user_id = ? AND is_active = ?", userID, true).
		Order("created_at ASC").
		Find(&out).Error
	return out, err
}

// GetOwned resolves a trackable only if it exists, is active, and
// belongs to userID.
func (s *TrackableService) GetOwned(trackableID, userID string) (*models.Trackable, error) {
	return s.GetOwnedTx(s.DB, trackableID, userID)
}

// GetOwnedTx is GetOwned inside a caller-held transaction; the scoring
// pipeline uses it so the ownership check shares the write's snapshot.
func (s *TrackableService) GetOwnedTx(tx *gorm.DB, trackableID, userID string) (*models.Trackable, error) {
	var t models.Trackable
	err := tx.Where("id = ? AND external_user_id = ? AND is_active = ?", trackableID, userID, true).
		First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTrackableNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}
