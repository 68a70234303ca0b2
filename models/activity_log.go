package models

import "time"

// ActivityLog records a single raw habit event. Append-only: the
// scoring engine never updates or deletes a log, only re-reads the
// day's set and recomputes.
type ActivityLog struct {
	ID             string `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string `gorm:"index;not null" json:"external_user_id"`
	TrackableID    string `gorm:"index:idx_logs_trackable_time;not null;uniqueIndex:idx_logs_client_dedup" json:"trackable_id"`

	OccurredAt time.Time `gorm:"index:idx_logs_trackable_time;not null" json:"occurred_at"`

	ValueNum  *float64          `json:"value_num,omitempty"`
	ValueText *string           `json:"value_text,omitempty"`
	Meta      map[string]string `gorm:"type:jsonb;serializer:json" json:"meta,omitempty"` // e.g. {"bedtime":"22:45","modality":"run"}

	// ClientLogID is the offline queue's idempotency key; the unique
	// index makes a replayed request fail its insert instead of
	// double counting.
	ClientLogID *string `gorm:"uniqueIndex:idx_logs_client_dedup" json:"client_log_id,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// MetMarker is the ValueText / Meta["met"] sentinel a binary goal
// looks for.
const MetMarker = "MET"
