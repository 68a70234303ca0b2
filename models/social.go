package models

// FollowStatus is the lifecycle of a directed follow edge.
type FollowStatus string

const (
	FollowStatusPending  FollowStatus = "pending"
	FollowStatusAccepted FollowStatus = "accepted"
	FollowStatusDenied   FollowStatus = "denied"
	FollowStatusBlocked  FollowStatus = "blocked"
)

// FollowEdge is a directed requester→target edge. A friendship is an
// accepted edge in either direction; a blocked edge in either
// direction excludes both users from each other's cohorts.
type FollowEdge struct {
	ID          string       `gorm:"primaryKey;type:uuid" json:"id"`
	RequesterID string       `gorm:"uniqueIndex:idx_edge_pair;index;not null" json:"requester_id"`
	TargetID    string       `gorm:"uniqueIndex:idx_edge_pair;index;not null" json:"target_id"`
	Status      FollowStatus `gorm:"type:varchar(16);not null;default:'pending'" json:"status"`

	Timestamps
}
