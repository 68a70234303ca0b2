package services

import (
	"context"
	"sort"
	"testing"

	"habit-tracking-system/models"
	"habit-tracking-system/utils"
)

func sortedIDs(c *Cohort) []string {
	out := append([]string(nil), c.UserIDs...)
	sort.Strings(out)
	return out
}

func TestFriendsCohort(t *testing.T) {
	db := newTestDB(t)
	svc := NewCohortService(db)
	ctx := context.Background()

	seedUser(t, db, "me", "me", true, nil)
	seedUser(t, db, "friendOut", "fo", true, nil)  // accepted, me → them
	seedUser(t, db, "friendIn", "fi", true, nil)   // accepted, them → me
	seedUser(t, db, "blockedPal", "bp", true, nil) // accepted but also blocked
	seedUser(t, db, "ghost", "gh", false, nil)     // accepted but deactivated
	seedUser(t, db, "stranger", "st", true, nil)   // pending only

	seedEdge(t, db, "me", "friendOut", models.FollowStatusAccepted)
	seedEdge(t, db, "friendIn", "me", models.FollowStatusAccepted)
	seedEdge(t, db, "blockedPal", "me", models.FollowStatusAccepted)
	seedEdge(t, db, "me", "blockedPal", models.FollowStatusBlocked)
	seedEdge(t, db, "me", "ghost", models.FollowStatusAccepted)
	seedEdge(t, db, "stranger", "me", models.FollowStatusPending)

	cohort, err := svc.FriendsCohort(ctx, "me")
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"friendIn", "friendOut", "me"}
	got := sortedIDs(cohort)
	if len(got) != len(want) {
		t.Fatalf("cohort = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("cohort = %v, want %v", got, want)
		}
	}
}

// A deactivated user must read back inactive — a gorm default tag on
// IsActive would swallow the explicit false on insert, and the sync
// worker's first upsert of a deactivated account goes through exactly
// this create path.
func TestTrackerUser_InactivePersistsOnCreate(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "ghost", "gh", false, nil)

	var u models.TrackerUser
	if err := db.Where("external_user_id = ?", "ghost").First(&u).Error; err != nil {
		t.Fatal(err)
	}
	if u.IsActive {
		t.Error("IsActive=false did not survive the insert")
	}
}

func TestFriendsCohort_NoFriendsIsSelfOnly(t *testing.T) {
	db := newTestDB(t)
	svc := NewCohortService(db)

	seedUser(t, db, "loner", "lo", true, nil)

	cohort, err := svc.FriendsCohort(context.Background(), "loner")
	if err != nil {
		t.Fatal(err)
	}
	if len(cohort.UserIDs) != 1 || cohort.UserIDs[0] != "loner" {
		t.Errorf("cohort = %v, want just the requester", cohort.UserIDs)
	}
}

func TestNearbyCohort_NoLocationShortCircuits(t *testing.T) {
	db := newTestDB(t)
	svc := NewCohortService(db)

	seedUser(t, db, "me", "me", true, nil)

	cohort, err := svc.NearbyCohort(context.Background(), "me", 5)
	if err != nil {
		t.Fatal(err)
	}
	if cohort.UserHasLocation {
		t.Error("UserHasLocation should be false")
	}
	if len(cohort.UserIDs) != 1 || cohort.UserIDs[0] != "me" {
		t.Errorf("cohort = %v, want just the requester", cohort.UserIDs)
	}
}

func TestNearbyCohort_RingSelection(t *testing.T) {
	db := newTestDB(t)
	svc := NewCohortService(db)
	ctx := context.Background()

	paris := utils.EncodeCell(48.8566, 2.3522, utils.CellPrecision)
	tokyo := utils.EncodeCell(35.6762, 139.6503, utils.CellPrecision)

	seedUser(t, db, "me", "me", true, &paris)
	seedUser(t, db, "neighbor", "nb", true, &paris)
	seedUser(t, db, "blockedNb", "bn", true, &paris)
	seedUser(t, db, "sleeper", "sl", false, &paris) // deactivated
	seedUser(t, db, "farAway", "fa", true, &tokyo)

	seedEdge(t, db, "blockedNb", "me", models.FollowStatusBlocked)

	cohort, err := svc.NearbyCohort(ctx, "me", 5)
	if err != nil {
		t.Fatal(err)
	}
	if !cohort.UserHasLocation {
		t.Fatal("UserHasLocation should be true")
	}

	got := sortedIDs(cohort)
	want := []string{"me", "neighbor"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("cohort = %v, want %v", got, want)
	}
}

func TestNearbyCohort_InvalidStoredCellTreatedAsNoLocation(t *testing.T) {
	db := newTestDB(t)
	svc := NewCohortService(db)

	bad := "!!!!"
	seedUser(t, db, "me", "me", true, &bad)

	cohort, err := svc.NearbyCohort(context.Background(), "me", 5)
	if err != nil {
		t.Fatal(err)
	}
	if cohort.UserHasLocation {
		t.Error("invalid cell must degrade to no-location sentinel")
	}
}
