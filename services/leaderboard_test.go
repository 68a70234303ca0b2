package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"habit-tracking-system/models"
	"habit-tracking-system/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func mkParticipants(n int) []Participant {
	out := make([]Participant, n)
	for i := range out {
		out[i] = Participant{
			UserID: fmt.Sprintf("user%02d", i),
			Rank:   i + 1,
			Score:  int64(1000 - i),
		}
	}
	return out
}

func TestStandardView_AroundMeDeduplicated(t *testing.T) {
	all := mkParticipants(30)

	// Requester at index 18: the ±3 window [15..21] overlaps the
	// top-20 block; only 20 and 21 may appear in around_me.
	sv := standardView(all, 18)
	if len(sv.Top) != StandardTopN {
		t.Fatalf("top = %d, want %d", len(sv.Top), StandardTopN)
	}
	if len(sv.AroundMe) != 2 {
		t.Fatalf("around_me = %d entries, want 2", len(sv.AroundMe))
	}

	seen := map[string]bool{}
	for _, p := range sv.Top {
		seen[p.UserID] = true
	}
	for _, p := range sv.AroundMe {
		if seen[p.UserID] {
			t.Errorf("user %s appears in both top and around_me", p.UserID)
		}
	}
}

func TestStandardView_DeepRequester(t *testing.T) {
	all := mkParticipants(100)
	sv := standardView(all, 60)
	if len(sv.AroundMe) != 7 {
		t.Errorf("around_me = %d entries, want 7 (±3 plus self)", len(sv.AroundMe))
	}
	if sv.AroundMe[3].UserID != "user60" {
		t.Errorf("requester should sit mid-window, got %s", sv.AroundMe[3].UserID)
	}
}

func TestStandardView_SmallCohort(t *testing.T) {
	all := mkParticipants(5)
	sv := standardView(all, 2)
	if len(sv.Top) != 5 {
		t.Errorf("top = %d, want all 5", len(sv.Top))
	}
	if len(sv.AroundMe) != 0 {
		t.Errorf("around_me should be empty when everyone fits in top, got %d", len(sv.AroundMe))
	}
}

func TestPaginateParticipants_ClampsPage(t *testing.T) {
	all := mkParticipants(50) // 3 pages at size 20

	pv := paginateParticipants(all, 999, 20)
	if pv.Page != 3 {
		t.Errorf("page = %d, want clamped to 3", pv.Page)
	}
	if pv.HasNext {
		t.Error("last page must report has_next=false")
	}
	if len(pv.Items) != 10 {
		t.Errorf("items = %d, want 10", len(pv.Items))
	}
	if pv.TotalItems != 50 || pv.TotalPages != 3 {
		t.Errorf("totals = %d/%d, want 50/3", pv.TotalItems, pv.TotalPages)
	}

	pv = paginateParticipants(all, 0, 20)
	if pv.Page != 1 || !pv.HasNext || len(pv.Items) != 20 {
		t.Errorf("page 0 should clamp to first page: %+v", pv)
	}

	pv = paginateParticipants(all, 1, -5)
	if pv.PageSize != DefaultPageSize {
		t.Errorf("bad page size should fall back to %d, got %d", DefaultPageSize, pv.PageSize)
	}
}

// --- full assembly against a real DB ---

func seedLedger(t *testing.T, db *gorm.DB, userID, trackableID, day string, points int64) {
	t.Helper()
	if err := db.Create(&models.PointsLedgerEntry{
		ID:             uuid.NewString(),
		ExternalUserID: userID,
		TrackableID:    trackableID,
		Day:            day,
		Source:         models.PointsSourceTrackableGoal,
		Points:         points,
	}).Error; err != nil {
		t.Fatal(err)
	}
}

func TestGetLeaderboard_FriendsWeekStandard(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaderboardService(db, NewCohortService(db))
	ctx := context.Background()

	seedUser(t, db, "userA", "ana", true, nil)
	seedUser(t, db, "userB", "bo", true, nil)
	seedUser(t, db, "userC", "cy", true, nil)
	seedEdge(t, db, "userA", "userB", models.FollowStatusAccepted)
	seedEdge(t, db, "userC", "userA", models.FollowStatusAccepted)

	goal := models.Goal{Type: models.GoalTypeTarget, Target: 2500, Unit: "ml"}
	scoring := models.ScoringConfig{BasePoints: 10}
	trA := seedTrackable(t, db, "userA", "water", goal, scoring)
	trB := seedTrackable(t, db, "userB", "water", goal, scoring)
	trC := seedTrackable(t, db, "userC", "water", goal, scoring)

	today := utils.DayKey(time.Now(), svc.Loc)
	seedLedger(t, db, "userA", trA.ID, today, 100)
	seedLedger(t, db, "userB", trB.ID, today, 100)
	seedLedger(t, db, "userC", trC.ID, today, 80)

	data, err := svc.GetLeaderboard(ctx, "userA", LeaderboardRequest{Scope: "friends", Period: "week", View: "standard"})
	if err != nil {
		t.Fatal(err)
	}

	if data.Overall.RankStatus != RankStatusAvailable {
		t.Errorf("rank_status = %q, want available", data.Overall.RankStatus)
	}
	if data.Overall.CohortSize != 3 {
		t.Errorf("cohort_size = %d, want 3", data.Overall.CohortSize)
	}
	// Tie at 100 between userA and userB: shared rank 1, userC rank 3.
	if data.Overall.Rank != 1 || data.Overall.Score != 100 {
		t.Errorf("overall = %+v, want rank 1 score 100", data.Overall)
	}
	if data.Overall.Percentile != 1.0 {
		t.Errorf("percentile = %v, want 1.0", data.Overall.Percentile)
	}

	if data.ParticipantsStandard == nil {
		t.Fatal("standard view missing")
	}
	top := data.ParticipantsStandard.Top
	if len(top) != 3 {
		t.Fatalf("top = %d rows, want 3", len(top))
	}
	if top[0].UserID != "userA" || top[0].Rank != 1 ||
		top[1].UserID != "userB" || top[1].Rank != 1 ||
		top[2].UserID != "userC" || top[2].Rank != 3 {
		t.Errorf("ranking rows wrong: %+v", top)
	}
	if top[0].Username != "ana" {
		t.Errorf("profile join missing: %+v", top[0])
	}
	if top[2].PointsWeek != 80 || top[2].PointsToday != 80 {
		t.Errorf("enrichment sums wrong: %+v", top[2])
	}

	if len(data.ChallengeRanks) != 1 || data.ChallengeRanks[0].Category != "water" {
		t.Fatalf("challenge_ranks = %+v, want one water entry", data.ChallengeRanks)
	}
	if data.ChallengeRanks[0].Rank != 1 || data.ChallengeRanks[0].Score != 100 {
		t.Errorf("water rank = %+v", data.ChallengeRanks[0])
	}
}

func TestGetLeaderboard_ZeroActivityFriendStillRanked(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaderboardService(db, NewCohortService(db))

	seedUser(t, db, "userA", "ana", true, nil)
	seedUser(t, db, "userB", "bo", true, nil)
	seedEdge(t, db, "userA", "userB", models.FollowStatusAccepted)

	goal := models.Goal{Type: models.GoalTypeTarget, Target: 1}
	trA := seedTrackable(t, db, "userA", "water", goal, models.ScoringConfig{BasePoints: 10})
	today := utils.DayKey(time.Now(), svc.Loc)
	seedLedger(t, db, "userA", trA.ID, today, 10)

	data, err := svc.GetLeaderboard(context.Background(), "userA", LeaderboardRequest{View: "all"})
	if err != nil {
		t.Fatal(err)
	}
	if data.ParticipantsPage == nil {
		t.Fatal("page view missing")
	}
	if data.ParticipantsPage.TotalItems != 2 {
		t.Fatalf("total_items = %d, want 2 — zero scorers stay in the cohort", data.ParticipantsPage.TotalItems)
	}
	items := data.ParticipantsPage.Items
	if items[1].UserID != "userB" || items[1].Score != 0 || items[1].Rank != 2 {
		t.Errorf("zero scorer row = %+v", items[1])
	}
}

func TestGetLeaderboard_NearbyNoLocation(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaderboardService(db, NewCohortService(db))

	seedUser(t, db, "userA", "ana", true, nil)

	data, err := svc.GetLeaderboard(context.Background(), "userA", LeaderboardRequest{Scope: "nearby", View: "standard"})
	if err != nil {
		t.Fatal(err)
	}
	if data.Overall.RankStatus != RankStatusNoLocation {
		t.Errorf("rank_status = %q, want no_location", data.Overall.RankStatus)
	}
	if data.Overall.CohortSize != 1 || data.Overall.Rank != 1 {
		t.Errorf("overall = %+v, want self-only cohort still ranked", data.Overall)
	}
}
