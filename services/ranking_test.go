package services

import (
	"reflect"
	"testing"
)

func TestRankScores_TieBreakAndSkip(t *testing.T) {
	scores := map[string]int64{"userB": 100, "userC": 80, "userA": 100}

	want := []RankedEntry{
		{UserID: "userA", Score: 100, Rank: 1},
		{UserID: "userB", Score: 100, Rank: 1},
		{UserID: "userC", Score: 80, Rank: 3},
	}

	// Stable across repeated calls — equal scores must not reorder.
	for i := 0; i < 20; i++ {
		got := RankScores(scores)
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("call %d: got %+v, want %+v", i, got, want)
		}
	}
}

func TestRankScores_ZeroScorersIncluded(t *testing.T) {
	scores := map[string]int64{"a": 50, "b": 0, "c": 0}
	got := RankScores(scores)
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	if got[1].Rank != 2 || got[2].Rank != 2 {
		t.Errorf("zero scorers should tie at rank 2, got %+v", got)
	}
}

func TestRankScores_SingletonCohort(t *testing.T) {
	got := RankScores(map[string]int64{"me": 0})
	if len(got) != 1 || got[0].Rank != 1 {
		t.Errorf("cohort of one ranks first, got %+v", got)
	}
	if p := Percentile(1, 1); p != 1.0 {
		t.Errorf("Percentile(1,1) = %v, want 1.0", p)
	}
}

func TestPercentile(t *testing.T) {
	tests := []struct {
		rank, n int
		want    float64
	}{
		{1, 3, 1.0},
		{2, 3, 0.67},
		{3, 3, 0.33},
		{1, 10, 1.0},
		{10, 10, 0.1},
		{5, 8, 0.5},
	}
	for _, tt := range tests {
		if got := Percentile(tt.rank, tt.n); got != tt.want {
			t.Errorf("Percentile(%d, %d) = %v, want %v", tt.rank, tt.n, got, tt.want)
		}
	}
	if got := Percentile(1, 0); got != 0 {
		t.Errorf("empty cohort percentile = %v, want 0", got)
	}
}
