package services

import (
	"math"
	"sort"
)

// RankedEntry is a derived (user, score, rank) triple; never persisted.
type RankedEntry struct {
	UserID string
	Score  int64
	Rank   int
}

// RankScores applies standard competition ranking to a score map:
// sort descending by score, exact ties broken by ascending user id so
// equal scores never reorder between requests; tied entries share the
// rank of the first of their group and the next distinct score's rank
// skips accordingly ([100,100,80] → ranks 1,1,3).
//
// The map must already be zero-filled for the whole cohort — members
// with no activity rank with score 0, they don't disappear.
func RankScores(scores map[string]int64) []RankedEntry {
	entries := make([]RankedEntry, 0, len(scores))
	for id, score := range scores {
		entries = append(entries, RankedEntry{UserID: id, Score: score})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].UserID < entries[j].UserID
	})

	for i := range entries {
		if i > 0 && entries[i].Score == entries[i-1].Score {
			entries[i].Rank = entries[i-1].Rank
		} else {
			entries[i].Rank = i + 1
		}
	}
	return entries
}

// Percentile maps a rank within a cohort of size n into (0,1], where
// 1.0 is the top rank. n is the cohort's total size, zero scorers
// included. Rounded to two decimals.
func Percentile(rank, n int) float64 {
	if n <= 0 || rank <= 0 {
		return 0
	}
	return math.Round((1-float64(rank-1)/float64(n))*100) / 100
}
