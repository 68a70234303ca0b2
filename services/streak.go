package services

import (
	"habit-tracking-system/models"
	"habit-tracking-system/utils"
)

// StreakResult is the advanced streak plus any milestone bonus.
type StreakResult struct {
	NewStreak    int
	BestStreak   int
	BonusAwarded int64
	MilestoneDay int // 0 when no milestone was hit
}

// AdvanceStreak rolls the streak state forward for one scored day.
// Pure and deterministic, no I/O.
//
// Rules: a miss zeroes the streak unconditionally; a met day extends
// the streak iff the last met day was exactly yesterday, otherwise the
// streak restarts at 1. Rescoring a day that was already counted
// (lastMetDay == today) keeps the streak where it is, so the pipeline
// stays idempotent. A milestone bonus is awarded only on an exact day
// match against the configured table — day 4 with milestones at
// {3,7,14,30} gets nothing.
func AdvanceStreak(prev models.StreakState, metToday bool, today string, scoring models.ScoringConfig) StreakResult {
	res := StreakResult{BestStreak: prev.BestStreak}
	if !metToday {
		return res
	}

	switch prev.LastMetDay {
	case today:
		res.NewStreak = prev.CurrentStreak
		if res.NewStreak < 1 {
			res.NewStreak = 1
		}
	case utils.PrevDayKey(today):
		res.NewStreak = prev.CurrentStreak + 1
	default:
		res.NewStreak = 1
	}

	if res.NewStreak > res.BestStreak {
		res.BestStreak = res.NewStreak
	}

	for _, m := range scoring.Milestones {
		if m.Day == res.NewStreak {
			res.BonusAwarded = m.Points
			res.MilestoneDay = m.Day
			break
		}
	}
	return res
}
