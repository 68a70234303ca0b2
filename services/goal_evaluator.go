package services

import (
	"math"
	"strings"

	"habit-tracking-system/models"
)

// GoalResult is the outcome of evaluating one day's logs against a goal.
type GoalResult struct {
	MetGoal  bool
	Progress models.ProgressSnapshot
}

// EvaluateGoal decides whether the day's logs satisfied the goal.
// Pure and total: it never errors, never touches the DB, and an
// unknown goal type degrades to not-met with empty progress. The
// caller owns the day boundary — logs must already be the one
// calendar day's worth.
func EvaluateGoal(goal models.Goal, logs []models.ActivityLog) GoalResult {
	switch goal.Type {
	case models.GoalTypeBinary:
		return evalBinary(logs)
	case models.GoalTypeTarget:
		return evalTarget(goal, logs)
	case models.GoalTypeRange:
		return evalRange(goal, logs)
	case models.GoalTypeTimeWindow:
		return evalTimeWindow(goal, logs)
	default:
		return GoalResult{}
	}
}

// binary: met iff any log carries the explicit met marker. No logs, not met.
func evalBinary(logs []models.ActivityLog) GoalResult {
	for _, l := range logs {
		if l.ValueText != nil && *l.ValueText == models.MetMarker {
			return GoalResult{MetGoal: true}
		}
		if strings.EqualFold(l.Meta["met"], "true") {
			return GoalResult{MetGoal: true}
		}
	}
	return GoalResult{}
}

func evalTarget(goal models.Goal, logs []models.ActivityLog) GoalResult {
	total := sumValues(logs)
	return GoalResult{
		MetGoal: total >= goal.Target,
		Progress: models.ProgressSnapshot{
			Current: total,
			Target:  goal.Target,
			Unit:    goal.Unit,
		},
	}
}

// range: met iff min <= sum <= max. Min defaults to 0, Max to +inf.
func evalRange(goal models.Goal, logs []models.ActivityLog) GoalResult {
	total := sumValues(logs)
	min := 0.0
	if goal.Min != nil {
		min = *goal.Min
	}
	max := math.Inf(1)
	if goal.Max != nil {
		max = *goal.Max
	}
	return GoalResult{
		MetGoal: total >= min && total <= max,
		Progress: models.ProgressSnapshot{
			Current: total,
			Unit:    goal.Unit,
		},
	}
}

// time_window: the first log carrying a bedtime is compared to the
// cutoff as plain "HH:mm" strings. A bedtime past midnight ("00:30")
// therefore compares as earlier than any evening cutoff — known quirk,
// kept as-is because the intent for overnight bedtimes is ambiguous.
func evalTimeWindow(goal models.Goal, logs []models.ActivityLog) GoalResult {
	for _, l := range logs {
		bedtime, ok := l.Meta["bedtime"]
		if !ok {
			continue
		}
		return GoalResult{
			MetGoal: bedtime <= goal.Cutoff,
			Progress: models.ProgressSnapshot{
				Bedtime: bedtime,
				Cutoff:  goal.Cutoff,
			},
		}
	}
	return GoalResult{Progress: models.ProgressSnapshot{Cutoff: goal.Cutoff}}
}

func sumValues(logs []models.ActivityLog) float64 {
	var total float64
	for _, l := range logs {
		if l.ValueNum != nil {
			total += *l.ValueNum
		}
	}
	return total
}
