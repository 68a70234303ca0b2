// services/scheduler.go
package services

import (
	"context"
	"log"
	"time"

	"habit-tracking-system/models"
	"habit-tracking-system/utils"

	"github.com/go-co-op/gocron/v2"
)

// StartNightlySweep closes out the previous calendar day shortly after
// midnight: trackables with logs but no persisted outcome get
// rescored, and streaks whose last met day has fallen behind are
// zeroed — so a broken streak doesn't wait for the user's next log
// write to show up.
func (s *ScoringService) StartNightlySweep() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.CronJob("10 0 * * *", false),
		gocron.NewTask(func() {
			s.SweepMissedDays(context.Background())
		}),
	)
}

// SweepMissedDays performs one sweep over yesterday. Idempotent — it
// reuses the same rescore pipeline as a log write.
func (s *ScoringService) SweepMissedDays(ctx context.Context) {
	yesterday := utils.PrevDayKey(utils.DayKey(time.Now(), s.Loc))

	// Trackables that logged yesterday without a scored outcome.
	dayStart, dayEnd := dayStartEnd(yesterday, s.Loc)
	var pending []string
	err := s.DB.WithContext(ctx).Model(&models.ActivityLog{}).
		Distinct("activity_logs.trackable_id").
		Joins("LEFT JOIN daily_outcomes ON daily_outcomes.trackable_id = activity_logs.trackable_id AND daily_outcomes.day = ?", yesterday).
		Where("activity_logs.occurred_at >= ? AND activity_logs.occurred_at < ? AND daily_outcomes.id IS NULL",
			dayStart, dayEnd).
		Pluck("activity_logs.trackable_id", &pending).Error
	if err != nil {
		log.Printf("[Sweep] DB error finding unscored days: %v", err)
		return
	}
	for _, id := range pending {
		if err := s.RescoreDay(ctx, id, yesterday); err != nil {
			log.Printf("[Sweep] Failed to rescore %s/%s: %v", id, yesterday, err)
		} else {
			log.Printf("✅ Swept unscored day for trackable %s", id)
		}
	}

	// Streaks that missed yesterday: zero them.
	res := s.DB.WithContext(ctx).Model(&models.StreakState{}).
		Where("current_streak > 0 AND last_met_day < ?", yesterday).
		Update("current_streak", 0)
	if res.Error != nil {
		log.Printf("[Sweep] DB error zeroing streaks: %v", res.Error)
		return
	}
	if res.RowsAffected > 0 {
		log.Printf("💤 Sweep zeroed %d broken streaks (last met before %s)", res.RowsAffected, yesterday)
	}
}

// dayStartEnd expands a day key into its [start, end) instants for the
// variadic Where above.
func dayStartEnd(day string, loc *time.Location) (time.Time, time.Time) {
	start, err := time.ParseInLocation(utils.DayKeyLayout, day, loc)
	if err != nil {
		start = time.Now().In(loc).Truncate(24 * time.Hour)
	}
	return start, start.AddDate(0, 0, 1)
}
