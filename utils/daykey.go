// utils/daykey.go
package utils

import "time"

// Day keys are YYYY-MM-DD strings in the service's local calendar.
// String keys keep the unique indexes simple and make day-range
// queries plain lexicographic BETWEENs.
const DayKeyLayout = "2006-01-02"

func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DayKeyLayout)
}

// PrevDayKey returns the day key one calendar day before day.
// Invalid input comes back unchanged.
func PrevDayKey(day string) string {
	t, err := time.Parse(DayKeyLayout, day)
	if err != nil {
		return day
	}
	return t.AddDate(0, 0, -1).Format(DayKeyLayout)
}

// DayBounds returns the [start, end) instants of the calendar day
// containing t.
func DayBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	lt := t.In(loc)
	start := time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// WeekRange returns the Monday–Sunday day keys of the week containing t.
func WeekRange(t time.Time, loc *time.Location) (string, string) {
	lt := t.In(loc)
	offset := int(lt.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7 // Sunday
	}
	monday := time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, -offset)
	return monday.Format(DayKeyLayout), monday.AddDate(0, 0, 6).Format(DayKeyLayout)
}

// MonthRange returns the first and last day keys of the calendar month
// containing t.
func MonthRange(t time.Time, loc *time.Location) (string, string) {
	lt := t.In(loc)
	first := time.Date(lt.Year(), lt.Month(), 1, 0, 0, 0, 0, loc)
	return first.Format(DayKeyLayout), first.AddDate(0, 1, -1).Format(DayKeyLayout)
}
