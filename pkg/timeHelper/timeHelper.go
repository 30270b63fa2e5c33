package timehelper

import (
	"fmt"
	"time"

	"github.com/ccmha/rink-sync/pkg/models"
)

const (
	DateLayout      = "2006-01-02"
	TimeLayout      = "15:04:05"
	TimestampLayout = "2006-01-02 15:04:05"
)

func GetTodaysDateString() string {
	// Format the date to 'YYYY-MM-DD'
	return time.Now().Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// ParseTimeOfDay accepts HH:MM or HH:MM:SS and returns the time normalized
// to HH:MM:SS.
func ParseTimeOfDay(s string) (string, error) {
	if t, err := time.Parse(TimeLayout, s); err == nil {
		return t.Format(TimeLayout), nil
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return "", fmt.Errorf("unparseable time of day %q", s)
	}
	return t.Format(TimeLayout), nil
}

// FilterWindow keeps events dated from today through the next `days` days.
// Slots earlier today are kept only while their start time is less than an
// hour in the past; slots with no or unparseable start times are kept so a
// bad upstream record never hides a change.
func FilterWindow(events []models.Event, now time.Time, days int) []models.Event {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := today.AddDate(0, 0, days)

	var kept []models.Event
	for _, e := range events {
		d, err := time.ParseInLocation(DateLayout, e.Date, now.Location())
		if err != nil {
			continue
		}
		if d.After(today) {
			if !d.After(end) {
				kept = append(kept, e)
			}
			continue
		}
		if !d.Equal(today) {
			continue
		}
		if e.StartTime == "" {
			kept = append(kept, e)
			continue
		}
		start, err := time.Parse(TimeLayout, e.StartTime)
		if err != nil {
			kept = append(kept, e)
			continue
		}
		at := time.Date(d.Year(), d.Month(), d.Day(), start.Hour(), start.Minute(), start.Second(), 0, now.Location())
		if at.After(now.Add(-time.Hour)) {
			kept = append(kept, e)
		}
	}
	return kept
}
