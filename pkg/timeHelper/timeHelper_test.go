package timehelper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ccmha/rink-sync/pkg/models"
)

func TestParseTimeOfDay(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"12:00", "12:00:00", true},
		{"12:00:30", "12:00:30", true},
		{"06:05", "06:05:00", true},
		{"25:99", "", false},
		{"noon", "", false},
		{"", "", false},
	}

	for _, c := range cases {
		got, err := ParseTimeOfDay(c.in)
		if c.ok {
			assert.NoError(t, err, c.in)
			assert.Equal(t, c.want, got, c.in)
		} else {
			assert.Error(t, err, c.in)
		}
	}
}

func TestFilterWindow(t *testing.T) {
	now := time.Date(2025, 11, 2, 12, 0, 0, 0, time.UTC)

	mk := func(date, start string) models.Event {
		return models.Event{Date: date, StartTime: start, Venue: "Amherst Stadium"}
	}

	events := []models.Event{
		mk("2025-11-02", "10:00:00"), // started over an hour ago, dropped
		mk("2025-11-02", "11:30:00"), // started within the hour, kept
		mk("2025-11-02", "18:00:00"), // later today, kept
		mk("2025-11-03", "09:00:00"), // tomorrow, kept
		mk("2025-11-09", "09:00:00"), // last day of the window, kept
		mk("2025-11-10", "09:00:00"), // past the window, dropped
		mk("2025-11-01", "09:00:00"), // yesterday, dropped
		mk("not-a-date", "09:00:00"), // unparseable date, dropped
		mk("2025-11-02", ""),         // no start time, kept to be safe
	}

	kept := FilterWindow(events, now, 7)

	var starts []string
	for _, e := range kept {
		starts = append(starts, e.Date+" "+e.StartTime)
	}
	assert.Equal(t, []string{
		"2025-11-02 11:30:00",
		"2025-11-02 18:00:00",
		"2025-11-03 09:00:00",
		"2025-11-09 09:00:00",
		"2025-11-02 ",
	}, starts)
}

func TestFilterWindowEmpty(t *testing.T) {
	now := time.Date(2025, 11, 2, 12, 0, 0, 0, time.UTC)
	assert.Empty(t, FilterWindow(nil, now, 7))
}
