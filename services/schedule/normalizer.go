package schedule

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ccmha/rink-sync/pkg/models"
	timehelper "github.com/ccmha/rink-sync/pkg/timeHelper"
	grayjay "github.com/ccmha/rink-sync/repos/grayjay"
)

// Normalize converts raw master-schedule items into canonical events for one
// venue. It resolves the two record shapes, drops records without a date or
// at another venue, and collapses duplicate entries describing the same
// slot: the feed lists a game a second time as a team-schedule entry, and
// the game record wins. The returned notes describe records that were
// skipped for a reason worth logging; the caller decides where they go.
//
// Within one result no two events share an identity key, and the result is
// ordered by date, start time, venue, title.
func Normalize(items []grayjay.ScheduleItem, venueFilter string) ([]models.Event, []string) {
	var events []models.Event
	var notes []string
	byKey := make(map[string]int)

	for i, item := range items {
		date := str(item.GameDate)
		if date == "" {
			date = str(item.TeamScheduleDate)
		}
		if date == "" {
			// Incomplete upstream record, not an error.
			continue
		}

		venue := strings.TrimSpace(str(item.VenueName))
		if !strings.EqualFold(venue, strings.TrimSpace(venueFilter)) {
			continue
		}

		event, err := buildEvent(item, date, venue)
		if err != nil {
			notes = append(notes, fmt.Sprintf("record %d skipped: %v", i, err))
			continue
		}

		key := event.Key()
		j, seen := byKey[key]
		if !seen {
			byKey[key] = len(events)
			events = append(events, event)
			continue
		}

		kept := events[j]
		switch {
		case event.Type == models.Game && kept.Type != models.Game:
			events[j] = event
		case event.Type == models.Game || kept.Type != models.Game:
			// Two games or two non-games on one slot. Upstream never
			// promises which is authoritative, so the first one stays.
			notes = append(notes, fmt.Sprintf("record %d: duplicate %s entries for slot %s, keeping first", i, kept.Type, key))
		}
	}

	sort.Slice(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.StartTime != b.StartTime {
			return a.StartTime < b.StartTime
		}
		if a.Venue != b.Venue {
			return a.Venue < b.Venue
		}
		return a.Title < b.Title
	})

	return events, notes
}

func buildEvent(item grayjay.ScheduleItem, date, venue string) (models.Event, error) {
	if !validDate(date) {
		return models.Event{}, fmt.Errorf("unparseable date %q", date)
	}

	var rawStart, rawEnd string
	if item.IsGame() {
		rawStart = str(item.GameStartTime)
		rawEnd = str(item.GameEndTime)
	} else {
		rawStart = str(item.TeamScheduleStartTime)
		rawEnd = str(item.TeamScheduleEndTime)
	}

	if rawStart == "" {
		return models.Event{}, fmt.Errorf("missing start time")
	}
	startTime, err := timehelper.ParseTimeOfDay(rawStart)
	if err != nil {
		return models.Event{}, err
	}

	endTime := ""
	if rawEnd != "" {
		endTime, err = timehelper.ParseTimeOfDay(rawEnd)
		if err != nil {
			return models.Event{}, err
		}
	}

	return models.Event{
		Date:      date,
		StartTime: startTime,
		EndTime:   endTime,
		Venue:     venue,
		League:    strings.TrimSpace(str(item.LeagueName)),
		Title:     buildTitle(item),
		Type:      eventType(item),
	}, nil
}

func buildTitle(item grayjay.ScheduleItem) string {
	if item.IsGame() {
		teamA := strings.TrimSpace(str(item.TeamAName))
		teamB := strings.TrimSpace(str(item.TeamBName))
		if teamA != "" && teamB != "" {
			return fmt.Sprintf("%s vs %s", teamA, teamB)
		}
		return "TBA"
	}
	if team := strings.TrimSpace(str(item.TeamName)); team != "" {
		return team
	}
	return "TBA"
}

func eventType(item grayjay.ScheduleItem) models.EventType {
	if item.IsGame() {
		return models.Game
	}
	if item.TeamScheduleTypeID == nil {
		return models.Practice
	}
	t := models.EventType(*item.TeamScheduleTypeID)
	if t < models.Practice || t > models.Game {
		return models.Other
	}
	return t
}

func validDate(date string) bool {
	_, err := timehelper.ParseDate(date)
	return err == nil
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
