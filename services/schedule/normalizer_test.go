package schedule

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xorcare/pointer"

	"github.com/ccmha/rink-sync/pkg/models"
	grayjay "github.com/ccmha/rink-sync/repos/grayjay"
)

const venue = "Amherst Stadium"

func gameItem(date, start, end, teamA, teamB string) grayjay.ScheduleItem {
	return grayjay.ScheduleItem{
		GameID:        pointer.Int(4821),
		GameDate:      pointer.String(date),
		GameStartTime: pointer.String(start),
		GameEndTime:   pointer.String(end),
		TeamAName:     pointer.String(teamA),
		TeamBName:     pointer.String(teamB),
		LeagueName:    pointer.String("U13 AA"),
		VenueName:     pointer.String(venue),
	}
}

func practiceItem(date, start, end, team string, typeID int) grayjay.ScheduleItem {
	return grayjay.ScheduleItem{
		TeamScheduleDate:      pointer.String(date),
		TeamScheduleStartTime: pointer.String(start),
		TeamScheduleEndTime:   pointer.String(end),
		TeamScheduleTypeID:    pointer.Int(typeID),
		TeamName:              pointer.String(team),
		LeagueName:            pointer.String("U13 AA"),
		VenueName:             pointer.String(venue),
	}
}

func TestNormalizeGamePreferredOverPractice(t *testing.T) {
	items := []grayjay.ScheduleItem{
		practiceItem("2025-11-02", "12:00", "13:00", "Dieppe", 1),
		gameItem("2025-11-02", "12:00", "13:00", "Dieppe", "Cumberland Ramblers"),
	}

	events, notes := Normalize(items, venue)

	assert.Len(t, events, 1)
	assert.Empty(t, notes)
	assert.Equal(t, models.Game, events[0].Type)
	assert.Equal(t, "Dieppe vs Cumberland Ramblers", events[0].Title)
}

func TestNormalizeIdentityKeyUnique(t *testing.T) {
	items := []grayjay.ScheduleItem{
		gameItem("2025-11-02", "12:00", "13:00", "Dieppe", "Cumberland Ramblers"),
		practiceItem("2025-11-02", "12:00", "13:00", "Dieppe", 1),
		practiceItem("2025-11-02", "14:00", "15:00", "Springhill", 1),
		gameItem("2025-11-03", "12:00", "13:00", "Oxford", "Pugwash"),
		practiceItem("2025-11-02", "14:00", "15:00", "Springhill B", 3),
	}

	events, _ := Normalize(items, venue)

	seen := map[string]bool{}
	for _, e := range events {
		assert.False(t, seen[e.Key()], "duplicate identity key %s", e.Key())
		seen[e.Key()] = true
	}
	assert.Len(t, events, 3)
}

func TestNormalizeSameClassCollisionKeepsFirst(t *testing.T) {
	items := []grayjay.ScheduleItem{
		practiceItem("2025-11-02", "14:00", "15:00", "Springhill", 1),
		practiceItem("2025-11-02", "14:00", "15:00", "Oxford", 1),
	}

	events, notes := Normalize(items, venue)

	assert.Len(t, events, 1)
	assert.Equal(t, "Springhill", events[0].Title)
	assert.Len(t, notes, 1)
	assert.Contains(t, notes[0], "duplicate")
}

func TestNormalizeVenueFilter(t *testing.T) {
	other := gameItem("2025-11-02", "12:00", "13:00", "Dieppe", "Oxford")
	other.VenueName = pointer.String("Springhill Arena")
	caseDiff := practiceItem("2025-11-02", "14:00", "15:00", "Dieppe", 1)
	caseDiff.VenueName = pointer.String("AMHERST STADIUM")

	events, notes := Normalize([]grayjay.ScheduleItem{other, caseDiff}, venue)

	assert.Empty(t, notes)
	assert.Len(t, events, 1)
	assert.Equal(t, "AMHERST STADIUM", events[0].Venue)
}

func TestNormalizeMissingDateSkippedSilently(t *testing.T) {
	item := practiceItem("2025-11-02", "14:00", "15:00", "Dieppe", 1)
	item.TeamScheduleDate = nil

	events, notes := Normalize([]grayjay.ScheduleItem{item}, venue)

	assert.Empty(t, events)
	assert.Empty(t, notes)
}

func TestNormalizeMalformedTimeSkippedWithNote(t *testing.T) {
	items := []grayjay.ScheduleItem{
		gameItem("2025-11-02", "25:99", "13:00", "Dieppe", "Oxford"),
		gameItem("2025-11-03", "12:00", "13:00", "Dieppe", "Oxford"),
	}

	events, notes := Normalize(items, venue)

	assert.Len(t, events, 1)
	assert.Equal(t, "2025-11-03", events[0].Date)
	assert.Len(t, notes, 1)
	assert.Contains(t, notes[0], "unparseable time")
}

func TestNormalizeTimesNormalized(t *testing.T) {
	events, _ := Normalize([]grayjay.ScheduleItem{
		gameItem("2025-11-02", "12:00", "13:30:00", "Dieppe", "Oxford"),
	}, venue)

	assert.Len(t, events, 1)
	assert.Equal(t, "12:00:00", events[0].StartTime)
	assert.Equal(t, "13:30:00", events[0].EndTime)
}

func TestNormalizeTitleFallback(t *testing.T) {
	game := gameItem("2025-11-02", "12:00", "13:00", "Dieppe", "")
	practice := practiceItem("2025-11-03", "12:00", "13:00", "", 5)
	practice.TeamName = nil

	events, _ := Normalize([]grayjay.ScheduleItem{game, practice}, venue)

	assert.Len(t, events, 2)
	assert.Equal(t, "TBA", events[0].Title)
	assert.Equal(t, "TBA", events[1].Title)
}

func TestNormalizeSortedByDateAndStart(t *testing.T) {
	items := []grayjay.ScheduleItem{
		practiceItem("2025-11-03", "09:00", "10:00", "Oxford", 1),
		gameItem("2025-11-02", "18:00", "19:00", "Dieppe", "Oxford"),
		practiceItem("2025-11-02", "06:00", "07:00", "Springhill", 1),
	}

	events, _ := Normalize(items, venue)

	assert.Len(t, events, 3)
	assert.Equal(t, "06:00:00", events[0].StartTime)
	assert.Equal(t, "18:00:00", events[1].StartTime)
	assert.Equal(t, "2025-11-03", events[2].Date)
}

func TestNormalizeIdempotent(t *testing.T) {
	items := []grayjay.ScheduleItem{
		practiceItem("2025-11-02", "12:00", "13:00", "Dieppe", 1),
		gameItem("2025-11-02", "12:00", "13:00", "Dieppe", "Cumberland Ramblers"),
		practiceItem("2025-11-02", "14:00", "15:00", "Springhill", 3),
		gameItem("2025-11-03", "12:00", "13:00", "Oxford", "Pugwash"),
	}

	once, _ := Normalize(items, venue)

	var roundTrip []grayjay.ScheduleItem
	for _, e := range once {
		roundTrip = append(roundTrip, rawFromEvent(e))
	}
	twice, notes := Normalize(roundTrip, venue)

	assert.Empty(t, notes)
	assert.Equal(t, once, twice)
}

// rawFromEvent rebuilds a feed record from a normalized event so the
// idempotence test can feed the normalizer its own output.
func rawFromEvent(e models.Event) grayjay.ScheduleItem {
	if e.Type == models.Game {
		teams := strings.SplitN(e.Title, " vs ", 2)
		return grayjay.ScheduleItem{
			GameID:        pointer.Int(1),
			GameDate:      pointer.String(e.Date),
			GameStartTime: pointer.String(e.StartTime),
			GameEndTime:   pointer.String(e.EndTime),
			TeamAName:     pointer.String(teams[0]),
			TeamBName:     pointer.String(teams[1]),
			LeagueName:    pointer.String(e.League),
			VenueName:     pointer.String(e.Venue),
		}
	}
	return grayjay.ScheduleItem{
		TeamScheduleDate:      pointer.String(e.Date),
		TeamScheduleStartTime: pointer.String(e.StartTime),
		TeamScheduleEndTime:   pointer.String(e.EndTime),
		TeamScheduleTypeID:    pointer.Int(int(e.Type)),
		TeamName:              pointer.String(e.Title),
		LeagueName:            pointer.String(e.League),
		VenueName:             pointer.String(e.Venue),
	}
}
