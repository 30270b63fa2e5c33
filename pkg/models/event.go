package models

import (
	"fmt"
	"strings"
)

// EventType is the schedule type code used by the league site.
type EventType int

const (
	Practice   EventType = 1
	OffIce     EventType = 2
	Meeting    EventType = 3
	Tournament EventType = 4
	Other      EventType = 5
	Evaluation EventType = 6
	Game       EventType = 7
)

func (t EventType) String() string {
	switch t {
	case Practice:
		return "Practice"
	case OffIce:
		return "Off-Ice Training"
	case Meeting:
		return "Team Meeting"
	case Tournament:
		return "Tournament Game"
	case Other:
		return "Other"
	case Evaluation:
		return "Evaluation"
	case Game:
		return "Game"
	}
	return "Other"
}

// Event is one normalized ice time at the monitored venue. Dates are
// YYYY-MM-DD and times are HH:MM:SS, both kept as strings so comparisons
// between snapshots stay exact.
type Event struct {
	Date      string    `firestore:"Date" json:"date"`
	StartTime string    `firestore:"StartTime" json:"start_time"`
	EndTime   string    `firestore:"EndTime" json:"end_time"`
	Venue     string    `firestore:"Venue" json:"venue"`
	League    string    `firestore:"League" json:"league"`
	Title     string    `firestore:"Title" json:"title"`
	Type      EventType `firestore:"Type" json:"event_type"`
}

// Key identifies the real-world slot this event occupies. The same slot can
// show up as both a game record and a team-schedule record upstream, so the
// key deliberately ignores the type and title.
func (e Event) Key() string {
	return fmt.Sprintf("%s_%s_%s", e.Date, e.StartTime, strings.ToLower(strings.TrimSpace(e.Venue)))
}

// Snapshot is the normalized schedule for the monitoring window as it looked
// at CapturedAt.
type Snapshot struct {
	CapturedAt string  `firestore:"CapturedAt" json:"captured_at"`
	Events     []Event `firestore:"Events" json:"events"`
}

// Modification pairs the previous and current version of one slot together
// with the names of the fields that differ.
type Modification struct {
	Old    Event    `json:"old"`
	New    Event    `json:"new"`
	Fields []string `json:"fields"`
}

// ChangeReport classifies every slot that differs between two snapshots.
type ChangeReport struct {
	Added    []Event        `json:"added"`
	Removed  []Event        `json:"removed"`
	Modified []Modification `json:"modified"`
}

// IsEmpty reports whether nothing changed. An empty report means no
// notification goes out.
func (r ChangeReport) IsEmpty() bool {
	return len(r.Added) == 0 && len(r.Removed) == 0 && len(r.Modified) == 0
}
