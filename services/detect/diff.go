package detect

import (
	"sort"

	"github.com/ccmha/rink-sync/pkg/models"
)

// Diff classifies every slot in two snapshots as added, removed, or
// modified. Slots are matched on the (date, start time, venue) identity key;
// the normalizer guarantees the key is unique within each snapshot. An empty
// report means no notification is due.
func Diff(previous, current models.Snapshot) models.ChangeReport {
	prevByKey := indexByKey(previous.Events)
	curByKey := indexByKey(current.Events)

	var report models.ChangeReport

	for key, event := range curByKey {
		if _, ok := prevByKey[key]; !ok {
			report.Added = append(report.Added, event)
		}
	}
	for key, event := range prevByKey {
		if _, ok := curByKey[key]; !ok {
			report.Removed = append(report.Removed, event)
		}
	}
	for key, event := range curByKey {
		old, ok := prevByKey[key]
		if !ok {
			continue
		}
		fields := changedFields(old, event)
		if len(fields) > 0 {
			report.Modified = append(report.Modified, models.Modification{
				Old:    old,
				New:    event,
				Fields: fields,
			})
		}
	}

	sortEvents(report.Added)
	sortEvents(report.Removed)
	sort.Slice(report.Modified, func(i, j int) bool {
		a, b := report.Modified[i].New, report.Modified[j].New
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		return a.StartTime < b.StartTime
	})

	return report
}

// changedFields compares the fields outside the identity key. Venue is part
// of the key only case-insensitively, so a casing correction upstream still
// shows up here.
func changedFields(old, cur models.Event) []string {
	var fields []string
	if old.Title != cur.Title {
		fields = append(fields, "title")
	}
	if old.EndTime != cur.EndTime {
		fields = append(fields, "end_time")
	}
	if old.Type != cur.Type {
		fields = append(fields, "event_type")
	}
	if old.Venue != cur.Venue {
		fields = append(fields, "venue")
	}
	return fields
}

func indexByKey(events []models.Event) map[string]models.Event {
	byKey := make(map[string]models.Event, len(events))
	for _, e := range events {
		byKey[e.Key()] = e
	}
	return byKey
}

func sortEvents(events []models.Event) {
	sort.Slice(events, func(i, j int) bool {
		if events[i].Date != events[j].Date {
			return events[i].Date < events[j].Date
		}
		return events[i].StartTime < events[j].StartTime
	})
}
