package detect

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"github.com/ccmha/rink-sync/pkg/models"
	timehelper "github.com/ccmha/rink-sync/pkg/timeHelper"
	grayjay "github.com/ccmha/rink-sync/repos/grayjay"
	"github.com/ccmha/rink-sync/services/schedule"
)

// SnapshotStore holds the snapshot from the previous detection run.
type SnapshotStore interface {
	GetLatest(ctx context.Context, venueSlug string) (models.Snapshot, error)
	PutLatest(ctx context.Context, venueSlug string, snapshot models.Snapshot) error
}

// Mailer delivers change reports and knows who gets them.
type Mailer interface {
	SendChangeReport(ctx context.Context, venue string, report models.ChangeReport, recipients []string) error
	ListSubscribers(ctx context.Context) ([]string, error)
}

// Fetcher pulls the raw schedule from the league feed.
type Fetcher interface {
	FetchSchedule(ctx context.Context, daysAhead int) ([]grayjay.ScheduleItem, error)
}

type DetectService struct {
	store              SnapshotStore
	mailer             Mailer
	fetcher            Fetcher
	venueFilter        string
	windowDays         int
	fallbackRecipients []string
}

func NewDetectService(store SnapshotStore, mailer Mailer, fetcher Fetcher, venueFilter string, windowDays int) *DetectService {
	var fallback []string
	for _, email := range strings.Split(os.Getenv("RECIPIENT_EMAILS"), ",") {
		if email = strings.TrimSpace(email); email != "" {
			fallback = append(fallback, email)
		}
	}
	return &DetectService{
		store:              store,
		mailer:             mailer,
		fetcher:            fetcher,
		venueFilter:        venueFilter,
		windowDays:         windowDays,
		fallbackRecipients: fallback,
	}
}

// RunDetection performs one detection pass: fetch and normalize the current
// schedule, scope both it and the stored snapshot to the monitoring window,
// diff them, mail subscribers when anything changed, and persist the new
// snapshot. A first run has no stored snapshot and reports everything as
// added. The empty report is the expected common case and sends nothing.
func (s *DetectService) RunDetection(ctx context.Context) (models.ChangeReport, error) {
	items, err := s.fetcher.FetchSchedule(ctx, s.windowDays)
	if err != nil {
		return models.ChangeReport{}, err
	}

	events, notes := schedule.Normalize(items, s.venueFilter)
	for _, note := range notes {
		log.Printf("normalize: %s\n", note)
	}

	now := time.Now()
	current := models.Snapshot{
		CapturedAt: now.Format(timehelper.TimestampLayout),
		Events:     timehelper.FilterWindow(events, now, s.windowDays),
	}

	venueSlug := grayjay.VenueSlug(s.venueFilter)
	previous, err := s.store.GetLatest(ctx, venueSlug)
	if err != nil {
		return models.ChangeReport{}, err
	}
	// Drop slots that aged out of the window since the last run, so natural
	// expiry never reads as a removal.
	previous.Events = timehelper.FilterWindow(previous.Events, now, s.windowDays)

	report := Diff(previous, current)

	if report.IsEmpty() {
		log.Printf("No changes detected at %s\n", s.venueFilter)
	} else {
		log.Printf("Changes detected at %s: %d added, %d removed, %d modified\n",
			s.venueFilter, len(report.Added), len(report.Removed), len(report.Modified))

		recipients, err := s.mailer.ListSubscribers(ctx)
		if err != nil {
			log.Printf("Failed to list subscribers: %v\n", err)
		}
		if len(recipients) == 0 {
			recipients = s.fallbackRecipients
		}
		if len(recipients) == 0 {
			log.Printf("No recipients configured, skipping notification\n")
		} else if err := s.mailer.SendChangeReport(ctx, s.venueFilter, report, recipients); err != nil {
			return report, err
		}
	}

	if err := s.store.PutLatest(ctx, venueSlug, current); err != nil {
		return report, err
	}

	return report, nil
}
