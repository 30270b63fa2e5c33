package detect

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/xorcare/pointer"

	"github.com/ccmha/rink-sync/pkg/models"
	grayjay "github.com/ccmha/rink-sync/repos/grayjay"
)

type fakeStore struct {
	snapshot models.Snapshot
	putCalls int
}

func (f *fakeStore) GetLatest(ctx context.Context, venueSlug string) (models.Snapshot, error) {
	return f.snapshot, nil
}

func (f *fakeStore) PutLatest(ctx context.Context, venueSlug string, snapshot models.Snapshot) error {
	f.snapshot = snapshot
	f.putCalls++
	return nil
}

type fakeMailer struct {
	recipients []string
	sent       []models.ChangeReport
}

func (f *fakeMailer) SendChangeReport(ctx context.Context, venue string, report models.ChangeReport, recipients []string) error {
	f.sent = append(f.sent, report)
	return nil
}

func (f *fakeMailer) ListSubscribers(ctx context.Context) ([]string, error) {
	return f.recipients, nil
}

type fakeFetcher struct {
	items []grayjay.ScheduleItem
	err   error
}

func (f *fakeFetcher) FetchSchedule(ctx context.Context, daysAhead int) ([]grayjay.ScheduleItem, error) {
	return f.items, f.err
}

func rawGame(date string) grayjay.ScheduleItem {
	return grayjay.ScheduleItem{
		GameID:        pointer.Int(77),
		GameDate:      pointer.String(date),
		GameStartTime: pointer.String("12:00"),
		GameEndTime:   pointer.String("13:00"),
		TeamAName:     pointer.String("Dieppe"),
		TeamBName:     pointer.String("Cumberland Ramblers"),
		LeagueName:    pointer.String("U13 AA"),
		VenueName:     pointer.String("Amherst Stadium"),
	}
}

func TestRunDetectionFirstRunReportsAdded(t *testing.T) {
	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	store := &fakeStore{}
	mailer := &fakeMailer{recipients: []string{"canteen@example.com"}}
	fetcher := &fakeFetcher{items: []grayjay.ScheduleItem{rawGame(tomorrow)}}

	service := NewDetectService(store, mailer, fetcher, "Amherst Stadium", 7)

	report, err := service.RunDetection(context.Background())

	assert.NoError(t, err)
	assert.Len(t, report.Added, 1)
	assert.Empty(t, report.Removed)
	assert.Len(t, mailer.sent, 1)
	assert.Equal(t, 1, store.putCalls)
	assert.Len(t, store.snapshot.Events, 1)
}

func TestRunDetectionNoChangesSendsNothing(t *testing.T) {
	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	store := &fakeStore{}
	mailer := &fakeMailer{recipients: []string{"canteen@example.com"}}
	fetcher := &fakeFetcher{items: []grayjay.ScheduleItem{rawGame(tomorrow)}}

	service := NewDetectService(store, mailer, fetcher, "Amherst Stadium", 7)

	_, err := service.RunDetection(context.Background())
	assert.NoError(t, err)

	report, err := service.RunDetection(context.Background())
	assert.NoError(t, err)

	assert.True(t, report.IsEmpty())
	assert.Len(t, mailer.sent, 1, "second run must not mail")
	assert.Equal(t, 2, store.putCalls, "snapshot still persisted on quiet runs")
}

func TestRunDetectionRemovalReported(t *testing.T) {
	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	store := &fakeStore{}
	mailer := &fakeMailer{recipients: []string{"canteen@example.com"}}
	fetcher := &fakeFetcher{items: []grayjay.ScheduleItem{
		rawGame(tomorrow),
		{
			TeamScheduleDate:      pointer.String(tomorrow),
			TeamScheduleStartTime: pointer.String("18:00"),
			TeamScheduleEndTime:   pointer.String("19:00"),
			TeamScheduleTypeID:    pointer.Int(1),
			TeamName:              pointer.String("Springhill"),
			VenueName:             pointer.String("Amherst Stadium"),
		},
	}}

	service := NewDetectService(store, mailer, fetcher, "Amherst Stadium", 7)

	_, err := service.RunDetection(context.Background())
	assert.NoError(t, err)

	fetcher.items = fetcher.items[:1]
	report, err := service.RunDetection(context.Background())

	assert.NoError(t, err)
	assert.Empty(t, report.Added)
	assert.Len(t, report.Removed, 1)
	assert.Equal(t, "Springhill", report.Removed[0].Title)
	assert.Len(t, mailer.sent, 2)
}

func TestRunDetectionFetchErrorPropagates(t *testing.T) {
	store := &fakeStore{}
	mailer := &fakeMailer{}
	fetcher := &fakeFetcher{err: errors.New("feed down")}

	service := NewDetectService(store, mailer, fetcher, "Amherst Stadium", 7)

	_, err := service.RunDetection(context.Background())

	assert.Error(t, err)
	assert.Zero(t, store.putCalls, "snapshot must not be overwritten on fetch failure")
	assert.Empty(t, mailer.sent)
}
