package grayjay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/ccmha/rink-sync/pkg/models"
	timehelper "github.com/ccmha/rink-sync/pkg/timeHelper"
)

const defaultBaseURL = "https://ccmha.grayjayleagues.com"

// ErrNoSchedule means the feed answered but carried no schedule items at
// all. The caller decides on retry policy.
var ErrNoSchedule = errors.New("schedule feed returned no items")

// Service is the client for the league's master schedule feed and the
// Firestore documents that mirror it.
type Service struct {
	Client  *firestore.Client
	BaseURL string
}

// NewService creates a new schedule feed client.
func NewService(client *firestore.Client) *Service {
	baseURL := os.Getenv("GRAYJAY_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Service{
		Client:  client,
		BaseURL: baseURL,
	}
}

// VenueSlug turns a venue filter string into the Firestore document id used
// for that venue's sync state and snapshot.
func VenueSlug(venue string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(venue)), " ", "-")
}

// FetchSchedule pulls every schedule type from the master schedule endpoint
// and returns the items dated from today through daysAhead days out.
func (s Service) FetchSchedule(ctx context.Context, daysAhead int) ([]ScheduleItem, error) {
	apiURL := fmt.Sprintf(
		"%s/api/teams/frontendMasterSchedule/?true=1&team_id=0&league_id=0&schedule_types=7,1,2,3,4,6,5&season_id=0&show_past=0",
		s.BaseURL)

	httpClient := &http.Client{Timeout: 30 * time.Second}

	req, err := http.NewRequestWithContext(ctx, "GET", apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36")

	response, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("schedule API request failed: %w", err)
	}
	defer response.Body.Close()

	var apiResponse ScheduleResponse
	if err := json.NewDecoder(response.Body).Decode(&apiResponse); err != nil {
		return nil, fmt.Errorf("failed to parse schedule API response: %w", err)
	}

	if apiResponse.Status != "success" {
		return nil, fmt.Errorf("schedule API returned status %q", apiResponse.Status)
	}
	if len(apiResponse.Data) == 0 {
		return nil, ErrNoSchedule
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := today.AddDate(0, 0, daysAhead)

	var filtered []ScheduleItem
	for _, item := range apiResponse.Data {
		dateStr := stringValue(item.GameDate)
		if dateStr == "" {
			dateStr = stringValue(item.TeamScheduleDate)
		}
		if dateStr == "" {
			continue
		}
		d, err := time.ParseInLocation(timehelper.DateLayout, dateStr, now.Location())
		if err != nil {
			log.Printf("Could not parse date %q from schedule feed\n", dateStr)
			continue
		}
		if !d.Before(today) && !d.After(end) {
			filtered = append(filtered, item)
		}
	}
	log.Printf("Schedule feed returned %d items, %d within the next %d days\n",
		len(apiResponse.Data), len(filtered), daysAhead)

	return filtered, nil
}

// StoreSchedule mirrors the normalized schedule under the venue document,
// one document per slot, overwriting whatever was there for that slot.
func (s Service) StoreSchedule(ctx context.Context, venueSlug string, events []models.Event) {
	var wg sync.WaitGroup

	eventCh := make(chan models.Event)

	for _, event := range events {
		wg.Add(1)
		go s.processEvent(ctx, venueSlug, event, eventCh, &wg)
	}

	go func() {
		wg.Wait()
		close(eventCh)
	}()

	stored := 0
	for range eventCh {
		stored++
	}
	log.Printf("Stored %d of %d ice times for %s\n", stored, len(events), venueSlug)
}

func (s Service) processEvent(ctx context.Context, venueSlug string, event models.Event, eventCh chan<- models.Event, wg *sync.WaitGroup) {
	defer wg.Done()

	_, err := s.Client.Collection("Venues").Doc(venueSlug).Collection("IceTimes").Doc(event.Key()).Set(ctx, event)
	if err != nil {
		log.Printf("Failed to write ice time to Firestore: %v\n", err)
		return
	}

	eventCh <- event
}

func (s Service) GetLastSynced(ctx context.Context, venueSlug string) string {
	return s.getVenueField(ctx, venueSlug, "LastSynced")
}

func (s Service) GetLastRequest(ctx context.Context, venueSlug string) string {
	return s.getVenueField(ctx, venueSlug, "LastRequest")
}

func (s Service) getVenueField(ctx context.Context, venueSlug, field string) string {
	doc, _ := s.Client.Collection("Venues").Doc(venueSlug).Get(ctx)
	if !doc.Exists() {
		return ""
	}

	fieldValue, ok := doc.Data()[field]
	if !ok {
		return ""
	}

	fieldValueStr, ok := fieldValue.(string)
	if !ok {
		log.Printf("Failed to convert field %s to string.\n", field)
		return ""
	}

	return fieldValueStr
}

func (s Service) SetLastSynced(ctx context.Context, venueSlug string, lastSynced string) error {
	return s.setVenueField(ctx, venueSlug, "LastSynced", lastSynced)
}

func (s Service) SetLastRequest(ctx context.Context, venueSlug string, lastRequest string) error {
	return s.setVenueField(ctx, venueSlug, "LastRequest", lastRequest)
}

func (s Service) setVenueField(ctx context.Context, venueSlug, field, value string) error {
	_, err := s.Client.Collection("Venues").Doc(venueSlug).Set(ctx, map[string]interface{}{
		field: value,
	}, firestore.MergeAll)
	if err != nil {
		log.Printf("Failed to update venue %s field %s: %v\n", venueSlug, field, err)
		return err
	}
	return nil
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
