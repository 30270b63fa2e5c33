package schedule

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"github.com/gin-gonic/gin"

	timehelper "github.com/ccmha/rink-sync/pkg/timeHelper"
	grayjay "github.com/ccmha/rink-sync/repos/grayjay"
)

type ScheduleService struct {
	firestoreClient *firestore.Client
	firebaseApp     *firebase.App
	grayjayService  *grayjay.Service
	venueFilter     string
	daysAhead       int
}

func NewScheduleService(firestoreClient *firestore.Client, firebaseApp *firebase.App, grayjayService *grayjay.Service, venueFilter string, daysAhead int) *ScheduleService {
	return &ScheduleService{
		firestoreClient: firestoreClient,
		firebaseApp:     firebaseApp,
		grayjayService:  grayjayService,
		venueFilter:     venueFilter,
		daysAhead:       daysAhead,
	}
}

// SyncSchedule refreshes the stored schedule for the monitored venue. Runs
// async; repeated triggers inside 30 seconds are dropped so an eager cron or
// a manual poke cannot stack fetches.
func (s *ScheduleService) SyncSchedule(c *gin.Context) error {
	venueSlug := grayjay.VenueSlug(s.venueFilter)

	t := time.Now()
	now := t.Format(timehelper.TimestampLayout)

	ctx := context.Background()
	lastReq := s.grayjayService.GetLastRequest(ctx, venueSlug)
	if lastReq != "" {
		lastRequestTime, err := time.Parse(timehelper.TimestampLayout, lastReq)
		if err != nil {
			fmt.Println(err)
		} else if diff := t.Sub(lastRequestTime); diff < 30*time.Second {
			log.Printf("Since last req: %s\n", diff)
			c.JSON(http.StatusOK, gin.H{
				"message": fmt.Sprintf("Seconds since last req: %s", diff),
			})
			return nil
		}
	}

	s.grayjayService.SetLastRequest(ctx, venueSlug, now)
	go s.refreshSchedule(ctx, venueSlug, now)

	c.JSON(http.StatusOK, gin.H{
		"message": "Async schedule sync started",
	})
	return nil
}

func (s *ScheduleService) refreshSchedule(ctx context.Context, venueSlug, now string) {
	items, err := s.grayjayService.FetchSchedule(ctx, s.daysAhead)
	if err != nil {
		log.Printf("Schedule fetch failed: %v\n", err)
		return
	}

	events, notes := Normalize(items, s.venueFilter)
	for _, note := range notes {
		log.Printf("normalize: %s\n", note)
	}
	log.Printf("Normalized %d ice times at %s\n", len(events), s.venueFilter)

	s.grayjayService.StoreSchedule(ctx, venueSlug, events)
	s.grayjayService.SetLastSynced(ctx, venueSlug, now)
}
