package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"strings"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"google.golang.org/api/option"

	grayjay "github.com/ccmha/rink-sync/repos/grayjay"
	resend "github.com/ccmha/rink-sync/repos/resend"
	snapshots "github.com/ccmha/rink-sync/repos/snapshots"

	auth "github.com/ccmha/rink-sync/pkg/auth"

	admin "github.com/ccmha/rink-sync/services/admin"
	detect "github.com/ccmha/rink-sync/services/detect"
	schedule "github.com/ccmha/rink-sync/services/schedule"
)

func main() {
	ctx := context.Background()

	projectID := os.Getenv("FIREBASE_PROJECT_ID")
	credentialsJSON := os.Getenv("FIREBASE_CREDENTIALS_JSON")
	port := os.Getenv("PORT")
	allowOrigins := os.Getenv("CORS_HOSTS")
	hostURL := os.Getenv("HOST_URL")

	venueFilter := os.Getenv("VENUE_FILTER")
	if venueFilter == "" {
		venueFilter = "Amherst Stadium"
	}
	daysAhead := envInt("DAYS_AHEAD", 14)
	monitorDays := envInt("CHANGE_MONITOR_DAYS", 7)

	credentialsOption := option.WithCredentialsJSON([]byte(credentialsJSON))

	firestoreClient, err := firestore.NewClient(ctx, projectID, credentialsOption)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	firebaseApp, err := firebase.NewApp(ctx, nil, credentialsOption)
	if err != nil {
		log.Fatalf("error initializing app: %v\n", err)
	}

	grayjayService := grayjay.NewService(firestoreClient)
	resendService := resend.NewService(firestoreClient, hostURL)
	snapshotService := snapshots.NewService(firestoreClient)

	adminService := admin.NewAdminService(firestoreClient, firebaseApp, resendService)
	scheduleService := schedule.NewScheduleService(firestoreClient, firebaseApp, grayjayService, venueFilter, daysAhead)
	detectService := detect.NewDetectService(snapshotService, resendService, grayjayService, venueFilter, monitorDays)

	router := gin.Default()

	if allowOrigins != "" {
		config := cors.DefaultConfig()
		config.AllowOrigins = strings.Split(allowOrigins, ",")
		config.AllowCredentials = true
		config.AllowMethods = []string{"GET", "POST", "OPTIONS"}
		config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Access-Control-Allow-Origin"}
		router.Use(cors.New(config))
	}

	adminRouter := router.Group("/admin/v1")
	adminRouter.Use(auth.AuthMiddleware(firebaseApp)) // Apply the middleware here

	subscribeRouter := router.Group("/subscribe/v1")

	syncRouter := router.Group("/sync/v1")

	admin.NewHTTPHandler(admin.HTTPOptions{
		Service: adminService,
		Router:  adminRouter,
		Public:  subscribeRouter,
	})

	schedule.NewHTTPHandler(schedule.HTTPOptions{
		Service: scheduleService,
		Router:  syncRouter,
	})

	detect.NewHTTPHandler(detect.HTTPOptions{
		Service: detectService,
		Router:  syncRouter,
	})

	log.Fatal(router.Run(":" + port))
}

func envInt(name string, fallback int) int {
	value := os.Getenv(name)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid %s=%q, using %d\n", name, value, fallback)
		return fallback
	}
	return n
}
