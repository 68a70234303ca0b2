package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"habit-tracking-system/handlers"
	"habit-tracking-system/middleware"
	"habit-tracking-system/models"
	"habit-tracking-system/services"
	"habit-tracking-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{})

	// 🔐 GLOBAL: only Gateway requests allowed — no exceptions
	app.Use(middleware.GatewayAuthMiddleware())

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, Cache-Control, X-User-ID, X-User-Roles, X-Service-Token",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.TrackerUser{},
		&models.HabitTemplate{},
		&models.Trackable{},
		&models.ActivityLog{},
		&models.StreakState{},
		&models.DailyOutcome{},
		&models.PointsLedgerEntry{},
		&models.FollowEdge{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	trackableService := services.NewTrackableService(db)
	scoringService := services.NewScoringService(db, trackableService)
	cohortService := services.NewCohortService(db)
	leaderboardService := services.NewLeaderboardService(db, cohortService)
	socialService := services.NewSocialService(db)

	// Day boundaries follow the service's local calendar.
	if tz := os.Getenv("SERVICE_TIMEZONE"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			log.Fatal("invalid SERVICE_TIMEZONE:", err)
		}
		scoringService.Loc = loc
		leaderboardService.Loc = loc
	}

	if err := trackableService.SeedTemplates(); err != nil {
		log.Fatal("failed to seed habit templates:", err)
	}

	// --- Profile service sync ---
	syncServiceURL := os.Getenv("SYNC_SERVICE_URL")
	if syncServiceURL == "" {
		log.Fatal("SYNC_SERVICE_URL environment variable not set")
	}
	habitServiceToken := os.Getenv("HABIT_SERVICE_TOKEN")
	if habitServiceToken == "" {
		log.Fatal("HABIT_SERVICE_TOKEN environment variable not set")
	}

	syncWorker := workers.NewTrackerUserSyncWorker(db, syncServiceURL, "/api/v1/public/profiles", habitServiceToken)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Println("Starting Tracker User Sync Worker...")
		syncWorker.Start(ctx)
	}()

	scoringService.StartNightlySweep()

	// ✅ Setup routes — enforced Gateway auth + consistent /s/ prefix
	handlers.SetupActivityRoutes(app, scoringService, trackableService)
	handlers.SetupLeaderboardRoutes(app, leaderboardService)
	handlers.SetupSocialRoutes(app, socialService)

	go func() {
		if err := app.Listen(":5300"); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Println("✅ Server running on http://localhost:5300")
	log.Println("✅ Tracker User Sync Worker running")
	log.Println("✅ Nightly streak sweep scheduled (00:10)")
	log.Println("✅ GatewayAuthMiddleware enforced globally — all requests must come from Gateway")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
}
