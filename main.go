package main

import (
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"videochat-api/config"
	"videochat-api/database"
	"videochat-api/jobs"
	"videochat-api/logger"
	"videochat-api/middleware"
	"videochat-api/routes"
	"videochat-api/services"
)

func main() {
	// Load .env if present, then configuration from the environment
	_ = godotenv.Load()
	logger.Init()
	log := logger.WithComponent("main")

	cfg := config.Load()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	// Install default mail templates on a fresh instance
	if err := database.SeedTemplates(db); err != nil {
		log.Warn().Err(err).Msg("failed to seed mail templates")
	}

	mailer := services.NewSMTPMailer(cfg)
	notifications := services.NewNotificationService(cfg, db, mailer)

	// "cron" runs the lifecycle passes once and exits, for an external
	// scheduler. Exit code 0 regardless of how many events were processed,
	// non-zero only on store failure.
	if len(os.Args) > 1 && os.Args[1] == "cron" {
		job := jobs.NewEventLifecycleJob(db, notifications, 0)
		if err := job.RunOnce(time.Now()); err != nil {
			log.Error().Err(err).Msg("lifecycle pass failed")
			os.Exit(1)
		}
		return
	}

	// In-process periodic runner for deployments without an external cron
	lifecycle := jobs.NewEventLifecycleJob(db, notifications, 5*time.Minute)
	lifecycle.Start()
	defer lifecycle.Stop()

	// Set Gin mode based on environment
	if cfg.Port == "8080" { // Development
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestLogger())

	routes.SetupRoutes(router, db, cfg, notifications)

	log.Info().Str("port", cfg.Port).Msg("starting video chat API server")
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}
