package main

import (
	"context"
	"log"
	"os"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"

	"agencydesk/config"
	controller "agencydesk/controllers"
	"agencydesk/middleware"
	"agencydesk/routes"
	"agencydesk/utils"
	"agencydesk/worker"
)

func main() {
	// Initialize logger
	logger := log.New(os.Stdout, "AGENCYDESK: ", log.Ldate|log.Ltime|log.Lshortfile)

	// Load configuration
	if err := config.LoadConfig(); err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Sentry when a DSN is configured
	if dsn := config.AppConfig.SentryDSN; dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         dsn,
			Environment: config.AppConfig.Environment,
		}); err != nil {
			logger.Printf("Sentry initialization failed: %v", err)
		}
	}

	// Initialize database connection
	if err := config.ConnectDB(); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Initialize Stripe
	utils.InitStripe()

	// Create Fiber app
	app := fiber.New()

	// Add CORS middleware
	app.Use(middleware.CORS())

	// Shared hub between the dashboard websocket and the sync worker
	hub := controller.NewHub()

	// Initialize and start the metrics sync worker
	metricsWorker := worker.NewMetricsWorker(config.DB, utils.NewFacebookClient(), hub,
		log.New(os.Stdout, "METRICS: ", log.LstdFlags))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go metricsWorker.Start(ctx)

	// Setup routes
	routes.SetupRoutes(app, config.DB, hub)

	// Start server
	logger.Printf("Server starting on port %s", config.AppConfig.ServerPort)
	if err := app.Listen(":" + config.AppConfig.ServerPort); err != nil {
		logger.Fatalf("Failed to start server: %v", err)
	}
}
