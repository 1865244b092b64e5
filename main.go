package main

import (
	"context"
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"fairmeet/config"
	"fairmeet/engine"
	"fairmeet/middleware"
	"fairmeet/repository"
	"fairmeet/routes"
	"fairmeet/worker"
)

func main() {
	// Initialize logger
	logger := log.New(os.Stdout, "FAIRMEET: ", log.Ldate|log.Ltime|log.Lshortfile)

	// Load configuration
	if err := config.LoadConfig(); err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database connection
	if err := config.ConnectDB(); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Create Fiber app
	app := fiber.New()

	// Add CORS middleware
	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:   config.AppConfig.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   middleware.DefaultCORSConfig().AllowedMethods,
		AllowedHeaders:   middleware.DefaultCORSConfig().AllowedHeaders,
		ExposedHeaders:   middleware.DefaultCORSConfig().ExposedHeaders,
		MaxAge:           middleware.DefaultCORSConfig().MaxAge,
	}))

	// Wire the recommendation engine to its storage boundary
	repo := repository.NewTeamRepository(config.DB)
	eng := engine.New(repo, config.EngineConfig(), logrus.StandardLogger())

	// Initialize and start the refresh worker
	refreshWorker := worker.NewRefreshWorker(
		config.DB,
		eng,
		log.New(os.Stdout, "REFRESH: ", log.LstdFlags),
		config.AppConfig.RefreshInterval,
		config.AppConfig.SuggestionMaxAge,
	)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go refreshWorker.Start(ctx)

	// Setup routes
	routes.SetupRoutes(app, config.DB, eng)

	// Health check endpoint
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "running",
			"version": "1.0.0",
		})
	})

	// Start server
	logger.Printf("🚀 Server starting on port %s", config.AppConfig.ServerPort)
	if err := app.Listen(":" + config.AppConfig.ServerPort); err != nil {
		logger.Fatalf("Failed to start server: %v", err)
	}
}
