package main

import (
	"log"
	"time"

	"korsify/backend/config"
	"korsify/backend/middleware"
	"korsify/backend/routes"
	"korsify/backend/store"
	"korsify/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	// Load configuration
	secrets := config.NewSecretsCache(config.EnvSecretSource, 5*time.Minute)
	cfg, err := config.LoadConfig(secrets)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Initialize database
	db, err := utils.InitDB(cfg)
	if err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}

	// Initialize logger
	logger := utils.InitLogger()

	s := store.New(db)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit: 60 << 20, // загрузка документов до 50 MB плюс запас
	})

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.LoggingMiddleware(logger))

	// Setup routes
	routes.SetupRoutes(app, s, cfg, logger)

	// Start server
	log.Fatal(app.Listen(":" + cfg.ServerPort))
}
