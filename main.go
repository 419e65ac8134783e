package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/simonolocco/bot-wasap/internal/routes"
	"github.com/simonolocco/bot-wasap/internal/services"
	"github.com/simonolocco/bot-wasap/internal/storage"
)

func main() {
	// Load .env file for local development
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found - checking environment variables")
	}

	if os.Getenv("META_VERIFY_TOKEN") == "" {
		log.Fatal("❌ META_VERIFY_TOKEN is required to verify the webhook subscription")
	}

	// Initialize storage
	var store storage.Store
	if os.Getenv("USE_MEMORY_STORE") == "true" {
		log.Println("⚠️  Using in-memory storage (not for production!)")
		store = storage.NewMemoryStore()
	} else {
		dataDir := os.Getenv("DATA_DIR")
		if dataDir == "" {
			dataDir = "data"
		}
		fileStore, err := storage.NewFileStore(dataDir)
		if err != nil {
			log.Fatal("Failed to initialize file storage:", err)
		}
		store = fileStore
		log.Printf("✅ Using JSON file storage at %s", dataDir)
	}

	// Initialize WhatsApp Cloud API service
	messenger, err := services.NewCloudService()
	if err != nil {
		log.Printf("⚠️  WhatsApp Cloud credentials not found - outbound sends will fail: %v", err)
	} else {
		log.Println("✅ WhatsApp Cloud service initialized")
	}

	// Initialize bot service
	cfg := services.LoadBotConfig()
	sessions := services.NewSessionRegistry()
	bot := services.NewBotService(store, messenger, sessions, cfg)
	log.Printf("✅ Bot service initialized for %s", cfg.DistributorName)

	// Create fiber app
	app := fiber.New(fiber.Config{
		AppName: "AbastoBot Backend v1.0.0",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	routes.SetupRoutes(app, store, bot, messenger)

	// Get port from environment or use default
	port := os.Getenv("CLOUD_PORT")
	if port == "" {
		port = "4002"
	}

	// Handle graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("\n🛑 Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	log.Println("========================================")
	log.Printf("🚀 %s starting on port %s", cfg.BotFriendlyName, port)
	log.Printf("📊 Storage: %s", storageType())
	log.Printf("📱 WhatsApp: %s", whatsappStatus(messenger))
	log.Println("========================================")

	log.Fatal(app.Listen(":" + port))
}

func storageType() string {
	if os.Getenv("USE_MEMORY_STORE") == "true" {
		return "In-Memory (Testing)"
	}
	return "JSON File"
}

func whatsappStatus(messenger *services.CloudService) string {
	if !messenger.Configured() {
		return "Not configured"
	}
	return "Configured"
}
