package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"transportconnect/internal/adapters/http/middleware"
	"transportconnect/internal/adapters/http/routes"
	"transportconnect/internal/adapters/messaging"
	"transportconnect/internal/adapters/persistence/models"
	"transportconnect/internal/adapters/ws"
	"transportconnect/internal/config"
	"transportconnect/internal/pkg/mailer"

	"github.com/gofiber/fiber/v2"

	_ "transportconnect/docs" // Swagger docs
)

// @title TransportConnect API
// @version 1.0
// @description Freight marketplace connecting carriers and shippers
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@transportconnect.io

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host api.transportconnect.io
// @BasePath /api/v1
// @schemes https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Seed the initial admin account
	if err := config.NewSeeder(db).Run(); err != nil {
		log.Printf("⚠️ Warning: Failed to seed database: %v", err)
	}

	// Outbound mail (disabled when SMTP_HOST is unset)
	m := mailer.New(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)
	if !m.Enabled() {
		log.Println("⚠️ SMTP_HOST not set — email notifications disabled")
	}

	// Event broker (disabled when AMQP_URL is unset). A broker outage
	// must not keep the API down.
	var publisher *messaging.Publisher
	if cfg.AMQP.URL != "" {
		publisher, err = messaging.NewPublisher(cfg.AMQP.URL)
		if err != nil {
			log.Printf("⚠️ Warning: Failed to connect to broker: %v — event publishing disabled", err)
			publisher = nil
		} else {
			defer publisher.Close()
			log.Println("✅ Connected to event broker")
		}
	} else {
		log.Println("⚠️ AMQP_URL not set — event publishing disabled")
	}

	// Websocket hub for live notifications and chat
	hub := ws.NewHub()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "TransportConnect API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (pass db and cfg for dependency injection)
	routes.Setup(app, db, cfg, hub, publisher, m)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
