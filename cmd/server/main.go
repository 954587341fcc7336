package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/localnerve/barrio/internal/config"
	"github.com/localnerve/barrio/internal/database"
	"github.com/localnerve/barrio/internal/mail"
	"github.com/localnerve/barrio/internal/push"
	"github.com/prometheus/client_golang/prometheus"

	_ "github.com/localnerve/barrio/docs/api" // Swagger docs
)

// @title Barrio API
// @version 1.0.0
// @description Neighborhood social network data service: users, posts, products, likes, followers, communities and categories
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/localnerve/barrio
// @contact.email info@localnerve.com

// @license.name AGPL-3.0
// @license.url https://www.gnu.org/licenses/agpl-3.0.html

// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Outbound transports. Without credentials they log instead of delivering.
	var pusher push.Sender = push.LogSender{}
	if cfg.PushEnabled() {
		sender, err := push.NewFirebaseSender(context.Background(), cfg.FirebaseCredentialsFile, cfg.FirebaseProjectID)
		if err != nil {
			log.Fatalf("Failed to initialize Firebase: %v", err)
		}
		pusher = sender
		log.Printf("Push notifications enabled (Firebase)")
	} else {
		log.Printf("Push notifications disabled, logging only")
	}

	var mailer mail.Sender = mail.LogSender{}
	if cfg.MailEnabled() {
		mailer = mail.NewMailjetSender(cfg.MailjetPublicKey, cfg.MailjetPrivateKey, cfg.MailFromEmail, cfg.MailFromName)
		log.Printf("Email enabled (Mailjet)")
	} else {
		log.Printf("Email disabled, logging only")
	}

	app := newApp(cfg, db, pusher, mailer, prometheus.DefaultRegisterer)

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	// Start server
	port := cfg.Port
	log.Printf("Starting server on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	log.Println("Server stopped")
}
