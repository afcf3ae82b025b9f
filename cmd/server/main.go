package main

import (
	"context"
	"log"

	"github.com/labstack/echo/v4"
	"github.com/ripplehq/ripple/backend/internal/router"
	"github.com/ripplehq/ripple/backend/pkg/config"
	"github.com/ripplehq/ripple/backend/pkg/firebase"
	"github.com/ripplehq/ripple/backend/pkg/storage"
	"github.com/ripplehq/ripple/backend/validators"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connections
	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB() // Ensure database connections are closed when main exits

	// Initialize Firebase
	ctx := context.Background()
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath, cfg.FirebaseStorageBucket)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	var uploader *storage.Uploader
	if cfg.FirebaseStorageBucket != "" {
		uploader = storage.NewUploader(firebaseApp.Bucket, cfg.FirebaseStorageBucket)
	}

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	bridge := router.SetupRoutes(e, db.Postgres, db.Mongo, db.Redis, firebaseApp.AuthClient, uploader)

	// Run the chat bridge subscriber for realtime delivery
	bridgeCtx, cancelBridge := context.WithCancel(ctx)
	defer cancelBridge()
	go func() {
		if err := bridge.Run(bridgeCtx); err != nil && err != context.Canceled {
			log.Printf("chat bridge stopped: %v", err)
		}
	}()

	// Validator
	e.Validator = validators.NewValidator()

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
