package router

import (
	"log"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/ripplehq/ripple/backend/internal/chat"
	"github.com/ripplehq/ripple/backend/internal/engagement"
	"github.com/ripplehq/ripple/backend/internal/feed"
	"github.com/ripplehq/ripple/backend/internal/handlers"
	"github.com/ripplehq/ripple/backend/internal/middleware"
	"github.com/ripplehq/ripple/backend/internal/models"
	"github.com/ripplehq/ripple/backend/internal/notify"
	"github.com/ripplehq/ripple/backend/internal/relationship"
	"github.com/ripplehq/ripple/backend/internal/repositories"
	"github.com/ripplehq/ripple/backend/internal/suggestions"
	"github.com/ripplehq/ripple/backend/pkg/storage"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.Logger())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies.
// It returns the chat bridge so main can run its redis subscriber.
func SetupRoutes(
	e *echo.Echo,
	pgdb *gorm.DB,
	mgClient *mongo.Client,
	redisClient *redis.Client,
	firebaseAuthClient *auth.Client,
	uploader *storage.Uploader,
) *chat.Bridge {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.RelationshipEdge{},
		&models.Comment{},
		&models.Like{},
		&models.Notification{},
		&models.Message{},
		&models.Group{},
		&models.GroupMember{},
		&models.GroupMessage{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	relationshipRepo := repositories.NewPostgresRelationshipRepository(pgdb)
	postRepo := repositories.NewMongoPostRepository(mgClient.Database("ripple"))
	reelRepo := repositories.NewMongoReelRepository(mgClient.Database("ripple"))
	commentRepo := repositories.NewPostgresCommentRepository(pgdb)
	likeRepo := repositories.NewPostgresLikeRepository(pgdb)
	notificationRepo := repositories.NewPostgresNotificationRepository(pgdb)
	messageRepo := repositories.NewPostgresMessageRepository(pgdb)

	// --- Initialize Services ---
	lifecycle := relationship.NewService(relationshipRepo)
	feedSvc := feed.NewService(postRepo, relationshipRepo, likeRepo, commentRepo)
	engagementSvc := engagement.NewService(likeRepo, commentRepo, postRepo, reelRepo)
	notifier := notify.NewService(notificationRepo, userRepo, relationshipRepo)
	suggestionSvc := suggestions.NewService(userRepo, relationshipRepo)
	hub := chat.NewHub()
	bridge := chat.NewBridge(redisClient, hub, messageRepo.GetGroupMemberIDs)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, firebaseAuthClient)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware())
	log.Println("JWT authentication middleware applied to /api/v1 group.")

	// User profile routes
	userHandler := handlers.NewUserHandler(userRepo)
	userHandler.RegisterProfileRoutes(api)
	api.GET("/users/search", userHandler.SearchUsers)
	log.Println("User profile routes configured.")

	// Relationship routes
	relationshipHandler := handlers.NewRelationshipHandler(lifecycle, suggestionSvc, notifier, userRepo)
	relationshipHandler.RegisterRelationshipRoutes(api)
	log.Println("Relationship routes configured.")

	// Post routes
	postHandler := handlers.NewPostHandler(postRepo, feedSvc, engagementSvc, notifier)
	postHandler.RegisterPostRoutes(api)
	log.Println("Post routes configured.")

	// Feed routes
	feedHandler := handlers.NewFeedHandler(feedSvc, userRepo)
	feedHandler.RegisterFeedRoutes(api)
	log.Println("Feed routes configured.")

	// Comment routes
	commentHandler := handlers.NewCommentHandler(engagementSvc, commentRepo, postRepo, notifier)
	commentHandler.RegisterCommentRoutes(api)
	log.Println("Comment routes configured.")

	// Like routes
	likeHandler := handlers.NewLikeHandler(engagementSvc, likeRepo, postRepo, notifier)
	likeHandler.RegisterLikeRoutes(api)
	log.Println("Like routes configured.")

	// Notification routes
	notificationHandler := handlers.NewNotificationHandler(notificationRepo, userRepo)
	notificationHandler.RegisterNotificationRoutes(api)
	log.Println("Notification routes configured.")

	// Chat routes
	chatHandler := handlers.NewChatHandler(messageRepo, hub, bridge)
	chatHandler.RegisterChatRoutes(api)
	log.Println("Chat routes configured.")

	// Reel routes
	reelHandler := handlers.NewReelHandler(reelRepo, engagementSvc, userRepo)
	reelHandler.RegisterReelRoutes(api)
	log.Println("Reel routes configured.")

	// Media routes
	if uploader != nil {
		mediaHandler := handlers.NewMediaHandler(uploader)
		mediaHandler.RegisterMediaRoutes(api)
		log.Println("Media routes configured.")
	}

	log.Println("All routes configured.")
	return bridge
}
