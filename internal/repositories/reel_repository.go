package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/ripplehq/ripple/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ReelRepository defines the interface for reel data operations
type ReelRepository interface {
	CreateReel(ctx context.Context, reel *models.Reel) error
	GetReelByID(ctx context.Context, id string) (*models.Reel, error)
	GetReels(ctx context.Context, skip, limit int64) ([]models.Reel, error)
	GetReelsByAuthorID(ctx context.Context, authorID uint) ([]models.Reel, error)
	DeleteReel(ctx context.Context, id string) error
	IncrementViewsCount(ctx context.Context, reelID string) error
	AdjustLikesCount(ctx context.Context, reelID string, delta int) error
}

// MongoReelRepository implements ReelRepository for MongoDB
type MongoReelRepository struct {
	collection *mongo.Collection
}

// NewMongoReelRepository creates a new MongoReelRepository
func NewMongoReelRepository(db *mongo.Database) *MongoReelRepository {
	return &MongoReelRepository{collection: db.Collection("reels")}
}

// CreateReel creates a new reel in MongoDB
func (r *MongoReelRepository) CreateReel(ctx context.Context, reel *models.Reel) error {
	reel.ID = primitive.NewObjectID()
	reel.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, reel)
	return err
}

// GetReelByID retrieves a reel by ID from MongoDB
func (r *MongoReelRepository) GetReelByID(ctx context.Context, id string) (*models.Reel, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid reel ID format: %w", err)
	}

	var reel models.Reel
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&reel)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("reel not found")
		}
		return nil, err
	}
	return &reel, nil
}

// GetReels retrieves reels newest first with pagination
func (r *MongoReelRepository) GetReels(ctx context.Context, skip, limit int64) ([]models.Reel, error) {
	var reels []models.Reel
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.D{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &reels); err != nil {
		return nil, err
	}
	return reels, nil
}

// GetReelsByAuthorID retrieves reels by a specific author
func (r *MongoReelRepository) GetReelsByAuthorID(ctx context.Context, authorID uint) ([]models.Reel, error) {
	var reels []models.Reel
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"author_id": authorID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &reels); err != nil {
		return nil, err
	}
	return reels, nil
}

// DeleteReel deletes a reel by ID from MongoDB
func (r *MongoReelRepository) DeleteReel(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid reel ID format: %w", err)
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("reel not found")
	}
	return nil
}

// IncrementViewsCount bumps the view counter for a reel
func (r *MongoReelRepository) IncrementViewsCount(ctx context.Context, reelID string) error {
	return r.adjustCounter(ctx, reelID, "views_count", 1)
}

// AdjustLikesCount shifts the likes counter by delta
func (r *MongoReelRepository) AdjustLikesCount(ctx context.Context, reelID string, delta int) error {
	return r.adjustCounter(ctx, reelID, "likes_count", delta)
}

func (r *MongoReelRepository) adjustCounter(ctx context.Context, reelID, field string, delta int) error {
	objID, err := primitive.ObjectIDFromHex(reelID)
	if err != nil {
		return fmt.Errorf("invalid reel ID format: %w", err)
	}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$inc": bson.M{field: delta}})
	return err
}
