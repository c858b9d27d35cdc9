package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/commercialspace/backend/internal/domain/entity"
	"github.com/commercialspace/backend/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type reviewDocument struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	PropertyID string             `bson:"property_id"`
	Reviewer   entity.UserRef     `bson:"reviewer"`
	Rating     int                `bson:"rating"`
	Comment    string             `bson:"comment,omitempty"`
	CreatedAt  time.Time          `bson:"created_at"`
}

func (d *reviewDocument) toEntity() *entity.Review {
	return &entity.Review{
		ID:         d.ID.Hex(),
		PropertyID: d.PropertyID,
		Reviewer:   d.Reviewer,
		Rating:     d.Rating,
		Comment:    d.Comment,
		CreatedAt:  d.CreatedAt,
	}
}

type reviewRepository struct {
	collection *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) repository.ReviewRepository {
	return &reviewRepository{collection: db.Collection(reviewsCollection)}
}

func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) (string, error) {
	doc := reviewDocument{
		PropertyID: review.PropertyID,
		Reviewer:   review.Reviewer,
		Rating:     review.Rating,
		Comment:    review.Comment,
		CreatedAt:  review.CreatedAt,
	}

	res, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("failed to create review: %w", err)
	}

	objectID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to convert inserted ID to ObjectID")
	}
	return objectID.Hex(), nil
}

func (r *reviewRepository) ListByProperty(ctx context.Context, propertyID string) ([]entity.Review, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"property_id": propertyID}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews for property %s: %w", propertyID, err)
	}
	defer cursor.Close(ctx)

	var docs []reviewDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}

	reviews := make([]entity.Review, len(docs))
	for i := range docs {
		reviews[i] = *docs[i].toEntity()
	}
	return reviews, nil
}

func (r *reviewRepository) StatsByProperty(ctx context.Context, propertyID string) (*entity.ReviewStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"property_id": propertyID}}},
		{{Key: "$group", Value: bson.M{
			"_id":    nil,
			"count":  bson.M{"$sum": 1},
			"rating": bson.M{"$avg": "$rating"},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate review stats for property %s: %w", propertyID, err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		Count  int64   `bson:"count"`
		Rating float64 `bson:"rating"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode review stats: %w", err)
	}

	if len(results) == 0 {
		return &entity.ReviewStats{}, nil
	}
	return &entity.ReviewStats{
		Count:         results[0].Count,
		AverageRating: results[0].Rating,
	}, nil
}
