package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/commercialspace/backend/internal/domain/entity"
	"github.com/commercialspace/backend/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type favoriteDocument struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	UserID          string             `bson:"user_id"`
	PropertyID      string             `bson:"property_id"`
	PropertyTitle   string             `bson:"property_title"`
	PropertyAddress string             `bson:"property_address"`
	CreatedAt       time.Time          `bson:"created_at"`
}

func (d *favoriteDocument) toEntity() *entity.Favorite {
	return &entity.Favorite{
		ID:              d.ID.Hex(),
		UserID:          d.UserID,
		PropertyID:      d.PropertyID,
		PropertyTitle:   d.PropertyTitle,
		PropertyAddress: d.PropertyAddress,
		CreatedAt:       d.CreatedAt,
	}
}

type favoriteRepository struct {
	collection *mongo.Collection
}

// NewFavoriteRepository relies on the unique (user_id, property_id) index
// created by EnsureIndexes to keep favorites one-per-pair.
func NewFavoriteRepository(db *mongo.Database) repository.FavoriteRepository {
	return &favoriteRepository{collection: db.Collection(favoritesCollection)}
}

func (r *favoriteRepository) Add(ctx context.Context, favorite *entity.Favorite) (string, error) {
	doc := favoriteDocument{
		UserID:          favorite.UserID,
		PropertyID:      favorite.PropertyID,
		PropertyTitle:   favorite.PropertyTitle,
		PropertyAddress: favorite.PropertyAddress,
		CreatedAt:       favorite.CreatedAt,
	}

	res, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", repository.ErrAlreadyExists
		}
		return "", fmt.Errorf("failed to add favorite: %w", err)
	}

	objectID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to convert inserted ID to ObjectID")
	}
	return objectID.Hex(), nil
}

func (r *favoriteRepository) Remove(ctx context.Context, userID, propertyID string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"user_id": userID, "property_id": propertyID})
	if err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *favoriteRepository) Get(ctx context.Context, userID, propertyID string) (*entity.Favorite, error) {
	var doc favoriteDocument
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID, "property_id": propertyID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get favorite: %w", err)
	}
	return doc.toEntity(), nil
}

func (r *favoriteRepository) ListByUser(ctx context.Context, userID string) ([]entity.Favorite, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites for user %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	var docs []favoriteDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode favorites: %w", err)
	}

	favorites := make([]entity.Favorite, len(docs))
	for i := range docs {
		favorites[i] = *docs[i].toEntity()
	}
	return favorites, nil
}
