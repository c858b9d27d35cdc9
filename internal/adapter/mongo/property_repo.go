package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/commercialspace/backend/internal/domain/entity"
	"github.com/commercialspace/backend/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type propertyDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description,omitempty"`
	Price       float64            `bson:"price"`
	Address     string             `bson:"address"`
	City        string             `bson:"city"`
	State       string             `bson:"state"`
	Country     string             `bson:"country"`
	Type        string             `bson:"type"`
	Area        int                `bson:"area"`
	Latitude    *float64           `bson:"latitude,omitempty"`
	Longitude   *float64           `bson:"longitude,omitempty"`
	Verified    bool               `bson:"verified"`
	PhotoURL    string             `bson:"photo_url,omitempty"`
	Owner       entity.UserRef     `bson:"owner"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (d *propertyDocument) toEntity() *entity.Property {
	return &entity.Property{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Price:       d.Price,
		Address:     d.Address,
		City:        d.City,
		State:       d.State,
		Country:     d.Country,
		Type:        entity.PropertyType(d.Type),
		Area:        d.Area,
		Latitude:    d.Latitude,
		Longitude:   d.Longitude,
		Verified:    d.Verified,
		PhotoURL:    d.PhotoURL,
		Owner:       d.Owner,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func toPropertyDocument(p *entity.Property) propertyDocument {
	return propertyDocument{
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price,
		Address:     p.Address,
		City:        p.City,
		State:       p.State,
		Country:     p.Country,
		Type:        string(p.Type),
		Area:        p.Area,
		Latitude:    p.Latitude,
		Longitude:   p.Longitude,
		Verified:    p.Verified,
		PhotoURL:    p.PhotoURL,
		Owner:       p.Owner,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

type propertyRepository struct {
	collection *mongo.Collection
}

func NewPropertyRepository(db *mongo.Database) repository.PropertyRepository {
	return &propertyRepository{collection: db.Collection(propertiesCollection)}
}

func (r *propertyRepository) Create(ctx context.Context, property *entity.Property) (string, error) {
	res, err := r.collection.InsertOne(ctx, toPropertyDocument(property))
	if err != nil {
		return "", fmt.Errorf("failed to create property: %w", err)
	}

	objectID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to convert inserted ID to ObjectID")
	}
	return objectID.Hex(), nil
}

func (r *propertyRepository) GetByID(ctx context.Context, id string) (*entity.Property, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid property ID format: %w", repository.ErrNotFound)
	}

	var doc propertyDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get property by ID %s: %w", id, err)
	}
	return doc.toEntity(), nil
}

func (r *propertyRepository) Find(ctx context.Context, filter repository.PropertyFilter) ([]entity.Property, error) {
	query := bson.M{}
	if filter.VerifiedOnly {
		query["verified"] = true
	}
	if filter.OwnerID != "" {
		query["owner.id"] = filter.OwnerID
	}
	if filter.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"address": pattern},
			bson.M{"city": pattern},
			bson.M{"state": pattern},
			bson.M{"country": pattern},
		}
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to find properties: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []propertyDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode properties: %w", err)
	}

	properties := make([]entity.Property, len(docs))
	for i := range docs {
		properties[i] = *docs[i].toEntity()
	}
	return properties, nil
}

func (r *propertyRepository) Update(ctx context.Context, property *entity.Property) error {
	objID, err := primitive.ObjectIDFromHex(property.ID)
	if err != nil {
		return fmt.Errorf("invalid property ID format: %w", repository.ErrUpdateFailed)
	}

	update := bson.M{"$set": bson.M{
		"title":       property.Title,
		"description": property.Description,
		"price":       property.Price,
		"address":     property.Address,
		"city":        property.City,
		"state":       property.State,
		"country":     property.Country,
		"type":        string(property.Type),
		"area":        property.Area,
		"latitude":    property.Latitude,
		"longitude":   property.Longitude,
		"updated_at":  time.Now().UTC(),
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return fmt.Errorf("failed to update property %s: %w", property.ID, err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *propertyRepository) SetVerified(ctx context.Context, id string, verified bool) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid property ID format: %w", repository.ErrUpdateFailed)
	}

	update := bson.M{"$set": bson.M{
		"verified":   verified,
		"updated_at": time.Now().UTC(),
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return fmt.Errorf("failed to set verified flag on property %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *propertyRepository) SetPhotoURL(ctx context.Context, id, photoURL string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid property ID format: %w", repository.ErrUpdateFailed)
	}

	update := bson.M{"$set": bson.M{
		"photo_url":  photoURL,
		"updated_at": time.Now().UTC(),
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return fmt.Errorf("failed to set photo URL on property %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
