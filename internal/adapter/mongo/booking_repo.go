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

type bookingDocument struct {
	ID        primitive.ObjectID      `bson:"_id,omitempty"`
	Property  entity.PropertySnapshot `bson:"property"`
	Customer  entity.UserRef          `bson:"customer"`
	Owner     entity.UserRef          `bson:"owner"`
	StartDate time.Time               `bson:"start_date"`
	EndDate   time.Time               `bson:"end_date"`
	Status    string                  `bson:"status"`
	CreatedAt time.Time               `bson:"created_at"`
	UpdatedAt time.Time               `bson:"updated_at"`
}

func (d *bookingDocument) toEntity() *entity.Booking {
	return &entity.Booking{
		ID:        d.ID.Hex(),
		Property:  d.Property,
		Customer:  d.Customer,
		Owner:     d.Owner,
		StartDate: d.StartDate,
		EndDate:   d.EndDate,
		Status:    entity.BookingStatus(d.Status),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type bookingRepository struct {
	collection *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) repository.BookingRepository {
	return &bookingRepository{collection: db.Collection(bookingsCollection)}
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) (string, error) {
	doc := bookingDocument{
		Property:  booking.Property,
		Customer:  booking.Customer,
		Owner:     booking.Owner,
		StartDate: booking.StartDate,
		EndDate:   booking.EndDate,
		Status:    string(booking.Status),
		CreatedAt: booking.CreatedAt,
		UpdatedAt: booking.UpdatedAt,
	}

	res, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("failed to create booking: %w", err)
	}

	objectID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to convert inserted ID to ObjectID")
	}
	return objectID.Hex(), nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*entity.Booking, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid booking ID format: %w", repository.ErrNotFound)
	}

	var doc bookingDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get booking by ID %s: %w", id, err)
	}
	return doc.toEntity(), nil
}

// TransitionStatus applies the PENDING -> terminal transition with a
// compare-and-set on the stored status. Concurrent accept/reject calls on
// the same booking race on this filter; exactly one matches, the other gets
// ErrStatusConflict.
func (r *bookingRepository) TransitionStatus(ctx context.Context, params repository.TransitionBookingParams) error {
	objID, err := primitive.ObjectIDFromHex(params.BookingID)
	if err != nil {
		return fmt.Errorf("invalid booking ID format: %w", repository.ErrUpdateFailed)
	}
	if !params.NewStatus.IsTerminal() {
		return fmt.Errorf("transition target must be terminal, got %s: %w", params.NewStatus, repository.ErrUpdateFailed)
	}

	filter := bson.M{
		"_id":    objID,
		"status": string(entity.BookingPending),
	}
	update := bson.M{"$set": bson.M{
		"status":     string(params.NewStatus),
		"updated_at": time.Now().UTC(),
	}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to transition booking %s: %w", params.BookingID, err)
	}

	if result.MatchedCount == 0 {
		var existing bookingDocument
		errFind := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&existing)
		if errors.Is(errFind, mongo.ErrNoDocuments) {
			return repository.ErrNotFound
		}
		if errFind == nil && entity.BookingStatus(existing.Status).IsTerminal() {
			return repository.ErrStatusConflict
		}
		return repository.ErrUpdateFailed
	}
	return nil
}

func (r *bookingRepository) ListByCustomer(ctx context.Context, customerID string) ([]entity.Booking, error) {
	return r.findAll(ctx, bson.M{"customer.id": customerID})
}

func (r *bookingRepository) ListByOwner(ctx context.Context, ownerID string) ([]entity.Booking, error) {
	return r.findAll(ctx, bson.M{"owner.id": ownerID})
}

func (r *bookingRepository) List(ctx context.Context) ([]entity.Booking, error) {
	return r.findAll(ctx, bson.M{})
}

func (r *bookingRepository) findAll(ctx context.Context, filter bson.M) ([]entity.Booking, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []bookingDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	bookings := make([]entity.Booking, len(docs))
	for i := range docs {
		bookings[i] = *docs[i].toEntity()
	}
	return bookings, nil
}
