package entity

import (
	"fmt"
	"time"
)

// Review is a rating plus comment on a property. Reviewers do not need a
// booking on the property.
type Review struct {
	ID         string    `bson:"_id,omitempty"`
	PropertyID string    `bson:"property_id"`
	Reviewer   UserRef   `bson:"reviewer"`
	Rating     int       `bson:"rating"`
	Comment    string    `bson:"comment,omitempty"`
	CreatedAt  time.Time `bson:"created_at"`
}

func NewReview(propertyID string, reviewer UserRef, rating int, comment string) (*Review, error) {
	if propertyID == "" {
		return nil, fmt.Errorf("property ID cannot be empty: %w", ErrValidation)
	}
	if reviewer.ID == "" {
		return nil, fmt.Errorf("reviewer reference is incomplete: %w", ErrValidation)
	}
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("rating must be between 1 and 5: %w", ErrValidation)
	}
	return &Review{
		PropertyID: propertyID,
		Reviewer:   reviewer,
		Rating:     rating,
		Comment:    comment,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// ReviewStats is the aggregate merged into property responses.
type ReviewStats struct {
	Count         int64
	AverageRating float64
}
