package entity

import "time"

// Favorite bookmarks a property for a user. At most one favorite exists per
// (user, property) pair; the store enforces uniqueness.
type Favorite struct {
	ID              string    `bson:"_id,omitempty"`
	UserID          string    `bson:"user_id"`
	PropertyID      string    `bson:"property_id"`
	PropertyTitle   string    `bson:"property_title"`
	PropertyAddress string    `bson:"property_address"`
	CreatedAt       time.Time `bson:"created_at"`
}
