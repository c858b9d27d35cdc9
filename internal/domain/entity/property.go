package entity

import (
	"errors"
	"fmt"
	"time"
)

type PropertyType string

const (
	TypeOffice     PropertyType = "OFFICE"
	TypeRetail     PropertyType = "RETAIL"
	TypeWarehouse  PropertyType = "WAREHOUSE"
	TypeRestaurant PropertyType = "RESTAURANT"
	TypeLand       PropertyType = "LAND"
	TypeOther      PropertyType = "OTHER"
)

var ErrUnknownPropertyType = errors.New("unknown property type")

func ParsePropertyType(s string) (PropertyType, error) {
	switch PropertyType(s) {
	case TypeOffice, TypeRetail, TypeWarehouse, TypeRestaurant, TypeLand, TypeOther:
		return PropertyType(s), nil
	default:
		return "", ErrUnknownPropertyType
	}
}

// Property is a commercial space listing. Price is the monthly rate.
// Verified starts false and is flipped only through the admin path; all
// public read paths must filter on it.
type Property struct {
	ID          string       `bson:"_id,omitempty"`
	Title       string       `bson:"title"`
	Description string       `bson:"description,omitempty"`
	Price       float64      `bson:"price"`
	Address     string       `bson:"address"`
	City        string       `bson:"city"`
	State       string       `bson:"state"`
	Country     string       `bson:"country"`
	Type        PropertyType `bson:"type"`
	Area        int          `bson:"area"`
	Latitude    *float64     `bson:"latitude,omitempty"`
	Longitude   *float64     `bson:"longitude,omitempty"`
	Verified    bool         `bson:"verified"`
	PhotoURL    string       `bson:"photo_url,omitempty"`
	Owner       UserRef      `bson:"owner"`
	CreatedAt   time.Time    `bson:"created_at"`
	UpdatedAt   time.Time    `bson:"updated_at"`
}

func NewProperty(title string, price float64, propType PropertyType, area int, owner UserRef) (*Property, error) {
	if title == "" {
		return nil, fmt.Errorf("title cannot be empty: %w", ErrValidation)
	}
	if price <= 0 {
		return nil, fmt.Errorf("price must be positive: %w", ErrValidation)
	}
	if area <= 0 {
		return nil, fmt.Errorf("area must be positive: %w", ErrValidation)
	}
	if owner.ID == "" || owner.Email == "" {
		return nil, fmt.Errorf("owner reference is incomplete: %w", ErrValidation)
	}
	if _, err := ParsePropertyType(string(propType)); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Property{
		Title:     title,
		Price:     price,
		Type:      propType,
		Area:      area,
		Verified:  false,
		Owner:     owner,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// AddressLine renders the full postal address used in emails and the lease.
func (p *Property) AddressLine() string {
	line := p.Address
	for _, part := range []string{p.City, p.State, p.Country} {
		if part == "" {
			continue
		}
		if line == "" {
			line = part
		} else {
			line += ", " + part
		}
	}
	return line
}

// Snapshot captures the listing fields a booking keeps a copy of.
func (p *Property) Snapshot() PropertySnapshot {
	return PropertySnapshot{
		ID:      p.ID,
		Title:   p.Title,
		Address: p.AddressLine(),
		Price:   p.Price,
		Type:    p.Type,
		Area:    p.Area,
	}
}

// PropertySnapshot is the denormalized listing copy stored inside a booking
// at creation time. It is deliberately not refreshed afterwards.
type PropertySnapshot struct {
	ID      string       `bson:"id"`
	Title   string       `bson:"title"`
	Address string       `bson:"address"`
	Price   float64      `bson:"price"`
	Type    PropertyType `bson:"type"`
	Area    int          `bson:"area"`
}
