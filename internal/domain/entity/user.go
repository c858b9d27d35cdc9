package entity

import (
	"errors"
	"fmt"
	"time"
)

// Role is the closed set of account roles. Capability checks live here so
// handlers and services don't compare raw strings.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleOwner    Role = "OWNER"
	RoleCustomer Role = "CUSTOMER"
)

var ErrUnknownRole = errors.New("unknown role")

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleOwner, RoleCustomer:
		return Role(s), nil
	default:
		return "", ErrUnknownRole
	}
}

// CanListProperties reports whether the role may create listings.
func (r Role) CanListProperties() bool { return r == RoleOwner || r == RoleAdmin }

// CanVerifyProperties reports whether the role may flip the verification flag.
func (r Role) CanVerifyProperties() bool { return r == RoleAdmin }

// CanViewAnalytics reports whether the role may read admin analytics.
func (r Role) CanViewAnalytics() bool { return r == RoleAdmin }

type User struct {
	ID           string    `bson:"_id,omitempty"`
	Name         string    `bson:"name"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	Role         Role      `bson:"role"`
	ImageURL     string    `bson:"image_url,omitempty"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

func NewUser(name, email, passwordHash string, role Role) (*User, error) {
	if name == "" {
		return nil, fmt.Errorf("name cannot be empty: %w", ErrValidation)
	}
	if email == "" {
		return nil, fmt.Errorf("email cannot be empty: %w", ErrValidation)
	}
	if passwordHash == "" {
		return nil, fmt.Errorf("password hash cannot be empty: %w", ErrValidation)
	}
	if _, err := ParseRole(string(role)); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &User{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Ref returns the lightweight reference embedded in bookings and reviews.
func (u *User) Ref() UserRef {
	return UserRef{ID: u.ID, Name: u.Name, Email: u.Email}
}

// UserRef is a denormalized pointer to a user, captured at write time.
type UserRef struct {
	ID    string `bson:"id"`
	Name  string `bson:"name"`
	Email string `bson:"email"`
}
