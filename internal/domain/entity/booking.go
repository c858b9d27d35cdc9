package entity

import (
	"fmt"
	"time"
)

type BookingStatus string

const (
	BookingPending  BookingStatus = "PENDING"
	BookingAccepted BookingStatus = "ACCEPTED"
	BookingRejected BookingStatus = "REJECTED"
)

// IsTerminal reports whether no further transition is allowed.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingAccepted || s == BookingRejected
}

// Booking is a request to occupy a property for an inclusive date range.
// Property and owner are denormalized copies taken at creation time; if a
// listing's owner changes later the booking keeps the stale reference.
type Booking struct {
	ID        string           `bson:"_id,omitempty"`
	Property  PropertySnapshot `bson:"property"`
	Customer  UserRef          `bson:"customer"`
	Owner     UserRef          `bson:"owner"`
	StartDate time.Time        `bson:"start_date"`
	EndDate   time.Time        `bson:"end_date"`
	Status    BookingStatus    `bson:"status"`
	CreatedAt time.Time        `bson:"created_at"`
	UpdatedAt time.Time        `bson:"updated_at"`
}

func NewBooking(property PropertySnapshot, customer, owner UserRef, start, end time.Time) (*Booking, error) {
	if property.ID == "" {
		return nil, fmt.Errorf("property reference is incomplete: %w", ErrValidation)
	}
	if customer.ID == "" || owner.ID == "" {
		return nil, fmt.Errorf("customer and owner references are required: %w", ErrValidation)
	}
	if start.IsZero() || end.IsZero() {
		return nil, fmt.Errorf("start and end dates are required: %w", ErrValidation)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("end date cannot precede start date: %w", ErrValidation)
	}
	now := time.Now().UTC()
	return &Booking{
		Property:  property,
		Customer:  customer,
		Owner:     owner,
		StartDate: start,
		EndDate:   end,
		Status:    BookingPending,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Days counts the occupied days, inclusive of both endpoints.
func (b *Booking) Days() int64 {
	if b.StartDate.IsZero() || b.EndDate.IsZero() {
		return 0
	}
	return int64(b.EndDate.Sub(b.StartDate).Hours()/24) + 1
}

// Months is the billed-month count: inclusive days divided by 30, rounded
// up. Billing is per started month, never prorated.
func (b *Booking) Months() int64 {
	days := b.Days()
	if days <= 0 {
		return 0
	}
	return (days + 29) / 30
}

// TotalPrice is the monthly rate times the billed-month count.
func (b *Booking) TotalPrice() float64 {
	return b.Property.Price * float64(b.Months())
}
