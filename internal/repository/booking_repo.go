package repository

import (
	"context"

	"github.com/commercialspace/backend/internal/domain/entity"
)

// TransitionBookingParams drives the compare-and-set status write. The
// update only applies while the stored status is still PENDING; a matched
// count of zero on an existing booking means another transition won the
// race and the store reports ErrStatusConflict.
type TransitionBookingParams struct {
	BookingID string
	NewStatus entity.BookingStatus
}

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) (string, error)
	GetByID(ctx context.Context, id string) (*entity.Booking, error)
	TransitionStatus(ctx context.Context, params TransitionBookingParams) error
	ListByCustomer(ctx context.Context, customerID string) ([]entity.Booking, error)
	ListByOwner(ctx context.Context, ownerID string) ([]entity.Booking, error)
	List(ctx context.Context) ([]entity.Booking, error)
}
