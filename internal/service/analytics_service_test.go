package service

import (
	"context"
	"testing"
	"time"

	"github.com/commercialspace/backend/internal/domain/entity"
	"github.com/commercialspace/backend/internal/platform/logger"
	"github.com/commercialspace/backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAnalyticsService_Platform(t *testing.T) {
	propertyRepo := new(MockPropertyRepository)
	bookingRepo := new(MockBookingRepository)
	userRepo := new(MockUserRepository)

	office := *testProperty()
	shop := *testProperty()
	shop.ID = "prop-2"
	shop.Type = entity.TypeRetail
	shop.City = "Mumbai"
	shop.Verified = false

	accepted := *pendingBooking()
	accepted.Status = entity.BookingAccepted
	accepted.CreatedAt = time.Now().UTC()
	rejected := *pendingBooking()
	rejected.ID = "book-2"
	rejected.Status = entity.BookingRejected

	propertyRepo.On("Find", mock.Anything, repository.PropertyFilter{}).Return([]entity.Property{office, shop}, nil)
	bookingRepo.On("List", mock.Anything).Return([]entity.Booking{accepted, rejected}, nil)
	userRepo.On("List", mock.Anything).Return([]entity.User{*testOwner(), *testCustomer()}, nil)

	svc := NewAnalyticsService(propertyRepo, bookingRepo, userRepo, logger.NoOp())

	stats, err := svc.Platform(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Properties.Total)
	assert.Equal(t, int64(1), stats.Properties.Verified)
	assert.Equal(t, int64(1), stats.Properties.ByType["OFFICE"])
	assert.Equal(t, int64(1), stats.Properties.ByType["RETAIL"])

	assert.Equal(t, int64(2), stats.Bookings.Total)
	assert.Equal(t, int64(1), stats.Bookings.ByStatus["ACCEPTED"])
	assert.Equal(t, int64(1), stats.Bookings.ByStatus["REJECTED"])
	assert.Len(t, stats.Bookings.Monthly, 12)

	assert.Equal(t, int64(2), stats.Users.Total)
	assert.Equal(t, int64(1), stats.Users.ByRole["OWNER"])

	// Only the accepted booking bills: 30 inclusive days at 50000/month.
	assert.Equal(t, accepted.TotalPrice(), stats.Revenue.Total)
	assert.Equal(t, accepted.TotalPrice(), stats.Revenue.AveragePerAccepted)
	assert.Equal(t, accepted.TotalPrice(), stats.Revenue.ByPropertyType["OFFICE"])
}
