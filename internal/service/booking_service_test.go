package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/commercialspace/backend/internal/domain/entity"
	"github.com/commercialspace/backend/internal/platform/logger"
	"github.com/commercialspace/backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testProperty() *entity.Property {
	return &entity.Property{
		ID:       "prop-1",
		Title:    "Downtown Office",
		Price:    50000,
		Address:  "12 Main St",
		City:     "Bengaluru",
		State:    "Karnataka",
		Country:  "India",
		Type:     entity.TypeOffice,
		Area:     1200,
		Verified: true,
		Owner:    entity.UserRef{ID: "owner-1", Name: "Olivia", Email: "owner@example.com"},
	}
}

func testCustomer() *entity.User {
	return &entity.User{
		ID:    "cust-1",
		Name:  "Carl",
		Email: "customer@example.com",
		Role:  entity.RoleCustomer,
	}
}

func pendingBooking() *entity.Booking {
	return &entity.Booking{
		ID:        "book-1",
		Property:  testProperty().Snapshot(),
		Customer:  testCustomer().Ref(),
		Owner:     testProperty().Owner,
		StartDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC),
		Status:    entity.BookingPending,
		CreatedAt: time.Now().UTC(),
	}
}

func newTestBookingService(
	bookingRepo repository.BookingRepository,
	propertyRepo *MockPropertyRepository,
	userRepo *MockUserRepository,
	dispatcher *recordingDispatcher,
	lease *MockLeaseRenderer,
	publisher *MockEventPublisher,
) BookingService {
	return NewBookingService(bookingRepo, propertyRepo, userRepo, dispatcher, lease, publisher, nil, logger.NoOp())
}

func TestBookingService_Create_StartsPendingWithDenormalizedOwner(t *testing.T) {
	bookingRepo := new(MockBookingRepository)
	propertyRepo := new(MockPropertyRepository)
	userRepo := new(MockUserRepository)
	dispatcher := &recordingDispatcher{}
	publisher := new(MockEventPublisher)

	property := testProperty()
	customer := testCustomer()

	propertyRepo.On("GetByID", mock.Anything, property.ID).Return(property, nil)
	userRepo.On("GetByEmail", mock.Anything, customer.Email).Return(customer, nil)
	bookingRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Booking")).Return("book-1", nil)
	publisher.On("Publish", mock.Anything, "booking.created", mock.Anything).Return(nil)

	svc := newTestBookingService(bookingRepo, propertyRepo, userRepo, dispatcher, new(MockLeaseRenderer), publisher)

	booking, err := svc.Create(context.Background(), CreateBookingParams{
		PropertyID:    property.ID,
		CustomerEmail: customer.Email,
		StartDate:     time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC),
	})

	require.NoError(t, err)
	assert.Equal(t, entity.BookingPending, booking.Status)
	assert.Equal(t, property.Owner, booking.Owner)
	assert.Equal(t, "book-1", booking.ID)

	tasks := dispatcher.Tasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, customer.Email, tasks[0].To)
	assert.Equal(t, property.Owner.Email, tasks[1].To)
	publisher.AssertCalled(t, "Publish", mock.Anything, "booking.created", mock.Anything)
}

func TestBookingService_Create_RejectsNonPendingInitialStatus(t *testing.T) {
	bookingRepo := new(MockBookingRepository)
	propertyRepo := new(MockPropertyRepository)
	userRepo := new(MockUserRepository)
	dispatcher := &recordingDispatcher{}

	svc := newTestBookingService(bookingRepo, propertyRepo, userRepo, dispatcher, new(MockLeaseRenderer), new(MockEventPublisher))

	_, err := svc.Create(context.Background(), CreateBookingParams{
		PropertyID:    "prop-1",
		CustomerEmail: "customer@example.com",
		StartDate:     time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC),
		Status:        "ACCEPTED",
	})

	assert.ErrorIs(t, err, ErrInvalidStatus)
	bookingRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	assert.Empty(t, dispatcher.Tasks())
}

func TestBookingService_Create_PropertyNotFound(t *testing.T) {
	bookingRepo := new(MockBookingRepository)
	propertyRepo := new(MockPropertyRepository)
	userRepo := new(MockUserRepository)
	dispatcher := &recordingDispatcher{}

	propertyRepo.On("GetByID", mock.Anything, "missing").Return(nil, repository.ErrNotFound)

	svc := newTestBookingService(bookingRepo, propertyRepo, userRepo, dispatcher, new(MockLeaseRenderer), new(MockEventPublisher))

	_, err := svc.Create(context.Background(), CreateBookingParams{
		PropertyID:    "missing",
		CustomerEmail: "customer@example.com",
		StartDate:     time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC),
	})

	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Empty(t, dispatcher.Tasks())
}

func TestBookingService_Accept_SendsLeaseToBothParties(t *testing.T) {
	bookingRepo := new(MockBookingRepository)
	dispatcher := &recordingDispatcher{}
	lease := new(MockLeaseRenderer)
	publisher := new(MockEventPublisher)

	booking := pendingBooking()
	bookingRepo.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)
	bookingRepo.On("TransitionStatus", mock.Anything, repository.TransitionBookingParams{
		BookingID: booking.ID,
		NewStatus: entity.BookingAccepted,
	}).Return(nil)
	lease.On("RenderLease", mock.AnythingOfType("*entity.Booking")).Return([]byte("%PDF"), "lease_agreement_book-1.pdf", nil)
	publisher.On("Publish", mock.Anything, "booking.accepted", mock.Anything).Return(nil)

	svc := newTestBookingService(bookingRepo, new(MockPropertyRepository), new(MockUserRepository), dispatcher, lease, publisher)

	updated, err := svc.Accept(context.Background(), booking.ID, booking.Owner.Email)

	require.NoError(t, err)
	assert.Equal(t, entity.BookingAccepted, updated.Status)

	tasks := dispatcher.Tasks()
	require.Len(t, tasks, 2)
	for _, task := range tasks {
		require.NotNil(t, task.Attachment)
		assert.Equal(t, "lease_agreement_book-1.pdf", task.Attachment.Filename)
	}
}

func TestBookingService_Accept_ForbiddenLeavesStatusUnchanged(t *testing.T) {
	bookingRepo := new(MockBookingRepository)
	dispatcher := &recordingDispatcher{}

	booking := pendingBooking()
	bookingRepo.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)

	svc := newTestBookingService(bookingRepo, new(MockPropertyRepository), new(MockUserRepository), dispatcher, new(MockLeaseRenderer), new(MockEventPublisher))

	_, err := svc.Accept(context.Background(), booking.ID, "intruder@example.com")

	assert.ErrorIs(t, err, ErrForbidden)
	bookingRepo.AssertNotCalled(t, "TransitionStatus", mock.Anything, mock.Anything)
	assert.Empty(t, dispatcher.Tasks())
}

func TestBookingService_Accept_ConflictOnTerminalDoesNotRedispatch(t *testing.T) {
	bookingRepo := new(MockBookingRepository)
	dispatcher := &recordingDispatcher{}
	lease := new(MockLeaseRenderer)

	booking := pendingBooking()
	booking.Status = entity.BookingAccepted
	bookingRepo.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)
	bookingRepo.On("TransitionStatus", mock.Anything, mock.Anything).Return(repository.ErrStatusConflict)

	svc := newTestBookingService(bookingRepo, new(MockPropertyRepository), new(MockUserRepository), dispatcher, lease, new(MockEventPublisher))

	_, err := svc.Accept(context.Background(), booking.ID, booking.Owner.Email)

	assert.ErrorIs(t, err, repository.ErrStatusConflict)
	assert.Empty(t, dispatcher.Tasks())
	lease.AssertNotCalled(t, "RenderLease", mock.Anything)
}

func TestBookingService_Accept_LeaseRenderFailureIsAdvisory(t *testing.T) {
	bookingRepo := new(MockBookingRepository)
	dispatcher := &recordingDispatcher{}
	lease := new(MockLeaseRenderer)
	publisher := new(MockEventPublisher)

	booking := pendingBooking()
	bookingRepo.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)
	bookingRepo.On("TransitionStatus", mock.Anything, mock.Anything).Return(nil)
	lease.On("RenderLease", mock.Anything).Return(nil, "", errors.New("render exploded"))
	publisher.On("Publish", mock.Anything, "booking.accepted", mock.Anything).Return(nil)

	svc := newTestBookingService(bookingRepo, new(MockPropertyRepository), new(MockUserRepository), dispatcher, lease, publisher)

	updated, err := svc.Accept(context.Background(), booking.ID, booking.Owner.Email)

	require.NoError(t, err)
	assert.Equal(t, entity.BookingAccepted, updated.Status)

	// Emails still go out, just without the attachment.
	tasks := dispatcher.Tasks()
	require.Len(t, tasks, 2)
	for _, task := range tasks {
		assert.Nil(t, task.Attachment)
	}
}

func TestBookingService_Reject_NoEmails(t *testing.T) {
	bookingRepo := new(MockBookingRepository)
	dispatcher := &recordingDispatcher{}
	publisher := new(MockEventPublisher)

	booking := pendingBooking()
	bookingRepo.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)
	bookingRepo.On("TransitionStatus", mock.Anything, repository.TransitionBookingParams{
		BookingID: booking.ID,
		NewStatus: entity.BookingRejected,
	}).Return(nil)
	publisher.On("Publish", mock.Anything, "booking.rejected", mock.Anything).Return(nil)

	svc := newTestBookingService(bookingRepo, new(MockPropertyRepository), new(MockUserRepository), dispatcher, new(MockLeaseRenderer), publisher)

	updated, err := svc.Reject(context.Background(), booking.ID, booking.Owner.Email)

	require.NoError(t, err)
	assert.Equal(t, entity.BookingRejected, updated.Status)
	assert.Empty(t, dispatcher.Tasks())
	publisher.AssertCalled(t, "Publish", mock.Anything, "booking.rejected", mock.Anything)
}

// casBookingStore is an in-memory store with a real compare-and-set on
// status, used to exercise the concurrent decision race.
type casBookingStore struct {
	mu      sync.Mutex
	booking *entity.Booking
}

func (s *casBookingStore) Create(ctx context.Context, booking *entity.Booking) (string, error) {
	return "", errors.New("not implemented")
}

func (s *casBookingStore) GetByID(ctx context.Context, id string) (*entity.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *s.booking
	return &copied, nil
}

func (s *casBookingStore) TransitionStatus(ctx context.Context, params repository.TransitionBookingParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.booking.Status != entity.BookingPending {
		return repository.ErrStatusConflict
	}
	s.booking.Status = params.NewStatus
	return nil
}

func (s *casBookingStore) ListByCustomer(ctx context.Context, customerID string) ([]entity.Booking, error) {
	return nil, errors.New("not implemented")
}

func (s *casBookingStore) ListByOwner(ctx context.Context, ownerID string) ([]entity.Booking, error) {
	return nil, errors.New("not implemented")
}

func (s *casBookingStore) List(ctx context.Context) ([]entity.Booking, error) {
	return nil, errors.New("not implemented")
}

func TestBookingService_ConcurrentAcceptReject_SingleWinner(t *testing.T) {
	store := &casBookingStore{booking: pendingBooking()}
	dispatcher := &recordingDispatcher{}
	lease := new(MockLeaseRenderer)
	publisher := new(MockEventPublisher)

	lease.On("RenderLease", mock.Anything).Return([]byte("%PDF"), "lease.pdf", nil).Maybe()
	publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

	svc := newTestBookingService(store, new(MockPropertyRepository), new(MockUserRepository), dispatcher, lease, publisher)

	ownerEmail := "owner@example.com"
	var wg sync.WaitGroup
	var acceptErr, rejectErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, acceptErr = svc.Accept(context.Background(), "book-1", ownerEmail)
	}()
	go func() {
		defer wg.Done()
		_, rejectErr = svc.Reject(context.Background(), "book-1", ownerEmail)
	}()
	wg.Wait()

	winnerCount := 0
	if acceptErr == nil {
		winnerCount++
		assert.Equal(t, entity.BookingAccepted, store.booking.Status)
	} else {
		assert.ErrorIs(t, acceptErr, repository.ErrStatusConflict)
	}
	if rejectErr == nil {
		winnerCount++
		assert.Equal(t, entity.BookingRejected, store.booking.Status)
	} else {
		assert.ErrorIs(t, rejectErr, repository.ErrStatusConflict)
	}
	assert.Equal(t, 1, winnerCount)
}

func TestBookingService_ListByCustomer(t *testing.T) {
	bookingRepo := new(MockBookingRepository)
	userRepo := new(MockUserRepository)

	customer := testCustomer()
	userRepo.On("GetByEmail", mock.Anything, customer.Email).Return(customer, nil)
	bookingRepo.On("ListByCustomer", mock.Anything, customer.ID).Return([]entity.Booking{*pendingBooking()}, nil)

	svc := newTestBookingService(bookingRepo, new(MockPropertyRepository), userRepo, &recordingDispatcher{}, new(MockLeaseRenderer), new(MockEventPublisher))

	bookings, err := svc.ListByCustomer(context.Background(), customer.Email)

	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, "book-1", bookings[0].ID)
}
