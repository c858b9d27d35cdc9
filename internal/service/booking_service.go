package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/commercialspace/backend/internal/adapter/email"
	"github.com/commercialspace/backend/internal/adapter/nats"
	"github.com/commercialspace/backend/internal/domain/entity"
	"github.com/commercialspace/backend/internal/notifier"
	"github.com/commercialspace/backend/internal/platform/logger"
	"github.com/commercialspace/backend/internal/platform/metrics"
	"github.com/commercialspace/backend/internal/platform/pdf"
	"github.com/commercialspace/backend/internal/repository"
)

const (
	natsSubjectBookingCreated  = "booking.created"
	natsSubjectBookingAccepted = "booking.accepted"
	natsSubjectBookingRejected = "booking.rejected"
)

// CreateBookingParams carries the inbound booking request. Status is
// optional; anything other than empty or PENDING is a policy violation.
type CreateBookingParams struct {
	PropertyID    string
	CustomerEmail string
	StartDate     time.Time
	EndDate       time.Time
	Status        string
}

type BookingService interface {
	Create(ctx context.Context, params CreateBookingParams) (*entity.Booking, error)
	Accept(ctx context.Context, bookingID, actingEmail string) (*entity.Booking, error)
	Reject(ctx context.Context, bookingID, actingEmail string) (*entity.Booking, error)
	GetByID(ctx context.Context, bookingID string) (*entity.Booking, error)
	ListByCustomer(ctx context.Context, customerEmail string) ([]entity.Booking, error)
	ListByOwner(ctx context.Context, ownerEmail string) ([]entity.Booking, error)
}

type bookingService struct {
	bookingRepo  repository.BookingRepository
	propertyRepo repository.PropertyRepository
	userRepo     repository.UserRepository
	dispatcher   notifier.Dispatcher
	lease        pdf.LeaseRenderer
	publisher    nats.EventPublisher
	metrics      *metrics.Manager
	log          logger.Logger
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	propertyRepo repository.PropertyRepository,
	userRepo repository.UserRepository,
	dispatcher notifier.Dispatcher,
	lease pdf.LeaseRenderer,
	publisher nats.EventPublisher,
	metricsManager *metrics.Manager,
	log logger.Logger,
) BookingService {
	return &bookingService{
		bookingRepo:  bookingRepo,
		propertyRepo: propertyRepo,
		userRepo:     userRepo,
		dispatcher:   dispatcher,
		lease:        lease,
		publisher:    publisher,
		metrics:      metricsManager,
		log:          log,
	}
}

// bookingEvent is the wire shape published for every booking transition.
type bookingEvent struct {
	BookingID  string    `json:"booking_id"`
	PropertyID string    `json:"property_id"`
	CustomerID string    `json:"customer_id"`
	OwnerID    string    `json:"owner_id"`
	Status     string    `json:"status"`
	TotalPrice float64   `json:"total_price"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (s *bookingService) Create(ctx context.Context, params CreateBookingParams) (*entity.Booking, error) {
	if status := strings.ToUpper(strings.TrimSpace(params.Status)); status != "" && status != string(entity.BookingPending) {
		s.log.Warnf("Booking creation for property %s supplied initial status %q", params.PropertyID, params.Status)
		return nil, ErrInvalidStatus
	}

	property, err := s.propertyRepo.GetByID(ctx, params.PropertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load property %s: %w", params.PropertyID, err)
	}

	customer, err := s.userRepo.GetByEmail(ctx, params.CustomerEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to load customer %s: %w", params.CustomerEmail, err)
	}

	booking, err := entity.NewBooking(property.Snapshot(), customer.Ref(), property.Owner, params.StartDate, params.EndDate)
	if err != nil {
		return nil, err
	}

	id, err := s.bookingRepo.Create(ctx, booking)
	if err != nil {
		return nil, fmt.Errorf("failed to persist booking: %w", err)
	}
	booking.ID = id

	s.log.Infof("Booking %s created for property %s by customer %s", booking.ID, property.ID, customer.Email)
	if s.metrics != nil {
		s.metrics.BookingsCreatedTotal.Inc()
	}

	// State is committed; everything below is best-effort.
	s.notifyCreated(booking)
	s.publishEvent(ctx, natsSubjectBookingCreated, booking)

	return booking, nil
}

func (s *bookingService) Accept(ctx context.Context, bookingID, actingEmail string) (*entity.Booking, error) {
	booking, err := s.authorizeTransition(ctx, bookingID, actingEmail)
	if err != nil {
		return nil, err
	}

	if err := s.bookingRepo.TransitionStatus(ctx, repository.TransitionBookingParams{
		BookingID: bookingID,
		NewStatus: entity.BookingAccepted,
	}); err != nil {
		return nil, fmt.Errorf("failed to accept booking %s: %w", bookingID, err)
	}
	booking.Status = entity.BookingAccepted
	booking.UpdatedAt = time.Now().UTC()

	s.log.Infof("Booking %s accepted by owner %s", bookingID, actingEmail)
	if s.metrics != nil {
		s.metrics.BookingDecisionTotal.WithLabelValues("accepted").Inc()
	}

	s.notifyAccepted(booking)
	s.publishEvent(ctx, natsSubjectBookingAccepted, booking)

	return booking, nil
}

func (s *bookingService) Reject(ctx context.Context, bookingID, actingEmail string) (*entity.Booking, error) {
	booking, err := s.authorizeTransition(ctx, bookingID, actingEmail)
	if err != nil {
		return nil, err
	}

	if err := s.bookingRepo.TransitionStatus(ctx, repository.TransitionBookingParams{
		BookingID: bookingID,
		NewStatus: entity.BookingRejected,
	}); err != nil {
		return nil, fmt.Errorf("failed to reject booking %s: %w", bookingID, err)
	}
	booking.Status = entity.BookingRejected
	booking.UpdatedAt = time.Now().UTC()

	s.log.Infof("Booking %s rejected by owner %s", bookingID, actingEmail)
	if s.metrics != nil {
		s.metrics.BookingDecisionTotal.WithLabelValues("rejected").Inc()
	}

	// Rejection sends no emails; only the event stream hears about it.
	s.publishEvent(ctx, natsSubjectBookingRejected, booking)

	return booking, nil
}

// authorizeTransition loads the booking and verifies the acting identity is
// its owner. It does not check the status; the store's compare-and-set does
// that atomically so concurrent deciders cannot both win.
func (s *bookingService) authorizeTransition(ctx context.Context, bookingID, actingEmail string) (*entity.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load booking %s: %w", bookingID, err)
	}
	if !strings.EqualFold(booking.Owner.Email, actingEmail) {
		s.log.Warnf("User %s attempted to decide booking %s owned by %s", actingEmail, bookingID, booking.Owner.Email)
		return nil, ErrForbidden
	}
	return booking, nil
}

func (s *bookingService) GetByID(ctx context.Context, bookingID string) (*entity.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load booking %s: %w", bookingID, err)
	}
	return booking, nil
}

func (s *bookingService) ListByCustomer(ctx context.Context, customerEmail string) ([]entity.Booking, error) {
	customer, err := s.userRepo.GetByEmail(ctx, customerEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to load customer %s: %w", customerEmail, err)
	}
	bookings, err := s.bookingRepo.ListByCustomer(ctx, customer.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings for customer %s: %w", customer.ID, err)
	}
	return bookings, nil
}

func (s *bookingService) ListByOwner(ctx context.Context, ownerEmail string) ([]entity.Booking, error) {
	owner, err := s.userRepo.GetByEmail(ctx, ownerEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to load owner %s: %w", ownerEmail, err)
	}
	bookings, err := s.bookingRepo.ListByOwner(ctx, owner.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings for owner %s: %w", owner.ID, err)
	}
	return bookings, nil
}

func (s *bookingService) notifyCreated(booking *entity.Booking) {
	dates := formatRange(booking)

	s.enqueue(notifier.Task{
		To:      booking.Customer.Email,
		Subject: "Booking Request Received - Commercial Space",
		HTMLBody: fmt.Sprintf(
			"<h2>Hi %s,</h2><p>Your booking request for <b>%s</b> (%s) has been sent to the owner.</p><p>Status: <b>%s</b></p><p>Total price: %.2f</p>",
			booking.Customer.Name, booking.Property.Title, dates, booking.Status, booking.TotalPrice()),
	})
	s.enqueue(notifier.Task{
		To:      booking.Owner.Email,
		Subject: "New Booking Request - Commercial Space",
		HTMLBody: fmt.Sprintf(
			"<h2>Hi %s,</h2><p><b>%s</b> has requested to book <b>%s</b> (%s).</p><p>Please accept or reject the request from your dashboard.</p>",
			booking.Owner.Name, booking.Customer.Name, booking.Property.Title, dates),
	})
}

func (s *bookingService) notifyAccepted(booking *entity.Booking) {
	var attachment *email.Attachment
	data, filename, err := s.lease.RenderLease(booking)
	if err != nil {
		s.log.Errorf("Failed to render lease agreement for booking %s: %v", booking.ID, err)
	} else {
		attachment = &email.Attachment{Filename: filename, Content: data}
	}

	dates := formatRange(booking)

	s.enqueue(notifier.Task{
		To:      booking.Customer.Email,
		Subject: "Booking Accepted - Commercial Space",
		HTMLBody: fmt.Sprintf(
			"<h2>Hi %s,</h2><p>Your booking for <b>%s</b> (%s) has been accepted.</p><p>The lease agreement is attached.</p>",
			booking.Customer.Name, booking.Property.Title, dates),
		Attachment: attachment,
	})
	s.enqueue(notifier.Task{
		To:      booking.Owner.Email,
		Subject: "Booking Accepted - Commercial Space",
		HTMLBody: fmt.Sprintf(
			"<h2>Hi %s,</h2><p>You accepted the booking for <b>%s</b> (%s) by %s.</p><p>The lease agreement is attached.</p>",
			booking.Owner.Name, booking.Property.Title, dates, booking.Customer.Name),
		Attachment: attachment,
	})
}

func (s *bookingService) enqueue(task notifier.Task) {
	s.dispatcher.Enqueue(task)
	if s.metrics != nil {
		s.metrics.EmailsEnqueuedTotal.Inc()
	}
}

func (s *bookingService) publishEvent(ctx context.Context, subject string, booking *entity.Booking) {
	if s.publisher == nil {
		return
	}
	event := bookingEvent{
		BookingID:  booking.ID,
		PropertyID: booking.Property.ID,
		CustomerID: booking.Customer.ID,
		OwnerID:    booking.Owner.ID,
		Status:     string(booking.Status),
		TotalPrice: booking.TotalPrice(),
		OccurredAt: time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, subject, event); err != nil {
		s.log.Errorf("Failed to publish %s for booking %s: %v", subject, booking.ID, err)
	}
}

func formatRange(booking *entity.Booking) string {
	return fmt.Sprintf("%s to %s",
		booking.StartDate.Format("02 Jan 2006"),
		booking.EndDate.Format("02 Jan 2006"))
}
