package service

import (
	"context"
	"sync"
	"time"

	"github.com/commercialspace/backend/internal/domain/entity"
	"github.com/commercialspace/backend/internal/notifier"
	"github.com/commercialspace/backend/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *entity.Booking) (string, error) {
	args := m.Called(ctx, booking)
	return args.String(0), args.Error(1)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*entity.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Booking), args.Error(1)
}

func (m *MockBookingRepository) TransitionStatus(ctx context.Context, params repository.TransitionBookingParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

func (m *MockBookingRepository) ListByCustomer(ctx context.Context, customerID string) ([]entity.Booking, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByOwner(ctx context.Context, ownerID string) ([]entity.Booking, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Booking), args.Error(1)
}

func (m *MockBookingRepository) List(ctx context.Context) ([]entity.Booking, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Booking), args.Error(1)
}

type MockPropertyRepository struct {
	mock.Mock
}

func (m *MockPropertyRepository) Create(ctx context.Context, property *entity.Property) (string, error) {
	args := m.Called(ctx, property)
	return args.String(0), args.Error(1)
}

func (m *MockPropertyRepository) GetByID(ctx context.Context, id string) (*entity.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Property), args.Error(1)
}

func (m *MockPropertyRepository) Find(ctx context.Context, filter repository.PropertyFilter) ([]entity.Property, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Property), args.Error(1)
}

func (m *MockPropertyRepository) Update(ctx context.Context, property *entity.Property) error {
	args := m.Called(ctx, property)
	return args.Error(0)
}

func (m *MockPropertyRepository) SetVerified(ctx context.Context, id string, verified bool) error {
	args := m.Called(ctx, id, verified)
	return args.Error(0)
}

func (m *MockPropertyRepository) SetPhotoURL(ctx context.Context, id, photoURL string) error {
	args := m.Called(ctx, id, photoURL)
	return args.Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entity.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context) ([]entity.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.User), args.Error(1)
}

type MockFavoriteRepository struct {
	mock.Mock
}

func (m *MockFavoriteRepository) Add(ctx context.Context, favorite *entity.Favorite) (string, error) {
	args := m.Called(ctx, favorite)
	return args.String(0), args.Error(1)
}

func (m *MockFavoriteRepository) Remove(ctx context.Context, userID, propertyID string) error {
	args := m.Called(ctx, userID, propertyID)
	return args.Error(0)
}

func (m *MockFavoriteRepository) Get(ctx context.Context, userID, propertyID string) (*entity.Favorite, error) {
	args := m.Called(ctx, userID, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Favorite), args.Error(1)
}

func (m *MockFavoriteRepository) ListByUser(ctx context.Context, userID string) ([]entity.Favorite, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Favorite), args.Error(1)
}

type MockListingCache struct {
	mock.Mock
}

func (m *MockListingCache) Get(ctx context.Context, search string) ([]entity.Property, error) {
	args := m.Called(ctx, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Property), args.Error(1)
}

func (m *MockListingCache) Set(ctx context.Context, search string, properties []entity.Property, ttl time.Duration) error {
	args := m.Called(ctx, search, properties, ttl)
	return args.Error(0)
}

func (m *MockListingCache) Invalidate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockResetTokenRepository struct {
	mock.Mock
}

func (m *MockResetTokenRepository) Store(ctx context.Context, token, email string, ttl time.Duration) error {
	args := m.Called(ctx, token, email, ttl)
	return args.Error(0)
}

func (m *MockResetTokenRepository) Consume(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}

type MockLeaseRenderer struct {
	mock.Mock
}

func (m *MockLeaseRenderer) RenderLease(booking *entity.Booking) ([]byte, string, error) {
	args := m.Called(booking)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, subject string, event interface{}) error {
	args := m.Called(ctx, subject, event)
	return args.Error(0)
}

type MockPhotoStorage struct {
	mock.Mock
}

func (m *MockPhotoStorage) Upload(ctx context.Context, originalFileName, contentType string, data []byte) (string, error) {
	args := m.Called(ctx, originalFileName, contentType, data)
	return args.String(0), args.Error(1)
}

type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) Generate(user *entity.User) (string, error) {
	args := m.Called(user)
	return args.String(0), args.Error(1)
}

// recordingDispatcher captures enqueued notifications synchronously so tests
// can assert on exactly what a workflow operation emitted.
type recordingDispatcher struct {
	mu    sync.Mutex
	tasks []notifier.Task
}

func (d *recordingDispatcher) Enqueue(task notifier.Task) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tasks = append(d.tasks, task)
}

func (d *recordingDispatcher) Tasks() []notifier.Task {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]notifier.Task, len(d.tasks))
	copy(out, d.tasks)
	return out
}
