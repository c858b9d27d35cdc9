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

func newTestPropertyService(
	propertyRepo *MockPropertyRepository,
	userRepo *MockUserRepository,
	cache *MockListingCache,
	publisher *MockEventPublisher,
) PropertyService {
	var listingCache repository.ListingCache
	if cache != nil {
		listingCache = cache
	}
	return NewPropertyService(propertyRepo, userRepo, listingCache, new(MockPhotoStorage), publisher, nil, time.Minute, logger.NoOp())
}

func testOwner() *entity.User {
	return &entity.User{
		ID:    "owner-1",
		Name:  "Olivia",
		Email: "owner@example.com",
		Role:  entity.RoleOwner,
	}
}

func TestPropertyService_Create_StartsUnverified(t *testing.T) {
	propertyRepo := new(MockPropertyRepository)
	userRepo := new(MockUserRepository)

	owner := testOwner()
	userRepo.On("GetByEmail", mock.Anything, owner.Email).Return(owner, nil)
	propertyRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *entity.Property) bool {
		return !p.Verified && p.Owner.ID == owner.ID
	})).Return("prop-1", nil)

	svc := newTestPropertyService(propertyRepo, userRepo, nil, new(MockEventPublisher))

	property, err := svc.Create(context.Background(), owner.Email, CreatePropertyParams{
		Title: "Corner Shop",
		Price: 20000,
		Type:  "RETAIL",
		Area:  400,
		City:  "Mumbai",
	})

	require.NoError(t, err)
	assert.False(t, property.Verified)
	assert.Equal(t, "prop-1", property.ID)
	assert.Equal(t, owner.ID, property.Owner.ID)
}

func TestPropertyService_Create_CustomerForbidden(t *testing.T) {
	propertyRepo := new(MockPropertyRepository)
	userRepo := new(MockUserRepository)

	customer := testCustomer()
	userRepo.On("GetByEmail", mock.Anything, customer.Email).Return(customer, nil)

	svc := newTestPropertyService(propertyRepo, userRepo, nil, new(MockEventPublisher))

	_, err := svc.Create(context.Background(), customer.Email, CreatePropertyParams{
		Title: "Corner Shop",
		Price: 20000,
		Type:  "RETAIL",
		Area:  400,
	})

	assert.ErrorIs(t, err, ErrForbidden)
	propertyRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPropertyService_ListVerified_FiltersVerifiedOnly(t *testing.T) {
	propertyRepo := new(MockPropertyRepository)
	cache := new(MockListingCache)

	cache.On("Get", mock.Anything, "office").Return(nil, repository.ErrNotFound)
	propertyRepo.On("Find", mock.Anything, repository.PropertyFilter{
		Search:       "office",
		VerifiedOnly: true,
	}).Return([]entity.Property{*testProperty()}, nil)
	cache.On("Set", mock.Anything, "office", mock.Anything, time.Minute).Return(nil)

	svc := newTestPropertyService(propertyRepo, new(MockUserRepository), cache, new(MockEventPublisher))

	properties, err := svc.ListVerified(context.Background(), "office")

	require.NoError(t, err)
	require.Len(t, properties, 1)
	propertyRepo.AssertCalled(t, "Find", mock.Anything, repository.PropertyFilter{
		Search:       "office",
		VerifiedOnly: true,
	})
}

func TestPropertyService_ListVerified_ServesFromCache(t *testing.T) {
	propertyRepo := new(MockPropertyRepository)
	cache := new(MockListingCache)

	cached := []entity.Property{*testProperty()}
	cache.On("Get", mock.Anything, "").Return(cached, nil)

	svc := newTestPropertyService(propertyRepo, new(MockUserRepository), cache, new(MockEventPublisher))

	properties, err := svc.ListVerified(context.Background(), "")

	require.NoError(t, err)
	assert.Equal(t, cached, properties)
	propertyRepo.AssertNotCalled(t, "Find", mock.Anything, mock.Anything)
}

func TestPropertyService_SetVerified_BustsCacheAndPublishes(t *testing.T) {
	propertyRepo := new(MockPropertyRepository)
	cache := new(MockListingCache)
	publisher := new(MockEventPublisher)

	property := testProperty()
	propertyRepo.On("SetVerified", mock.Anything, property.ID, true).Return(nil)
	propertyRepo.On("GetByID", mock.Anything, property.ID).Return(property, nil)
	cache.On("Invalidate", mock.Anything).Return(nil)
	publisher.On("Publish", mock.Anything, "property.verified", mock.Anything).Return(nil)

	svc := newTestPropertyService(propertyRepo, new(MockUserRepository), cache, publisher)

	updated, err := svc.SetVerified(context.Background(), property.ID, true)

	require.NoError(t, err)
	assert.True(t, updated.Verified)
	cache.AssertCalled(t, "Invalidate", mock.Anything)
	publisher.AssertCalled(t, "Publish", mock.Anything, "property.verified", mock.Anything)
}
