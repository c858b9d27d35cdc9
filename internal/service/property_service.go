package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/commercialspace/backend/internal/adapter/nats"
	"github.com/commercialspace/backend/internal/adapter/storage/s3"
	"github.com/commercialspace/backend/internal/domain/entity"
	"github.com/commercialspace/backend/internal/platform/logger"
	"github.com/commercialspace/backend/internal/platform/metrics"
	"github.com/commercialspace/backend/internal/repository"
)

const natsSubjectPropertyVerified = "property.verified"

type CreatePropertyParams struct {
	Title       string
	Description string
	Price       float64
	Address     string
	City        string
	State       string
	Country     string
	Type        string
	Area        int
	Latitude    *float64
	Longitude   *float64
}

type PropertyService interface {
	Create(ctx context.Context, ownerEmail string, params CreatePropertyParams) (*entity.Property, error)
	GetByID(ctx context.Context, id string) (*entity.Property, error)
	// ListVerified is the public browse/search path. Only verified listings
	// are returned regardless of the search term.
	ListVerified(ctx context.Context, search string) ([]entity.Property, error)
	ListByOwner(ctx context.Context, ownerEmail string) ([]entity.Property, error)
	ListAll(ctx context.Context) ([]entity.Property, error)
	SetVerified(ctx context.Context, id string, verified bool) (*entity.Property, error)
	UploadPhoto(ctx context.Context, id, ownerEmail, fileName, contentType string, data []byte) (*entity.Property, error)
}

type propertyService struct {
	propertyRepo repository.PropertyRepository
	userRepo     repository.UserRepository
	cache        repository.ListingCache
	storage      s3.PhotoStorage
	publisher    nats.EventPublisher
	metrics      *metrics.Manager
	cacheTTL     time.Duration
	log          logger.Logger
}

func NewPropertyService(
	propertyRepo repository.PropertyRepository,
	userRepo repository.UserRepository,
	cache repository.ListingCache,
	storage s3.PhotoStorage,
	publisher nats.EventPublisher,
	metricsManager *metrics.Manager,
	cacheTTL time.Duration,
	log logger.Logger,
) PropertyService {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &propertyService{
		propertyRepo: propertyRepo,
		userRepo:     userRepo,
		cache:        cache,
		storage:      storage,
		publisher:    publisher,
		metrics:      metricsManager,
		cacheTTL:     cacheTTL,
		log:          log,
	}
}

func (s *propertyService) Create(ctx context.Context, ownerEmail string, params CreatePropertyParams) (*entity.Property, error) {
	owner, err := s.userRepo.GetByEmail(ctx, strings.ToLower(ownerEmail))
	if err != nil {
		return nil, fmt.Errorf("failed to load owner %s: %w", ownerEmail, err)
	}
	if !owner.Role.CanListProperties() {
		return nil, ErrForbidden
	}

	propType, err := entity.ParsePropertyType(strings.ToUpper(params.Type))
	if err != nil {
		return nil, err
	}

	property, err := entity.NewProperty(params.Title, params.Price, propType, params.Area, owner.Ref())
	if err != nil {
		return nil, err
	}
	property.Description = params.Description
	property.Address = params.Address
	property.City = params.City
	property.State = params.State
	property.Country = params.Country
	property.Latitude = params.Latitude
	property.Longitude = params.Longitude

	id, err := s.propertyRepo.Create(ctx, property)
	if err != nil {
		return nil, fmt.Errorf("failed to create property: %w", err)
	}
	property.ID = id

	s.log.Infof("Property %s listed by owner %s (unverified)", property.ID, owner.ID)
	if s.metrics != nil {
		s.metrics.PropertiesListed.Inc()
	}
	s.invalidateCache(ctx)

	return property, nil
}

func (s *propertyService) GetByID(ctx context.Context, id string) (*entity.Property, error) {
	property, err := s.propertyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load property %s: %w", id, err)
	}
	return property, nil
}

func (s *propertyService) ListVerified(ctx context.Context, search string) ([]entity.Property, error) {
	search = strings.TrimSpace(search)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, search)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.Warnf("Listing cache read failed for %q: %v", search, err)
		}
	}

	properties, err := s.propertyRepo.Find(ctx, repository.PropertyFilter{
		Search:       search,
		VerifiedOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search listings: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, search, properties, s.cacheTTL); err != nil {
			s.log.Warnf("Listing cache write failed for %q: %v", search, err)
		}
	}

	return properties, nil
}

func (s *propertyService) ListByOwner(ctx context.Context, ownerEmail string) ([]entity.Property, error) {
	owner, err := s.userRepo.GetByEmail(ctx, strings.ToLower(ownerEmail))
	if err != nil {
		return nil, fmt.Errorf("failed to load owner %s: %w", ownerEmail, err)
	}
	properties, err := s.propertyRepo.Find(ctx, repository.PropertyFilter{OwnerID: owner.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to list properties for owner %s: %w", owner.ID, err)
	}
	return properties, nil
}

func (s *propertyService) ListAll(ctx context.Context) ([]entity.Property, error) {
	properties, err := s.propertyRepo.Find(ctx, repository.PropertyFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	return properties, nil
}

// SetVerified flips the admin verification gate. Last write wins; there is
// no status race worth guarding here.
func (s *propertyService) SetVerified(ctx context.Context, id string, verified bool) (*entity.Property, error) {
	if err := s.propertyRepo.SetVerified(ctx, id, verified); err != nil {
		return nil, fmt.Errorf("failed to set verification on property %s: %w", id, err)
	}

	property, err := s.propertyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload property %s: %w", id, err)
	}

	s.log.Infof("Property %s verification set to %t", id, verified)
	s.invalidateCache(ctx)

	if s.publisher != nil {
		event := map[string]interface{}{
			"property_id": property.ID,
			"owner_id":    property.Owner.ID,
			"verified":    verified,
			"occurred_at": time.Now().UTC(),
		}
		if err := s.publisher.Publish(ctx, natsSubjectPropertyVerified, event); err != nil {
			s.log.Errorf("Failed to publish %s for property %s: %v", natsSubjectPropertyVerified, id, err)
		}
	}

	return property, nil
}

func (s *propertyService) UploadPhoto(ctx context.Context, id, ownerEmail, fileName, contentType string, data []byte) (*entity.Property, error) {
	property, err := s.propertyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load property %s: %w", id, err)
	}
	if !strings.EqualFold(property.Owner.Email, ownerEmail) {
		return nil, ErrForbidden
	}

	url, err := s.storage.Upload(ctx, fileName, contentType, data)
	if err != nil {
		return nil, fmt.Errorf("failed to upload photo for property %s: %w", id, err)
	}

	if err := s.propertyRepo.SetPhotoURL(ctx, id, url); err != nil {
		return nil, fmt.Errorf("failed to save photo URL for property %s: %w", id, err)
	}
	property.PhotoURL = url

	s.invalidateCache(ctx)
	return property, nil
}

func (s *propertyService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warnf("Listing cache invalidation failed: %v", err)
	}
}
