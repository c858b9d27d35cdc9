package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/commercialspace/backend/internal/domain/entity"
	"github.com/commercialspace/backend/internal/platform/logger"
	"github.com/commercialspace/backend/internal/repository"
)

type FavoriteService interface {
	// Add bookmarks the property. Adding an existing favorite is a no-op
	// returning the stored record, never a second row.
	Add(ctx context.Context, userID, propertyID string) (*entity.Favorite, error)
	Remove(ctx context.Context, userID, propertyID string) error
	List(ctx context.Context, userID string) ([]entity.Favorite, error)
	IsFavorited(ctx context.Context, userID, propertyID string) (bool, error)
}

type favoriteService struct {
	favoriteRepo repository.FavoriteRepository
	propertyRepo repository.PropertyRepository
	log          logger.Logger
}

func NewFavoriteService(favoriteRepo repository.FavoriteRepository, propertyRepo repository.PropertyRepository, log logger.Logger) FavoriteService {
	return &favoriteService{favoriteRepo: favoriteRepo, propertyRepo: propertyRepo, log: log}
}

func (s *favoriteService) Add(ctx context.Context, userID, propertyID string) (*entity.Favorite, error) {
	property, err := s.propertyRepo.GetByID(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load property %s: %w", propertyID, err)
	}

	favorite := &entity.Favorite{
		UserID:          userID,
		PropertyID:      propertyID,
		PropertyTitle:   property.Title,
		PropertyAddress: property.AddressLine(),
		CreatedAt:       time.Now().UTC(),
	}

	id, err := s.favoriteRepo.Add(ctx, favorite)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			existing, getErr := s.favoriteRepo.Get(ctx, userID, propertyID)
			if getErr != nil {
				return nil, fmt.Errorf("failed to load existing favorite: %w", getErr)
			}
			return existing, nil
		}
		return nil, fmt.Errorf("failed to add favorite: %w", err)
	}
	favorite.ID = id

	return favorite, nil
}

func (s *favoriteService) Remove(ctx context.Context, userID, propertyID string) error {
	if err := s.favoriteRepo.Remove(ctx, userID, propertyID); err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return nil
}

func (s *favoriteService) List(ctx context.Context, userID string) ([]entity.Favorite, error) {
	favorites, err := s.favoriteRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites for user %s: %w", userID, err)
	}
	return favorites, nil
}

func (s *favoriteService) IsFavorited(ctx context.Context, userID, propertyID string) (bool, error) {
	_, err := s.favoriteRepo.Get(ctx, userID, propertyID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}
	return true, nil
}
