package repository

import (
	"context"

	"github.com/commercialspace/backend/internal/domain/entity"
)

type FavoriteRepository interface {
	// Add stores the favorite unless one already exists for the pair, in
	// which case it returns ErrAlreadyExists and leaves the store unchanged.
	Add(ctx context.Context, favorite *entity.Favorite) (string, error)
	Remove(ctx context.Context, userID, propertyID string) error
	Get(ctx context.Context, userID, propertyID string) (*entity.Favorite, error)
	ListByUser(ctx context.Context, userID string) ([]entity.Favorite, error)
}
