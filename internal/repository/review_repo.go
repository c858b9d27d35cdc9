package repository

import (
	"context"

	"github.com/commercialspace/backend/internal/domain/entity"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) (string, error)
	ListByProperty(ctx context.Context, propertyID string) ([]entity.Review, error)
	StatsByProperty(ctx context.Context, propertyID string) (*entity.ReviewStats, error)
}
