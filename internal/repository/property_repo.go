package repository

import (
	"context"

	"github.com/commercialspace/backend/internal/domain/entity"
)

// PropertyFilter narrows listing queries. Search is a case-insensitive
// substring match over title, address, city, state and country.
type PropertyFilter struct {
	Search       string
	VerifiedOnly bool
	OwnerID      string
}

type PropertyRepository interface {
	Create(ctx context.Context, property *entity.Property) (string, error)
	GetByID(ctx context.Context, id string) (*entity.Property, error)
	Find(ctx context.Context, filter PropertyFilter) ([]entity.Property, error)
	Update(ctx context.Context, property *entity.Property) error
	SetVerified(ctx context.Context, id string, verified bool) error
	SetPhotoURL(ctx context.Context, id, photoURL string) error
}
