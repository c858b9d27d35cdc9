package repository

import (
	"context"
	"time"

	"github.com/commercialspace/backend/internal/domain/entity"
)

// ListingCache holds short-lived copies of verified listing query results.
// A miss is reported as ErrNotFound.
type ListingCache interface {
	Get(ctx context.Context, search string) ([]entity.Property, error)
	Set(ctx context.Context, search string, properties []entity.Property, ttl time.Duration) error
	// Invalidate drops every cached result. Called when a listing is
	// created, verified or updated.
	Invalidate(ctx context.Context) error
}
