package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/commercialspace/backend/internal/repository"
	"github.com/redis/go-redis/v9"
)

const resetTokenKeyPrefix = "password_reset:"

type resetTokenRepository struct {
	client *redis.Client
}

// NewResetTokenRepository stores password reset tokens as TTL'd keys, so
// expiry needs no sweeper.
func NewResetTokenRepository(client *redis.Client) repository.ResetTokenRepository {
	return &resetTokenRepository{client: client}
}

func (r *resetTokenRepository) Store(ctx context.Context, token, email string, ttl time.Duration) error {
	if err := r.client.Set(ctx, resetTokenKeyPrefix+token, email, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}
	return nil
}

func (r *resetTokenRepository) Consume(ctx context.Context, token string) (string, error) {
	key := resetTokenKeyPrefix + token
	email, err := r.client.GetDel(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", repository.ErrNotFound
		}
		return "", fmt.Errorf("failed to consume reset token: %w", err)
	}
	return email, nil
}
