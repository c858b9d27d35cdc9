package repository

import (
	"context"
	"time"
)

// ResetTokenRepository stores single-use password reset tokens. Tokens
// expire on their own (the redis adapter leans on key TTLs) and Consume
// removes the token so it cannot be replayed.
type ResetTokenRepository interface {
	Store(ctx context.Context, token, email string, ttl time.Duration) error
	Consume(ctx context.Context, token string) (string, error)
}
