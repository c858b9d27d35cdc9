package nats

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
)

// EventPublisher emits best-effort domain events (booking.created,
// booking.accepted, booking.rejected, property.verified, user.registered).
// Callers treat publish failures as advisory.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, event interface{}) error
}

type natsPublisher struct {
	conn *nats.Conn
}

func NewEventPublisher(conn *nats.Conn) (EventPublisher, error) {
	if conn == nil {
		return nil, fmt.Errorf("NATS connection cannot be nil")
	}
	return &natsPublisher{conn: conn}, nil
}

func (p *natsPublisher) Publish(ctx context.Context, subject string, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event for subject %s: %w", subject, err)
	}
	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish event to subject %s: %w", subject, err)
	}
	return nil
}
