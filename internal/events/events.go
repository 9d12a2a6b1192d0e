// Package events publishes article change notifications.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

const (
	TypeCreated = "created"
	TypeUpdated = "updated"
	TypeDeleted = "deleted"
)

// Event describes one committed change to an article.
type Event struct {
	Type string    `json:"type"`
	UUID string    `json:"uuid"`
	Slug string    `json:"slug,omitempty"`
	At   time.Time `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Nop discards every event. It is used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

type conn interface {
	Publish(subject string, data []byte) error
	Drain() error
}

// NATSPublisher sends each event to <prefix>.<type>.
type NATSPublisher struct {
	conn   conn
	prefix string
}

func NewNATSPublisher(url, prefix string) (*NATSPublisher, error) {
	nc, err := nats.Connect(url, nats.Name("blog-api"))
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}

	return &NATSPublisher{conn: nc, prefix: prefix}, nil
}

func (p *NATSPublisher) Publish(ctx context.Context, e Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	subject := p.prefix + "." + e.Type
	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}

	return nil
}

// Close flushes pending messages and closes the connection.
func (p *NATSPublisher) Close() error {
	return p.conn.Drain()
}
