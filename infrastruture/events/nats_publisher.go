// Package events publishes session lifecycle events to NATS.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/beka-birhanu/vinom-rollmaze/service/i"
	"github.com/nats-io/nats.go"
)

const defaultSubjectPrefix = "rollmaze"

// conn is the part of *nats.Conn the publisher uses.
type conn interface {
	Publish(subject string, data []byte) error
}

var (
	_ i.EventPublisher = &NatsPublisher{}
	_ conn             = (*nats.Conn)(nil)
)

// NatsPublisher publishes each event as JSON on "<prefix>.<event type>".
type NatsPublisher struct {
	conn   conn
	prefix string
}

// NewNatsPublisher wraps a NATS connection. An empty prefix selects the default.
func NewNatsPublisher(nc *nats.Conn, prefix string) *NatsPublisher {
	return newPublisher(nc, prefix)
}

func newPublisher(c conn, prefix string) *NatsPublisher {
	if prefix == "" {
		prefix = defaultSubjectPrefix
	}
	return &NatsPublisher{conn: c, prefix: prefix}
}

// Subject returns the subject events of type eventType are published on.
func (p *NatsPublisher) Subject(eventType string) string {
	return fmt.Sprintf("%s.%s", p.prefix, eventType)
}

// Publish implements i.EventPublisher.
func (p *NatsPublisher) Publish(ctx context.Context, e i.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encoding %s event: %w", e.Type, err)
	}

	if err := p.conn.Publish(p.Subject(e.Type), data); err != nil {
		return fmt.Errorf("publishing %s event: %w", e.Type, err)
	}
	return nil
}
