package i

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Session lifecycle event types.
const (
	EventSessionStarted = "session.started"
	EventSessionWon     = "session.won"
	EventSessionEnded   = "session.ended"
)

// Event describes a change in a game session.
type Event struct {
	Type        string    `json:"type"`
	SessionID   uuid.UUID `json:"sessionId"`
	PlayerID    uuid.UUID `json:"playerId"`
	At          time.Time `json:"at"`
	SolveMillis int64     `json:"solveMillis,omitempty"`
}

// EventPublisher delivers session events to other services.
type EventPublisher interface {
	Publish(ctx context.Context, e Event) error
}
