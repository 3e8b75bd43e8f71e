package i

import (
	"context"

	"github.com/beka-birhanu/vinom-rollmaze/game"
	"github.com/beka-birhanu/vinom-rollmaze/layout"
	"github.com/google/uuid"
)

// GameSessionManager creates game sessions and routes engine notifications to them.
// Every call after NewSession is made on behalf of playerID and fails unless the
// player owns the session.
type GameSessionManager interface {
	// NewSession generates a maze for the player and returns the session with the
	// commands that build its world.
	NewSession(ctx context.Context, playerID uuid.UUID) (game.Snapshot, []game.Command, error)

	// Session returns the current state of a session.
	Session(playerID, sessionID uuid.UUID) (game.Snapshot, error)

	// Input applies a directional event and returns the resulting engine commands.
	Input(ctx context.Context, playerID, sessionID uuid.UUID, d game.Direction) (game.Snapshot, []game.Command, error)

	// Collide reports a collision between two bodies and returns the resulting engine commands.
	Collide(ctx context.Context, playerID, sessionID uuid.UUID, a, b layout.Kind) (game.Snapshot, []game.Command, error)

	// End removes a session.
	End(ctx context.Context, playerID, sessionID uuid.UUID) error

	// Leaderboard returns the fastest solves.
	Leaderboard(ctx context.Context, limit int64) ([]LeaderboardEntry, error)
}
