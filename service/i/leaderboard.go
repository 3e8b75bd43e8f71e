package i

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// LeaderboardEntry is a player's fastest solve.
type LeaderboardEntry struct {
	PlayerID    uuid.UUID `json:"playerId"`
	SolveMillis int64     `json:"solveMillis"`
}

// Leaderboard ranks players by their fastest solve.
type Leaderboard interface {
	// Record stores solve for the player if it beats their previous best.
	// It reports whether the stored value changed.
	Record(ctx context.Context, playerID uuid.UUID, solve time.Duration) (bool, error)

	// Top returns up to limit entries, fastest first.
	Top(ctx context.Context, limit int64) ([]LeaderboardEntry, error)
}
