// Package gameapi exposes maze sessions over HTTP.
package gameapi

import (
	"github.com/beka-birhanu/vinom-rollmaze/game"
)

// InputRequest carries one directional input.
type InputRequest struct {
	Direction string `json:"direction" binding:"required"`
}

// CollisionRequest reports a collision-start between two bodies, by kind.
type CollisionRequest struct {
	A string `json:"a" binding:"required"`
	B string `json:"b" binding:"required"`
}

// SessionResponse pairs a session with the engine commands it produced.
type SessionResponse struct {
	Session  game.Snapshot  `json:"session"`
	Commands []game.Command `json:"commands"`
}

// LeaderboardResponse lists the fastest solves.
type LeaderboardResponse struct {
	Entries []LeaderboardEntry `json:"entries"`
}

// LeaderboardEntry is one ranked solve.
type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	PlayerID    string `json:"playerId"`
	SolveMillis int64  `json:"solveMillis"`
}
