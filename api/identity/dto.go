package identity

import (
	dmn "github.com/beka-birhanu/vinom-rollmaze/domain"
)

// AuthRequest is the body of register and login requests.
type AuthRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// PlayerResponse is the public view of a player account.
type PlayerResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Wins     int    `json:"wins"`
}

// AuthResponse is returned by a successful login.
type AuthResponse struct {
	Player PlayerResponse `json:"player"`
	Token  string         `json:"token"`
}

func playerResponse(u *dmn.User) PlayerResponse {
	return PlayerResponse{
		ID:       u.ID.String(),
		Username: u.Username,
		Wins:     u.Wins,
	}
}
