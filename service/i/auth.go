package i

import (
	dmn "github.com/beka-birhanu/vinom-rollmaze/domain"
	"github.com/google/uuid"
)

// Authenticator registers players and signs them in.
type Authenticator interface {
	// Register creates a new player account and returns it.
	Register(username, password string) (*dmn.User, error)

	// SignIn verifies the credentials and returns the player with an access token.
	SignIn(username, password string) (*dmn.User, string, error)

	// Player returns the account of a signed-in player.
	Player(id uuid.UUID) (*dmn.User, error)
}
