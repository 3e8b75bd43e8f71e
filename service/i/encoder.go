package i

import (
	"github.com/beka-birhanu/vinom-rollmaze/game"
	"github.com/beka-birhanu/vinom-rollmaze/layout"
)

// Encoder serializes the payloads sent to a remote engine.
type Encoder interface {
	// MarshalLayout encodes the bodies of a maze.
	MarshalLayout(l layout.Layout) ([]byte, error)

	// MarshalUpdate encodes a session snapshot together with pending engine commands.
	MarshalUpdate(s game.Snapshot, commands []game.Command) ([]byte, error)

	// ContentType returns the MIME type of the encoded payloads.
	ContentType() string
}
