package game

import (
	"errors"
	"fmt"

	"github.com/beka-birhanu/vinom-rollmaze/layout"
)

// Vector is a 2D vector in engine coordinates, y pointing down.
type Vector = layout.Vector

// State is the session-wide play/win flag.
type State uint8

const (
	Playing State = iota
	Won
)

func (s State) String() string {
	switch s {
	case Playing:
		return "playing"
	case Won:
		return "won"
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Direction is a directional input event.
type Direction uint8

const (
	Up Direction = iota
	Right
	Down
	Left
)

var ErrUnknownDirection = errors.New("unknown direction")

var directionNames = [...]string{"up", "right", "down", "left"}

func (d Direction) String() string {
	if int(d) >= len(directionNames) {
		return fmt.Sprintf("direction(%d)", uint8(d))
	}
	return directionNames[d]
}

// ParseDirection returns the Direction named by s.
func ParseDirection(s string) (Direction, error) {
	for i, name := range directionNames {
		if name == s {
			return Direction(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDirection, s)
}

// Step returns v after one directional input of magnitude step. Inputs on
// different axes compose additively.
func Step(d Direction, v Vector, step float64) (Vector, error) {
	switch d {
	case Up:
		v.Y -= step
	case Down:
		v.Y += step
	case Right:
		v.X += step
	case Left:
		v.X -= step
	default:
		return v, fmt.Errorf("%w: %d", ErrUnknownDirection, uint8(d))
	}
	return v, nil
}

// clamp limits each axis of v to [-limit, limit]. A zero limit disables it.
func clamp(v Vector, limit float64) Vector {
	if limit <= 0 {
		return v
	}
	return Vector{X: max(-limit, min(limit, v.X)), Y: max(-limit, min(limit, v.Y))}
}
