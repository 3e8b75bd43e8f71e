/*
Package game runs the play/win state machine of a maze session.

A Session owns the actor's commanded velocity and the session state. Input
events change the velocity; a collision between the actor and the goal moves
the session from Playing to Won exactly once, releasing every inner wall to
gravity. All effects are issued as commands to an Engine.
*/
package game

import (
	"errors"
	"sync"
	"time"

	"github.com/beka-birhanu/vinom-rollmaze/layout"
	"github.com/google/uuid"
)

// Session-related errors.
var (
	ErrNilEngine     = errors.New("engine is required")
	ErrInvalidPolicy = errors.New("invalid session policy")
	ErrSessionWon    = errors.New("session already won")
)

// Default policy values.
const (
	DefaultVelocityStep = 3.0
	DefaultMaxSpeed     = 15.0
	DefaultWinGravity   = 1.0
)

// Policy holds the tunable rules of a session.
type Policy struct {
	VelocityStep  float64 // Speed added per directional input.
	MaxSpeed      float64 // Per-axis speed limit; 0 disables it.
	WinGravity    float64 // Downward gravity switched on by the win.
	InputAfterWin bool    // Keep steering the actor once the session is won.
}

// DefaultPolicy returns the policy used when none is configured.
func DefaultPolicy() Policy {
	return Policy{
		VelocityStep: DefaultVelocityStep,
		MaxSpeed:     DefaultMaxSpeed,
		WinGravity:   DefaultWinGravity,
	}
}

func (p Policy) validate() error {
	if p.VelocityStep <= 0 || p.MaxSpeed < 0 || p.WinGravity <= 0 {
		return ErrInvalidPolicy
	}
	return nil
}

// Config is used to create a Session.
type Config struct {
	ID       uuid.UUID        // Session ID; generated when zero.
	PlayerID uuid.UUID        // Player driving the actor.
	Layout   layout.Layout    // Bodies of the maze.
	Policy   Policy           // Session rules.
	Engine   Engine           // Engine receiving commands.
	Clock    func() time.Time // Time source; time.Now when nil.
}

// Snapshot is a read-only copy of a session.
type Snapshot struct {
	ID        uuid.UUID     `json:"id"`
	PlayerID  uuid.UUID     `json:"playerId"`
	State     State         `json:"state"`
	Velocity  Vector        `json:"velocity"`
	Gravity   Vector        `json:"gravity"`
	Layout    layout.Layout `json:"layout"`
	StartedAt time.Time     `json:"startedAt"`
	WonAt     time.Time     `json:"wonAt,omitzero"`
}

// SolveTime returns how long the player took to reach the goal, or zero while
// the session is still playing.
func (s Snapshot) SolveTime() time.Duration {
	if s.State != Won {
		return 0
	}
	return s.WonAt.Sub(s.StartedAt)
}

// Session is a single game of one maze.
type Session struct {
	id        uuid.UUID
	playerID  uuid.UUID
	layout    layout.Layout
	state     State
	velocity  Vector
	gravity   Vector
	policy    Policy
	engine    Engine
	clock     func() time.Time
	startedAt time.Time
	wonAt     time.Time
	sync.Mutex
}

// New creates a playing session and spawns its bodies in the engine with
// gravity off.
func New(c Config) (*Session, error) {
	if c.Engine == nil {
		return nil, ErrNilEngine
	}
	if err := c.Policy.validate(); err != nil {
		return nil, err
	}

	id := c.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	clock := c.Clock
	if clock == nil {
		clock = time.Now
	}

	s := &Session{
		id:        id,
		playerID:  c.PlayerID,
		layout:    c.Layout.Clone(),
		state:     Playing,
		velocity:  c.Layout.Actor.Velocity,
		policy:    c.Policy,
		engine:    c.Engine,
		clock:     clock,
		startedAt: clock(),
	}

	s.engine.Spawn(s.layout)
	s.engine.SetGravity(Vector{})
	return s, nil
}

// ID returns the session ID.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// PlayerID returns the ID of the player driving the actor.
func (s *Session) PlayerID() uuid.UUID {
	return s.playerID
}

// State returns the current state.
func (s *Session) State() State {
	s.Lock()
	defer s.Unlock()
	return s.state
}

// Input applies a directional event to the actor's velocity and returns the
// new velocity.
func (s *Session) Input(d Direction) (Vector, error) {
	s.Lock()
	defer s.Unlock()

	if s.state == Won && !s.policy.InputAfterWin {
		return s.velocity, ErrSessionWon
	}

	v, err := Step(d, s.velocity, s.policy.VelocityStep)
	if err != nil {
		return s.velocity, err
	}

	s.velocity = clamp(v, s.policy.MaxSpeed)
	s.engine.SetVelocity(s.velocity)
	return s.velocity, nil
}

// Collide handles a collision-start notification between two bodies. It
// returns true only when the notification won the session.
func (s *Session) Collide(a, b layout.Kind) bool {
	if !isGoalContact(a, b) {
		return false
	}

	s.Lock()
	if s.state != Playing {
		s.Unlock()
		return false
	}

	s.state = Won
	s.wonAt = s.clock()
	s.gravity = Vector{Y: s.policy.WinGravity}
	s.engine.SetGravity(s.gravity)
	for i := range s.layout.Obstacles {
		o := &s.layout.Obstacles[i]
		if o.Kind != layout.Wall {
			continue
		}
		o.Mutable = true
		s.engine.SetStatic(o.ID, false)
	}
	s.Unlock()
	return true
}

// Snapshot returns a copy of the session.
func (s *Session) Snapshot() Snapshot {
	s.Lock()
	defer s.Unlock()
	return s.snapshot()
}

func (s *Session) snapshot() Snapshot {
	return Snapshot{
		ID:        s.id,
		PlayerID:  s.playerID,
		State:     s.state,
		Velocity:  s.velocity,
		Gravity:   s.gravity,
		Layout:    s.layout.Clone(),
		StartedAt: s.startedAt,
		WonAt:     s.wonAt,
	}
}

// isGoalContact reports whether {a, b} is {actor, goal} in either order.
func isGoalContact(a, b layout.Kind) bool {
	switch a {
	case layout.Actor:
		return b == layout.Goal
	case layout.Goal:
		return b == layout.Actor
	case layout.Wall, layout.Boundary:
		return false
	default:
		return false
	}
}
