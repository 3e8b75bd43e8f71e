package game

import (
	"sync"

	"github.com/beka-birhanu/vinom-rollmaze/layout"
)

// Engine is the physics/render collaborator that simulates the bodies of a
// session. The session only issues commands; the engine owns live positions.
type Engine interface {
	// Spawn hands the static obstacles, the goal and the actor to the engine.
	Spawn(l layout.Layout)

	// SetVelocity sets the actor's velocity.
	SetVelocity(v Vector)

	// SetStatic toggles an obstacle between immovable and free.
	SetStatic(obstacleID int, static bool)

	// SetGravity sets the world gravity.
	SetGravity(g Vector)
}

// CommandKind identifies an engine command.
type CommandKind string

const (
	CommandSpawn    CommandKind = "spawn"
	CommandVelocity CommandKind = "velocity"
	CommandStatic   CommandKind = "static"
	CommandGravity  CommandKind = "gravity"
)

// Command is one recorded engine call.
type Command struct {
	Kind       CommandKind    `json:"kind"`
	ObstacleID int            `json:"obstacleId"`
	Static     bool           `json:"static"`
	Vector     Vector         `json:"vector"`
	Layout     *layout.Layout `json:"layout,omitempty"`
}

var _ Engine = &CommandBuffer{}

// CommandBuffer is an Engine that records commands for delivery to a remote
// engine.
type CommandBuffer struct {
	commands []Command
	sync.Mutex
}

// NewCommandBuffer returns an empty buffer.
func NewCommandBuffer() *CommandBuffer {
	return &CommandBuffer{}
}

// Spawn implements Engine.
func (b *CommandBuffer) Spawn(l layout.Layout) {
	c := l.Clone()
	b.push(Command{Kind: CommandSpawn, Layout: &c})
}

// SetVelocity implements Engine.
func (b *CommandBuffer) SetVelocity(v Vector) {
	b.push(Command{Kind: CommandVelocity, Vector: v})
}

// SetStatic implements Engine.
func (b *CommandBuffer) SetStatic(obstacleID int, static bool) {
	b.push(Command{Kind: CommandStatic, ObstacleID: obstacleID, Static: static})
}

// SetGravity implements Engine.
func (b *CommandBuffer) SetGravity(g Vector) {
	b.push(Command{Kind: CommandGravity, Vector: g})
}

// Drain returns the recorded commands in order and empties the buffer.
func (b *CommandBuffer) Drain() []Command {
	b.Lock()
	defer b.Unlock()
	commands := b.commands
	b.commands = nil
	return commands
}

func (b *CommandBuffer) push(c Command) {
	b.Lock()
	defer b.Unlock()
	b.commands = append(b.commands, c)
}
