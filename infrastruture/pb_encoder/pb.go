package pb

import (
	"fmt"
	"math"

	"github.com/beka-birhanu/vinom-rollmaze/game"
	"github.com/beka-birhanu/vinom-rollmaze/layout"
	"github.com/beka-birhanu/vinom-rollmaze/service/i"
	"google.golang.org/protobuf/encoding/protowire"
)

// ContentType is the MIME type of protobuf payloads.
const ContentType = "application/x-protobuf"

var _ i.Encoder = &Protobuf{}

// Protobuf encodes layouts and session updates in the rollmaze.proto schema.
type Protobuf struct{}

// ContentType implements i.Encoder.
func (p *Protobuf) ContentType() string {
	return ContentType
}

// MarshalLayout implements i.Encoder.
func (p *Protobuf) MarshalLayout(l layout.Layout) ([]byte, error) {
	return appendLayout(nil, l), nil
}

// MarshalUpdate implements i.Encoder.
func (p *Protobuf) MarshalUpdate(s game.Snapshot, commands []game.Command) ([]byte, error) {
	b := appendMessage(nil, 1, appendSnapshot(nil, s))
	for _, c := range commands {
		cmd, err := appendCommand(nil, c)
		if err != nil {
			return nil, err
		}
		b = appendMessage(b, 2, cmd)
	}
	return b, nil
}

var commandKinds = map[game.CommandKind]int64{
	game.CommandSpawn:    1,
	game.CommandVelocity: 2,
	game.CommandStatic:   3,
	game.CommandGravity:  4,
}

func appendCommand(b []byte, c game.Command) ([]byte, error) {
	kind, ok := commandKinds[c.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown command kind %q", c.Kind)
	}
	b = appendInt(b, 1, kind)
	b = appendInt(b, 2, int64(c.ObstacleID))
	b = appendBool(b, 3, c.Static)
	b = appendMessage(b, 4, appendVector(nil, c.Vector))
	if c.Layout != nil {
		b = appendMessage(b, 5, appendLayout(nil, *c.Layout))
	}
	return b, nil
}

func appendSnapshot(b []byte, s game.Snapshot) []byte {
	b = appendString(b, 1, s.ID.String())
	b = appendString(b, 2, s.PlayerID.String())
	b = appendInt(b, 3, int64(s.State))
	b = appendMessage(b, 4, appendVector(nil, s.Velocity))
	b = appendMessage(b, 5, appendVector(nil, s.Gravity))
	b = appendMessage(b, 6, appendLayout(nil, s.Layout))
	b = appendInt(b, 7, s.StartedAt.UnixMilli())
	if !s.WonAt.IsZero() {
		b = appendInt(b, 8, s.WonAt.UnixMilli())
	}
	return b
}

func appendLayout(b []byte, l layout.Layout) []byte {
	b = appendDouble(b, 1, l.Width)
	b = appendDouble(b, 2, l.Height)
	b = appendInt(b, 3, int64(l.Rows))
	b = appendInt(b, 4, int64(l.Columns))
	for _, o := range l.Obstacles {
		b = appendMessage(b, 5, appendObstacle(nil, o))
	}
	b = appendMessage(b, 6, appendObstacle(nil, l.Goal))
	b = appendMessage(b, 7, appendActor(nil, l.Actor))
	return b
}

func appendObstacle(b []byte, o layout.Obstacle) []byte {
	b = appendInt(b, 1, int64(o.ID))
	b = appendInt(b, 2, int64(o.Kind))
	b = appendDouble(b, 3, o.CenterX)
	b = appendDouble(b, 4, o.CenterY)
	b = appendDouble(b, 5, o.Width)
	b = appendDouble(b, 6, o.Height)
	b = appendBool(b, 7, o.Mutable)
	return b
}

func appendActor(b []byte, a layout.ActorSpawn) []byte {
	b = appendDouble(b, 1, a.CenterX)
	b = appendDouble(b, 2, a.CenterY)
	b = appendDouble(b, 3, a.Radius)
	b = appendMessage(b, 4, appendVector(nil, a.Velocity))
	return b
}

func appendVector(b []byte, v layout.Vector) []byte {
	b = appendDouble(b, 1, v.X)
	b = appendDouble(b, 2, v.Y)
	return b
}

// Scalar helpers follow proto3 and skip zero values.

func appendDouble(b []byte, num protowire.Number, v float64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.Fixed64Type)
	return protowire.AppendFixed64(b, math.Float64bits(v))
}

func appendInt(b []byte, num protowire.Number, v int64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(v))
}

func appendBool(b []byte, num protowire.Number, v bool) []byte {
	if !v {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, protowire.EncodeBool(v))
}

func appendString(b []byte, num protowire.Number, v string) []byte {
	if v == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

// appendMessage always writes the field so an empty message stays present.
func appendMessage(b []byte, num protowire.Number, msg []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, msg)
}
