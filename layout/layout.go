// Package layout converts maze openings into rectangular bodies for a physics
// engine: one wall per closed slot, four boundary walls, a goal region and the
// actor's spawn point.
package layout

import (
	"errors"
	"fmt"

	"github.com/beka-birhanu/vinom-rollmaze/maze"
)

const (
	DefaultWallThickness     = 5.0
	DefaultBoundaryThickness = 2.0

	goalScale   = 0.7
	radiusRatio = 4.0
)

var ErrInvalidRegion = errors.New("invalid layout region")

// Vector is a 2D vector in engine coordinates, y pointing down.
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Obstacle is an axis-aligned rectangle centred at (CenterX, CenterY).
type Obstacle struct {
	ID      int     `json:"id"`
	Kind    Kind    `json:"kind"`
	CenterX float64 `json:"centerX"`
	CenterY float64 `json:"centerY"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Mutable bool    `json:"mutable"`
}

// ActorSpawn describes the dynamic circle steered by the player.
type ActorSpawn struct {
	CenterX  float64 `json:"centerX"`
	CenterY  float64 `json:"centerY"`
	Radius   float64 `json:"radius"`
	Velocity Vector  `json:"velocity"`
}

// Layout is everything the engine needs to build a maze world.
type Layout struct {
	Width     float64    `json:"width"`
	Height    float64    `json:"height"`
	Rows      int        `json:"rows"`
	Columns   int        `json:"columns"`
	Obstacles []Obstacle `json:"obstacles"` // walls followed by the four boundaries
	Goal      Obstacle   `json:"goal"`
	Actor     ActorSpawn `json:"actor"`
}

// WallCount returns the number of inner wall obstacles.
func (l Layout) WallCount() int {
	n := 0
	for _, o := range l.Obstacles {
		if o.Kind == Wall {
			n++
		}
	}
	return n
}

// Bodies returns every rectangular body including the goal.
func (l Layout) Bodies() []Obstacle {
	bodies := make([]Obstacle, 0, len(l.Obstacles)+1)
	bodies = append(bodies, l.Obstacles...)
	return append(bodies, l.Goal)
}

// Clone returns a copy that shares no slices with l.
func (l Layout) Clone() Layout {
	c := l
	c.Obstacles = append([]Obstacle(nil), l.Obstacles...)
	return c
}

// Emitter turns openings into a Layout.
type Emitter struct {
	WallThickness     float64 // Thickness of inner walls.
	BoundaryThickness float64 // Thickness of the four enclosing walls.
}

// Emit builds a layout with the default wall thicknesses.
func Emit(o maze.Openings, width, height float64) (Layout, error) {
	e := Emitter{WallThickness: DefaultWallThickness, BoundaryThickness: DefaultBoundaryThickness}
	return e.Emit(o, width, height)
}

// checkShape rejects openings whose grids are not rows x (columns-1) and
// (rows-1) x columns.
func checkShape(o maze.Openings, rows, columns int) error {
	if rows == 0 || columns == 0 || len(o.Horizontals) != rows-1 {
		return fmt.Errorf("%w: malformed openings", ErrInvalidRegion)
	}
	for r, row := range o.Verticals {
		if len(row) != columns-1 {
			return fmt.Errorf("%w: vertical row %d has %d slots, want %d", ErrInvalidRegion, r, len(row), columns-1)
		}
	}
	for r, row := range o.Horizontals {
		if len(row) != columns {
			return fmt.Errorf("%w: horizontal row %d has %d slots, want %d", ErrInvalidRegion, r, len(row), columns)
		}
	}
	return nil
}

// Emit builds the layout for o inside a width x height region.
func (e Emitter) Emit(o maze.Openings, width, height float64) (Layout, error) {
	rows, columns := o.Rows(), o.Columns()
	if err := checkShape(o, rows, columns); err != nil {
		return Layout{}, err
	}
	if width <= 0 || height <= 0 {
		return Layout{}, fmt.Errorf("%w: %gx%g", ErrInvalidRegion, width, height)
	}

	unitWidth := width / float64(columns)
	unitHeight := height / float64(rows)

	obstacles := make([]Obstacle, 0, (rows-1)*columns+rows*(columns-1)-o.OpenCount()+4)
	add := func(kind Kind, cx, cy, w, h float64) {
		obstacles = append(obstacles, Obstacle{
			ID:      len(obstacles),
			Kind:    kind,
			CenterX: cx,
			CenterY: cy,
			Width:   w,
			Height:  h,
		})
	}

	for r, row := range o.Horizontals {
		for c, open := range row {
			if open {
				continue
			}
			add(Wall,
				float64(c)*unitWidth+unitWidth/2,
				float64(r+1)*unitHeight,
				unitWidth,
				e.WallThickness,
			)
		}
	}

	for r, row := range o.Verticals {
		for c, open := range row {
			if open {
				continue
			}
			add(Wall,
				float64(c+1)*unitWidth,
				float64(r)*unitHeight+unitHeight/2,
				e.WallThickness,
				unitHeight,
			)
		}
	}

	// Top, bottom, left, right.
	add(Boundary, width/2, 0, width, e.BoundaryThickness)
	add(Boundary, width/2, height, width, e.BoundaryThickness)
	add(Boundary, 0, height/2, e.BoundaryThickness, height)
	add(Boundary, width, height/2, e.BoundaryThickness, height)

	goal := Obstacle{
		ID:      len(obstacles),
		Kind:    Goal,
		CenterX: width - unitWidth/2,
		CenterY: height - unitHeight/2,
		Width:   unitWidth * goalScale,
		Height:  unitHeight * goalScale,
	}

	actor := ActorSpawn{
		CenterX: unitWidth / 2,
		CenterY: unitHeight / 2,
		Radius:  min(unitWidth, unitHeight) / radiusRatio,
	}

	return Layout{
		Width:     width,
		Height:    height,
		Rows:      rows,
		Columns:   columns,
		Obstacles: obstacles,
		Goal:      goal,
		Actor:     actor,
	}, nil
}
