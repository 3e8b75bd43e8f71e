/*
Package maze generates perfect rectangular mazes.

A maze is described by its Openings: two boolean grids recording which internal
walls were removed. Generation uses a randomized depth-first backtracker, so
the open walls always form a spanning tree over the cells and there is exactly
one path between any two cells.

The random source is injected, which makes every maze reproducible from a seed.
*/
package maze

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// MaxDimension bounds rows and columns of a generated maze.
const MaxDimension = 100

var (
	ErrInvalidDimensions = errors.New("invalid maze dimensions")
)

// Rand is the random source used by Generate. It must return a uniformly
// distributed integer in [0, n). *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// NewRand returns a seeded random source. A zero seed is replaced by the
// current time.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// frame is one level of the backtracker's explicit stack.
type frame struct {
	pos        CellPosition
	candidates [4]Direction
	next       int
}

// Generate builds a rows x columns maze with a randomized depth-first
// backtracker driven by rng.
func Generate(rows, columns int, rng Rand) (Openings, error) {
	if min(rows, columns) <= 0 || max(rows, columns) > MaxDimension {
		return Openings{}, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, rows, columns)
	}

	grid := make([][]Cell, rows)
	for r := range grid {
		grid[r] = make([]Cell, columns)
	}
	openings := newOpenings(rows, columns)

	inBound := func(p CellPosition) bool {
		return p.Row >= 0 && p.Row < rows && p.Col >= 0 && p.Col < columns
	}

	start := CellPosition{Row: rng.Intn(rows), Col: rng.Intn(columns)}
	grid[start.Row][start.Col].Visited = true
	stack := make([]frame, 0, rows*columns)
	stack = append(stack, frame{pos: start, candidates: shuffledDirections(rng)})

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next == len(top.candidates) {
			stack = stack[:len(stack)-1]
			continue
		}

		move := neighbour(top.pos, top.candidates[top.next])
		top.next++

		if !inBound(move.To) || grid[move.To.Row][move.To.Col].Visited {
			continue
		}

		openings.open(move)
		grid[move.To.Row][move.To.Col].Visited = true
		stack = append(stack, frame{pos: move.To, candidates: shuffledDirections(rng)})
	}

	return openings, nil
}

// shuffledDirections returns up, right, down, left in a uniformly random order
// using a Fisher-Yates shuffle from the last index down.
func shuffledDirections(rng Rand) [4]Direction {
	dirs := [4]Direction{Up, Right, Down, Left}
	for i := len(dirs) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		dirs[i], dirs[j] = dirs[j], dirs[i]
	}
	return dirs
}
