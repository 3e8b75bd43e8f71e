package maze

import "strings"

// Openings records which internal walls of a rows x columns grid were removed.
// Verticals[r][c] is true when there is no wall between (r,c) and (r,c+1).
// Horizontals[r][c] is true when there is no wall between (r,c) and (r+1,c).
type Openings struct {
	Verticals   [][]bool // rows x (columns-1)
	Horizontals [][]bool // (rows-1) x columns
}

// newOpenings returns a fully walled grid.
func newOpenings(rows, columns int) Openings {
	verticals := make([][]bool, rows)
	for r := range verticals {
		verticals[r] = make([]bool, columns-1)
	}
	horizontals := make([][]bool, rows-1)
	for r := range horizontals {
		horizontals[r] = make([]bool, columns)
	}
	return Openings{Verticals: verticals, Horizontals: horizontals}
}

// Rows returns the number of cell rows.
func (o Openings) Rows() int {
	return len(o.Verticals)
}

// Columns returns the number of cell columns.
func (o Openings) Columns() int {
	if len(o.Verticals) == 0 {
		return 0
	}
	return len(o.Verticals[0]) + 1
}

// OpenCount returns the number of removed walls across both grids.
func (o Openings) OpenCount() int {
	count := 0
	for _, row := range o.Verticals {
		for _, open := range row {
			if open {
				count++
			}
		}
	}
	for _, row := range o.Horizontals {
		for _, open := range row {
			if open {
				count++
			}
		}
	}
	return count
}

// Clone returns a deep copy, so the caller can hand out a snapshot that later
// generations cannot touch.
func (o Openings) Clone() Openings {
	c := Openings{
		Verticals:   make([][]bool, len(o.Verticals)),
		Horizontals: make([][]bool, len(o.Horizontals)),
	}
	for r, row := range o.Verticals {
		c.Verticals[r] = append([]bool(nil), row...)
	}
	for r, row := range o.Horizontals {
		c.Horizontals[r] = append([]bool(nil), row...)
	}
	return c
}

// IsOpen reports whether move crosses a removed wall. Moves that leave the grid
// or do not join adjacent cells are never open.
func (o Openings) IsOpen(move Move) bool {
	rows, cols := o.Rows(), o.Columns()
	inBound := func(p CellPosition) bool {
		return p.Row >= 0 && p.Row < rows && p.Col >= 0 && p.Col < cols
	}
	if !inBound(move.From) || !inBound(move.To) {
		return false
	}

	from, to := move.From, move.To
	switch move.Direction {
	case Up:
		return to.Row == from.Row-1 && to.Col == from.Col && o.Horizontals[to.Row][to.Col]
	case Down:
		return to.Row == from.Row+1 && to.Col == from.Col && o.Horizontals[from.Row][from.Col]
	case Left:
		return to.Col == from.Col-1 && to.Row == from.Row && o.Verticals[to.Row][to.Col]
	case Right:
		return to.Col == from.Col+1 && to.Row == from.Row && o.Verticals[from.Row][from.Col]
	default:
		return false
	}
}

// open removes the wall crossed by move. The move must stay inside the grid.
func (o Openings) open(move Move) {
	from := move.From
	switch move.Direction {
	case Up:
		o.Horizontals[from.Row-1][from.Col] = true
	case Down:
		o.Horizontals[from.Row][from.Col] = true
	case Left:
		o.Verticals[from.Row][from.Col-1] = true
	case Right:
		o.Verticals[from.Row][from.Col] = true
	}
}

// Connected reports whether every cell is reachable from (0,0) through open
// walls and the number of open walls equals rows*columns-1, i.e. the openings
// form a spanning tree.
func (o Openings) Connected() bool {
	rows, cols := o.Rows(), o.Columns()
	if rows == 0 || cols == 0 {
		return false
	}
	if o.OpenCount() != rows*cols-1 {
		return false
	}

	seen := make([][]bool, rows)
	for r := range seen {
		seen[r] = make([]bool, cols)
	}
	seen[0][0] = true
	queue := []CellPosition{{Row: 0, Col: 0}}
	reached := 1

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for d := Up; d <= Left; d++ {
			move := neighbour(cur, d)
			if !o.IsOpen(move) || seen[move.To.Row][move.To.Col] {
				continue
			}
			seen[move.To.Row][move.To.Col] = true
			reached++
			queue = append(queue, move.To)
		}
	}

	return reached == rows*cols
}

// String provides a textual representation of the maze.
func (o Openings) String() string {
	rows, cols := o.Rows(), o.Columns()
	var output strings.Builder

	// Top boundary
	output.WriteString("+" + strings.Repeat("---+", cols) + "\n")

	for row := 0; row < rows; row++ {
		// Cell rows
		output.WriteString("|")
		for col := 0; col < cols; col++ {
			output.WriteString("   ")
			if col < cols-1 && o.Verticals[row][col] {
				output.WriteString(" ")
			} else {
				output.WriteString("|")
			}
		}
		output.WriteString("\n")

		// Wall rows
		output.WriteString("+")
		for col := 0; col < cols; col++ {
			if row < rows-1 && o.Horizontals[row][col] {
				output.WriteString("   +")
			} else {
				output.WriteString("---+")
			}
		}
		output.WriteString("\n")
	}

	return output.String()
}
