package maze

// Cell represents a single cell in a maze grid during generation.
type Cell struct {
	Visited bool // Visited indicates the backtracker has already entered the cell.
}

// CellPosition represents the position of a cell in the maze grid.
type CellPosition struct {
	Row int // Row index of the cell
	Col int // Column index of the cell
}

// Direction names one of the four neighbours of a cell.
type Direction int

// Neighbour directions in canonical order.
const (
	Up Direction = iota
	Right
	Down
	Left
)

var directionNames = [...]string{"up", "right", "down", "left"}

// String returns the lowercase name of the direction.
func (d Direction) String() string {
	if d < Up || d > Left {
		return "unknown"
	}
	return directionNames[d]
}

// Move represents a movement from one cell to an adjacent one.
type Move struct {
	From      CellPosition // Starting cell
	To        CellPosition // Destination cell
	Direction Direction    // Direction of the move
}

// neighbour returns the move from pos in direction d. The destination may lie
// outside the grid.
func neighbour(pos CellPosition, d Direction) Move {
	to := pos
	switch d {
	case Up:
		to.Row--
	case Right:
		to.Col++
	case Down:
		to.Row++
	case Left:
		to.Col--
	}
	return Move{From: pos, To: to, Direction: d}
}
