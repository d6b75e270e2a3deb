// internal/game/grid.go
//
// Fixed-size hex grid stored as a rectangular array.
// Responsibilities:
//   - Own every Cell; nothing outside the package keeps a *Cell across a pass.
//   - Resolve neighbours with the column-parity stagger rule.
//   - Provide the small queries the resolution and row-shift passes need.
//
// Layout:
//   Even columns are drawn half a tile lower than odd columns, so an even-column
//   cell touches the row below on its diagonals and an odd-column cell touches the
//   row above.

package game

// Neighbors returns the up to six in-bounds neighbours of (row, col) in a fixed
// order: right, left, up, down, then the two diagonals (bottom-left/right for
// even columns, top-left/right for odd ones). Cluster insertion order depends on it.
func Neighbors(row, col, rows, cols int) []Pos {
	cand := [6]Pos{
		{row, col + 1},
		{row, col - 1},
		{row - 1, col},
		{row + 1, col},
	}
	if col%2 == 0 {
		cand[4] = Pos{row + 1, col - 1}
		cand[5] = Pos{row + 1, col + 1}
	} else {
		cand[4] = Pos{row - 1, col - 1}
		cand[5] = Pos{row - 1, col + 1}
	}
	out := make([]Pos, 0, 6)
	for _, p := range cand {
		if p.Row >= 0 && p.Row < rows && p.Col >= 0 && p.Col < cols {
			out = append(out, p)
		}
	}
	return out
}

// Grid owns the rows × columns cells.
type Grid struct {
	rows  int
	cols  int
	cells []Cell
}

// NewGrid builds an empty grid.
func NewGrid(rows, cols int) *Grid {
	g := &Grid{rows: rows, cols: cols, cells: make([]Cell, rows*cols)}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			g.cells[r*cols+c] = Cell{Row: r, Col: c}
		}
	}
	return g
}

// Rows is the grid height.
func (g *Grid) Rows() int { return g.rows }

// Columns is the grid width.
func (g *Grid) Columns() int { return g.cols }

// InBounds reports whether (row, col) addresses a slot.
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.cols
}

// At returns the cell at (row, col), or nil when out of bounds.
func (g *Grid) At(row, col int) *Cell {
	if !g.InBounds(row, col) {
		return nil
	}
	return &g.cells[row*g.cols+col]
}

// Set activates (row, col) with type t.
func (g *Grid) Set(row, col, t int) {
	c := g.At(row, col)
	c.Type = t
	c.Active = true
}

// ActiveNeighbors returns the occupied neighbours of c in Neighbors order.
func (g *Grid) ActiveNeighbors(c *Cell) []*Cell {
	var out []*Cell
	for _, p := range Neighbors(c.Row, c.Col, g.rows, g.cols) {
		if n := g.At(p.Row, p.Col); n.Active {
			out = append(out, n)
		}
	}
	return out
}

// EmptyNeighbors returns the free neighbour slots of (row, col) in Neighbors order.
func (g *Grid) EmptyNeighbors(row, col int) []Pos {
	var out []Pos
	for _, p := range Neighbors(row, col, g.rows, g.cols) {
		if !g.At(p.Row, p.Col).Active {
			out = append(out, p)
		}
	}
	return out
}

// RowEmpty reports whether no cell in row is active.
func (g *Grid) RowEmpty(row int) bool {
	for c := 0; c < g.cols; c++ {
		if g.At(row, c).Active {
			return false
		}
	}
	return true
}

// ActiveCount is the number of occupied slots.
func (g *Grid) ActiveCount() int {
	n := 0
	for i := range g.cells {
		if g.cells[i].Active {
			n++
		}
	}
	return n
}

// Each calls fn for every cell in row-major order.
func (g *Grid) Each(fn func(c *Cell)) {
	for i := range g.cells {
		fn(&g.cells[i])
	}
}

// destroy deactivates c and emits its pop cue.
func (g *Grid) destroy(c *Cell, sink Sink) {
	c.Active = false
	sink.Destroyed(c.Pos())
}
