package tile

// Point is a cell coordinate.
type Point struct {
	X, Y int
}

// Grid is a width x height layer of cells. T is Cell on the binary side
// and GID on the TMX side.
type Grid[T any] struct {
	Width  int
	Height int
	cells  []T // row-major
}

// NewGrid returns a grid with every cell set to the zero value.
func NewGrid[T any](width, height int) *Grid[T] {
	return &Grid[T]{
		Width:  width,
		Height: height,
		cells:  make([]T, width*height),
	}
}

// GridFromFlat builds a grid from row-major values. Missing trailing values
// are left zero and extra values are ignored.
func GridFromFlat[T any](width, height int, values []T) *Grid[T] {
	g := NewGrid[T](width, height)
	copy(g.cells, values)
	return g
}

func (g *Grid[T]) inside(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

// At returns the cell at (x, y), or the zero value outside the grid.
func (g *Grid[T]) At(x, y int) T {
	if !g.inside(x, y) {
		var zero T
		return zero
	}
	return g.cells[y*g.Width+x]
}

// Set stores v at (x, y). Writes outside the grid are dropped.
func (g *Grid[T]) Set(x, y int, v T) {
	if g.inside(x, y) {
		g.cells[y*g.Width+x] = v
	}
}

// Flat returns a row-major copy of all cells.
func (g *Grid[T]) Flat() []T {
	return append([]T(nil), g.cells...)
}
