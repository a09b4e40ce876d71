package tile

import "iter"

// ColumnMajor iterates the grid in binary stream order: outer loop over
// columns, inner loop over rows.
func (g *Grid[T]) ColumnMajor() iter.Seq2[Point, T] {
	return func(yield func(Point, T) bool) {
		for x := range g.Width {
			for y := range g.Height {
				if !yield(Point{X: x, Y: y}, g.cells[y*g.Width+x]) {
					return
				}
			}
		}
	}
}

// RowMajor iterates the grid in TMX data order: outer loop over rows,
// inner loop over columns.
func (g *Grid[T]) RowMajor() iter.Seq2[Point, T] {
	return func(yield func(Point, T) bool) {
		for y := range g.Height {
			for x := range g.Width {
				if !yield(Point{X: x, Y: y}, g.cells[y*g.Width+x]) {
					return
				}
			}
		}
	}
}
