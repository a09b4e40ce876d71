package binlevel

import (
	"bytes"
	"io"

	"github.com/eak1mov/go-bintmx/tile"
)

// LayerSpec names a layer and its encoding in stream order.
type LayerSpec struct {
	Name     string
	Encoding tile.Encoding
}

type Layer struct {
	LayerSpec
	Cells *tile.Grid[tile.Cell]
	// Truncated lists cells that were at least partly missing from the stream.
	Truncated []tile.Point
}

type Level struct {
	Header
	Layers []Layer
}

// ReadLayer reads one layer of width x height cells starting at the cursor.
// Auxiliary bytes of empty cells are consumed as well.
func ReadLayer(c *Cursor, encoding tile.Encoding, width, height int) (*tile.Grid[tile.Cell], []tile.Point) {
	cells := tile.NewGrid[tile.Cell](width, height)
	var truncated []tile.Point
	for x := range width {
		for y := range height {
			overrun := c.Overrun()

			var cell tile.Cell
			cell.Value = c.Next()
			switch encoding {
			case tile.EncodingAutotile:
				cell.AutoX = c.Next()
				cell.AutoY = c.Next()
			case tile.EncodingFlip:
				cell.Flip = c.Next() == 1
			}
			cells.Set(x, y, cell)

			if c.Overrun() > overrun {
				truncated = append(truncated, tile.Point{X: x, Y: y})
			}
		}
	}
	return cells, truncated
}

// WriteLayer writes cells column by column using encoding.
func WriteLayer(w io.ByteWriter, encoding tile.Encoding, cells *tile.Grid[tile.Cell]) error {
	for _, cell := range cells.ColumnMajor() {
		if err := w.WriteByte(cell.Value); err != nil {
			return err
		}
		var err error
		switch encoding {
		case tile.EncodingAutotile:
			if err = w.WriteByte(cell.AutoX); err == nil {
				err = w.WriteByte(cell.AutoY)
			}
		case tile.EncodingFlip:
			var flip byte
			if cell.Flip {
				flip = 1
			}
			err = w.WriteByte(flip)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Decode parses a level whose layers appear in the order of specs. It
// never fails: missing bytes read as zero and the returned cursor reports
// how much was missing.
func Decode(data []byte, specs []LayerSpec) (*Level, *Cursor) {
	c := NewCursor(data)
	level := &Level{}
	level.Width = c.Next()
	level.Height = c.Next()

	w, h := int(level.Width), int(level.Height)
	for _, spec := range specs {
		cells, truncated := ReadLayer(c, spec.Encoding, w, h)
		level.Layers = append(level.Layers, Layer{
			LayerSpec: spec,
			Cells:     cells,
			Truncated: truncated,
		})
	}
	return level, c
}

// Encode serializes level followed by the sentinel byte. Layers are written
// in slice order; a layer with nil cells is written as empty.
func Encode(level *Level) []byte {
	var buffer bytes.Buffer
	buffer.Write(SerializeHeader(&level.Header))
	w, h := int(level.Width), int(level.Height)
	for _, layer := range level.Layers {
		cells := layer.Cells
		if cells == nil || cells.Width != w || cells.Height != h {
			resized := tile.NewGrid[tile.Cell](w, h)
			if cells != nil {
				for p, cell := range cells.RowMajor() {
					resized.Set(p.X, p.Y, cell)
				}
			}
			cells = resized
		}
		WriteLayer(&buffer, layer.Encoding, cells) // bytes.Buffer writes never fail
	}
	buffer.WriteByte(Sentinel)
	return buffer.Bytes()
}

// Size returns the encoded length of a level with the given dimensions and
// layers, excluding the sentinel.
func Size(header Header, specs []LayerSpec) int {
	size := HeaderLength
	for _, spec := range specs {
		size += header.Cells() * (1 + spec.Encoding.AuxBytes())
	}
	return size
}
