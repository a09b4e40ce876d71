package codec

import (
	"math"

	"github.com/eak1mov/go-bintmx/atlas"
	"github.com/eak1mov/go-bintmx/tile"
)

// DecodeGID converts one GID into a binary cell. It is a best-effort
// inverse of EncodeCell: when definitions overlap in pixel space the first
// one in source order is chosen, which need not be the cell that was encoded.
func (c *Codec) DecodeGID(layer Layer, at tile.Point, gid tile.GID) tile.Cell {
	flip := gid.Flipped()
	id := gid.ID()
	if id == 0 {
		return tile.Cell{}
	}

	entry, ok := c.registry.Lookup(id)
	if !ok || entry.Columns == 0 {
		c.report(layer, at, KindOutOfRange, gid, 0)
		return unresolved(layer, flip)
	}

	local := int(id - entry.FirstGID)
	gridX := local % entry.Columns
	gridY := local / entry.Columns

	var cell tile.Cell
	if layer.Role == RoleIcon {
		cell, ok = c.decodeIcon(layer, at, gid, local)
	} else {
		cell, ok = c.decodeTile(layer, at, gid, entry, gridX, gridY)
	}
	if !ok {
		return unresolved(layer, flip)
	}

	switch layer.Encoding {
	case tile.EncodingAutotile:
		cell.Flip = false
	case tile.EncodingFlip:
		cell.AutoX, cell.AutoY = 0, 0
		cell.Flip = flip
	default:
		cell.AutoX, cell.AutoY, cell.Flip = 0, 0, false
	}
	return cell
}

// unresolved is the cell written for a non-empty GID that maps to no tile.
// FLIP layers still carry the flip flag of the GID.
func unresolved(layer Layer, flip bool) tile.Cell {
	if layer.Encoding == tile.EncodingFlip {
		return tile.Cell{Flip: flip}
	}
	return tile.Cell{}
}

func (c *Codec) decodeIcon(layer Layer, at tile.Point, gid tile.GID, local int) (tile.Cell, bool) {
	value, ok := toByte(local + 1)
	if !ok {
		c.report(layer, at, KindOverflow, gid, local)
		return tile.Cell{}, false
	}
	return tile.Cell{Value: value}, true
}

func (c *Codec) decodeTile(layer Layer, at tile.Point, gid tile.GID, entry atlas.Entry, gridX, gridY int) (tile.Cell, bool) {
	tileSize := c.registry.TileSize()
	px := float64(gridX * tileSize)
	py := float64(gridY * tileSize)

	def, matches := match(layer.Defs, entry.Path, px, py)
	switch {
	case matches > 1:
		c.report(layer, at, KindAmbiguous, gid, def.ID)
	case matches == 0:
		first, ok := layer.Defs.First()
		if layer.Role != RoleBackground || !ok {
			c.report(layer, at, KindUnmatched, gid, 0)
			return tile.Cell{}, false
		}
		// Grid coordinates stand in for the autotile offset. This is only
		// right when the first definition starts at the atlas origin with a
		// stride equal to the tile size.
		c.report(layer, at, KindFallback, gid, first.ID)
		return c.cell(layer, at, gid, first.ID, gridX, gridY)
	}

	autoX := math.RoundToEven((px - def.Region.X) / strideOr(def.Stride.W, tileSize))
	autoY := math.RoundToEven((py - def.Region.Y) / strideOr(def.Stride.H, tileSize))
	return c.cell(layer, at, gid, def.ID, int(autoX), int(autoY))
}

func (c *Codec) cell(layer Layer, at tile.Point, gid tile.GID, id, autoX, autoY int) (tile.Cell, bool) {
	value, ok1 := toByte(id + 1)
	x, ok2 := toByte(autoX)
	y, ok3 := toByte(autoY)
	if !ok1 || !ok2 || !ok3 {
		c.report(layer, at, KindOverflow, gid, id)
		return tile.Cell{}, false
	}
	return tile.Cell{Value: value, AutoX: x, AutoY: y}, true
}

// match scans defs in source order for definitions drawing from the atlas
// at path whose region contains (px, py). It returns the first match and
// the total number of matches.
func match(defs *tile.Set, path string, px, py float64) (tile.Definition, int) {
	var first tile.Definition
	matches := 0
	for _, def := range defs.All() {
		if !tile.SameTexture(def.Texture, path) {
			continue
		}
		if !def.Region.Contains(px, py, Eps) {
			continue
		}
		if matches == 0 {
			first = def
		}
		matches++
	}
	return first, matches
}

func strideOr(stride float64, tileSize int) float64 {
	if stride <= 0 {
		return float64(tileSize)
	}
	return stride
}

func toByte(v int) (uint8, bool) {
	if v < 0 || v > math.MaxUint8 {
		return 0, false
	}
	return uint8(v), true
}
