package codec

import (
	"math"

	"github.com/eak1mov/go-bintmx/tile"
)

// EncodeCell converts one binary cell into a GID. Empty and unresolvable
// cells give 0. The flip flag is only set on non-empty GIDs of FLIP layers.
func (c *Codec) EncodeCell(layer Layer, at tile.Point, cell tile.Cell) tile.GID {
	index := cell.Index()
	if index < 0 {
		return 0
	}

	var gid tile.GID
	if layer.Role == RoleIcon {
		gid = c.encodeIcon(layer, at, index)
	} else {
		gid = c.encodeTile(layer, at, index, cell)
	}

	if gid != 0 && layer.Encoding == tile.EncodingFlip && cell.Flip {
		gid = gid.WithFlip(true)
	}
	return gid
}

// encodeIcon maps index directly onto the icon atlas. Indices past the end
// of the atlas fall back to its first tile.
func (c *Codec) encodeIcon(layer Layer, at tile.Point, index int) tile.GID {
	entry, ok := c.registry.ByPath(c.iconAtlas)
	if !ok || entry.Count() == 0 {
		c.report(layer, at, KindEmptyAtlas, 0, index)
		return 0
	}
	if index >= entry.Count() {
		return entry.FirstGID
	}
	return entry.FirstGID + tile.GID(index)
}

func (c *Codec) encodeTile(layer Layer, at tile.Point, index int, cell tile.Cell) tile.GID {
	def, ok := layer.Defs.Lookup(index)
	if !ok {
		c.report(layer, at, KindUnknownTile, 0, index)
		return 0
	}

	entry, ok := c.registry.ByPath(def.Texture)
	if !ok || entry.Count() == 0 {
		c.report(layer, at, KindEmptyAtlas, 0, index)
		return 0
	}

	var autoX, autoY int
	if layer.Encoding == tile.EncodingAutotile {
		autoX, autoY = int(cell.AutoX), int(cell.AutoY)
	}
	px, py := def.Origin(autoX, autoY)

	tileSize := float64(c.registry.TileSize())
	gridX := int(math.RoundToEven(px / tileSize))
	gridY := int(math.RoundToEven(py / tileSize))
	if gridX < 0 || gridX >= entry.Columns || gridY < 0 || gridY >= entry.Rows {
		c.report(layer, at, KindOutOfAtlas, 0, index)
		return 0
	}

	return entry.FirstGID + tile.GID(gridX+gridY*entry.Columns)
}
