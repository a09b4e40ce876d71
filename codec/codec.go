package codec

import (
	"github.com/eak1mov/go-bintmx/atlas"
	"github.com/eak1mov/go-bintmx/tile"
)

// Eps absorbs float rounding in resource regions during reverse lookups.
const Eps = 0.1

// Codec holds the state shared by the forward and reverse directions. It is
// not safe for concurrent use when diagnostics are collected.
type Codec struct {
	registry  *atlas.Registry
	iconAtlas string
	diags     *Diagnostics
}

type Option func(*Codec)

// WithIconAtlas sets the image path of the atlas used by RoleIcon layers.
func WithIconAtlas(path string) Option {
	return func(c *Codec) { c.iconAtlas = path }
}

// WithDiagnostics records degraded cells into d.
func WithDiagnostics(d *Diagnostics) Option {
	return func(c *Codec) { c.diags = d }
}

// New returns a Codec resolving GIDs through registry.
func New(registry *atlas.Registry, opts ...Option) *Codec {
	c := &Codec{registry: registry}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Codec) report(layer Layer, at tile.Point, kind Kind, gid tile.GID, value int) {
	c.diags.Add(Diagnostic{
		Layer: layer.Name,
		Cell:  at,
		Kind:  kind,
		GID:   gid,
		Value: value,
	})
}

// EncodeLayer forward-encodes every cell of cells.
func (c *Codec) EncodeLayer(layer Layer, cells *tile.Grid[tile.Cell]) *tile.Grid[tile.GID] {
	gids := tile.NewGrid[tile.GID](cells.Width, cells.Height)
	for p, cell := range cells.ColumnMajor() {
		gids.Set(p.X, p.Y, c.EncodeCell(layer, p, cell))
	}
	return gids
}

// DecodeLayer reverse-encodes every GID of gids.
func (c *Codec) DecodeLayer(layer Layer, gids *tile.Grid[tile.GID]) *tile.Grid[tile.Cell] {
	cells := tile.NewGrid[tile.Cell](gids.Width, gids.Height)
	for p, gid := range gids.ColumnMajor() {
		cells.Set(p.X, p.Y, c.DecodeGID(layer, p, gid))
	}
	return cells
}
