package convert

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/eak1mov/go-bintmx/atlas"
	"github.com/eak1mov/go-bintmx/binlevel"
	"github.com/eak1mov/go-bintmx/codec"
	"github.com/eak1mov/go-bintmx/tile"
	"github.com/eak1mov/go-bintmx/tmx"
)

// MapRegistry rebuilds the atlas registry from the tilesets referenced by
// m. Tileset sources are resolved relative to dir. Unreadable tilesets are
// logged and keep their firstgid without any tiles.
func (c *Converter) MapRegistry(m *tmx.Map, dir string) (*atlas.Registry, error) {
	tileSize := c.cfg.Layout.TileSize
	if m.TileWidth != tileSize || m.TileHeight != tileSize {
		c.cfg.Logger.Warn("bintmx: map tile size differs from layout",
			"tilewidth", m.TileWidth,
			"tileheight", m.TileHeight,
			"layout", tileSize)
	}

	entries := make([]atlas.Entry, 0, len(m.Tilesets))
	for _, ref := range m.Tilesets {
		ts, err := tmx.ReadTileset(filepath.Join(dir, filepath.FromSlash(ref.Source)))
		if err != nil {
			c.cfg.Logger.Warn("bintmx: cannot read tileset", "firstgid", ref.FirstGID, "error", err)
			entries = append(entries, atlas.Entry{Path: ref.Source, FirstGID: ref.FirstGID})
			continue
		}
		entries = append(entries, ts.Entry(ref.FirstGID, tileSize))
	}
	return atlas.FromEntries(entries, tileSize)
}

// DecodeMap reverse-encodes m into a binary level. Binary layers missing
// from the map are written empty.
func (c *Converter) DecodeMap(m *tmx.Map, registry *atlas.Registry) ([]byte, *Result, error) {
	if err := checkSize(m.Width, m.Height); err != nil {
		return nil, nil, err
	}

	l := c.cfg.Layout
	result := &Result{
		Width:       m.Width,
		Height:      m.Height,
		Registry:    registry,
		Diagnostics: &codec.Diagnostics{},
	}
	cdc := codec.New(registry,
		codec.WithIconAtlas(l.IconAtlas),
		codec.WithDiagnostics(result.Diagnostics))

	level := &binlevel.Level{
		Header: binlevel.Header{Width: uint8(m.Width), Height: uint8(m.Height)},
	}
	for _, spec := range l.Layers {
		var cells *tile.Grid[tile.Cell]
		if mapLayer, ok := m.Layer(spec.Name); ok {
			gids, dropped, err := mapLayer.GIDs()
			if err != nil {
				return nil, nil, err
			}
			if dropped > 0 {
				c.cfg.Logger.Warn("bintmx: extra layer data dropped", "layer", spec.Name, "values", dropped)
			}
			cells = cdc.DecodeLayer(c.codecLayer(spec), gids)
		} else {
			c.cfg.Logger.Debug("bintmx: layer missing from map", "layer", spec.Name)
		}
		level.Layers = append(level.Layers, binlevel.Layer{
			LayerSpec: binlevel.LayerSpec{Name: spec.Name, Encoding: spec.Encoding},
			Cells:     cells,
		})
		c.progress(spec.Name)
	}

	c.cfg.Logger.Info("bintmx: decoded map",
		"width", result.Width,
		"height", result.Height,
		"diagnostics", result.Diagnostics.Len())
	return binlevel.Encode(level), result, nil
}

// TMXToBin converts the TMX map at tmxPath into a binary level at binPath.
func (c *Converter) TMXToBin(tmxPath, binPath string) (*Result, error) {
	m, err := tmx.ReadMap(tmxPath)
	if err != nil {
		return nil, err
	}

	registry, err := c.MapRegistry(m, filepath.Dir(tmxPath))
	if err != nil {
		return nil, err
	}

	data, result, err := c.DecodeMap(m, registry)
	if err != nil {
		return nil, err
	}

	if err := os.WriteFile(binPath, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write level: %w", err)
	}
	return result, nil
}
