package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/eak1mov/go-bintmx/atlas"
	"github.com/eak1mov/go-bintmx/binlevel"
	"github.com/eak1mov/go-bintmx/codec"
	"github.com/eak1mov/go-bintmx/tile"
	"github.com/eak1mov/go-bintmx/tmx"
)

// EncodeLevel forward-encodes a binary level into a TMX map without
// tileset references. Layers are decoded in stream order and emitted in
// visual order.
func (c *Converter) EncodeLevel(data []byte, registry *atlas.Registry) (*tmx.Map, *Result, error) {
	l := c.cfg.Layout
	level, cursor := binlevel.Decode(data, l.Specs())
	result := &Result{
		Width:       int(level.Width),
		Height:      int(level.Height),
		Registry:    registry,
		Diagnostics: &codec.Diagnostics{},
		Missing:     cursor.Overrun(),
	}
	if cursor.Truncated() {
		c.cfg.Logger.Warn("bintmx: truncated level", "missing", cursor.Overrun())
	} else if cursor.Remaining() > 1 {
		c.cfg.Logger.Debug("bintmx: trailing bytes", "count", cursor.Remaining())
	}

	cdc := codec.New(registry,
		codec.WithIconAtlas(l.IconAtlas),
		codec.WithDiagnostics(result.Diagnostics))

	gids := make(map[string]*tile.Grid[tile.GID], len(level.Layers))
	for i, layer := range level.Layers {
		for _, p := range layer.Truncated {
			result.Diagnostics.Add(codec.Diagnostic{Layer: layer.Name, Cell: p, Kind: codec.KindTruncated})
		}
		gids[layer.Name] = cdc.EncodeLayer(c.codecLayer(l.Layers[i]), layer.Cells)
		c.progress(layer.Name)
	}

	m := tmx.NewMap(result.Width, result.Height, l.TileSize)
	for _, layer := range l.VisualLayers() {
		if err := m.AddLayer(layer.Name, gids[layer.Name], c.cfg.Format); err != nil {
			return nil, nil, err
		}
	}
	c.cfg.Logger.Info("bintmx: encoded level",
		"width", result.Width,
		"height", result.Height,
		"diagnostics", result.Diagnostics.Len())
	return m, result, nil
}

// BinToTMX converts the binary level at binPath into a TMX map at tmxPath
// and writes one TSX tileset per atlas next to it.
func (c *Converter) BinToTMX(binPath, tmxPath string) (*Result, error) {
	data, err := os.ReadFile(binPath)
	if err != nil {
		return nil, err
	}

	registry, err := c.Registry()
	if err != nil {
		return nil, err
	}

	m, result, err := c.EncodeLevel(data, registry)
	if err != nil {
		return nil, err
	}

	outDir := filepath.Dir(tmxPath)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, err
	}
	if err := c.writeTilesets(m, registry, outDir); err != nil {
		return nil, err
	}
	if err := tmx.WriteMap(tmxPath, m); err != nil {
		return nil, fmt.Errorf("failed to write map: %w", err)
	}
	return result, nil
}

func (c *Converter) writeTilesets(m *tmx.Map, registry *atlas.Registry, outDir string) error {
	used := make(map[string]int)
	for _, e := range registry.Entries() {
		name := tmx.TilesetFileName(e.Path)
		if n := used[name]; n > 0 {
			name = strings.TrimSuffix(name, ".tsx") + "_" + strconv.Itoa(n+1) + ".tsx"
		}
		used[tmx.TilesetFileName(e.Path)]++

		ts := tmx.NewTileset(e, c.imageSource(outDir, e.Path), registry.TileSize())
		if err := tmx.WriteTileset(filepath.Join(outDir, name), ts); err != nil {
			return fmt.Errorf("failed to write tileset: %w", err)
		}
		m.AddTileset(e.FirstGID, name)
	}
	return nil
}

// imageSource returns the atlas path relative to the TSX directory, or the
// resource path itself when no relative path exists.
func (c *Converter) imageSource(outDir, texture string) string {
	absRoot, err1 := filepath.Abs(c.cfg.Root)
	absOut, err2 := filepath.Abs(outDir)
	if err1 != nil || err2 != nil {
		return texture
	}
	rel, err := filepath.Rel(absOut, filepath.Join(absRoot, filepath.FromSlash(texture)))
	if err != nil {
		return texture
	}
	return filepath.ToSlash(rel)
}
