// Package convert wires the codecs to files: it loads tile definitions from
// a game resource directory, builds the atlas registry and converts levels
// between the binary format and TMX maps.
package convert

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/eak1mov/go-bintmx/atlas"
	"github.com/eak1mov/go-bintmx/codec"
	"github.com/eak1mov/go-bintmx/godotres"
	"github.com/eak1mov/go-bintmx/layout"
	"github.com/eak1mov/go-bintmx/tile"
	"github.com/eak1mov/go-bintmx/tmx"
)

var ErrMapSize = errors.New("convert: map dimensions do not fit the binary header")

type config struct {
	Layout     *layout.Layout
	Root       string
	Dimensions atlas.DimensionsFunc
	Format     tmx.DataFormat
	Logger     *slog.Logger
	Progress   func(layer string)
}

type Option func(*config)

func WithLayout(l *layout.Layout) Option {
	return func(c *config) { c.Layout = l }
}

// WithRoot sets the game resource directory. Resource, scene and atlas
// paths are relative to it.
func WithRoot(root string) Option {
	return func(c *config) { c.Root = root }
}

// WithDimensions replaces image probing, e.g. for tests or when atlas
// images are not available locally.
func WithDimensions(dims atlas.DimensionsFunc) Option {
	return func(c *config) { c.Dimensions = dims }
}

func WithDataFormat(format tmx.DataFormat) Option {
	return func(c *config) { c.Format = format }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.Logger = logger }
}

// WithProgress registers a callback invoked after each layer is converted.
func WithProgress(progress func(layer string)) Option {
	return func(c *config) { c.Progress = progress }
}

// Converter holds the definitions of every layer of a layout.
type Converter struct {
	cfg  config
	defs map[string]*tile.Set
}

// Result summarizes one conversion.
type Result struct {
	Width       int
	Height      int
	Registry    *atlas.Registry
	Diagnostics *codec.Diagnostics
	// Missing is the number of bytes the binary stream was short by.
	Missing int
}

// New loads the tile definitions of all layers. Missing resource files are
// logged and leave their layers without definitions.
func New(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: config{
			Layout: layout.Default(),
			Root:   ".",
			Format: tmx.FormatCSV,
			Logger: slog.New(slog.DiscardHandler),
		},
	}
	for _, opt := range opts {
		opt(&c.cfg)
	}
	if c.cfg.Dimensions == nil {
		c.cfg.Dimensions = func(p string) (int, int, error) {
			return atlas.Probe(c.path(p))
		}
	}
	if err := c.cfg.Layout.Validate(); err != nil {
		return nil, err
	}

	c.defs = make(map[string]*tile.Set, len(c.cfg.Layout.Layers))
	cache := make(map[layout.Source]*tile.Set)
	for _, layer := range c.cfg.Layout.Layers {
		if layer.Role == codec.RoleIcon {
			continue
		}
		set, ok := cache[layer.Source]
		if !ok {
			defs, err := c.loadSource(layer.Source)
			if err != nil && !errors.Is(err, fs.ErrNotExist) && !errors.Is(err, godotres.ErrTileSetNotFound) {
				return nil, err
			}
			if err != nil {
				c.cfg.Logger.Warn("bintmx: no tile definitions", "layer", layer.Name, "error", err)
			}
			set = tile.NewSet(defs)
			cache[layer.Source] = set
			c.cfg.Logger.Debug("bintmx: loaded definitions", "layer", layer.Name, "count", set.Len())
		}
		c.defs[layer.Name] = set
	}
	return c, nil
}

func (c *Converter) path(p string) string {
	return filepath.Join(c.cfg.Root, filepath.FromSlash(p))
}

func (c *Converter) loadSource(source layout.Source) ([]tile.Definition, error) {
	if source.Resource != "" {
		return godotres.LoadResource(c.path(source.Resource), c.cfg.Layout.TileSize)
	}
	return godotres.LoadSceneTileSet(c.path(c.cfg.Layout.Scene), source.SubResource, c.cfg.Layout.TileSize)
}

func (c *Converter) Layout() *layout.Layout {
	return c.cfg.Layout
}

// Definitions returns the definitions of the named layer, nil for icon and
// unknown layers.
func (c *Converter) Definitions(layer string) *tile.Set {
	return c.defs[layer]
}

func (c *Converter) codecLayer(layer layout.Layer) codec.Layer {
	return codec.Layer{
		Name:     layer.Name,
		Encoding: layer.Encoding,
		Role:     layer.Role,
		Defs:     c.defs[layer.Name],
	}
}

// Registry probes every atlas referenced by the definitions plus the icon
// atlas and assigns GID ranges. Unreadable and empty atlases are logged and
// registered without tiles.
func (c *Converter) Registry() (*atlas.Registry, error) {
	sets := make([]*tile.Set, 0, len(c.defs))
	for _, layer := range c.cfg.Layout.Layers {
		sets = append(sets, c.defs[layer.Name])
	}
	var extra []string
	if c.cfg.Layout.IconAtlas != "" {
		extra = append(extra, c.cfg.Layout.IconAtlas)
	}
	paths := atlas.CollectPaths(sets, extra...)

	images, errs := atlas.Resolve(paths, c.cfg.Dimensions)
	for _, err := range errs {
		c.cfg.Logger.Warn("bintmx: cannot read atlas image", "error", err)
	}

	registry, err := atlas.Build(images, c.cfg.Layout.TileSize)
	if registry == nil {
		return nil, err
	}
	if err != nil {
		c.cfg.Logger.Warn("bintmx: degraded atlas registry", "error", err)
	}
	for _, e := range registry.Entries() {
		c.cfg.Logger.Debug("bintmx: atlas",
			"path", e.Path,
			"firstgid", e.FirstGID,
			"columns", e.Columns,
			"rows", e.Rows)
	}
	return registry, nil
}

func (c *Converter) progress(layer string) {
	if c.cfg.Progress != nil {
		c.cfg.Progress(layer)
	}
}

func checkSize(width, height int) error {
	if width < 0 || width > 255 || height < 0 || height > 255 {
		return fmt.Errorf("%w: %dx%d", ErrMapSize, width, height)
	}
	return nil
}
