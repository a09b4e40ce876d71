// Package layout holds the static per-layer tables shared by both
// conversion directions: binary stream order, visual stacking order,
// encoding types, resource sources and special roles.
package layout

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/eak1mov/go-bintmx/binlevel"
	"github.com/eak1mov/go-bintmx/codec"
	"github.com/eak1mov/go-bintmx/tile"
	"gopkg.in/yaml.v3"
)

var ErrInvalidLayout = errors.New("layout: invalid layout")

// Source is where the tile definitions of a layer come from: either a
// resource file or a TileSet sub-resource of the scene file.
type Source struct {
	Resource    string `yaml:"resource,omitempty"`
	SubResource int    `yaml:"subresource,omitempty"`
}

type Layer struct {
	Name     string        `yaml:"name"`
	Encoding tile.Encoding `yaml:"encoding"`
	Role     codec.Role    `yaml:"role,omitempty"`
	Source   Source        `yaml:"source,omitempty"`
}

type Layout struct {
	TileSize  int    `yaml:"tile_size"`
	Scene     string `yaml:"scene"`
	IconAtlas string `yaml:"icon_atlas"`
	// Layers lists every binary layer in stream order.
	Layers []Layer `yaml:"layers"`
	// Visual lists layer names bottom to top. Names without a binary layer
	// are skipped when writing maps.
	Visual []string `yaml:"visual"`
}

// Load reads a YAML layout from filePath and validates it.
func Load(filePath string) (*Layout, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes and validates a YAML layout. Missing tile size defaults to
// tile.DefaultSize.
func Parse(data []byte) (*Layout, error) {
	l := &Layout{}
	if err := yaml.Unmarshal(data, l); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidLayout, err)
	}
	if l.TileSize == 0 {
		l.TileSize = tile.DefaultSize
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return l, nil
}

// Marshal encodes l as YAML.
func (l *Layout) Marshal() ([]byte, error) {
	return yaml.Marshal(l)
}

// Validate cross-checks the tables.
func (l *Layout) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidLayout}, args...)...))
	}

	if l.TileSize <= 0 {
		fail("tile size %d", l.TileSize)
	}

	seen := make(map[string]bool, len(l.Layers))
	icons := 0
	for _, layer := range l.Layers {
		if layer.Name == "" {
			fail("layer without name")
			continue
		}
		if seen[layer.Name] {
			fail("duplicate layer %q", layer.Name)
		}
		seen[layer.Name] = true

		if layer.Encoding.AuxBytes() == 0 && layer.Encoding != tile.EncodingSimple {
			fail("layer %q has no encoding", layer.Name)
		}
		switch layer.Role {
		case codec.RoleIcon:
			icons++
			if layer.Encoding != tile.EncodingSimple {
				fail("icon layer %q must use %v encoding", layer.Name, tile.EncodingSimple)
			}
		default:
			if layer.Source == (Source{}) {
				fail("layer %q has no definition source", layer.Name)
			}
			if layer.Source.SubResource != 0 && l.Scene == "" {
				fail("layer %q uses a scene sub-resource but no scene is set", layer.Name)
			}
		}
	}
	if icons != 1 {
		fail("%d icon layers, want exactly one", icons)
	}
	if icons == 1 && l.IconAtlas == "" {
		fail("icon layer without icon atlas")
	}

	visual := make(map[string]bool, len(l.Visual))
	for _, name := range l.Visual {
		if visual[name] {
			fail("duplicate visual layer %q", name)
		}
		visual[name] = true
	}
	for _, layer := range l.Layers {
		if layer.Name != "" && !visual[layer.Name] {
			fail("layer %q missing from visual order", layer.Name)
		}
	}

	return errors.Join(errs...)
}

// Specs returns the binary stream layout.
func (l *Layout) Specs() []binlevel.LayerSpec {
	specs := make([]binlevel.LayerSpec, 0, len(l.Layers))
	for _, layer := range l.Layers {
		specs = append(specs, binlevel.LayerSpec{Name: layer.Name, Encoding: layer.Encoding})
	}
	return specs
}

// Layer returns the binary layer called name.
func (l *Layout) Layer(name string) (Layer, bool) {
	i := slices.IndexFunc(l.Layers, func(layer Layer) bool { return layer.Name == name })
	if i < 0 {
		return Layer{}, false
	}
	return l.Layers[i], true
}

// VisualLayers returns the binary layers in visual order, bottom first.
func (l *Layout) VisualLayers() []Layer {
	layers := make([]Layer, 0, len(l.Layers))
	for _, name := range l.Visual {
		if layer, ok := l.Layer(name); ok {
			layers = append(layers, layer)
		}
	}
	return layers
}

// Sources returns the distinct definition sources in stream order.
func (l *Layout) Sources() []Source {
	var sources []Source
	for _, layer := range l.Layers {
		if layer.Role == codec.RoleIcon || slices.Contains(sources, layer.Source) {
			continue
		}
		sources = append(sources, layer.Source)
	}
	return sources
}
