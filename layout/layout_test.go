package layout_test

import (
	"errors"
	"testing"

	"github.com/eak1mov/go-bintmx/codec"
	"github.com/eak1mov/go-bintmx/internal"
	"github.com/eak1mov/go-bintmx/layout"
	"github.com/eak1mov/go-bintmx/tile"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestDefaultValid(t *testing.T) {
	l := layout.Default()
	require.NoError(t, l.Validate())

	if got, want := len(l.Layers), 17; got != want {
		t.Errorf("len(Layers) = %v, want = %v", got, want)
	}
	specs := l.Specs()
	if got, want := specs[0].Name, "constructmap"; got != want {
		t.Errorf("first binary layer = %q, want = %q", got, want)
	}
	if got, want := specs[16].Name, "watermaptops"; got != want {
		t.Errorf("last binary layer = %q, want = %q", got, want)
	}

	visual := l.VisualLayers()
	if got, want := len(visual), 17; got != want {
		t.Errorf("len(VisualLayers) = %v, want = %v", got, want)
	}
	if got, want := visual[0].Name, "Mapbackground"; got != want {
		t.Errorf("bottom layer = %q, want = %q", got, want)
	}

	bg, ok := l.Layer("Mapbackground")
	require.True(t, ok)
	require.Equal(t, codec.RoleBackground, bg.Role)
	icon, ok := l.Layer("spawnmarker")
	require.True(t, ok)
	require.Equal(t, codec.RoleIcon, icon.Role)

	// water.tres is shared by two layers
	if got, want := len(l.Sources()), 15; got != want {
		t.Errorf("len(Sources) = %v, want = %v", got, want)
	}
}

func TestMarshalParse(t *testing.T) {
	l := layout.Default()
	data, err := l.Marshal()
	require.NoError(t, err)

	parsed, err := layout.Parse(data)
	require.NoError(t, err)
	if diff := cmp.Diff(l, parsed); diff != "" {
		t.Errorf("Parse(Marshal) mismatch (-want+got):\n%v", diff)
	}
}

func TestLoad(t *testing.T) {
	filePath := internal.WriteFile(t, t.TempDir(), "layers.yaml", `
scene: level.tscn
icon_atlas: icons.png
layers:
  - name: ground
    encoding: autotile
    role: background
    source: {subresource: 3}
  - name: props
    encoding: flip
    source: {resource: props.tres}
  - name: markers
    encoding: simple
    role: icon
visual: [ground, props, markers, grid]
`)
	l, err := layout.Load(filePath)
	require.NoError(t, err)

	want := &layout.Layout{
		TileSize:  tile.DefaultSize,
		Scene:     "level.tscn",
		IconAtlas: "icons.png",
		Layers: []layout.Layer{
			{Name: "ground", Encoding: tile.EncodingAutotile, Role: codec.RoleBackground, Source: layout.Source{SubResource: 3}},
			{Name: "props", Encoding: tile.EncodingFlip, Source: layout.Source{Resource: "props.tres"}},
			{Name: "markers", Encoding: tile.EncodingSimple, Role: codec.RoleIcon},
		},
		Visual: []string{"ground", "props", "markers", "grid"},
	}
	if diff := cmp.Diff(want, l); diff != "" {
		t.Errorf("Load mismatch (-want+got):\n%v", diff)
	}
}

func TestValidateErrors(t *testing.T) {
	for _, tc := range []struct {
		name   string
		layout layout.Layout
	}{
		{"duplicate", layout.Layout{
			TileSize: 128,
			Layers: []layout.Layer{
				{Name: "a", Encoding: tile.EncodingSimple, Source: layout.Source{Resource: "a.tres"}},
				{Name: "a", Encoding: tile.EncodingSimple, Source: layout.Source{Resource: "a.tres"}},
			},
			Visual: []string{"a"},
		}},
		{"no encoding", layout.Layout{
			TileSize: 128,
			Layers:   []layout.Layer{{Name: "a", Source: layout.Source{Resource: "a.tres"}}},
			Visual:   []string{"a"},
		}},
		{"no source", layout.Layout{
			TileSize: 128,
			Layers:   []layout.Layer{{Name: "a", Encoding: tile.EncodingFlip}},
			Visual:   []string{"a"},
		}},
		{"icon encoding", layout.Layout{
			TileSize:  128,
			IconAtlas: "icon.png",
			Layers:    []layout.Layer{{Name: "a", Encoding: tile.EncodingFlip, Role: codec.RoleIcon}},
			Visual:    []string{"a"},
		}},
		{"icon atlas", layout.Layout{
			TileSize: 128,
			Layers:   []layout.Layer{{Name: "a", Encoding: tile.EncodingSimple, Role: codec.RoleIcon}},
			Visual:   []string{"a"},
		}},
		{"not visual", layout.Layout{
			TileSize: 128,
			Layers:   []layout.Layer{{Name: "a", Encoding: tile.EncodingSimple, Source: layout.Source{Resource: "a.tres"}}},
		}},
		{"scene", layout.Layout{
			TileSize: 128,
			Layers:   []layout.Layer{{Name: "a", Encoding: tile.EncodingSimple, Source: layout.Source{SubResource: 2}}},
			Visual:   []string{"a"},
		}},
		{"no icon", layout.Layout{
			TileSize: 128,
			Layers:   []layout.Layer{{Name: "a", Encoding: tile.EncodingSimple, Source: layout.Source{Resource: "a.tres"}}},
			Visual:   []string{"a"},
		}},
		{"two icons", layout.Layout{
			TileSize:  128,
			IconAtlas: "icon.png",
			Layers: []layout.Layer{
				{Name: "a", Encoding: tile.EncodingSimple, Role: codec.RoleIcon},
				{Name: "b", Encoding: tile.EncodingSimple, Role: codec.RoleIcon},
			},
			Visual: []string{"a", "b"},
		}},
		{"tile size", layout.Layout{}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.layout.Validate()
			require.Truef(t, errors.Is(err, layout.ErrInvalidLayout), "%v", err)
		})
	}
}

func TestParseErrors(t *testing.T) {
	_, err := layout.Parse([]byte("layers: [{name: a, encoding: rle}]"))
	require.Truef(t, errors.Is(err, layout.ErrInvalidLayout), "%v", err)
}
