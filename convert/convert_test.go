package convert_test

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/eak1mov/go-bintmx/atlas"
	"github.com/eak1mov/go-bintmx/codec"
	"github.com/eak1mov/go-bintmx/convert"
	"github.com/eak1mov/go-bintmx/internal"
	"github.com/eak1mov/go-bintmx/layout"
	"github.com/eak1mov/go-bintmx/tile"
	"github.com/eak1mov/go-bintmx/tmx"
)

const groundResource = `[gd_resource type="TileSet" load_steps=2 format=2]

[ext_resource path="res://Tilemaps/ground.png" type="Texture" id=1]

[resource]
0/name = "solid"
0/texture = ExtResource( 1 )
0/region = Rect2( 0, 0, 384, 128 )
0/tile_mode = 1
0/autotile/tile_size = Vector2( 128, 128 )
1/name = "single"
1/texture = ExtResource( 1 )
1/region = Rect2( 0, 128, 128, 128 )
1/tile_mode = 0
`

const decoResource = `[gd_resource type="TileSet" load_steps=2 format=2]

[ext_resource path="res://Tilemaps/deco.png" type="Texture" id=1]

[resource]
0/name = "rock"
0/texture = ExtResource( 1 )
0/region = Rect2( 128, 0, 128, 128 )
`

const mainScene = `[gd_scene load_steps=3 format=2]

[ext_resource path="res://Tilemaps/bg.png" type="Texture" id=1]

[sub_resource type="TileSet" id=3]
0/name = "bg"
0/texture = ExtResource( 1 )
0/region = Rect2( 0, 0, 128, 128 )
0/tile_mode = 1
0/autotile/tile_size = Vector2( 128, 128 )

[node name="Main" type="Node2D"]
`

func testLayout() *layout.Layout {
	return &layout.Layout{
		TileSize:  tile.DefaultSize,
		Scene:     "main.tscn",
		IconAtlas: "Tilemaps/icons.png",
		Layers: []layout.Layer{
			{Name: "ground", Encoding: tile.EncodingAutotile, Source: layout.Source{Resource: "Tilemaps/ground.tres"}},
			{Name: "deco", Encoding: tile.EncodingFlip, Source: layout.Source{Resource: "Tilemaps/deco.tres"}},
			{Name: "bg", Encoding: tile.EncodingAutotile, Role: codec.RoleBackground, Source: layout.Source{SubResource: 3}},
			{Name: "marker", Encoding: tile.EncodingSimple, Role: codec.RoleIcon},
			{Name: "top", Encoding: tile.EncodingSimple, Source: layout.Source{Resource: "Tilemaps/missing.tres"}},
		},
		Visual: []string{"bg", "fog", "ground", "deco", "top", "marker"},
	}
}

func writeRoot(t *testing.T) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "game")
	internal.WriteFile(t, root, "Tilemaps/ground.tres", groundResource)
	internal.WriteFile(t, root, "Tilemaps/deco.tres", decoResource)
	internal.WriteFile(t, root, "main.tscn", mainScene)
	internal.WritePNG(t, root, "Tilemaps/bg.png", 256, 256)
	internal.WritePNG(t, root, "Tilemaps/deco.png", 256, 128)
	internal.WritePNG(t, root, "Tilemaps/ground.png", 384, 256)
	internal.WritePNG(t, root, "Tilemaps/icons.png", 384, 128)
	return root
}

// level is a 2x2 level in stream order: ground, deco, bg, marker, top.
var level = []byte{
	2, 2,
	1, 2, 0, 2, 0, 0, 0, 0, 0, 0, 0, 0,
	1, 1, 0, 0, 1, 0, 0, 0,
	1, 1, 1, 0, 0, 0, 0, 0, 0, 1, 0, 0,
	0, 0, 0, 2,
	0, 0, 0, 0,
	0,
}

func newConverter(t *testing.T, root string, opts ...convert.Option) *convert.Converter {
	t.Helper()
	opts = append([]convert.Option{
		convert.WithLayout(testLayout()),
		convert.WithRoot(root),
	}, opts...)
	c, err := convert.New(opts...)
	require.NoError(t, err)
	return c
}

func TestRegistry(t *testing.T) {
	c := newConverter(t, writeRoot(t))
	registry, err := c.Registry()
	require.NoError(t, err)

	var got []string
	var firstGIDs []tile.GID
	for _, e := range registry.Entries() {
		got = append(got, e.Path)
		firstGIDs = append(firstGIDs, e.FirstGID)
	}
	want := []string{"Tilemaps/bg.png", "Tilemaps/deco.png", "Tilemaps/ground.png", "Tilemaps/icons.png"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Entries() mismatch (-want+got):\n%s", diff)
	}
	if diff := cmp.Diff([]tile.GID{1, 5, 7, 13}, firstGIDs); diff != "" {
		t.Errorf("FirstGID mismatch (-want+got):\n%s", diff)
	}

	require.Equal(t, 2, c.Definitions("ground").Len())
	require.Equal(t, 1, c.Definitions("bg").Len())
	require.Equal(t, 0, c.Definitions("top").Len())
	require.Nil(t, c.Definitions("marker"))
}

func TestEncodeLevel(t *testing.T) {
	c := newConverter(t, writeRoot(t))
	registry, err := c.Registry()
	require.NoError(t, err)

	m, result, err := c.EncodeLevel(level, registry)
	require.NoError(t, err)
	require.Equal(t, 2, result.Width)
	require.Equal(t, 2, result.Height)
	require.Equal(t, 0, result.Missing)
	require.Equal(t, 0, result.Diagnostics.Len())

	var names []string
	for _, layer := range m.Layers {
		names = append(names, layer.Name)
	}
	if diff := cmp.Diff([]string{"bg", "ground", "deco", "top", "marker"}, names); diff != "" {
		t.Errorf("layer order mismatch (-want+got):\n%s", diff)
	}

	want := map[string][]tile.GID{
		"ground": {9, 0, 10, 0},
		"deco":   {tile.GID(6).WithFlip(true), 6, 0, 0},
		"bg":     {4, 0, 0, 1},
		"marker": {0, 0, 0, 14},
		"top":    {0, 0, 0, 0},
	}
	for name, wantGIDs := range want {
		layer, ok := m.Layer(name)
		require.True(t, ok, name)
		gids, _, err := layer.GIDs()
		require.NoError(t, err)
		if diff := cmp.Diff(wantGIDs, gids.Flat()); diff != "" {
			t.Errorf("layer %s mismatch (-want+got):\n%s", name, diff)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	root := writeRoot(t)
	work := filepath.Dir(root)
	binPath := filepath.Join(work, "level.bin")
	require.NoError(t, os.WriteFile(binPath, level, 0o644))

	var progress []string
	c := newConverter(t, root,
		convert.WithDataFormat(tmx.FormatZstd),
		convert.WithLogger(slog.New(slog.DiscardHandler)),
		convert.WithProgress(func(layer string) { progress = append(progress, layer) }))

	tmxPath := filepath.Join(work, "out", "level.tmx")
	_, err := c.BinToTMX(binPath, tmxPath)
	require.NoError(t, err)
	for _, name := range []string{"bg_png.tsx", "deco_png.tsx", "ground_png.tsx", "icons_png.tsx"} {
		require.FileExists(t, filepath.Join(work, "out", name))
	}

	ts, err := tmx.ReadTileset(filepath.Join(work, "out", "ground_png.tsx"))
	require.NoError(t, err)
	require.Equal(t, "../game/Tilemaps/ground.png", ts.Image.Source)
	require.Equal(t, 3, ts.Columns)

	outPath := filepath.Join(work, "roundtrip.bin")
	result, err := c.TMXToBin(tmxPath, outPath)
	require.NoError(t, err)

	got, err := os.ReadFile(outPath)
	require.NoError(t, err)
	if !bytes.Equal(level, got) {
		t.Errorf("TMXToBin(BinToTMX(level)) = %v, want %v", got, level)
	}

	require.Equal(t, 1, result.Diagnostics.Count(codec.KindFallback))
	require.Equal(t, result.Diagnostics.Len(), result.Diagnostics.Count(codec.KindFallback))

	wantProgress := []string{"ground", "deco", "bg", "marker", "top"}
	if diff := cmp.Diff(append(wantProgress, wantProgress...), progress); diff != "" {
		t.Errorf("progress mismatch (-want+got):\n%s", diff)
	}
}

func TestEncodeTruncated(t *testing.T) {
	c := newConverter(t, writeRoot(t))
	registry, err := c.Registry()
	require.NoError(t, err)

	// Stops after the first ground cell.
	_, result, err := c.EncodeLevel(level[:5], registry)
	require.NoError(t, err)
	require.Equal(t, len(level)-1-5, result.Missing)
	require.Equal(t, 2*2*5-1, result.Diagnostics.Count(codec.KindTruncated))
}

func TestEncodeDegraded(t *testing.T) {
	c := newConverter(t, writeRoot(t))
	registry, err := c.Registry()
	require.NoError(t, err)

	data := bytes.Clone(level)
	data[2] = 9  // ground: unknown definition
	data[38] = 1 // top: no definitions loaded
	m, result, err := c.EncodeLevel(data, registry)
	require.NoError(t, err)
	require.Equal(t, 2, result.Diagnostics.Count(codec.KindUnknownTile))

	ground, _ := m.Layer("ground")
	gids, _, err := ground.GIDs()
	require.NoError(t, err)
	require.Equal(t, tile.GID(0), gids.At(0, 0))
}

func TestDecodeMissingLayer(t *testing.T) {
	c := newConverter(t, writeRoot(t))
	registry, err := c.Registry()
	require.NoError(t, err)

	m := tmx.NewMap(2, 1, tile.DefaultSize)
	require.NoError(t, m.AddLayer("ground", tile.GridFromFlat(2, 1, []tile.GID{9, 99}), tmx.FormatCSV))

	data, result, err := c.DecodeMap(m, registry)
	require.NoError(t, err)
	require.Equal(t, 1, result.Diagnostics.Count(codec.KindOutOfRange))

	want := []byte{
		2, 1,
		1, 2, 0, 0, 0, 0,
		0, 0, 0, 0,
		0, 0, 0, 0, 0, 0,
		0, 0,
		0, 0,
		0,
	}
	if diff := cmp.Diff(want, data); diff != "" {
		t.Errorf("DecodeMap() mismatch (-want+got):\n%s", diff)
	}
}

func TestDecodeMapTooLarge(t *testing.T) {
	c := newConverter(t, writeRoot(t))
	registry, err := atlas.Build(nil, tile.DefaultSize)
	require.NoError(t, err)

	_, _, err = c.DecodeMap(tmx.NewMap(256, 1, tile.DefaultSize), registry)
	require.ErrorIs(t, err, convert.ErrMapSize)
}

func TestMapRegistryMissingTileset(t *testing.T) {
	c := newConverter(t, writeRoot(t))
	m := tmx.NewMap(1, 1, tile.DefaultSize)
	m.AddTileset(1, "missing_png.tsx")

	registry, err := c.MapRegistry(m, t.TempDir())
	require.NoError(t, err)
	_, ok := registry.Lookup(1)
	require.False(t, ok)
}

func TestNewInvalidLayout(t *testing.T) {
	l := testLayout()
	l.Visual = nil
	_, err := convert.New(convert.WithLayout(l))
	require.ErrorIs(t, err, layout.ErrInvalidLayout)
}

func TestDimensionsOverride(t *testing.T) {
	dims := func(p string) (int, int, error) {
		return 128, 128, nil
	}
	c := newConverter(t, t.TempDir(), convert.WithDimensions(dims))
	registry, err := c.Registry()
	require.NoError(t, err)

	// Only the icon atlas is referenced when no resources exist.
	entries := registry.Entries()
	require.Len(t, entries, 1)
	require.Equal(t, "Tilemaps/icons.png", entries[0].Path)
}

func TestDecodeMapDropsExtraValues(t *testing.T) {
	c := newConverter(t, writeRoot(t))
	registry, err := c.Registry()
	require.NoError(t, err)

	m := tmx.NewMap(2, 1, tile.DefaultSize)
	require.NoError(t, m.AddLayer("ground", tile.GridFromFlat(2, 1, []tile.GID{9, 0}), tmx.FormatCSV))
	m.Layers[0].Data.Text = "9,0,10,10"

	data, _, err := c.DecodeMap(m, registry)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 0, 0, 0, 0}, data[2:8])
}
