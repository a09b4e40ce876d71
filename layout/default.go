package layout

import (
	"github.com/eak1mov/go-bintmx/codec"
	"github.com/eak1mov/go-bintmx/tile"
)

func res(path string) Source {
	return Source{Resource: path}
}

// Default returns the layout of the game levels.
func Default() *Layout {
	return &Layout{
		TileSize:  tile.DefaultSize,
		Scene:     "main.tscn",
		IconAtlas: "Tilemaps/newsandstone.png",
		Layers: []Layer{
			{Name: "constructmap", Encoding: tile.EncodingAutotile, Source: res("Tilemaps/constructmap.tres")},
			{Name: "constructmapedges", Encoding: tile.EncodingAutotile, Source: res("Tilemaps/constructmapedges.tres")},
			{Name: "constructbackground", Encoding: tile.EncodingAutotile, Source: res("Tilemaps/constructbackground.tres")},
			{Name: "constructbackground/backgroundfeatures", Encoding: tile.EncodingFlip, Source: res("Tilemaps/backgroundfeatures.tres")},
			{Name: "Map", Encoding: tile.EncodingAutotile, Source: res("Tilemaps/map.tres")},
			{Name: "Mapedges", Encoding: tile.EncodingAutotile, Source: res("Tilemaps/mapedges.tres")},
			{Name: "Mapbackground", Encoding: tile.EncodingAutotile, Role: codec.RoleBackground, Source: Source{SubResource: 16}},
			{Name: "paths", Encoding: tile.EncodingSimple, Source: res("Tilemaps/paths.tres")},
			{Name: "features", Encoding: tile.EncodingFlip, Source: res("Tilemaps/features.tres")},
			{Name: "roofmap", Encoding: tile.EncodingAutotile, Source: res("Tilemaps/roofmap.tres")},
			{Name: "foliage", Encoding: tile.EncodingFlip, Source: res("Tilemaps/foliage.tres")},
			{Name: "shards", Encoding: tile.EncodingSimple, Source: res("Tilemaps/shards.tres")},
			{Name: "watermap", Encoding: tile.EncodingAutotile, Source: res("Tilemaps/water.tres")},
			{Name: "cummap", Encoding: tile.EncodingFlip, Source: res("Tilemaps/cumtiles.tres")},
			{Name: "spawnmarker", Encoding: tile.EncodingSimple, Role: codec.RoleIcon},
			{Name: "destructiblefeatures", Encoding: tile.EncodingFlip, Source: res("Tilemaps/isometrictiles.tres")},
			{Name: "watermaptops", Encoding: tile.EncodingSimple, Source: res("Tilemaps/water.tres")},
		},
		Visual: []string{
			"Mapbackground",
			"constructbackground",
			"limitrock",
			"Mapedges",
			"constructmapedges",
			"CanvasLayer/ParallaxBackground/treesback/TileMap",
			"CanvasLayer/ParallaxBackground/treesfront/TileMap",
			"constructbackground/backgroundfeatures",
			"foliage",
			"constructmap",
			"paths",
			"features",
			"destructiblefeatures",
			"roofmap",
			"shards",
			"cummap",
			"CanvasLayer3/fogofwar",
			"watermap",
			"Map",
			"watermaptops",
			"limitfog",
			"Previewgrid",
			"spawnmarker",
		},
	}
}
