package tmx

import (
	"encoding/xml"
	"fmt"
	"path"
	"strings"

	"github.com/eak1mov/go-bintmx/atlas"
	"github.com/eak1mov/go-bintmx/tile"
)

// Tileset is the <tileset> root element of a TSX file.
type Tileset struct {
	XMLName      xml.Name `xml:"tileset"`
	Version      string   `xml:"version,attr"`
	TiledVersion string   `xml:"tiledversion,attr"`
	Name         string   `xml:"name,attr"`
	TileWidth    int      `xml:"tilewidth,attr"`
	TileHeight   int      `xml:"tileheight,attr"`
	Spacing      int      `xml:"spacing,attr"`
	Margin       int      `xml:"margin,attr"`
	TileCount    int      `xml:"tilecount,attr"`
	Columns      int      `xml:"columns,attr"`
	Image        *Image   `xml:"image"`
}

type Image struct {
	Source string `xml:"source,attr"`
	Width  int    `xml:"width,attr"`
	Height int    `xml:"height,attr"`
}

// TilesetFileName returns the TSX file name for an atlas image:
// "Tilemaps/walls.png" becomes "walls_png.tsx".
func TilesetFileName(imagePath string) string {
	base := path.Base(tile.NormalizePath(imagePath))
	return strings.ReplaceAll(base, ".", "_") + ".tsx"
}

// NewTileset describes the atlas e. imageSource is written as the image
// reference, usually a path relative to the TSX file.
func NewTileset(e atlas.Entry, imageSource string, tileSize int) *Tileset {
	return &Tileset{
		Version:      Version,
		TiledVersion: TiledVersion,
		Name:         strings.TrimSuffix(path.Base(tile.NormalizePath(e.Path)), path.Ext(e.Path)),
		TileWidth:    tileSize,
		TileHeight:   tileSize,
		TileCount:    e.Count(),
		Columns:      e.Columns,
		Image: &Image{
			Source: tile.NormalizePath(imageSource),
			Width:  e.Width,
			Height: e.Height,
		},
	}
}

// Entry returns the registry entry for this tileset placed at firstGID.
// The image source becomes the entry path. Missing columns and rows are
// derived from the image size.
func (ts *Tileset) Entry(firstGID tile.GID, tileSize int) atlas.Entry {
	e := atlas.Entry{FirstGID: firstGID, Columns: ts.Columns}
	if ts.Image != nil {
		e.Path = path.Clean(tile.NormalizePath(ts.Image.Source))
		e.Width = ts.Image.Width
		e.Height = ts.Image.Height
	}
	if e.Columns <= 0 {
		e.Columns = atlas.GridDim(e.Width, tileSize)
	}
	e.Rows = atlas.GridDim(e.Height, tileSize)
	return e
}

func WriteTileset(filePath string, ts *Tileset) error {
	return writeXML(filePath, ts)
}

func ReadTileset(filePath string) (*Tileset, error) {
	var ts Tileset
	if err := readXML(filePath, &ts); err != nil {
		return nil, fmt.Errorf("failed to read tileset %s: %w", filePath, err)
	}
	return &ts, nil
}
