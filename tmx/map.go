// Package tmx reads and writes Tiled TMX maps and external TSX tilesets.
package tmx

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"

	"github.com/eak1mov/go-bintmx/tile"
)

const (
	Version      = "1.9"
	TiledVersion = "1.9.2"
)

// Map is the <map> root element of a TMX file.
type Map struct {
	XMLName      xml.Name     `xml:"map"`
	Version      string       `xml:"version,attr"`
	TiledVersion string       `xml:"tiledversion,attr"`
	Orientation  string       `xml:"orientation,attr"`
	RenderOrder  string       `xml:"renderorder,attr"`
	Width        int          `xml:"width,attr"`
	Height       int          `xml:"height,attr"`
	TileWidth    int          `xml:"tilewidth,attr"`
	TileHeight   int          `xml:"tileheight,attr"`
	Infinite     int          `xml:"infinite,attr"`
	NextLayerID  int          `xml:"nextlayerid,attr"`
	NextObjectID int          `xml:"nextobjectid,attr"`
	Tilesets     []TilesetRef `xml:"tileset"`
	Layers       []Layer      `xml:"layer"`
}

// TilesetRef references an external TSX tileset.
type TilesetRef struct {
	FirstGID tile.GID `xml:"firstgid,attr"`
	Source   string   `xml:"source,attr"`
}

// Layer is one <layer> element.
type Layer struct {
	ID     int    `xml:"id,attr"`
	Name   string `xml:"name,attr"`
	Width  int    `xml:"width,attr"`
	Height int    `xml:"height,attr"`
	Data   Data   `xml:"data"`
}

// GIDs decodes the layer data. The second result counts values beyond
// the layer size, which are dropped.
func (l *Layer) GIDs() (*tile.Grid[tile.GID], int, error) {
	gids, dropped, err := l.Data.Decode(l.Width, l.Height)
	if err != nil {
		return nil, 0, fmt.Errorf("layer %q: %w", l.Name, err)
	}
	return gids, dropped, nil
}

// NewMap returns an empty finite orthogonal map.
func NewMap(width, height, tileSize int) *Map {
	return &Map{
		Version:      Version,
		TiledVersion: TiledVersion,
		Orientation:  "orthogonal",
		RenderOrder:  "right-down",
		Width:        width,
		Height:       height,
		TileWidth:    tileSize,
		TileHeight:   tileSize,
		NextLayerID:  1,
		NextObjectID: 1,
	}
}

func (m *Map) AddTileset(firstGID tile.GID, source string) {
	m.Tilesets = append(m.Tilesets, TilesetRef{FirstGID: firstGID, Source: source})
}

// AddLayer appends a layer holding gids. Layer ids are assigned in order
// starting from 1.
func (m *Map) AddLayer(name string, gids *tile.Grid[tile.GID], format DataFormat) error {
	data, err := EncodeData(gids, format)
	if err != nil {
		return fmt.Errorf("layer %q: %w", name, err)
	}
	m.Layers = append(m.Layers, Layer{
		ID:     m.NextLayerID,
		Name:   name,
		Width:  gids.Width,
		Height: gids.Height,
		Data:   data,
	})
	m.NextLayerID++
	return nil
}

// Layer returns the first layer with the given name.
func (m *Map) Layer(name string) (*Layer, bool) {
	for i := range m.Layers {
		if m.Layers[i].Name == name {
			return &m.Layers[i], true
		}
	}
	return nil, false
}

func encodeXML(w io.Writer, v any) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	encoder := xml.NewEncoder(w)
	encoder.Indent("", " ")
	if err := encoder.Encode(v); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func writeXML(filePath string, v any) (err error) {
	file, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); err == nil {
			err = closeErr
		}
	}()
	return encodeXML(file, v)
}

func readXML(filePath string, v any) error {
	file, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer file.Close()
	return xml.NewDecoder(file).Decode(v)
}

func (m *Map) Encode(w io.Writer) error {
	return encodeXML(w, m)
}

func DecodeMap(r io.Reader) (*Map, error) {
	var m Map
	if err := xml.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to decode map: %w", err)
	}
	return &m, nil
}

func WriteMap(filePath string, m *Map) error {
	return writeXML(filePath, m)
}

func ReadMap(filePath string) (*Map, error) {
	var m Map
	if err := readXML(filePath, &m); err != nil {
		return nil, fmt.Errorf("failed to read map %s: %w", filePath, err)
	}
	return &m, nil
}
