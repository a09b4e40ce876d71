// Package tile provides the data model shared by the binary and TMX sides:
// tile definitions, encoding types, binary cells, GIDs and layer grids.
package tile

import (
	"fmt"
	"strings"
)

// DefaultSize is the edge length in pixels of one square map tile.
const DefaultSize = 128

// Mode is the resource tile mode (0=single, 1=autotile, 2=atlas).
type Mode uint8

const (
	ModeSingle Mode = iota
	ModeAuto
	ModeAtlas
)

// Offsets reports whether cells using this mode carry a sub-cell offset
// scaled by the definition stride.
func (m Mode) Offsets() bool {
	return m > ModeSingle
}

// Rect is a pixel region inside an atlas image. Resource files store
// regions as floats, so they are kept as floats here.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether (px, py) lies inside r, lower bound inclusive and
// upper bound exclusive, with both bounds shifted down by eps.
func (r Rect) Contains(px, py, eps float64) bool {
	return px >= r.X-eps && px < r.X+r.W-eps &&
		py >= r.Y-eps && py < r.Y+r.H-eps
}

// Stride is the size of one autotile sub-cell in pixels.
type Stride struct {
	W, H float64
}

// Definition describes one source tile.
type Definition struct {
	ID      int
	Texture string // normalized atlas image path
	Region  Rect
	Stride  Stride
	Mode    Mode
}

// Origin returns the pixel position selected by the autotile offset
// (autoX, autoY). Offsets only apply to autotile and atlas tiles.
func (d Definition) Origin(autoX, autoY int) (float64, float64) {
	px, py := d.Region.X, d.Region.Y
	if d.Mode.Offsets() {
		px += float64(autoX) * d.Stride.W
		py += float64(autoY) * d.Stride.H
	}
	return px, py
}

// NormalizePath converts p to forward slashes.
func NormalizePath(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

// SameTexture reports whether two texture paths refer to the same image.
// Either path may be a substring of the other to absorb differences in
// path normalization (relative prefixes, "./", etc).
func SameTexture(a, b string) bool {
	a, b = NormalizePath(a), NormalizePath(b)
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// Encoding is the fixed per-layer policy for auxiliary bytes.
type Encoding uint8

const (
	EncodingUnknown Encoding = iota
	EncodingAutotile
	EncodingFlip
	EncodingSimple
)

// AuxBytes returns the number of bytes following the tile byte of each cell.
func (e Encoding) AuxBytes() int {
	switch e {
	case EncodingAutotile:
		return 2
	case EncodingFlip:
		return 1
	default:
		return 0
	}
}

func (e Encoding) String() string {
	switch e {
	case EncodingAutotile:
		return "autotile"
	case EncodingFlip:
		return "flip"
	case EncodingSimple:
		return "simple"
	default:
		return fmt.Sprintf("Encoding(%d)", uint8(e))
	}
}

func (e Encoding) MarshalText() ([]byte, error) {
	if e == EncodingUnknown || e > EncodingSimple {
		return nil, fmt.Errorf("tile: invalid encoding %d", uint8(e))
	}
	return []byte(e.String()), nil
}

func (e *Encoding) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "autotile":
		*e = EncodingAutotile
	case "flip":
		*e = EncodingFlip
	case "simple":
		*e = EncodingSimple
	default:
		return fmt.Errorf("tile: invalid encoding %q", text)
	}
	return nil
}

// Cell is one binary cell. Value is the stored byte: tile index plus one,
// with 0 meaning no tile. Which of the remaining fields are serialized
// depends on the layer Encoding.
type Cell struct {
	Value uint8
	AutoX uint8
	AutoY uint8
	Flip  bool
}

// Index returns the decoded tile index, or -1 for an empty cell.
func (c Cell) Index() int {
	return int(c.Value) - 1
}

// GID is a global tile identifier as stored in TMX layer data.
type GID uint32

const (
	FlipHorizontal GID = 0x80000000
	MaskGID        GID = 0x1FFFFFFF
)

// Flipped reports whether the horizontal flip flag is set.
func (g GID) Flipped() bool {
	return g&FlipHorizontal != 0
}

// ID returns g with all flag bits masked off.
func (g GID) ID() GID {
	return g & MaskGID
}

// WithFlip returns g with the horizontal flip flag set to flip.
func (g GID) WithFlip(flip bool) GID {
	if flip {
		return g | FlipHorizontal
	}
	return g &^ FlipHorizontal
}
