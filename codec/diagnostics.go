package codec

import (
	"fmt"
	"iter"
	"slices"

	"github.com/eak1mov/go-bintmx/tile"
)

// Kind classifies a degraded cell.
type Kind uint8

const (
	// KindTruncated: the binary stream ended before the cell was read.
	KindTruncated Kind = iota + 1
	// KindUnknownTile: no definition has the decoded tile index.
	KindUnknownTile
	// KindOutOfAtlas: the resolved pixel position lies outside the atlas grid.
	KindOutOfAtlas
	// KindEmptyAtlas: the definition refers to an atlas with no tiles.
	KindEmptyAtlas
	// KindUnmatched: no definition covers the pixel position of a GID.
	KindUnmatched
	// KindAmbiguous: more than one definition covers the pixel position; the first one was used.
	KindAmbiguous
	// KindFallback: the background fallback picked the first definition.
	KindFallback
	// KindOutOfRange: the GID belongs to no atlas.
	KindOutOfRange
	// KindOverflow: a tile index or offset does not fit in a byte.
	KindOverflow
)

var kindNames = map[Kind]string{
	KindTruncated:   "truncated",
	KindUnknownTile: "unknown-tile",
	KindOutOfAtlas:  "out-of-atlas",
	KindEmptyAtlas:  "empty-atlas",
	KindUnmatched:   "unmatched",
	KindAmbiguous:   "ambiguous",
	KindFallback:    "fallback",
	KindOutOfRange:  "out-of-range",
	KindOverflow:    "overflow",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("codec: unknown diagnostic kind %q", s)
}

// Kinds returns all kinds in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(kindNames))
	for k := KindTruncated; k <= KindOverflow; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// Diagnostic describes one degraded cell.
type Diagnostic struct {
	Layer string
	Cell  tile.Point
	Kind  Kind
	GID   tile.GID
	Value int // tile index, definition id or offset involved, if any
}

// Diagnostics collects degraded cells of a conversion. The zero value is
// ready to use; a nil *Diagnostics discards everything.
type Diagnostics struct {
	items  []Diagnostic
	counts map[Kind]int
}

// Add records d.
func (d *Diagnostics) Add(diag Diagnostic) {
	if d == nil {
		return
	}
	if d.counts == nil {
		d.counts = make(map[Kind]int)
	}
	d.items = append(d.items, diag)
	d.counts[diag.Kind]++
}

// Len returns the number of recorded diagnostics.
func (d *Diagnostics) Len() int {
	if d == nil {
		return 0
	}
	return len(d.items)
}

// Count returns the number of diagnostics of kind k.
func (d *Diagnostics) Count(k Kind) int {
	if d == nil {
		return 0
	}
	return d.counts[k]
}

// All iterates over the diagnostics in the order they were recorded.
func (d *Diagnostics) All() iter.Seq[Diagnostic] {
	if d == nil {
		return slices.Values([]Diagnostic(nil))
	}
	return slices.Values(d.items)
}

// Layer returns the diagnostics recorded for the named layer.
func (d *Diagnostics) Layer(name string) []Diagnostic {
	var result []Diagnostic
	for diag := range d.All() {
		if diag.Layer == name {
			result = append(result, diag)
		}
	}
	return result
}
