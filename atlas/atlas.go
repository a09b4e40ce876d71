// Package atlas assigns GID ranges to atlas images.
//
// Every image referenced by any tile definition gets a contiguous,
// non-overlapping range of GIDs. GID 0 is reserved for empty cells, so the
// first atlas starts at 1. Images are ordered by path, which keeps the
// assignment identical between runs over the same input.
package atlas

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/eak1mov/go-bintmx/tile"
)

var (
	ErrEmptyAtlas = errors.New("atlas: image has no tiles")
	ErrOverlap    = errors.New("atlas: overlapping gid ranges")
	ErrTileSize   = errors.New("atlas: invalid tile size")
)

// Image is an atlas image with its pixel dimensions.
type Image struct {
	Path   string
	Width  int
	Height int
}

// Entry is one registered atlas image.
type Entry struct {
	Path     string
	Width    int
	Height   int
	Columns  int
	Rows     int
	FirstGID tile.GID
}

// Count returns the number of tiles in the atlas.
func (e Entry) Count() int {
	return e.Columns * e.Rows
}

// Contains reports whether gid (without flags) belongs to this atlas.
func (e Entry) Contains(gid tile.GID) bool {
	return gid >= e.FirstGID && int(gid-e.FirstGID) < e.Count()
}

// Registry is an immutable set of atlas entries ordered by FirstGID.
type Registry struct {
	tileSize int
	entries  []Entry
	byPath   map[string]int
}

// GridDim returns the number of tiles covering pixels, rounding up so that
// a partial tile still counts. Zero pixels give zero tiles.
func GridDim(pixels, tileSize int) int {
	if pixels <= 0 {
		return 0
	}
	return (pixels + tileSize - 1) / tileSize
}

// Build registers images in path order and assigns consecutive GID ranges
// starting at 1. Duplicate paths are registered once.
//
// Images with a zero dimension are registered without any GIDs so that
// sibling atlases keep their numbering. They are reported through the
// returned error, which wraps ErrEmptyAtlas; the registry is usable
// regardless.
func Build(images []Image, tileSize int) (*Registry, error) {
	if tileSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrTileSize, tileSize)
	}

	sorted := slices.Clone(images)
	slices.SortStableFunc(sorted, func(a, b Image) int {
		return cmp.Compare(a.Path, b.Path)
	})
	sorted = slices.CompactFunc(sorted, func(a, b Image) bool {
		return a.Path == b.Path
	})

	r := &Registry{
		tileSize: tileSize,
		entries:  make([]Entry, 0, len(sorted)),
		byPath:   make(map[string]int, len(sorted)),
	}

	var errs []error
	next := tile.GID(1)
	for _, img := range sorted {
		e := Entry{
			Path:     img.Path,
			Width:    img.Width,
			Height:   img.Height,
			Columns:  GridDim(img.Width, tileSize),
			Rows:     GridDim(img.Height, tileSize),
			FirstGID: next,
		}
		if e.Count() == 0 {
			errs = append(errs, fmt.Errorf("%w: %s (%dx%d)", ErrEmptyAtlas, img.Path, img.Width, img.Height))
		}
		r.byPath[e.Path] = len(r.entries)
		r.entries = append(r.entries, e)
		next += tile.GID(e.Count())
	}

	return r, errors.Join(errs...)
}

// FromEntries rebuilds a registry from already assigned entries, such as
// the tilesets referenced by a TMX map. Entries with zero columns get them
// recomputed from the image width.
func FromEntries(entries []Entry, tileSize int) (*Registry, error) {
	if tileSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrTileSize, tileSize)
	}

	sorted := slices.Clone(entries)
	for i := range sorted {
		if sorted[i].Columns == 0 {
			sorted[i].Columns = GridDim(sorted[i].Width, tileSize)
		}
		if sorted[i].Rows == 0 {
			sorted[i].Rows = GridDim(sorted[i].Height, tileSize)
		}
	}
	slices.SortStableFunc(sorted, func(a, b Entry) int {
		return cmp.Compare(a.FirstGID, b.FirstGID)
	})

	r := &Registry{
		tileSize: tileSize,
		entries:  sorted,
		byPath:   make(map[string]int, len(sorted)),
	}
	for i, e := range sorted {
		if e.FirstGID == 0 {
			return nil, fmt.Errorf("%w: %s starts at gid 0", ErrOverlap, e.Path)
		}
		if i > 0 {
			prev := sorted[i-1]
			if int(prev.FirstGID)+prev.Count() > int(e.FirstGID) {
				return nil, fmt.Errorf("%w: %s and %s", ErrOverlap, prev.Path, e.Path)
			}
		}
		if _, ok := r.byPath[e.Path]; !ok {
			r.byPath[e.Path] = i
		}
	}
	return r, nil
}

// TileSize returns the tile edge length used for all grid conversions.
func (r *Registry) TileSize() int {
	return r.tileSize
}

// Entries returns the entries ordered by FirstGID.
func (r *Registry) Entries() []Entry {
	return slices.Clone(r.entries)
}

// ByPath returns the entry registered for the image path.
func (r *Registry) ByPath(path string) (Entry, bool) {
	i, ok := r.byPath[path]
	if !ok {
		return Entry{}, false
	}
	return r.entries[i], true
}

// Lookup returns the atlas owning gid. Entries are searched from the
// highest FirstGID down and the first one whose range contains gid wins.
// Flag bits are ignored.
func (r *Registry) Lookup(gid tile.GID) (Entry, bool) {
	gid = gid.ID()
	if gid == 0 {
		return Entry{}, false
	}
	for i := len(r.entries) - 1; i >= 0; i-- {
		e := r.entries[i]
		if gid < e.FirstGID {
			continue
		}
		if e.Contains(gid) {
			return e, true
		}
		if e.Count() > 0 {
			// gid is past the end of the highest non-empty range below it
			return Entry{}, false
		}
	}
	return Entry{}, false
}

// NextGID returns the first GID not covered by any atlas.
func (r *Registry) NextGID() tile.GID {
	next := tile.GID(1)
	for _, e := range r.entries {
		if end := e.FirstGID + tile.GID(e.Count()); end > next {
			next = end
		}
	}
	return next
}
