// Package codec converts binary cells to GIDs and back.
//
// The forward direction is exact: a cell names a tile definition and an
// autotile offset, which select a pixel position inside an atlas, which in
// turn selects a GID. The reverse direction has to search the definitions
// of the layer for one covering the pixel position of a GID. Several
// definitions may cover the same pixels, so the search is an ordered linear
// scan where the first definition in source order wins.
package codec

import (
	"fmt"

	"github.com/eak1mov/go-bintmx/tile"
)

// Role selects special handling for a layer.
type Role uint8

const (
	// RoleTiles is a regular layer resolved through its tile definitions.
	RoleTiles Role = iota
	// RoleIcon maps tile indices directly onto the icon atlas.
	RoleIcon
	// RoleBackground falls back to the first definition when a reverse
	// lookup finds no match.
	RoleBackground
)

func (r Role) String() string {
	switch r {
	case RoleTiles:
		return "tiles"
	case RoleIcon:
		return "icon"
	case RoleBackground:
		return "background"
	default:
		return fmt.Sprintf("Role(%d)", uint8(r))
	}
}

func (r Role) MarshalText() ([]byte, error) {
	if r > RoleBackground {
		return nil, fmt.Errorf("codec: invalid role %d", uint8(r))
	}
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(text []byte) error {
	switch string(text) {
	case "tiles", "":
		*r = RoleTiles
	case "icon":
		*r = RoleIcon
	case "background":
		*r = RoleBackground
	default:
		return fmt.Errorf("codec: invalid role %q", text)
	}
	return nil
}

// Layer is everything the codecs need to know about one layer.
type Layer struct {
	Name     string
	Encoding tile.Encoding
	Role     Role
	Defs     *tile.Set
}
