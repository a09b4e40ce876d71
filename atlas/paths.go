package atlas

import (
	"slices"

	"github.com/eak1mov/go-bintmx/tile"
)

// CollectPaths returns the distinct texture paths referenced by sets plus
// any extra paths, sorted.
func CollectPaths(sets []*tile.Set, extra ...string) []string {
	seen := make(map[string]struct{})
	for _, s := range sets {
		for _, d := range s.All() {
			seen[d.Texture] = struct{}{}
		}
	}
	for _, p := range extra {
		seen[p] = struct{}{}
	}

	paths := make([]string, 0, len(seen))
	for p := range seen {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	return paths
}
