// Package godotres extracts tile definitions from Godot 3 text resources
// (.tres tile sets and TileSet sub-resources embedded in .tscn scenes).
package godotres

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/eak1mov/go-bintmx/tile"
)

var ErrTileSetNotFound = errors.New("godotres: tile set sub-resource not found")

var (
	sectionRe  = regexp.MustCompile(`^\[(\w+)((?:\s+\w+=(?:"[^"]*"|[^\s\]]+))*)\s*\]$`)
	attrRe     = regexp.MustCompile(`(\w+)=(?:"([^"]*)"|([^\s\]]+))`)
	propertyRe = regexp.MustCompile(`^(\d+)/([\w/]+)\s*=\s*(.*)$`)
	extRefRe   = regexp.MustCompile(`^ExtResource\(\s*(\d+)\s*\)$`)
	numbersRe  = regexp.MustCompile(`^(?:Rect2|Vector2)\(([^)]*)\)$`)
)

const resPrefix = "res://"

// CleanPath strips the res:// prefix and normalizes p to a clean
// forward-slash path.
func CleanPath(p string) string {
	p = strings.TrimPrefix(tile.NormalizePath(p), resPrefix)
	return path.Clean(p)
}

type section struct {
	kind  string
	attrs map[string]string
	lines []string
}

func parseSections(text string) []section {
	var sections []section
	current := section{}
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64<<10), 16<<20)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if m := sectionRe.FindStringSubmatch(line); m != nil {
			sections = append(sections, current)
			current = section{kind: m[1], attrs: make(map[string]string)}
			for _, a := range attrRe.FindAllStringSubmatch(m[2], -1) {
				current.attrs[a[1]] = a[2] + a[3]
			}
			continue
		}
		current.lines = append(current.lines, line)
	}
	return append(sections, current)
}

// extResources maps ext_resource ids of texture resources to clean paths.
func extResources(sections []section) map[int]string {
	result := make(map[int]string)
	for _, s := range sections {
		if s.kind != "ext_resource" || s.attrs["type"] != "Texture" {
			continue
		}
		id, err := strconv.Atoi(s.attrs["id"])
		if err != nil {
			continue
		}
		result[id] = CleanPath(s.attrs["path"])
	}
	return result
}

// ParseResource parses a .tres tile set. Tiles without a texture, or whose
// texture is not an ext_resource of type Texture, are skipped.
func ParseResource(text string, tileSize int) []tile.Definition {
	sections := parseSections(text)
	ext := extResources(sections)

	var lines []string
	for _, s := range sections {
		lines = append(lines, s.lines...)
	}
	return parseDefinitions(lines, ext, tileSize)
}

// ParseSceneTileSet parses the TileSet sub-resource with the given id from
// a .tscn scene. Textures resolve against the scene's ext_resources.
func ParseSceneTileSet(text string, id, tileSize int) ([]tile.Definition, error) {
	sections := parseSections(text)
	ext := extResources(sections)

	want := strconv.Itoa(id)
	for _, s := range sections {
		if s.kind == "sub_resource" && s.attrs["type"] == "TileSet" && s.attrs["id"] == want {
			return parseDefinitions(s.lines, ext, tileSize), nil
		}
	}
	return nil, fmt.Errorf("%w: id=%d", ErrTileSetNotFound, id)
}

// LoadResource reads and parses the .tres file at filePath.
func LoadResource(filePath string, tileSize int) ([]tile.Definition, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return ParseResource(string(data), tileSize), nil
}

// LoadSceneTileSet reads the .tscn file at filePath and parses the TileSet
// sub-resource with the given id.
func LoadSceneTileSet(filePath string, id, tileSize int) ([]tile.Definition, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return ParseSceneTileSet(string(data), id, tileSize)
}

type properties struct {
	id    int
	named bool
	props map[string]string
}

func parseDefinitions(lines []string, ext map[int]string, tileSize int) []tile.Definition {
	var order []*properties
	byID := make(map[int]*properties)
	for _, line := range lines {
		m := propertyRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		id, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		p, ok := byID[id]
		if !ok {
			p = &properties{id: id, props: make(map[string]string)}
			byID[id] = p
		}
		if _, dup := p.props[m[2]]; !dup {
			p.props[m[2]] = m[3]
		}
		if m[2] == "name" && !p.named {
			p.named = true
			order = append(order, p)
		}
	}

	size := float64(tileSize)
	defs := make([]tile.Definition, 0, len(order))
	for _, p := range order {
		m := extRefRe.FindStringSubmatch(p.props["texture"])
		if m == nil {
			continue
		}
		resID, _ := strconv.Atoi(m[1])
		texture, ok := ext[resID]
		if !ok {
			continue
		}

		def := tile.Definition{
			ID:      p.id,
			Texture: texture,
			Region:  tile.Rect{X: 0, Y: 0, W: size, H: size},
			Stride:  tile.Stride{W: size, H: size},
		}
		if v, ok := parseNumbers(p.props["region"], 4); ok {
			def.Region = tile.Rect{X: v[0], Y: v[1], W: v[2], H: v[3]}
		}
		if v, ok := parseNumbers(p.props["autotile/tile_size"], 2); ok {
			def.Stride = tile.Stride{W: v[0], H: v[1]}
		}
		if mode, err := strconv.Atoi(p.props["tile_mode"]); err == nil && mode >= 0 {
			def.Mode = tile.Mode(mode)
		}
		defs = append(defs, def)
	}
	return defs
}

// parseNumbers parses "Rect2( a, b, c, d )" or "Vector2( a, b )".
func parseNumbers(value string, n int) ([]float64, bool) {
	m := numbersRe.FindStringSubmatch(strings.TrimSpace(value))
	if m == nil {
		return nil, false
	}
	fields := strings.Split(m[1], ",")
	if len(fields) != n {
		return nil, false
	}
	result := make([]float64, n)
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, false
		}
		result[i] = v
	}
	return result, true
}
