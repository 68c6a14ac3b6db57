// Package lighting models per-cell illumination data keyed by z-level.
package lighting

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
)

// ErrNoGrid is returned when no grid can be resolved for a depth.
var ErrNoGrid = errors.New("no lighting info for depth")

// Sample is one normalized luminance value. The zero Sample is absent,
// which leaves its cell untouched.
type Sample struct {
	Value   float32
	Present bool
}

// Lum returns a present sample.
func Lum(v float32) Sample {
	return Sample{Value: v, Present: true}
}

func (s *Sample) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*s = Sample{}
		return nil
	}
	var v float32
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = Lum(v)
	return nil
}

func (s Sample) MarshalJSON() ([]byte, error) {
	if !s.Present {
		return []byte("null"), nil
	}
	return json.Marshal(s.Value)
}

// Column is one vertical strip of a grid; index 0 is the bottom row.
type Column []Sample

// Grid is a sequence of columns indexed by x. Columns may differ in length.
type Grid []Column

// Width is the number of columns.
func (g Grid) Width() int { return len(g) }

// Depth identifies a z-level. The zero Depth means "not specified".
type Depth struct {
	Level uint8
	Set   bool
}

// NoDepth is the unspecified depth.
var NoDepth = Depth{}

// At returns an explicit depth.
func At(level uint8) Depth {
	return Depth{Level: level, Set: true}
}

func (d Depth) String() string {
	if !d.Set {
		return "none"
	}
	return strconv.Itoa(int(d.Level))
}

// Kind is the JSON shape the lighting data was read from.
type Kind int

const (
	// Single is one unkeyed grid.
	Single Kind = iota
	// Keyed maps string-encoded z-levels to grids.
	Keyed
	// Positional is a list of grids: index 0 is the ground level used when
	// no depth is given, index d+1 holds depth d.
	Positional
)

func (k Kind) String() string {
	switch k {
	case Single:
		return "single"
	case Keyed:
		return "keyed"
	case Positional:
		return "positional"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Info is the depth-indexed illumination set. It is immutable after
// construction and safe to share across jobs.
type Info struct {
	kind       Kind
	single     Grid
	keyed      map[uint8]Grid
	positional []Grid
}

func NewSingle(g Grid) *Info {
	return &Info{kind: Single, single: g}
}

func NewKeyed(grids map[uint8]Grid) *Info {
	return &Info{kind: Keyed, keyed: grids}
}

func NewPositional(grids []Grid) *Info {
	return &Info{kind: Positional, positional: grids}
}

func (info *Info) Kind() Kind { return info.kind }

// Len returns the number of grids in the set.
func (info *Info) Len() int {
	switch info.kind {
	case Keyed:
		return len(info.keyed)
	case Positional:
		return len(info.positional)
	default:
		return 1
	}
}

// Select returns the grid for depth d. A set holding exactly one grid
// returns it for any depth. Otherwise an unspecified depth only resolves
// for positional sets (index 0).
func (info *Info) Select(d Depth) (Grid, bool) {
	switch info.kind {
	case Single:
		return info.single, true
	case Keyed:
		if len(info.keyed) == 1 {
			for _, g := range info.keyed {
				return g, true
			}
		}
		if !d.Set {
			return nil, false
		}
		g, ok := info.keyed[d.Level]
		return g, ok
	case Positional:
		if len(info.positional) == 1 {
			return info.positional[0], true
		}
		idx := PositionalIndex(d)
		if idx >= len(info.positional) {
			return nil, false
		}
		return info.positional[idx], true
	}
	return nil, false
}

// Levels lists the explicit depths present in ascending order. A single
// grid has none; a positional set excludes its ground level.
func (info *Info) Levels() []Depth {
	var levels []Depth
	switch info.kind {
	case Keyed:
		keys := make([]int, 0, len(info.keyed))
		for k := range info.keyed {
			keys = append(keys, int(k))
		}
		sort.Ints(keys)
		for _, k := range keys {
			levels = append(levels, At(uint8(k)))
		}
	case Positional:
		for i := 1; i < len(info.positional) && i <= 256; i++ {
			levels = append(levels, At(uint8(i-1)))
		}
	}
	return levels
}

// PositionalIndex maps a depth onto a positional list: none is 0, d is d+1.
func PositionalIndex(d Depth) int {
	if !d.Set {
		return 0
	}
	return int(d.Level) + 1
}

func (info *Info) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return errors.New("empty lighting data")
	}

	switch data[0] {
	case '{':
		var raw map[string]Grid
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		keyed := make(map[uint8]Grid, len(raw))
		for k, g := range raw {
			z, err := strconv.ParseUint(k, 10, 8)
			if err != nil {
				return fmt.Errorf("failed to parse %q as numeric z-level: %w", k, err)
			}
			keyed[uint8(z)] = g
		}
		*info = *NewKeyed(keyed)
		return nil
	case '[':
		var g Grid
		singleErr := json.Unmarshal(data, &g)
		if singleErr == nil {
			*info = *NewSingle(g)
			return nil
		}
		var grids []Grid
		if err := json.Unmarshal(data, &grids); err != nil {
			return fmt.Errorf("not a grid (%v) or list of grids: %w", singleErr, err)
		}
		*info = *NewPositional(grids)
		return nil
	default:
		return fmt.Errorf("unexpected lighting data starting with %q", data[0])
	}
}

// Parse decodes lighting JSON in any of the accepted shapes.
func Parse(data []byte) (*Info, error) {
	var info Info
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Read loads lighting info from a JSON file.
func Read(path string) (*Info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	info, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return info, nil
}
