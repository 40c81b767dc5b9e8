// Package resulttypes holds display metadata for every result type.
//
// Result types are a closed set of bases (Drifts, WallShears, ...) combined
// with the directions each base supports. The variant table is resolved once
// into an immutable map keyed by the persisted result type string, e.g.
// "Drifts_X" or "ColumnAxials".
package resulttypes

import (
	"maps"
	"slices"
	"strings"
)

// Base is a result type family.
type Base string

const (
	Drifts                Base = "Drifts"
	Accelerations         Base = "Accelerations"
	Forces                Base = "Forces"
	Displacements         Base = "Displacements"
	WallShears            Base = "WallShears"
	ColumnShears          Base = "ColumnShears"
	ColumnAxials          Base = "ColumnAxials"
	ColumnRotations       Base = "ColumnRotations"
	BeamRotations         Base = "BeamRotations"
	QuadRotations         Base = "QuadRotations"
	SoilPressures         Base = "SoilPressures"
	VerticalDisplacements Base = "VerticalDisplacements"
)

// Direction is a directional component. The empty direction means the
// result type is not directional.
type Direction string

const (
	DirNone Direction = ""
	DirX    Direction = "X"
	DirY    Direction = "Y"
	DirUX   Direction = "UX"
	DirUY   Direction = "UY"
	DirVX   Direction = "VX"
	DirVY   Direction = "VY"
	DirV2   Direction = "V2"
	DirV3   Direction = "V3"
	DirR2   Direction = "R2"
	DirR3   Direction = "R3"
)

// Scope is the owning dimension of a result type's cache rows.
type Scope int

const (
	ScopeGlobal  Scope = iota // one row per story
	ScopeElement              // one row per element and story
	ScopeJoint                // one row per shell object and unique name
)

// Plot modes
const (
	PlotBuildingProfile = "building_profile"
	PlotElementProfile  = "element_profile"
	PlotJointScatter    = "joint_scatter"
)

// Config is the resolved display metadata of one result type.
type Config struct {
	Key             string
	Base            Base
	Direction       Direction
	Label           string
	Unit            string
	DecimalPlaces   int
	Multiplier      float64
	DirectionSuffix string
	YLabel          string
	PlotMode        string
	ColorScheme     string
	Scope           Scope
}

// Directional reports whether the config belongs to a directional variant.
func (c *Config) Directional() bool {
	return c.DirectionSuffix != ""
}

// Scale converts a raw stored value to display units.
func (c *Config) Scale(v float64) float64 {
	return v * c.Multiplier
}

// Key returns the persisted result type string of a base and direction.
func Key(base Base, dir Direction) string {
	if dir == DirNone {
		return string(base)
	}
	return string(base) + "_" + string(dir)
}

// Get returns the config for key. Unknown keys resolve to a default config
// labelled with the key itself.
func Get(key string) Config {
	if cfg, ok := registry[key]; ok {
		return cfg
	}
	return defaultConfig(key)
}

// Lookup returns the config for key and whether it is registered.
func Lookup(key string) (Config, bool) {
	cfg, ok := registry[key]
	return cfg, ok
}

// For returns the config of a base and direction.
func For(base Base, dir Direction) Config {
	return Get(Key(base, dir))
}

// FormatWithUnit returns "Label [unit]" for a base and optional direction,
// or the bare label when no unit is known.
func FormatWithUnit(base string, dir string) string {
	key := base
	if dir != "" {
		key = base + "_" + dir
	}
	cfg, ok := Lookup(key)
	if !ok {
		cfg, ok = Lookup(base)
	}
	if !ok {
		return base
	}
	if cfg.Unit == "" {
		return cfg.Label
	}
	return cfg.Label + " [" + cfg.Unit + "]"
}

// ParseBase converts a string to a registered base.
func ParseBase(s string) (Base, bool) {
	_, ok := baseSpecs[Base(s)]
	return Base(s), ok
}

// ParseDirection normalizes a direction token ("x", "V2") for base.
func ParseDirection(base Base, s string) (Direction, bool) {
	spec, ok := baseSpecs[base]
	if !ok {
		return DirNone, false
	}
	if s == "" {
		return DirNone, len(spec.directions) == 0
	}
	d := Direction(strings.ToUpper(s))
	return d, slices.Contains(spec.directions, d)
}

// Bases returns every registered base in a stable order.
func Bases() []Base {
	return slices.Clone(baseOrder)
}

// Directions returns the directions of base, nil if it is not directional.
func Directions(base Base) []Direction {
	return slices.Clone(baseSpecs[base].directions)
}

// Variants returns the persisted result type keys of base: one per
// direction, or the base key itself when it is not directional.
func Variants(base Base) []string {
	dirs := baseSpecs[base].directions
	if len(dirs) == 0 {
		return []string{string(base)}
	}
	keys := make([]string, len(dirs))
	for i, d := range dirs {
		keys[i] = Key(base, d)
	}
	return keys
}

// Keys returns every registered key sorted.
func Keys() []string {
	return slices.Sorted(maps.Keys(registry))
}

func defaultConfig(key string) Config {
	return Config{
		Key:           key,
		Label:         key,
		DecimalPlaces: 2,
		Multiplier:    1,
		PlotMode:      PlotBuildingProfile,
		ColorScheme:   "default",
	}
}
