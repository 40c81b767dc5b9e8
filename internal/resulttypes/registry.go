package resulttypes

import "maps"

// baseSpec holds everything a variant inherits.
type baseSpec struct {
	label       string
	unit        string
	decimals    int
	multiplier  float64
	yLabel      string
	plotMode    string
	colorScheme string
	scope       Scope
	directions  []Direction
}

// variantOverride replaces inherited display fields of one variant.
type variantOverride struct {
	suffix string
	unit   string
	label  string
}

var baseOrder = []Base{
	Drifts, Accelerations, Forces, Displacements,
	WallShears, ColumnShears, ColumnAxials, ColumnRotations,
	BeamRotations, QuadRotations,
	SoilPressures, VerticalDisplacements,
}

var baseSpecs = map[Base]baseSpec{
	Drifts: {
		label: "Story Drifts", unit: "%", decimals: 2, multiplier: 100,
		yLabel: "Drift", plotMode: PlotBuildingProfile, colorScheme: "drift",
		scope: ScopeGlobal, directions: []Direction{DirX, DirY},
	},
	Accelerations: {
		label: "Story Accelerations", unit: "g", decimals: 3, multiplier: 1,
		yLabel: "Acceleration", plotMode: PlotBuildingProfile, colorScheme: "acceleration",
		scope: ScopeGlobal, directions: []Direction{DirUX, DirUY},
	},
	Forces: {
		label: "Story Shears", unit: "kN", decimals: 0, multiplier: 1,
		yLabel: "Shear", plotMode: PlotBuildingProfile, colorScheme: "force",
		scope: ScopeGlobal, directions: []Direction{DirVX, DirVY},
	},
	Displacements: {
		label: "Floor Displacements", unit: "mm", decimals: 1, multiplier: 1,
		yLabel: "Displacement", plotMode: PlotBuildingProfile, colorScheme: "displacement",
		scope: ScopeGlobal, directions: []Direction{DirUX, DirUY},
	},
	WallShears: {
		label: "Wall Shears", unit: "kN", decimals: 0, multiplier: 1,
		yLabel: "Shear", plotMode: PlotElementProfile, colorScheme: "force",
		scope: ScopeElement, directions: []Direction{DirV2, DirV3},
	},
	ColumnShears: {
		label: "Column Shears", unit: "kN", decimals: 0, multiplier: 1,
		yLabel: "Shear", plotMode: PlotElementProfile, colorScheme: "force",
		scope: ScopeElement, directions: []Direction{DirV2, DirV3},
	},
	ColumnAxials: {
		label: "Column Axial Forces", unit: "kN", decimals: 0, multiplier: 1,
		yLabel: "Axial Force", plotMode: PlotElementProfile, colorScheme: "force",
		scope: ScopeElement,
	},
	ColumnRotations: {
		label: "Column Rotations", unit: "%", decimals: 2, multiplier: 100,
		yLabel: "Rotation", plotMode: PlotElementProfile, colorScheme: "rotation",
		scope: ScopeElement, directions: []Direction{DirR2, DirR3},
	},
	BeamRotations: {
		label: "Beam Rotations", unit: "%", decimals: 2, multiplier: 100,
		yLabel: "Rotation", plotMode: PlotElementProfile, colorScheme: "rotation",
		scope: ScopeElement,
	},
	QuadRotations: {
		label: "Quad Rotations", unit: "%", decimals: 2, multiplier: 100,
		yLabel: "Rotation", plotMode: PlotElementProfile, colorScheme: "rotation",
		scope: ScopeElement,
	},
	SoilPressures: {
		label: "Soil Pressures", unit: "kN/m²", decimals: 1, multiplier: 1,
		yLabel: "Soil Pressure", plotMode: PlotJointScatter, colorScheme: "pressure",
		scope: ScopeJoint,
	},
	VerticalDisplacements: {
		label: "Vertical Displacements", unit: "mm", decimals: 1, multiplier: 1,
		yLabel: "Vertical Displacement", plotMode: PlotJointScatter, colorScheme: "displacement",
		scope: ScopeJoint,
	},
}

// overrides lists the variants whose display fields differ from their base.
var overrides = map[string]variantOverride{
	"Forces_VX":          {label: "Story Shears X"},
	"Forces_VY":          {label: "Story Shears Y"},
	"Accelerations_UX":   {label: "Story Accelerations X"},
	"Accelerations_UY":   {label: "Story Accelerations Y"},
	"Displacements_UX":   {label: "Floor Displacements X"},
	"Displacements_UY":   {label: "Floor Displacements Y"},
	"ColumnRotations_R2": {label: "Column Rotations R2"},
	"ColumnRotations_R3": {label: "Column Rotations R3"},
}

// registry is built once and never mutated.
var registry = buildRegistry()

func buildRegistry() map[string]Config {
	out := make(map[string]Config)
	for _, base := range baseOrder {
		spec := baseSpecs[base]
		out[string(base)] = resolve(base, DirNone, spec, variantOverride{})

		for _, dir := range spec.directions {
			key := Key(base, dir)
			out[key] = resolve(base, dir, spec, overrides[key])
		}
	}
	return maps.Clone(out)
}

func resolve(base Base, dir Direction, spec baseSpec, ov variantOverride) Config {
	cfg := Config{
		Key:           Key(base, dir),
		Base:          base,
		Direction:     dir,
		Label:         spec.label,
		Unit:          spec.unit,
		DecimalPlaces: spec.decimals,
		Multiplier:    spec.multiplier,
		PlotMode:      spec.plotMode,
		ColorScheme:   spec.colorScheme,
		Scope:         spec.scope,
	}
	if dir != DirNone {
		cfg.DirectionSuffix = "_" + string(dir)
		cfg.Label = spec.label + " " + string(dir)
	}
	if ov.suffix != "" {
		cfg.DirectionSuffix = ov.suffix
	}
	if ov.unit != "" {
		cfg.Unit = ov.unit
	}
	if ov.label != "" {
		cfg.Label = ov.label
	}
	cfg.YLabel = spec.yLabel
	if cfg.Unit != "" {
		cfg.YLabel = spec.yLabel + " [" + cfg.Unit + "]"
	}
	return cfg
}
