package repository

// sources maps a result type base to its normalized record table.
var sources = map[string]RecordSource{
	"Drifts": {
		Table: "story_drifts", Owner: OwnerStory, ValueColumn: "drift",
		DirectionColumn: "direction", MaxColumn: "max_drift", MinColumn: "min_drift",
	},
	"Accelerations": {
		Table: "story_accelerations", Owner: OwnerStory, ValueColumn: "acceleration",
		DirectionColumn: "direction", MaxColumn: "max_acceleration", MinColumn: "min_acceleration",
	},
	"Forces": {
		Table: "story_forces", Owner: OwnerStory, ValueColumn: "force",
		DirectionColumn: "direction", MaxColumn: "max_force", MinColumn: "min_force",
	},
	"Displacements": {
		Table: "story_displacements", Owner: OwnerStory, ValueColumn: "displacement",
		DirectionColumn: "direction", MaxColumn: "max_displacement", MinColumn: "min_displacement",
	},
	"WallShears": {
		Table: "wall_shears", Owner: OwnerElement, ValueColumn: "force",
		DirectionColumn: "direction", MaxColumn: "max_force", MinColumn: "min_force",
	},
	"ColumnShears": {
		Table: "column_shears", Owner: OwnerElement, ValueColumn: "force",
		DirectionColumn: "direction", MaxColumn: "max_force", MinColumn: "min_force",
	},
	"ColumnAxials": {
		Table: "column_axials", Owner: OwnerElement, ValueColumn: "min_axial",
		MaxColumn: "max_axial", MinColumn: "min_axial",
	},
	"ColumnRotations": {
		Table: "column_rotations", Owner: OwnerElement, ValueColumn: "rotation",
		DirectionColumn: "direction", MaxColumn: "max_rotation", MinColumn: "min_rotation",
	},
	"BeamRotations": {
		Table: "beam_rotations", Owner: OwnerElement, ValueColumn: "rotation",
		MaxColumn: "max_rotation", MinColumn: "min_rotation",
	},
	"QuadRotations": {
		Table: "quad_rotations", Owner: OwnerElement, ValueColumn: "rotation",
		MaxColumn: "max_rotation", MinColumn: "min_rotation",
	},
	"SoilPressures": {
		Table: "soil_pressures", Owner: OwnerJoint, ValueColumn: "min_pressure",
	},
	"VerticalDisplacements": {
		Table: "vertical_displacements", Owner: OwnerJoint, ValueColumn: "min_displacement",
	},
}

// SourceFor returns the record table of a result type base.
func SourceFor(base string) (RecordSource, bool) {
	src, ok := sources[base]
	return src, ok
}

// HasEnvelope reports whether the source carries signed max/min columns.
func (src *RecordSource) HasEnvelope() bool {
	return src.MaxColumn != "" || src.MinColumn != ""
}
