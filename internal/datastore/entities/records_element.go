package entities

// WallShear is a pier shear force per local direction V2/V3.
type WallShear struct {
	ID               uint    `gorm:"primaryKey"`
	ElementID        uint    `gorm:"not null;uniqueIndex:idx_wall_shear_identity"`
	StoryID          uint    `gorm:"not null;uniqueIndex:idx_wall_shear_identity"`
	LoadCaseID       uint    `gorm:"not null;uniqueIndex:idx_wall_shear_identity"`
	Direction        string  `gorm:"size:4;not null;uniqueIndex:idx_wall_shear_identity"`
	ResultCategoryID *uint   `gorm:"uniqueIndex:idx_wall_shear_identity;index"`
	Force            float64 `gorm:"not null"`
	MaxForce         *float64
	MinForce         *float64
}

// TableName returns the table name for GORM.
func (WallShear) TableName() string {
	return "wall_shears"
}

// ColumnShear is a column shear force per local direction V2/V3.
type ColumnShear struct {
	ID               uint    `gorm:"primaryKey"`
	ElementID        uint    `gorm:"not null;uniqueIndex:idx_column_shear_identity"`
	StoryID          uint    `gorm:"not null;uniqueIndex:idx_column_shear_identity"`
	LoadCaseID       uint    `gorm:"not null;uniqueIndex:idx_column_shear_identity"`
	Direction        string  `gorm:"size:4;not null;uniqueIndex:idx_column_shear_identity"`
	ResultCategoryID *uint   `gorm:"uniqueIndex:idx_column_shear_identity;index"`
	Force            float64 `gorm:"not null"`
	MaxForce         *float64
	MinForce         *float64
}

// TableName returns the table name for GORM.
func (ColumnShear) TableName() string {
	return "column_shears"
}

// ColumnAxial is the column axial force envelope. MinAxial is the
// governing compression and is always present.
type ColumnAxial struct {
	ID               uint    `gorm:"primaryKey"`
	ElementID        uint    `gorm:"not null;uniqueIndex:idx_column_axial_identity"`
	StoryID          uint    `gorm:"not null;uniqueIndex:idx_column_axial_identity"`
	LoadCaseID       uint    `gorm:"not null;uniqueIndex:idx_column_axial_identity"`
	ResultCategoryID *uint   `gorm:"uniqueIndex:idx_column_axial_identity;index"`
	MinAxial         float64 `gorm:"not null"`
	MaxAxial         *float64
}

// TableName returns the table name for GORM.
func (ColumnAxial) TableName() string {
	return "column_axials"
}

// ColumnRotation is a column plastic hinge rotation per axis R2/R3.
type ColumnRotation struct {
	ID               uint    `gorm:"primaryKey"`
	ElementID        uint    `gorm:"not null;uniqueIndex:idx_column_rotation_identity"`
	StoryID          uint    `gorm:"not null;uniqueIndex:idx_column_rotation_identity"`
	LoadCaseID       uint    `gorm:"not null;uniqueIndex:idx_column_rotation_identity"`
	Direction        string  `gorm:"size:4;not null;uniqueIndex:idx_column_rotation_identity"`
	ResultCategoryID *uint   `gorm:"uniqueIndex:idx_column_rotation_identity;index"`
	Rotation         float64 `gorm:"not null"`
	MaxRotation      *float64
	MinRotation      *float64
}

// TableName returns the table name for GORM.
func (ColumnRotation) TableName() string {
	return "column_rotations"
}

// BeamRotation is a beam plastic hinge rotation.
type BeamRotation struct {
	ID               uint    `gorm:"primaryKey"`
	ElementID        uint    `gorm:"not null;uniqueIndex:idx_beam_rotation_identity"`
	StoryID          uint    `gorm:"not null;uniqueIndex:idx_beam_rotation_identity"`
	LoadCaseID       uint    `gorm:"not null;uniqueIndex:idx_beam_rotation_identity"`
	ResultCategoryID *uint   `gorm:"uniqueIndex:idx_beam_rotation_identity;index"`
	Rotation         float64 `gorm:"not null"`
	MaxRotation      *float64
	MinRotation      *float64
}

// TableName returns the table name for GORM.
func (BeamRotation) TableName() string {
	return "beam_rotations"
}

// QuadRotation is a wall quad (shell) rotation.
type QuadRotation struct {
	ID               uint    `gorm:"primaryKey"`
	ElementID        uint    `gorm:"not null;uniqueIndex:idx_quad_rotation_identity"`
	StoryID          uint    `gorm:"not null;uniqueIndex:idx_quad_rotation_identity"`
	LoadCaseID       uint    `gorm:"not null;uniqueIndex:idx_quad_rotation_identity"`
	ResultCategoryID *uint   `gorm:"uniqueIndex:idx_quad_rotation_identity;index"`
	Rotation         float64 `gorm:"not null"`
	MaxRotation      *float64
	MinRotation      *float64
}

// TableName returns the table name for GORM.
func (QuadRotation) TableName() string {
	return "quad_rotations"
}
