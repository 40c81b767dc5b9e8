package entities

// Joint records are keyed by the foundation shell object and joint unique
// name. Both hold a single envelope value per load case.

// SoilPressure is the minimum (most compressive) soil pressure under a joint.
type SoilPressure struct {
	ID               uint    `gorm:"primaryKey"`
	ShellObject      string  `gorm:"size:100;not null;uniqueIndex:idx_soil_pressure_identity"`
	UniqueName       string  `gorm:"size:100;not null;uniqueIndex:idx_soil_pressure_identity"`
	LoadCaseID       uint    `gorm:"not null;uniqueIndex:idx_soil_pressure_identity"`
	ResultCategoryID *uint   `gorm:"uniqueIndex:idx_soil_pressure_identity;index"`
	StoryID          *uint   `gorm:"index"`
	MinPressure      float64 `gorm:"not null"`
}

// TableName returns the table name for GORM.
func (SoilPressure) TableName() string {
	return "soil_pressures"
}

// VerticalDisplacement is the minimum (most downward) vertical displacement of a joint.
type VerticalDisplacement struct {
	ID               uint    `gorm:"primaryKey"`
	ShellObject      string  `gorm:"size:100;not null;uniqueIndex:idx_vertical_displacement_identity"`
	UniqueName       string  `gorm:"size:100;not null;uniqueIndex:idx_vertical_displacement_identity"`
	LoadCaseID       uint    `gorm:"not null;uniqueIndex:idx_vertical_displacement_identity"`
	ResultCategoryID *uint   `gorm:"uniqueIndex:idx_vertical_displacement_identity;index"`
	StoryID          *uint   `gorm:"index"`
	MinDisplacement  float64 `gorm:"not null"`
}

// TableName returns the table name for GORM.
func (VerticalDisplacement) TableName() string {
	return "vertical_displacements"
}
