package entities

import (
	"time"

	"gorm.io/datatypes"
)

// Matrix maps a load case key ("TH01_X", "Push Modal X") to one value.
type Matrix = datatypes.JSONType[map[string]float64]

// NewMatrix wraps m for storage.
func NewMatrix(m map[string]float64) Matrix {
	return datatypes.NewJSONType(m)
}

// GlobalResultsCache holds one story's matrix for a story-level result type.
type GlobalResultsCache struct {
	ID             uint      `gorm:"primaryKey"`
	ProjectID      uint      `gorm:"not null;uniqueIndex:idx_global_cache_identity"`
	ResultSetID    uint      `gorm:"not null;uniqueIndex:idx_global_cache_identity"`
	ResultType     string    `gorm:"size:100;not null;uniqueIndex:idx_global_cache_identity"`
	StoryID        uint      `gorm:"not null;uniqueIndex:idx_global_cache_identity"`
	StorySortOrder int       `gorm:"not null"`
	ResultsMatrix  Matrix    `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for GORM.
func (GlobalResultsCache) TableName() string {
	return "global_results_cache"
}

// ElementResultsCache holds one element/story matrix. ResultType carries the
// direction suffix, e.g. "WallShears_V2".
type ElementResultsCache struct {
	ID             uint      `gorm:"primaryKey"`
	ProjectID      uint      `gorm:"not null;uniqueIndex:idx_element_cache_identity"`
	ResultSetID    uint      `gorm:"not null;uniqueIndex:idx_element_cache_identity"`
	ResultType     string    `gorm:"size:100;not null;uniqueIndex:idx_element_cache_identity"`
	ElementID      uint      `gorm:"not null;uniqueIndex:idx_element_cache_identity;index"`
	StoryID        uint      `gorm:"not null;uniqueIndex:idx_element_cache_identity"`
	StorySortOrder int       `gorm:"not null"`
	ResultsMatrix  Matrix    `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for GORM.
func (ElementResultsCache) TableName() string {
	return "element_results_cache"
}

// JointResultsCache holds one foundation joint matrix.
type JointResultsCache struct {
	ID             uint   `gorm:"primaryKey"`
	ProjectID      uint   `gorm:"not null;uniqueIndex:idx_joint_cache_identity"`
	ResultSetID    uint   `gorm:"not null;uniqueIndex:idx_joint_cache_identity"`
	ResultType     string `gorm:"size:100;not null;uniqueIndex:idx_joint_cache_identity"`
	ShellObject    string `gorm:"size:100;not null;uniqueIndex:idx_joint_cache_identity"`
	UniqueName     string `gorm:"size:100;not null;uniqueIndex:idx_joint_cache_identity"`
	StoryID        *uint
	StorySortOrder int
	ResultsMatrix  Matrix    `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for GORM.
func (JointResultsCache) TableName() string {
	return "joint_results_cache"
}

// All returns every entity in migration order.
func All() []any {
	return []any{
		&Project{},
		&Story{},
		&LoadCase{},
		&Element{},
		&ResultSet{},
		&ResultCategory{},
		&StoryDrift{},
		&StoryAcceleration{},
		&StoryForce{},
		&StoryDisplacement{},
		&WallShear{},
		&ColumnShear{},
		&ColumnAxial{},
		&ColumnRotation{},
		&BeamRotation{},
		&QuadRotation{},
		&SoilPressure{},
		&VerticalDisplacement{},
		&GlobalResultsCache{},
		&ElementResultsCache{},
		&JointResultsCache{},
	}
}
