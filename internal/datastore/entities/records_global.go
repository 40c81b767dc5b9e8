package entities

// Story-level normalized records. Max/Min fields hold the signed envelope of
// NLTHA runs and are NULL for pushover records.

// StoryDrift is an interstory drift ratio per direction X/Y.
type StoryDrift struct {
	ID               uint     `gorm:"primaryKey"`
	StoryID          uint     `gorm:"not null;uniqueIndex:idx_story_drift_identity"`
	LoadCaseID       uint     `gorm:"not null;uniqueIndex:idx_story_drift_identity"`
	Direction        string   `gorm:"size:4;not null;uniqueIndex:idx_story_drift_identity"`
	ResultCategoryID *uint    `gorm:"uniqueIndex:idx_story_drift_identity;index"`
	Drift            float64  `gorm:"not null"`
	MaxDrift         *float64 // original signed maximum
	MinDrift         *float64 // original signed minimum
}

// TableName returns the table name for GORM.
func (StoryDrift) TableName() string {
	return "story_drifts"
}

// StoryAcceleration is a story acceleration in g per direction UX/UY.
type StoryAcceleration struct {
	ID               uint    `gorm:"primaryKey"`
	StoryID          uint    `gorm:"not null;uniqueIndex:idx_story_acceleration_identity"`
	LoadCaseID       uint    `gorm:"not null;uniqueIndex:idx_story_acceleration_identity"`
	Direction        string  `gorm:"size:4;not null;uniqueIndex:idx_story_acceleration_identity"`
	ResultCategoryID *uint   `gorm:"uniqueIndex:idx_story_acceleration_identity;index"`
	Acceleration     float64 `gorm:"not null"`
	MaxAcceleration  *float64
	MinAcceleration  *float64
}

// TableName returns the table name for GORM.
func (StoryAcceleration) TableName() string {
	return "story_accelerations"
}

// StoryForce is a story shear force per direction VX/VY.
type StoryForce struct {
	ID               uint    `gorm:"primaryKey"`
	StoryID          uint    `gorm:"not null;uniqueIndex:idx_story_force_identity"`
	LoadCaseID       uint    `gorm:"not null;uniqueIndex:idx_story_force_identity"`
	Direction        string  `gorm:"size:4;not null;uniqueIndex:idx_story_force_identity"`
	ResultCategoryID *uint   `gorm:"uniqueIndex:idx_story_force_identity;index"`
	Force            float64 `gorm:"not null"`
	MaxForce         *float64
	MinForce         *float64
}

// TableName returns the table name for GORM.
func (StoryForce) TableName() string {
	return "story_forces"
}

// StoryDisplacement is a story displacement per direction UX/UY.
type StoryDisplacement struct {
	ID               uint    `gorm:"primaryKey"`
	StoryID          uint    `gorm:"not null;uniqueIndex:idx_story_displacement_identity"`
	LoadCaseID       uint    `gorm:"not null;uniqueIndex:idx_story_displacement_identity"`
	Direction        string  `gorm:"size:4;not null;uniqueIndex:idx_story_displacement_identity"`
	ResultCategoryID *uint   `gorm:"uniqueIndex:idx_story_displacement_identity;index"`
	Displacement     float64 `gorm:"not null"`
	MaxDisplacement  *float64
	MinDisplacement  *float64
}

// TableName returns the table name for GORM.
func (StoryDisplacement) TableName() string {
	return "story_displacements"
}
