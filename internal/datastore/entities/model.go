package entities

import "time"

// ElementType discriminates structural elements.
type ElementType string

const (
	ElementTypeWall   ElementType = "Wall"
	ElementTypeColumn ElementType = "Column"
	ElementTypeBeam   ElementType = "Beam"
	ElementTypeQuad   ElementType = "Quad"
)

// AnalysisType is the kind of analysis a result set holds.
type AnalysisType string

const (
	// AnalysisNLTHA is nonlinear time history: signed max/min pairs per load case.
	AnalysisNLTHA AnalysisType = "NLTHA"
	// AnalysisPushover is a monotonic capacity run: one value per load case.
	AnalysisPushover AnalysisType = "Pushover"
)

// CategoryScope groups the records of a result category.
type CategoryScope string

const (
	ScopeGlobal   CategoryScope = "Global"
	ScopeElements CategoryScope = "Elements"
	ScopeJoints   CategoryScope = "Joints"
)

// Project is the root of every other entity.
type Project struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"size:200;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// TableName returns the table name for GORM.
func (Project) TableName() string {
	return "projects"
}

// Story is a floor level. SortOrder ascends with elevation.
type Story struct {
	ID        uint    `gorm:"primaryKey"`
	ProjectID uint    `gorm:"not null;uniqueIndex:idx_story_identity"`
	Name      string  `gorm:"size:100;not null;uniqueIndex:idx_story_identity"`
	SortOrder int     `gorm:"not null;index"`
	Elevation float64 `gorm:"not null;default:0"`

	Project *Project `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM.
func (Story) TableName() string {
	return "stories"
}

// LoadCase is an analysis load case such as "TH01" or "Push Modal X".
type LoadCase struct {
	ID        uint   `gorm:"primaryKey"`
	ProjectID uint   `gorm:"not null;uniqueIndex:idx_load_case_identity"`
	Name      string `gorm:"size:200;not null;uniqueIndex:idx_load_case_identity"`
	CaseType  string `gorm:"size:50"` // "Time History", "Pushover"

	Project *Project `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM.
func (LoadCase) TableName() string {
	return "load_cases"
}

// Element is a structural member.
type Element struct {
	ID          uint        `gorm:"primaryKey"`
	ProjectID   uint        `gorm:"not null;uniqueIndex:idx_element_identity"`
	ElementType ElementType `gorm:"size:20;not null;uniqueIndex:idx_element_identity"`
	Name        string      `gorm:"size:100;not null;uniqueIndex:idx_element_identity"`
	UniqueName  string      `gorm:"size:100"`

	Project *Project `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM.
func (Element) TableName() string {
	return "elements"
}

// ResultSet is one imported analysis run.
type ResultSet struct {
	ID           uint         `gorm:"primaryKey"`
	ProjectID    uint         `gorm:"not null;uniqueIndex:idx_result_set_identity"`
	Name         string       `gorm:"size:200;not null;uniqueIndex:idx_result_set_identity"`
	AnalysisType AnalysisType `gorm:"size:20;not null;default:NLTHA"`
	Description  string       `gorm:"size:500"`
	CreatedAt    time.Time    `gorm:"autoCreateTime"`

	Project *Project `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM.
func (ResultSet) TableName() string {
	return "result_sets"
}

// IsPushover reports whether the result set holds pushover results.
func (rs *ResultSet) IsPushover() bool {
	return rs != nil && rs.AnalysisType == AnalysisPushover
}

// ResultCategory groups a result set's records by scope.
type ResultCategory struct {
	ID          uint          `gorm:"primaryKey"`
	ResultSetID uint          `gorm:"not null;index"`
	Scope       CategoryScope `gorm:"size:20;not null"`

	ResultSet *ResultSet `gorm:"foreignKey:ResultSetID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM.
func (ResultCategory) TableName() string {
	return "result_categories"
}
