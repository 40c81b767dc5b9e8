package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tphakala/rps-results/internal/datastore/entities"
)

// Seeder creates fixture rows for one project.
type Seeder struct {
	t       *testing.T
	db      *gorm.DB
	Project *entities.Project

	stories   map[string]*entities.Story
	loadCases map[string]*entities.LoadCase
	elements  map[string]*entities.Element
}

// NewSeeder creates a project named name and returns a seeder bound to it.
func NewSeeder(t *testing.T, db *gorm.DB, name string) *Seeder {
	t.Helper()
	project := &entities.Project{Name: name}
	require.NoError(t, db.Create(project).Error)
	return &Seeder{
		t:         t,
		db:        db,
		Project:   project,
		stories:   make(map[string]*entities.Story),
		loadCases: make(map[string]*entities.LoadCase),
		elements:  make(map[string]*entities.Element),
	}
}

// Create inserts any entity and fails the test on error.
func (s *Seeder) Create(value any) {
	s.t.Helper()
	require.NoError(s.t, s.db.Create(value).Error)
}

// Story creates a story with the given sort order.
func (s *Seeder) Story(name string, sortOrder int) *entities.Story {
	s.t.Helper()
	story := &entities.Story{ProjectID: s.Project.ID, Name: name, SortOrder: sortOrder, Elevation: float64(sortOrder) * 3.5}
	s.Create(story)
	s.stories[name] = story
	return story
}

// Stories creates stories bottom-to-top with sort orders 0..n-1.
func (s *Seeder) Stories(names ...string) []*entities.Story {
	s.t.Helper()
	out := make([]*entities.Story, len(names))
	for i, name := range names {
		out[i] = s.Story(name, i)
	}
	return out
}

// LoadCase returns the load case with name, creating it on first use.
func (s *Seeder) LoadCase(name string) *entities.LoadCase {
	s.t.Helper()
	if lc, ok := s.loadCases[name]; ok {
		return lc
	}
	lc := &entities.LoadCase{ProjectID: s.Project.ID, Name: name, CaseType: "Time History"}
	s.Create(lc)
	s.loadCases[name] = lc
	return lc
}

// Element returns the element with name, creating it on first use.
func (s *Seeder) Element(elementType entities.ElementType, name string) *entities.Element {
	s.t.Helper()
	key := string(elementType) + "/" + name
	if el, ok := s.elements[key]; ok {
		return el
	}
	el := &entities.Element{ProjectID: s.Project.ID, ElementType: elementType, Name: name, UniqueName: name}
	s.Create(el)
	s.elements[key] = el
	return el
}

// StoryByName returns a previously created story.
func (s *Seeder) StoryByName(name string) *entities.Story {
	s.t.Helper()
	story, ok := s.stories[name]
	require.True(s.t, ok, "story %s not seeded", name)
	return story
}

// ResultSet creates a result set.
func (s *Seeder) ResultSet(name string, analysisType entities.AnalysisType) *entities.ResultSet {
	s.t.Helper()
	rs := &entities.ResultSet{ProjectID: s.Project.ID, Name: name, AnalysisType: analysisType}
	s.Create(rs)
	return rs
}

// Category creates a result category of rs.
func (s *Seeder) Category(rs *entities.ResultSet, scope entities.CategoryScope) *entities.ResultCategory {
	s.t.Helper()
	rc := &entities.ResultCategory{ResultSetID: rs.ID, Scope: scope}
	s.Create(rc)
	return rc
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

// Drift seeds a StoryDrift record with its signed envelope.
func (s *Seeder) Drift(rc *entities.ResultCategory, story, loadCase, direction string, drift, maxDrift, minDrift float64) *entities.StoryDrift {
	s.t.Helper()
	rec := &entities.StoryDrift{
		StoryID:          s.StoryByName(story).ID,
		LoadCaseID:       s.LoadCase(loadCase).ID,
		Direction:        direction,
		ResultCategoryID: categoryID(rc),
		Drift:            drift,
		MaxDrift:         Ptr(maxDrift),
		MinDrift:         Ptr(minDrift),
	}
	s.Create(rec)
	return rec
}

// Acceleration seeds a StoryAcceleration record.
func (s *Seeder) Acceleration(rc *entities.ResultCategory, story, loadCase, direction string, value, maxValue, minValue float64) {
	s.t.Helper()
	s.Create(&entities.StoryAcceleration{
		StoryID:          s.StoryByName(story).ID,
		LoadCaseID:       s.LoadCase(loadCase).ID,
		Direction:        direction,
		ResultCategoryID: categoryID(rc),
		Acceleration:     value,
		MaxAcceleration:  Ptr(maxValue),
		MinAcceleration:  Ptr(minValue),
	})
}

// WallShear seeds a WallShear record.
func (s *Seeder) WallShear(rc *entities.ResultCategory, wall, story, loadCase, direction string, force float64) {
	s.t.Helper()
	s.Create(&entities.WallShear{
		ElementID:        s.Element(entities.ElementTypeWall, wall).ID,
		StoryID:          s.StoryByName(story).ID,
		LoadCaseID:       s.LoadCase(loadCase).ID,
		Direction:        direction,
		ResultCategoryID: categoryID(rc),
		Force:            force,
	})
}

// ColumnAxial seeds a ColumnAxial record.
func (s *Seeder) ColumnAxial(rc *entities.ResultCategory, column, story, loadCase string, minAxial, maxAxial float64) {
	s.t.Helper()
	s.Create(&entities.ColumnAxial{
		ElementID:        s.Element(entities.ElementTypeColumn, column).ID,
		StoryID:          s.StoryByName(story).ID,
		LoadCaseID:       s.LoadCase(loadCase).ID,
		ResultCategoryID: categoryID(rc),
		MinAxial:         minAxial,
		MaxAxial:         Ptr(maxAxial),
	})
}

// SoilPressure seeds a SoilPressure record.
func (s *Seeder) SoilPressure(rc *entities.ResultCategory, shell, joint, loadCase string, pressure float64) {
	s.t.Helper()
	s.Create(&entities.SoilPressure{
		ShellObject:      shell,
		UniqueName:       joint,
		LoadCaseID:       s.LoadCase(loadCase).ID,
		ResultCategoryID: categoryID(rc),
		MinPressure:      pressure,
	})
}

func categoryID(rc *entities.ResultCategory) *uint {
	if rc == nil {
		return nil
	}
	return Ptr(rc.ID)
}
