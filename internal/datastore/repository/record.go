package repository

import (
	"context"
)

// RecordOwner is the dimension a normalized record belongs to.
type RecordOwner int

const (
	OwnerStory   RecordOwner = iota // story_id
	OwnerElement                    // element_id + story_id
	OwnerJoint                      // shell_object + unique_name
)

// RecordSource describes one normalized record table. Column names come from
// the static source tables of the callers and are never user input.
type RecordSource struct {
	Table           string
	Owner           RecordOwner
	ValueColumn     string
	DirectionColumn string // empty when the table has no direction discriminator
	MaxColumn       string // signed envelope columns, empty when absent
	MinColumn       string
}

// RecordFilter selects the records of one result set.
type RecordFilter struct {
	ProjectID        uint
	ResultSetID      uint
	ResultCategoryID uint // 0 selects every category of the result set
	IncludeShared    bool // also select records without a category (pushover capacity data)
}

// StoryRecord is a story-level record joined to its story and load case.
type StoryRecord struct {
	StoryID      uint
	StoryName    string
	SortOrder    int
	LoadCaseName string
	Direction    string
	Value        float64
}

// ElementRecord is an element record joined to its element, story and load case.
type ElementRecord struct {
	ElementID    uint
	ElementName  string
	StoryID      uint
	StoryName    string
	SortOrder    int
	LoadCaseName string
	Direction    string
	Value        float64
}

// JointRecord is a joint record joined to its load case.
type JointRecord struct {
	ShellObject  string
	UniqueName   string
	StoryID      *uint
	SortOrder    int
	LoadCaseName string
	Value        float64
}

// EnvelopeRecord carries the signed max/min pair of a story or element record.
type EnvelopeRecord struct {
	StoryID      uint
	StoryName    string
	SortOrder    int
	ElementID    uint // zero for story-level records
	ElementName  string
	LoadCaseName string
	Direction    string
	MaxValue     *float64
	MinValue     *float64
}

// RecordRepository reads normalized records for the cache and envelope builders.
type RecordRepository interface {
	// StoryRecords returns story-owned records ordered by story, load case and direction.
	StoryRecords(ctx context.Context, src RecordSource, filter RecordFilter) ([]StoryRecord, error)

	// ElementRecords returns element-owned records ordered by element, story, load case and direction.
	ElementRecords(ctx context.Context, src RecordSource, filter RecordFilter) ([]ElementRecord, error)

	// JointRecords returns joint records ordered by shell object, unique name and load case.
	JointRecords(ctx context.Context, src RecordSource, filter RecordFilter) ([]JointRecord, error)

	// EnvelopeRecords returns max/min pairs of story or element records.
	// Records with both values NULL are skipped.
	EnvelopeRecords(ctx context.Context, src RecordSource, filter RecordFilter) ([]EnvelopeRecord, error)
}
