package repository

import (
	"context"
	"fmt"
	"regexp"

	"gorm.io/gorm"
)

var identifierPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// recordRepository implements RecordRepository.
type recordRepository struct {
	db *gorm.DB
}

// NewRecordRepository creates a new RecordRepository.
func NewRecordRepository(db *gorm.DB) RecordRepository {
	return &recordRepository{db: db}
}

// validate rejects sources whose identifiers would not be safe to interpolate.
func (src *RecordSource) validate(needValue, needEnvelope bool) error {
	idents := []string{src.Table}
	if needValue {
		idents = append(idents, src.ValueColumn)
	}
	if needEnvelope {
		if src.MaxColumn == "" && src.MinColumn == "" {
			return fmt.Errorf("%w: %s has no envelope columns", ErrInvalidInput, src.Table)
		}
	}
	for _, c := range []string{src.DirectionColumn, src.MaxColumn, src.MinColumn} {
		if c != "" {
			idents = append(idents, c)
		}
	}
	for _, id := range idents {
		if !identifierPattern.MatchString(id) {
			return fmt.Errorf("%w: bad identifier %q", ErrInvalidInput, id)
		}
	}
	return nil
}

func (src *RecordSource) directionExpr() string {
	if src.DirectionColumn == "" {
		return "''"
	}
	return "r." + src.DirectionColumn
}

func columnOrNull(col string) string {
	if col == "" {
		return "NULL"
	}
	return "r." + col
}

// base joins the load case and category tables and applies the filter.
func (r *recordRepository) base(ctx context.Context, src *RecordSource, f RecordFilter) *gorm.DB {
	q := r.db.WithContext(ctx).
		Table(src.Table+" AS r").
		Joins("JOIN "+tableLoadCases+" lc ON lc.id = r.load_case_id").
		Joins("LEFT JOIN "+tableResultCategories+" rc ON rc.id = r.result_category_id").
		Where("lc.project_id = ?", f.ProjectID)

	cond := "rc.result_set_id = ?"
	args := []any{f.ResultSetID}
	if f.ResultCategoryID != 0 {
		cond += " AND r.result_category_id = ?"
		args = append(args, f.ResultCategoryID)
	}
	if f.IncludeShared {
		cond = "(" + cond + ") OR r.result_category_id IS NULL"
	}
	return q.Where("("+cond+")", args...)
}

func (r *recordRepository) StoryRecords(ctx context.Context, src RecordSource, filter RecordFilter) ([]StoryRecord, error) {
	if src.Owner != OwnerStory {
		return nil, fmt.Errorf("%w: %s is not story-owned", ErrInvalidInput, src.Table)
	}
	if err := src.validate(true, false); err != nil {
		return nil, err
	}

	var rows []StoryRecord
	err := r.base(ctx, &src, filter).
		Select("r.story_id AS story_id, s.name AS story_name, s.sort_order AS sort_order, " +
			"lc.name AS load_case_name, " + src.directionExpr() + " AS direction, r." + src.ValueColumn + " AS value").
		Joins("JOIN " + tableStories + " s ON s.id = r.story_id").
		Order("s.sort_order ASC, lc.name ASC, direction ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *recordRepository) ElementRecords(ctx context.Context, src RecordSource, filter RecordFilter) ([]ElementRecord, error) {
	if src.Owner != OwnerElement {
		return nil, fmt.Errorf("%w: %s is not element-owned", ErrInvalidInput, src.Table)
	}
	if err := src.validate(true, false); err != nil {
		return nil, err
	}

	var rows []ElementRecord
	err := r.base(ctx, &src, filter).
		Select("r.element_id AS element_id, e.name AS element_name, r.story_id AS story_id, " +
			"s.name AS story_name, s.sort_order AS sort_order, lc.name AS load_case_name, " +
			src.directionExpr() + " AS direction, r." + src.ValueColumn + " AS value").
		Joins("JOIN " + tableElements + " e ON e.id = r.element_id").
		Joins("JOIN " + tableStories + " s ON s.id = r.story_id").
		Order("e.name ASC, s.sort_order ASC, lc.name ASC, direction ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *recordRepository) JointRecords(ctx context.Context, src RecordSource, filter RecordFilter) ([]JointRecord, error) {
	if src.Owner != OwnerJoint {
		return nil, fmt.Errorf("%w: %s is not joint-owned", ErrInvalidInput, src.Table)
	}
	if err := src.validate(true, false); err != nil {
		return nil, err
	}

	var rows []JointRecord
	err := r.base(ctx, &src, filter).
		Select("r.shell_object AS shell_object, r.unique_name AS unique_name, r.story_id AS story_id, " +
			"COALESCE(s.sort_order, 0) AS sort_order, lc.name AS load_case_name, r." + src.ValueColumn + " AS value").
		Joins("LEFT JOIN " + tableStories + " s ON s.id = r.story_id").
		Order("r.shell_object ASC, r.unique_name ASC, lc.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *recordRepository) EnvelopeRecords(ctx context.Context, src RecordSource, filter RecordFilter) ([]EnvelopeRecord, error) {
	if src.Owner == OwnerJoint {
		return nil, fmt.Errorf("%w: %s has no max/min envelope", ErrInvalidInput, src.Table)
	}
	if err := src.validate(false, true); err != nil {
		return nil, err
	}

	maxExpr := columnOrNull(src.MaxColumn)
	minExpr := columnOrNull(src.MinColumn)

	q := r.base(ctx, &src, filter).
		Joins("JOIN " + tableStories + " s ON s.id = r.story_id").
		Where("(" + maxExpr + " IS NOT NULL OR " + minExpr + " IS NOT NULL)")

	sel := "r.story_id AS story_id, s.name AS story_name, s.sort_order AS sort_order, " +
		"lc.name AS load_case_name, " + src.directionExpr() + " AS direction, " +
		maxExpr + " AS max_value, " + minExpr + " AS min_value"
	order := "s.sort_order ASC, lc.name ASC, direction ASC"

	if src.Owner == OwnerElement {
		sel += ", r.element_id AS element_id, e.name AS element_name"
		q = q.Joins("JOIN " + tableElements + " e ON e.id = r.element_id")
		order = "e.name ASC, " + order
	}

	var rows []EnvelopeRecord
	if err := q.Select(sel).Order(order).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
