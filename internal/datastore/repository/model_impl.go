package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/tphakala/rps-results/internal/datastore/entities"
)

// storyRepository implements StoryRepository.
type storyRepository struct {
	db *gorm.DB
}

// NewStoryRepository creates a new StoryRepository.
func NewStoryRepository(db *gorm.DB) StoryRepository {
	return &storyRepository{db: db}
}

func (r *storyRepository) GetByProject(ctx context.Context, projectID uint) ([]*entities.Story, error) {
	var stories []*entities.Story
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("sort_order ASC, id ASC").
		Find(&stories).Error
	if err != nil {
		return nil, err
	}
	return stories, nil
}

func (r *storyRepository) GetByID(ctx context.Context, id uint) (*entities.Story, error) {
	var story entities.Story
	err := r.db.WithContext(ctx).First(&story, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrStoryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &story, nil
}

// loadCaseRepository implements LoadCaseRepository.
type loadCaseRepository struct {
	db *gorm.DB
}

// NewLoadCaseRepository creates a new LoadCaseRepository.
func NewLoadCaseRepository(db *gorm.DB) LoadCaseRepository {
	return &loadCaseRepository{db: db}
}

func (r *loadCaseRepository) GetByID(ctx context.Context, id uint) (*entities.LoadCase, error) {
	var lc entities.LoadCase
	err := r.db.WithContext(ctx).First(&lc, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrLoadCaseNotFound
	}
	if err != nil {
		return nil, err
	}
	return &lc, nil
}

func (r *loadCaseRepository) GetByName(ctx context.Context, projectID uint, name string) (*entities.LoadCase, error) {
	var lc entities.LoadCase
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND name = ?", projectID, name).
		First(&lc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrLoadCaseNotFound
	}
	if err != nil {
		return nil, err
	}
	return &lc, nil
}

func (r *loadCaseRepository) GetByProject(ctx context.Context, projectID uint) ([]*entities.LoadCase, error) {
	var cases []*entities.LoadCase
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("name ASC").
		Find(&cases).Error
	if err != nil {
		return nil, err
	}
	return cases, nil
}

// elementRepository implements ElementRepository.
type elementRepository struct {
	db *gorm.DB
}

// NewElementRepository creates a new ElementRepository.
func NewElementRepository(db *gorm.DB) ElementRepository {
	return &elementRepository{db: db}
}

func (r *elementRepository) GetByID(ctx context.Context, id uint) (*entities.Element, error) {
	var el entities.Element
	err := r.db.WithContext(ctx).First(&el, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrElementNotFound
	}
	if err != nil {
		return nil, err
	}
	return &el, nil
}

func (r *elementRepository) GetByProject(ctx context.Context, projectID uint, elementType entities.ElementType) ([]*entities.Element, error) {
	q := r.db.WithContext(ctx).Where("project_id = ?", projectID)
	if elementType != "" {
		q = q.Where("element_type = ?", elementType)
	}

	var elements []*entities.Element
	if err := q.Order("element_type ASC, name ASC").Find(&elements).Error; err != nil {
		return nil, err
	}
	return elements, nil
}

// resultSetRepository implements ResultSetRepository.
type resultSetRepository struct {
	db *gorm.DB
}

// NewResultSetRepository creates a new ResultSetRepository.
func NewResultSetRepository(db *gorm.DB) ResultSetRepository {
	return &resultSetRepository{db: db}
}

func (r *resultSetRepository) GetByID(ctx context.Context, id uint) (*entities.ResultSet, error) {
	var rs entities.ResultSet
	err := r.db.WithContext(ctx).First(&rs, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrResultSetNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rs, nil
}

func (r *resultSetRepository) GetByIDs(ctx context.Context, ids []uint) (map[uint]*entities.ResultSet, error) {
	result := make(map[uint]*entities.ResultSet, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var sets []*entities.ResultSet
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&sets).Error; err != nil {
		return nil, err
	}
	for _, rs := range sets {
		result[rs.ID] = rs
	}
	return result, nil
}

func (r *resultSetRepository) GetByProject(ctx context.Context, projectID uint) ([]*entities.ResultSet, error) {
	var sets []*entities.ResultSet
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("id ASC").
		Find(&sets).Error
	if err != nil {
		return nil, err
	}
	return sets, nil
}

// resultCategoryRepository implements ResultCategoryRepository.
type resultCategoryRepository struct {
	db *gorm.DB
}

// NewResultCategoryRepository creates a new ResultCategoryRepository.
func NewResultCategoryRepository(db *gorm.DB) ResultCategoryRepository {
	return &resultCategoryRepository{db: db}
}

func (r *resultCategoryRepository) GetByID(ctx context.Context, id uint) (*entities.ResultCategory, error) {
	var rc entities.ResultCategory
	err := r.db.WithContext(ctx).First(&rc, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrResultCategoryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rc, nil
}

func (r *resultCategoryRepository) GetByResultSet(ctx context.Context, resultSetID uint) ([]*entities.ResultCategory, error) {
	var cats []*entities.ResultCategory
	err := r.db.WithContext(ctx).
		Where("result_set_id = ?", resultSetID).
		Order("id ASC").
		Find(&cats).Error
	if err != nil {
		return nil, err
	}
	return cats, nil
}
