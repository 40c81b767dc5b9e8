package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/tphakala/rps-results/internal/datastore/entities"
)

// insertBatchSize bounds the number of rows per INSERT statement.
const insertBatchSize = 200

// replaceRows runs the delete-then-insert of one cache table in a transaction.
func replaceRows[T any](ctx context.Context, db *gorm.DB, projectID, resultSetID uint, resultTypes []string, rows []*T) error {
	if projectID == 0 || resultSetID == 0 || len(resultTypes) == 0 {
		return ErrInvalidInput
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var zero T
		if err := tx.Where("project_id = ? AND result_set_id = ? AND result_type IN ?", projectID, resultSetID, resultTypes).
			Delete(&zero).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, insertBatchSize).Error
	})
}

// cacheRepository implements CacheRepository.
type cacheRepository struct {
	db *gorm.DB
}

// NewCacheRepository creates a new CacheRepository.
func NewCacheRepository(db *gorm.DB) CacheRepository {
	return &cacheRepository{db: db}
}

func (r *cacheRepository) GetCacheRows(ctx context.Context, projectID uint, resultType string, resultSetID uint) ([]*entities.GlobalResultsCache, error) {
	var rows []*entities.GlobalResultsCache
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND result_type = ? AND result_set_id = ?", projectID, resultType, resultSetID).
		Order("story_sort_order ASC, story_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *cacheRepository) ReplaceCacheRows(ctx context.Context, projectID, resultSetID uint, resultTypes []string, rows []*entities.GlobalResultsCache) error {
	return replaceRows(ctx, r.db, projectID, resultSetID, resultTypes, rows)
}

func (r *cacheRepository) ResultTypes(ctx context.Context, projectID, resultSetID uint) ([]string, error) {
	var types []string
	err := r.db.WithContext(ctx).
		Model(&entities.GlobalResultsCache{}).
		Where("project_id = ? AND result_set_id = ?", projectID, resultSetID).
		Distinct().
		Order("result_type ASC").
		Pluck("result_type", &types).Error
	if err != nil {
		return nil, err
	}
	return types, nil
}

// elementCacheRepository implements ElementCacheRepository.
type elementCacheRepository struct {
	db *gorm.DB
}

// NewElementCacheRepository creates a new ElementCacheRepository.
func NewElementCacheRepository(db *gorm.DB) ElementCacheRepository {
	return &elementCacheRepository{db: db}
}

func (r *elementCacheRepository) GetElementCacheRows(ctx context.Context, projectID, elementID uint, resultType string, resultSetID uint) ([]*entities.ElementResultsCache, error) {
	var rows []*entities.ElementResultsCache
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND element_id = ? AND result_type = ? AND result_set_id = ?",
			projectID, elementID, resultType, resultSetID).
		Order("story_sort_order ASC, story_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *elementCacheRepository) ReplaceElementCacheRows(ctx context.Context, projectID, resultSetID uint, resultTypes []string, rows []*entities.ElementResultsCache) error {
	return replaceRows(ctx, r.db, projectID, resultSetID, resultTypes, rows)
}

func (r *elementCacheRepository) ElementIDs(ctx context.Context, projectID uint, resultType string, resultSetID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&entities.ElementResultsCache{}).
		Where("project_id = ? AND result_type = ? AND result_set_id = ?", projectID, resultType, resultSetID).
		Distinct().
		Order("element_id ASC").
		Pluck("element_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// jointCacheRepository implements JointCacheRepository.
type jointCacheRepository struct {
	db *gorm.DB
}

// NewJointCacheRepository creates a new JointCacheRepository.
func NewJointCacheRepository(db *gorm.DB) JointCacheRepository {
	return &jointCacheRepository{db: db}
}

func (r *jointCacheRepository) GetJointCacheRows(ctx context.Context, projectID uint, resultType string, resultSetID uint) ([]*entities.JointResultsCache, error) {
	var rows []*entities.JointResultsCache
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND result_type = ? AND result_set_id = ?", projectID, resultType, resultSetID).
		Order("shell_object ASC, unique_name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *jointCacheRepository) ReplaceJointCacheRows(ctx context.Context, projectID, resultSetID uint, resultTypes []string, rows []*entities.JointResultsCache) error {
	return replaceRows(ctx, r.db, projectID, resultSetID, resultTypes, rows)
}
