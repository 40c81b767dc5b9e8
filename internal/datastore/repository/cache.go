package repository

import (
	"context"

	"github.com/tphakala/rps-results/internal/datastore/entities"
)

// CacheRepository provides access to the global (story) results cache.
type CacheRepository interface {
	// GetCacheRows returns the rows of one result type for a result set,
	// ordered by story sort order ascending.
	GetCacheRows(ctx context.Context, projectID uint, resultType string, resultSetID uint) ([]*entities.GlobalResultsCache, error)

	// ReplaceCacheRows deletes every row of resultTypes for the result set and
	// inserts rows in the same transaction.
	ReplaceCacheRows(ctx context.Context, projectID, resultSetID uint, resultTypes []string, rows []*entities.GlobalResultsCache) error

	// ResultTypes returns the distinct cached result types of a result set.
	ResultTypes(ctx context.Context, projectID, resultSetID uint) ([]string, error)
}

// ElementCacheRepository provides access to the element results cache.
type ElementCacheRepository interface {
	// GetElementCacheRows returns one element's rows for a result type,
	// ordered by story sort order ascending.
	GetElementCacheRows(ctx context.Context, projectID, elementID uint, resultType string, resultSetID uint) ([]*entities.ElementResultsCache, error)

	// ReplaceElementCacheRows deletes every row of resultTypes for the result
	// set and inserts rows in the same transaction.
	ReplaceElementCacheRows(ctx context.Context, projectID, resultSetID uint, resultTypes []string, rows []*entities.ElementResultsCache) error

	// ElementIDs returns the elements that have cached rows for a result type.
	ElementIDs(ctx context.Context, projectID uint, resultType string, resultSetID uint) ([]uint, error)
}

// JointCacheRepository provides access to the joint results cache.
type JointCacheRepository interface {
	// GetJointCacheRows returns all joint rows of a result type for a result set.
	GetJointCacheRows(ctx context.Context, projectID uint, resultType string, resultSetID uint) ([]*entities.JointResultsCache, error)

	// ReplaceJointCacheRows deletes every row of resultTypes for the result
	// set and inserts rows in the same transaction.
	ReplaceJointCacheRows(ctx context.Context, projectID, resultSetID uint, resultTypes []string, rows []*entities.JointResultsCache) error
}
