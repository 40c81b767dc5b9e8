package repository

import (
	"context"

	"github.com/tphakala/rps-results/internal/datastore/entities"
)

// StoryRepository provides access to the stories table.
type StoryRepository interface {
	// GetByProject returns all stories of a project ordered by sort_order ascending.
	GetByProject(ctx context.Context, projectID uint) ([]*entities.Story, error)

	// GetByID retrieves a story by its ID.
	// Returns ErrStoryNotFound if not found.
	GetByID(ctx context.Context, id uint) (*entities.Story, error)
}

// LoadCaseRepository provides access to the load_cases table.
type LoadCaseRepository interface {
	// GetByID retrieves a load case by its ID.
	// Returns ErrLoadCaseNotFound if not found.
	GetByID(ctx context.Context, id uint) (*entities.LoadCase, error)

	// GetByName retrieves a load case by project and name.
	// Returns ErrLoadCaseNotFound if not found.
	GetByName(ctx context.Context, projectID uint, name string) (*entities.LoadCase, error)

	// GetByProject returns all load cases of a project ordered by name.
	GetByProject(ctx context.Context, projectID uint) ([]*entities.LoadCase, error)
}

// ElementRepository provides access to the elements table.
type ElementRepository interface {
	// GetByID retrieves an element by its ID.
	// Returns ErrElementNotFound if not found.
	GetByID(ctx context.Context, id uint) (*entities.Element, error)

	// GetByProject returns the elements of a project. An empty elementType
	// returns every type.
	GetByProject(ctx context.Context, projectID uint, elementType entities.ElementType) ([]*entities.Element, error)
}

// ResultSetRepository provides access to the result_sets table.
type ResultSetRepository interface {
	// GetByID retrieves a result set by its ID.
	// Returns ErrResultSetNotFound if not found.
	GetByID(ctx context.Context, id uint) (*entities.ResultSet, error)

	// GetByIDs returns the result sets with the given IDs keyed by ID.
	// Missing IDs are absent from the map.
	GetByIDs(ctx context.Context, ids []uint) (map[uint]*entities.ResultSet, error)

	// GetByProject returns all result sets of a project ordered by ID.
	GetByProject(ctx context.Context, projectID uint) ([]*entities.ResultSet, error)
}

// ResultCategoryRepository provides access to the result_categories table.
type ResultCategoryRepository interface {
	// GetByID retrieves a result category by its ID.
	// Returns ErrResultCategoryNotFound if not found.
	GetByID(ctx context.Context, id uint) (*entities.ResultCategory, error)

	// GetByResultSet returns the categories of a result set ordered by ID.
	GetByResultSet(ctx context.Context, resultSetID uint) ([]*entities.ResultCategory, error)
}
