package repository

import "github.com/tphakala/rps-results/internal/errors"

// Sentinel errors for repository operations.
var (
	// ErrStoryNotFound indicates the requested story does not exist.
	ErrStoryNotFound = errors.NewStd("story not found")

	// ErrLoadCaseNotFound indicates the requested load case does not exist.
	ErrLoadCaseNotFound = errors.NewStd("load case not found")

	// ErrElementNotFound indicates the requested element does not exist.
	ErrElementNotFound = errors.NewStd("element not found")

	// ErrResultSetNotFound indicates the requested result set does not exist.
	ErrResultSetNotFound = errors.NewStd("result set not found")

	// ErrResultCategoryNotFound indicates the requested result category does not exist.
	ErrResultCategoryNotFound = errors.NewStd("result category not found")

	// ErrInvalidInput indicates invalid input parameters.
	ErrInvalidInput = errors.NewStd("invalid input")
)
