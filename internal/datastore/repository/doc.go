// Package repository provides repository interfaces and GORM implementations
// for the project database.
//
// # Error Handling
//
// Repositories return sentinel errors (ErrStoryNotFound, etc.) instead of
// leaking GORM errors, so callers can tell an absent row from a storage
// failure with errors.Is.
//
// # Cache Replacement
//
// The cache repositories never merge. ReplaceCacheRows and its element and
// joint counterparts delete every row of the given (project, result set,
// result types) and insert the new rows inside one transaction, so a
// re-import can never leave load cases from an earlier build behind.
//
// # Thread Safety
//
// Repository methods are safe for concurrent use as long as each goroutine
// passes its own context. Background tasks construct repositories on their
// own storage session.
package repository
