// Package entities defines the GORM entity models of the project database.
//
// # Model Entities
//
//   - Project: one building model
//   - Story: floor level, ordered bottom-to-top by SortOrder
//   - LoadCase: analysis load case (time history record or pushover case)
//   - Element: wall, column, beam or quad
//   - ResultSet: one imported analysis run (NLTHA or Pushover)
//   - ResultCategory: Global/Elements/Joints grouping inside a result set
//
// # Normalized Records
//
// One table per result family, written by the importer. Each record points at
// a LoadCase and an optional ResultCategory. Pushover capacity records may
// leave ResultCategoryID NULL and are then shared by every pushover result set
// of the project.
//
// # Cache Tables
//
//   - GlobalResultsCache: one row per (result set, result type, story)
//   - ElementResultsCache: one row per (result set, result type, element, story)
//   - JointResultsCache: one row per (result set, result type, shell object, unique name)
//
// Cache rows are derived data owned by the cache builder and can always be
// regenerated from the normalized records.
package entities
