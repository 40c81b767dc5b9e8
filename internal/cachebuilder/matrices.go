package cachebuilder

import (
	"context"
	"fmt"

	"github.com/tphakala/rps-results/internal/datastore/entities"
	"github.com/tphakala/rps-results/internal/datastore/repository"
	"github.com/tphakala/rps-results/internal/resulttypes"
)

// variantConfig resolves the config of a record direction. Records without
// a direction map to the base itself.
func variantConfig(base resulttypes.Base, direction string) (resulttypes.Config, error) {
	key := resulttypes.Key(base, resulttypes.Direction(direction))
	cfg, ok := resulttypes.Lookup(key)
	if !ok {
		return cfg, fmt.Errorf("unknown direction %q for %s", direction, base)
	}
	return cfg, nil
}

// rebuildGlobal writes one row per story. Matrix keys carry the direction
// suffix, e.g. "TH01_X".
func (b *Builder) rebuildGlobal(ctx context.Context, base resulttypes.Base, src repository.RecordSource, filter repository.RecordFilter) (int, error) {
	records, err := b.records.StoryRecords(ctx, src, filter)
	if err != nil {
		return 0, err
	}

	byStory := make(map[uint]int)
	var rows []*entities.GlobalResultsCache
	var matrices []map[string]float64

	for i := range records {
		rec := &records[i]
		cfg, err := variantConfig(base, rec.Direction)
		if err != nil {
			return 0, err
		}

		idx, ok := byStory[rec.StoryID]
		if !ok {
			idx = len(rows)
			byStory[rec.StoryID] = idx
			rows = append(rows, &entities.GlobalResultsCache{
				ProjectID:      filter.ProjectID,
				ResultSetID:    filter.ResultSetID,
				ResultType:     string(base),
				StoryID:        rec.StoryID,
				StorySortOrder: rec.SortOrder,
			})
			matrices = append(matrices, make(map[string]float64))
		}
		matrices[idx][cfg.MatrixKey(rec.LoadCaseName)] = rec.Value
	}

	for i, row := range rows {
		row.ResultsMatrix = entities.NewMatrix(matrices[i])
	}
	if err := b.cache.ReplaceCacheRows(ctx, filter.ProjectID, filter.ResultSetID, []string{string(base)}, rows); err != nil {
		return 0, err
	}
	b.metrics.AddRebuildRows(entities.GlobalResultsCache{}.TableName(), len(rows))
	return len(rows), nil
}

type elementGroup struct {
	elementID uint
	storyID   uint
	direction string
}

// rebuildElement writes one row per element, story and direction. The
// direction is part of the result type ("WallShears_V2"), so matrix keys are
// plain load case names.
func (b *Builder) rebuildElement(ctx context.Context, base resulttypes.Base, src repository.RecordSource, filter repository.RecordFilter) (int, error) {
	if b.elementCache == nil {
		return 0, errNoCacheRepository
	}

	records, err := b.records.ElementRecords(ctx, src, filter)
	if err != nil {
		return 0, err
	}

	groups := make(map[elementGroup]int)
	var rows []*entities.ElementResultsCache
	var matrices []map[string]float64

	for i := range records {
		rec := &records[i]
		cfg, err := variantConfig(base, rec.Direction)
		if err != nil {
			return 0, err
		}

		g := elementGroup{elementID: rec.ElementID, storyID: rec.StoryID, direction: rec.Direction}
		idx, ok := groups[g]
		if !ok {
			idx = len(rows)
			groups[g] = idx
			rows = append(rows, &entities.ElementResultsCache{
				ProjectID:      filter.ProjectID,
				ResultSetID:    filter.ResultSetID,
				ResultType:     cfg.Key,
				ElementID:      rec.ElementID,
				StoryID:        rec.StoryID,
				StorySortOrder: rec.SortOrder,
			})
			matrices = append(matrices, make(map[string]float64))
		}
		matrices[idx][rec.LoadCaseName] = rec.Value
	}

	for i, row := range rows {
		row.ResultsMatrix = entities.NewMatrix(matrices[i])
	}
	if err := b.elementCache.ReplaceElementCacheRows(ctx, filter.ProjectID, filter.ResultSetID, resulttypes.Variants(base), rows); err != nil {
		return 0, err
	}
	b.metrics.AddRebuildRows(entities.ElementResultsCache{}.TableName(), len(rows))
	return len(rows), nil
}

type jointGroup struct {
	shellObject string
	uniqueName  string
}

// rebuildJoint writes one row per shell object and unique name holding the
// envelope value of every load case.
func (b *Builder) rebuildJoint(ctx context.Context, base resulttypes.Base, src repository.RecordSource, filter repository.RecordFilter) (int, error) {
	if b.jointCache == nil {
		return 0, errNoCacheRepository
	}

	records, err := b.records.JointRecords(ctx, src, filter)
	if err != nil {
		return 0, err
	}

	groups := make(map[jointGroup]int)
	var rows []*entities.JointResultsCache
	var matrices []map[string]float64

	for i := range records {
		rec := &records[i]
		g := jointGroup{shellObject: rec.ShellObject, uniqueName: rec.UniqueName}
		idx, ok := groups[g]
		if !ok {
			idx = len(rows)
			groups[g] = idx
			rows = append(rows, &entities.JointResultsCache{
				ProjectID:      filter.ProjectID,
				ResultSetID:    filter.ResultSetID,
				ResultType:     string(base),
				ShellObject:    rec.ShellObject,
				UniqueName:     rec.UniqueName,
				StoryID:        rec.StoryID,
				StorySortOrder: rec.SortOrder,
			})
			matrices = append(matrices, make(map[string]float64))
		}
		matrices[idx][rec.LoadCaseName] = rec.Value
	}

	for i, row := range rows {
		row.ResultsMatrix = entities.NewMatrix(matrices[i])
	}
	if err := b.jointCache.ReplaceJointCacheRows(ctx, filter.ProjectID, filter.ResultSetID, []string{string(base)}, rows); err != nil {
		return 0, err
	}
	b.metrics.AddRebuildRows(entities.JointResultsCache{}.TableName(), len(rows))
	return len(rows), nil
}
