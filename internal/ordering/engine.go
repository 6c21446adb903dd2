package ordering

import (
	"context"
	"fmt"

	"github.com/existflow/taskboard/internal/logger"
)

// Engine turns reorder intents and membership changes into rank writes.
// Writes are issued one at a time; a failure part way leaves the partition
// partially renumbered and is returned to the caller as is.
type Engine struct {
	store Store
}

// NewEngine creates an engine writing through store
func NewEngine(store Store) *Engine {
	return &Engine{store: store}
}

// NextRank returns the rank a new member takes when it is added at the top
// of p, which is the current member count.
func (e *Engine) NextRank(ctx context.Context, p Partition) (int, error) {
	n, err := e.store.Count(ctx, p)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", p, err)
	}
	return n, nil
}

// Reorder rewrites every rank in p from the given display order.
func (e *Engine) Reorder(ctx context.Context, p Partition, ids []string) error {
	logger.Debug("Reordering partition",
		logger.F("partition", p.String()),
		logger.F("members", len(ids)))
	return e.place(ctx, p, Assign(ids))
}

// MoveTasks applies a drag of one task within or across sections.
//
// destIDs is the destination section's final order including the moved task.
// When the sections differ, sourceIDs (the source's order after removal) is
// ranked too and every one of those tasks is placed into the destination
// section as well. That re-parenting matches the stored behaviour clients
// depend on and is kept deliberately.
func (e *Engine) MoveTasks(ctx context.Context, sourceSectionID, destSectionID string, sourceIDs, destIDs []string) error {
	dest := Tasks(destSectionID)

	if sourceSectionID != destSectionID {
		logger.Debug("Moving tasks across sections",
			logger.F("source", sourceSectionID),
			logger.F("destination", destSectionID),
			logger.F("source_members", len(sourceIDs)),
			logger.F("destination_members", len(destIDs)))
		if err := e.place(ctx, dest, Assign(sourceIDs)); err != nil {
			return err
		}
	}

	return e.Reorder(ctx, dest, destIDs)
}

// Renumber restores ranks 0..n-1 in p, in ascending order of the current
// ranks. Members listed in except are skipped; use it when the leaving member
// is still stored at the time of renumbering.
func (e *Engine) Renumber(ctx context.Context, p Partition, except ...string) error {
	members, err := e.store.Members(ctx, p)
	if err != nil {
		return fmt.Errorf("list %s: %w", p, err)
	}

	skip := make(map[string]struct{}, len(except))
	for _, id := range except {
		skip[id] = struct{}{}
	}

	rank := 0
	for _, m := range members {
		if _, ok := skip[m.ID]; ok {
			continue
		}
		if err := e.store.Place(ctx, p, m.ID, rank); err != nil {
			return fmt.Errorf("renumber %s in %s: %w", m.ID, p, err)
		}
		rank++
	}

	logger.Debug("Renumbered partition",
		logger.F("partition", p.String()),
		logger.F("members", rank))
	return nil
}

func (e *Engine) place(ctx context.Context, p Partition, placements []Placement) error {
	for _, pl := range placements {
		if err := e.store.Place(ctx, p, pl.ID, pl.Rank); err != nil {
			return fmt.Errorf("place %s in %s: %w", pl.ID, p, err)
		}
	}
	return nil
}
