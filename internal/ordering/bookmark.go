package ordering

import (
	"context"
	"fmt"
)

// Overlay maintains the bookmark ordering of a user's boards. It is
// independent of the boards' primary ranks.
type Overlay struct {
	engine *Engine
	store  Store
}

// NewOverlay creates a bookmark overlay on top of engine's store
func NewOverlay(engine *Engine) *Overlay {
	return &Overlay{engine: engine, store: engine.store}
}

// Added returns the bookmark rank for a board entering the bookmarked set:
// the number of other bookmarked boards, which puts it on top.
func (o *Overlay) Added(ctx context.Context, userID, boardID string) (int, error) {
	members, err := o.store.Members(ctx, Bookmarks(userID))
	if err != nil {
		return 0, fmt.Errorf("list bookmarks: %w", err)
	}

	n := 0
	for _, m := range members {
		if m.ID != boardID {
			n++
		}
	}
	return n, nil
}

// Removed renumbers the remaining bookmarks of a board leaving the set,
// either unbookmarked or about to be deleted.
func (o *Overlay) Removed(ctx context.Context, userID, boardID string) error {
	return o.engine.Renumber(ctx, Bookmarks(userID), boardID)
}

// Reorder rewrites bookmark ranks from a top-to-bottom display order
func (o *Overlay) Reorder(ctx context.Context, userID string, boardIDs []string) error {
	return o.engine.Reorder(ctx, Bookmarks(userID), boardIDs)
}
