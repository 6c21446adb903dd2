package store

import (
	"context"
	"fmt"

	"github.com/existflow/taskboard/internal/ordering"
)

var _ ordering.Store = (*DB)(nil)

type memberRow struct {
	ID   string `db:"id"`
	Rank int    `db:"member_rank"`
}

func membersQuery(p ordering.Partition) (string, error) {
	switch p.Kind {
	case ordering.KindBoards:
		return `SELECT id, position AS member_rank FROM boards
			WHERE user_id = ? ORDER BY position, id`, nil
	case ordering.KindBookmarks:
		return `SELECT id, bookmark_position AS member_rank FROM boards
			WHERE user_id = ? AND bookmark = 1 ORDER BY bookmark_position, id`, nil
	case ordering.KindTasks:
		return `SELECT id, position AS member_rank FROM tasks
			WHERE section_id = ? ORDER BY position, id`, nil
	}
	return "", fmt.Errorf("unknown partition kind %d", p.Kind)
}

// Members implements ordering.Store
func (db *DB) Members(ctx context.Context, p ordering.Partition) ([]ordering.Member, error) {
	query, err := membersQuery(p)
	if err != nil {
		return nil, err
	}

	var rows []memberRow
	if err := db.SelectContext(ctx, &rows, db.Rebind(query), p.Parent); err != nil {
		return nil, fmt.Errorf("list %s: %w", p, err)
	}

	out := make([]ordering.Member, len(rows))
	for i, r := range rows {
		out[i] = ordering.Member{ID: r.ID, Rank: r.Rank}
	}
	return out, nil
}

// Count implements ordering.Store
func (db *DB) Count(ctx context.Context, p ordering.Partition) (int, error) {
	var query string
	switch p.Kind {
	case ordering.KindBoards:
		query = `SELECT COUNT(*) FROM boards WHERE user_id = ?`
	case ordering.KindBookmarks:
		query = `SELECT COUNT(*) FROM boards WHERE user_id = ? AND bookmark = 1`
	case ordering.KindTasks:
		query = `SELECT COUNT(*) FROM tasks WHERE section_id = ?`
	default:
		return 0, fmt.Errorf("unknown partition kind %d", p.Kind)
	}

	var n int
	if err := db.GetContext(ctx, &n, db.Rebind(query), p.Parent); err != nil {
		return 0, fmt.Errorf("count %s: %w", p, err)
	}
	return n, nil
}

// Place implements ordering.Store. Board and bookmark writes are restricted
// to the partition's owner; task writes move the task into p's section.
func (db *DB) Place(ctx context.Context, p ordering.Partition, id string, rank int) error {
	switch p.Kind {
	case ordering.KindBoards:
		return exec(ctx, db, `UPDATE boards SET position = ? WHERE id = ? AND user_id = ?`, rank, id, p.Parent)
	case ordering.KindBookmarks:
		return exec(ctx, db, `UPDATE boards SET bookmark_position = ? WHERE id = ? AND user_id = ?`, rank, id, p.Parent)
	case ordering.KindTasks:
		return exec(ctx, db, `UPDATE tasks SET section_id = ?, position = ? WHERE id = ?`, p.Parent, rank, id)
	}
	return fmt.Errorf("unknown partition kind %d", p.Kind)
}
