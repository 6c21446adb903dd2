package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/existflow/taskboard/internal/model"
)

type boardRow struct {
	ID               string `db:"id"`
	UserID           string `db:"user_id"`
	Icon             string `db:"icon"`
	Title            string `db:"title"`
	Description      string `db:"description"`
	Position         int    `db:"position"`
	Bookmark         bool   `db:"bookmark"`
	BookmarkPosition int    `db:"bookmark_position"`
	CreatedAt        string `db:"created_at"`
}

func (r boardRow) model() model.Board {
	return model.Board{
		ID:               r.ID,
		UserID:           r.UserID,
		Icon:             r.Icon,
		Title:            r.Title,
		Description:      r.Description,
		Position:         r.Position,
		Bookmark:         r.Bookmark,
		BookmarkPosition: r.BookmarkPosition,
		CreatedAt:        parseTime(r.CreatedAt),
	}
}

func boardModels(rows []boardRow) []model.Board {
	out := make([]model.Board, len(rows))
	for i, r := range rows {
		out[i] = r.model()
	}
	return out
}

// CreateBoard inserts b
func (db *DB) CreateBoard(ctx context.Context, b *model.Board) error {
	_, err := db.ExecContext(ctx, db.Rebind(`
		INSERT INTO boards (id, user_id, icon, title, description, position, bookmark, bookmark_position, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		b.ID, b.UserID, b.Icon, b.Title, b.Description, b.Position,
		boolInt(b.Bookmark), b.BookmarkPosition, formatTime(b.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert board: %w", mapErr(err))
	}
	return nil
}

// GetBoard returns the board with id, without sections
func (db *DB) GetBoard(ctx context.Context, id string) (*model.Board, error) {
	var row boardRow
	if err := db.GetContext(ctx, &row, db.Rebind(`SELECT * FROM boards WHERE id = ?`), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get board: %w", err)
	}
	b := row.model()
	return &b, nil
}

// ListBoards returns userID's boards, highest position first
func (db *DB) ListBoards(ctx context.Context, userID string) ([]model.Board, error) {
	var rows []boardRow
	err := db.SelectContext(ctx, &rows, db.Rebind(`
		SELECT * FROM boards WHERE user_id = ?
		ORDER BY position DESC, id DESC`), userID)
	if err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}
	return boardModels(rows), nil
}

// ListBookmarks returns userID's bookmarked boards, highest bookmark position first
func (db *DB) ListBookmarks(ctx context.Context, userID string) ([]model.Board, error) {
	var rows []boardRow
	err := db.SelectContext(ctx, &rows, db.Rebind(`
		SELECT * FROM boards WHERE user_id = ? AND bookmark = 1
		ORDER BY bookmark_position DESC, id DESC`), userID)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	return boardModels(rows), nil
}

// UpdateBoard writes b's editable fields and bookmark state. Position is
// owned by the ordering engine and left untouched.
func (db *DB) UpdateBoard(ctx context.Context, b *model.Board) error {
	err := exec(ctx, db, `
		UPDATE boards SET icon = ?, title = ?, description = ?, bookmark = ?, bookmark_position = ?
		WHERE id = ?`,
		b.Icon, b.Title, b.Description, boolInt(b.Bookmark), b.BookmarkPosition, b.ID,
	)
	if err != nil {
		return fmt.Errorf("update board: %w", err)
	}
	return nil
}

// DeleteBoard removes the board with its sections and their tasks
func (db *DB) DeleteBoard(ctx context.Context, id string) error {
	return db.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`
			DELETE FROM tasks WHERE section_id IN (SELECT id FROM sections WHERE board_id = ?)`), id); err != nil {
			return fmt.Errorf("delete board tasks: %w", err)
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM sections WHERE board_id = ?`), id); err != nil {
			return fmt.Errorf("delete board sections: %w", err)
		}
		if err := exec(ctx, tx, `DELETE FROM boards WHERE id = ?`, id); err != nil {
			return fmt.Errorf("delete board: %w", err)
		}
		return nil
	})
}
