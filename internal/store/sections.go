package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/existflow/taskboard/internal/model"
)

type sectionRow struct {
	ID        string `db:"id"`
	BoardID   string `db:"board_id"`
	Icon      string `db:"icon"`
	Title     string `db:"title"`
	CreatedAt string `db:"created_at"`
}

func (r sectionRow) model() model.Section {
	return model.Section{
		ID:        r.ID,
		BoardID:   r.BoardID,
		Icon:      r.Icon,
		Title:     r.Title,
		CreatedAt: parseTime(r.CreatedAt),
		Tasks:     []model.Task{},
	}
}

// CreateSection inserts s
func (db *DB) CreateSection(ctx context.Context, s *model.Section) error {
	_, err := db.ExecContext(ctx, db.Rebind(`
		INSERT INTO sections (id, board_id, icon, title, created_at)
		VALUES (?, ?, ?, ?, ?)`),
		s.ID, s.BoardID, s.Icon, s.Title, formatTime(s.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert section: %w", mapErr(err))
	}
	return nil
}

// GetSection returns the section with id, without tasks
func (db *DB) GetSection(ctx context.Context, id string) (*model.Section, error) {
	var row sectionRow
	if err := db.GetContext(ctx, &row, db.Rebind(`SELECT * FROM sections WHERE id = ?`), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get section: %w", err)
	}
	s := row.model()
	return &s, nil
}

// ListSections returns boardID's sections in creation order, each with its
// tasks highest position first
func (db *DB) ListSections(ctx context.Context, boardID string) ([]model.Section, error) {
	var rows []sectionRow
	err := db.SelectContext(ctx, &rows, db.Rebind(`
		SELECT * FROM sections WHERE board_id = ?
		ORDER BY created_at, id`), boardID)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}

	sections := make([]model.Section, len(rows))
	if len(rows) == 0 {
		return sections, nil
	}

	index := make(map[string]int, len(rows))
	ids := make([]string, len(rows))
	for i, r := range rows {
		sections[i] = r.model()
		index[r.ID] = i
		ids[i] = r.ID
	}

	query, args, err := sqlx.In(`
		SELECT * FROM tasks WHERE section_id IN (?)
		ORDER BY position DESC, id DESC`, ids)
	if err != nil {
		return nil, err
	}

	var tasks []taskRow
	if err := db.SelectContext(ctx, &tasks, db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list section tasks: %w", err)
	}
	for _, t := range tasks {
		if i, ok := index[t.SectionID]; ok {
			sections[i].Tasks = append(sections[i].Tasks, t.model())
		}
	}

	return sections, nil
}

// UpdateSection writes s's title and icon
func (db *DB) UpdateSection(ctx context.Context, s *model.Section) error {
	err := exec(ctx, db, `UPDATE sections SET icon = ?, title = ? WHERE id = ?`, s.Icon, s.Title, s.ID)
	if err != nil {
		return fmt.Errorf("update section: %w", err)
	}
	return nil
}

// DeleteSection removes the section and its tasks
func (db *DB) DeleteSection(ctx context.Context, id string) error {
	return db.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM tasks WHERE section_id = ?`), id); err != nil {
			return fmt.Errorf("delete section tasks: %w", err)
		}
		if err := exec(ctx, tx, `DELETE FROM sections WHERE id = ?`, id); err != nil {
			return fmt.Errorf("delete section: %w", err)
		}
		return nil
	})
}
