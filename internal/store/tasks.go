package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/existflow/taskboard/internal/model"
)

type taskRow struct {
	ID        string `db:"id"`
	SectionID string `db:"section_id"`
	Title     string `db:"title"`
	Content   string `db:"content"`
	Position  int    `db:"position"`
	CreatedAt string `db:"created_at"`
}

func (r taskRow) model() model.Task {
	return model.Task{
		ID:        r.ID,
		SectionID: r.SectionID,
		Title:     r.Title,
		Content:   r.Content,
		Position:  r.Position,
		CreatedAt: parseTime(r.CreatedAt),
	}
}

// CreateTask inserts t
func (db *DB) CreateTask(ctx context.Context, t *model.Task) error {
	_, err := db.ExecContext(ctx, db.Rebind(`
		INSERT INTO tasks (id, section_id, title, content, position, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`),
		t.ID, t.SectionID, t.Title, t.Content, t.Position, formatTime(t.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert task: %w", mapErr(err))
	}
	return nil
}

// GetTask returns the task with id
func (db *DB) GetTask(ctx context.Context, id string) (*model.Task, error) {
	var row taskRow
	if err := db.GetContext(ctx, &row, db.Rebind(`SELECT * FROM tasks WHERE id = ?`), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	t := row.model()
	return &t, nil
}

// ListTasks returns sectionID's tasks, highest position first
func (db *DB) ListTasks(ctx context.Context, sectionID string) ([]model.Task, error) {
	var rows []taskRow
	err := db.SelectContext(ctx, &rows, db.Rebind(`
		SELECT * FROM tasks WHERE section_id = ?
		ORDER BY position DESC, id DESC`), sectionID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	out := make([]model.Task, len(rows))
	for i, r := range rows {
		out[i] = r.model()
	}
	return out, nil
}

// UpdateTask writes t's title and content
func (db *DB) UpdateTask(ctx context.Context, t *model.Task) error {
	err := exec(ctx, db, `UPDATE tasks SET title = ?, content = ? WHERE id = ?`, t.Title, t.Content, t.ID)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return nil
}

// DeleteTask removes the task with id
func (db *DB) DeleteTask(ctx context.Context, id string) error {
	if err := exec(ctx, db, `DELETE FROM tasks WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}
