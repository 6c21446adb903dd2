package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/existflow/taskboard/internal/model"
)

type userRow struct {
	ID           string `db:"id"`
	Username     string `db:"username"`
	PasswordHash string `db:"password_hash"`
	CreatedAt    string `db:"created_at"`
}

func (r userRow) model() *model.User {
	return &model.User{
		ID:           r.ID,
		Username:     r.Username,
		PasswordHash: r.PasswordHash,
		CreatedAt:    parseTime(r.CreatedAt),
	}
}

type sessionRow struct {
	ID        string `db:"id"`
	UserID    string `db:"user_id"`
	Token     string `db:"token"`
	ExpiresAt string `db:"expires_at"`
	CreatedAt string `db:"created_at"`
}

func (r sessionRow) model() *model.Session {
	return &model.Session{
		ID:        r.ID,
		UserID:    r.UserID,
		Token:     r.Token,
		ExpiresAt: parseTime(r.ExpiresAt),
		CreatedAt: parseTime(r.CreatedAt),
	}
}

// CreateUser inserts u; a taken username returns ErrDuplicate
func (db *DB) CreateUser(ctx context.Context, u *model.User) error {
	_, err := db.ExecContext(ctx, db.Rebind(`
		INSERT INTO users (id, username, password_hash, created_at)
		VALUES (?, ?, ?, ?)`),
		u.ID, u.Username, u.PasswordHash, formatTime(u.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert user: %w", mapErr(err))
	}
	return nil
}

// GetUser returns the user with id
func (db *DB) GetUser(ctx context.Context, id string) (*model.User, error) {
	return db.getUser(ctx, `SELECT * FROM users WHERE id = ?`, id)
}

// GetUserByUsername returns the user with username
func (db *DB) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return db.getUser(ctx, `SELECT * FROM users WHERE username = ?`, username)
}

func (db *DB) getUser(ctx context.Context, query string, arg any) (*model.User, error) {
	var row userRow
	if err := db.GetContext(ctx, &row, db.Rebind(query), arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return row.model(), nil
}

// CreateSession records an issued token
func (db *DB) CreateSession(ctx context.Context, s *model.Session) error {
	_, err := db.ExecContext(ctx, db.Rebind(`
		INSERT INTO sessions (id, user_id, token, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?)`),
		s.ID, s.UserID, s.Token, formatTime(s.ExpiresAt), formatTime(s.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", mapErr(err))
	}
	return nil
}

// GetSession returns the session for token
func (db *DB) GetSession(ctx context.Context, token string) (*model.Session, error) {
	var row sessionRow
	err := db.GetContext(ctx, &row, db.Rebind(`SELECT * FROM sessions WHERE token = ?`), token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return row.model(), nil
}

// DeleteSession revokes token
func (db *DB) DeleteSession(ctx context.Context, token string) error {
	return exec(ctx, db, `DELETE FROM sessions WHERE token = ?`, token)
}

// DeleteExpiredSessions removes sessions that expired before now
func (db *DB) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	res, err := db.ExecContext(ctx, db.Rebind(`DELETE FROM sessions WHERE expires_at < ?`), formatTime(now))
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return res.RowsAffected()
}
