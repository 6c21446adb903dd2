package store

import "fmt"

// migrate runs all database migrations. Statements are kept portable across
// SQLite and Postgres: text ids, text timestamps and integer flags.
func (db *DB) migrate() error {
	migrations := []string{
		migrationCreateUsers,
		migrationCreateSessions,
		migrationIndexSessionsUser,
		migrationCreateBoards,
		migrationIndexBoardsPosition,
		migrationIndexBoardsBookmark,
		migrationCreateSections,
		migrationIndexSectionsBoard,
		migrationCreateTasks,
		migrationIndexTasksSection,
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	return nil
}

const migrationCreateUsers = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    username TEXT UNIQUE NOT NULL,
    password_hash TEXT NOT NULL,
    created_at TEXT NOT NULL
)`

const migrationCreateSessions = `
CREATE TABLE IF NOT EXISTS sessions (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    token TEXT UNIQUE NOT NULL,
    expires_at TEXT NOT NULL,
    created_at TEXT NOT NULL
)`

const migrationIndexSessionsUser = `
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id)`

const migrationCreateBoards = `
CREATE TABLE IF NOT EXISTS boards (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    icon TEXT NOT NULL,
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    position INTEGER NOT NULL DEFAULT 0,
    bookmark INTEGER NOT NULL DEFAULT 0,
    bookmark_position INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL
)`

const migrationIndexBoardsPosition = `
CREATE INDEX IF NOT EXISTS idx_boards_user_position ON boards(user_id, position)`

const migrationIndexBoardsBookmark = `
CREATE INDEX IF NOT EXISTS idx_boards_user_bookmark ON boards(user_id, bookmark, bookmark_position)`

const migrationCreateSections = `
CREATE TABLE IF NOT EXISTS sections (
    id TEXT PRIMARY KEY,
    board_id TEXT NOT NULL REFERENCES boards(id) ON DELETE CASCADE,
    icon TEXT NOT NULL,
    title TEXT NOT NULL,
    created_at TEXT NOT NULL
)`

const migrationIndexSectionsBoard = `
CREATE INDEX IF NOT EXISTS idx_sections_board ON sections(board_id)`

const migrationCreateTasks = `
CREATE TABLE IF NOT EXISTS tasks (
    id TEXT PRIMARY KEY,
    section_id TEXT NOT NULL REFERENCES sections(id) ON DELETE CASCADE,
    title TEXT NOT NULL,
    content TEXT NOT NULL,
    position INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL
)`

const migrationIndexTasksSection = `
CREATE INDEX IF NOT EXISTS idx_tasks_section ON tasks(section_id, position)`
