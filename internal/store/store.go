// Package store is Thurbox's embedded relational store: projects, roles,
// MCP servers, sessions, worktrees, and the counters/instance state kept
// in a catch-all metadata table. Built the way the teacher's
// internal/llmhistory/store.go builds its own SQLite store — sql.Open with
// the modernc.org/sqlite driver, WAL journaling, foreign keys on, a
// hand-written schema applied with CREATE TABLE IF NOT EXISTS — extended
// here with an explicit migrations table since this store's schema is
// expected to evolve across releases, unlike the teacher's append-only
// history log.
package store

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/thurbeen/thurbox/internal/thurerr"
)

// DBFileName is the database file created under the data directory.
const DBFileName = "thurbox.db"

// TombstoneTTL is how long a soft-deleted row must linger before it
// becomes eligible for hard deletion, giving other instances time to
// observe the tombstone during sync (§4.6, spec.md "tombstones linger
// ≥60s for multi-instance sync").
const TombstoneTTL = 60 * time.Second

const schemaVersion = 1

// Store owns the database connection and every table operation.
type Store struct {
	db     *sql.DB
	dbPath string
}

// Open creates or reopens the database at <dataDir>/thurbox.db, applying
// the schema and any pending migrations.
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, thurerr.StoreUnavailable("failed to create data dir", err)
	}
	dbPath := filepath.Join(dataDir, DBFileName)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, thurerr.StoreUnavailable("failed to open database", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, thurerr.StoreUnavailable("failed to enable WAL mode", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, thurerr.StoreUnavailable("failed to enable foreign keys", err)
	}

	s := &Store{db: db, dbPath: dbPath}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	if _, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS migrations (
			version INTEGER PRIMARY KEY,
			applied_at INTEGER NOT NULL
		);
	`); err != nil {
		return thurerr.StoreUnavailable("failed to create migrations table", err)
	}

	var current int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM migrations")
	if err := row.Scan(&current); err != nil {
		return thurerr.StoreUnavailable("failed to read schema version", err)
	}
	if current >= schemaVersion {
		return nil
	}

	if _, err := s.db.Exec(baseSchema); err != nil {
		return thurerr.StoreUnavailable("failed to apply schema", err)
	}
	if _, err := s.db.Exec(
		"INSERT INTO migrations (version, applied_at) VALUES (?, ?)",
		schemaVersion, time.Now().Unix(),
	); err != nil {
		return thurerr.StoreUnavailable("failed to record migration", err)
	}
	return nil
}

const baseSchema = `
CREATE TABLE IF NOT EXISTS projects (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	repos_json TEXT NOT NULL DEFAULT '[]',
	is_admin INTEGER NOT NULL DEFAULT 0,
	pinned_index INTEGER,
	deleted_at INTEGER
);
CREATE INDEX IF NOT EXISTS idx_projects_deleted ON projects(deleted_at);

CREATE TABLE IF NOT EXISTS roles (
	id TEXT PRIMARY KEY,
	project_id TEXT NOT NULL,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	permission_mode TEXT,
	allowed_tools_json TEXT NOT NULL DEFAULT '[]',
	disallowed_tools_json TEXT NOT NULL DEFAULT '[]',
	append_system_prompt TEXT NOT NULL DEFAULT '',
	FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_roles_project ON roles(project_id);

CREATE TABLE IF NOT EXISTS mcp_servers (
	project_id TEXT NOT NULL,
	name TEXT NOT NULL,
	command TEXT NOT NULL DEFAULT '',
	args_json TEXT NOT NULL DEFAULT '[]',
	env_json TEXT NOT NULL DEFAULT '{}',
	PRIMARY KEY (project_id, name),
	FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS sessions (
	id TEXT PRIMARY KEY,
	project_id TEXT NOT NULL,
	name TEXT NOT NULL,
	claude_session_id TEXT NOT NULL UNIQUE,
	backend_id TEXT,
	backend_type TEXT NOT NULL DEFAULT 'local_tmux',
	cwd TEXT NOT NULL,
	status TEXT NOT NULL,
	error_kind TEXT NOT NULL DEFAULT '',
	error_detail TEXT NOT NULL DEFAULT '',
	role_id TEXT,
	created_at INTEGER NOT NULL,
	last_activity_at INTEGER NOT NULL,
	deleted_at INTEGER,
	FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_sessions_project ON sessions(project_id);
CREATE INDEX IF NOT EXISTS idx_sessions_deleted ON sessions(deleted_at);

CREATE TABLE IF NOT EXISTS worktrees (
	session_id TEXT PRIMARY KEY,
	repo_path TEXT NOT NULL,
	path TEXT NOT NULL,
	branch TEXT NOT NULL,
	sync_state TEXT NOT NULL DEFAULT 'up_to_date',
	sync_ahead INTEGER NOT NULL DEFAULT 0,
	sync_behind INTEGER NOT NULL DEFAULT 0,
	sync_detail TEXT NOT NULL DEFAULT '',
	sync_checked_at INTEGER NOT NULL DEFAULT 0,
	FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS metadata (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// nameCollision reports whether name collides case-insensitively with an
// existing non-deleted project other than excludeID.
func (s *Store) nameCollision(name string, excludeID string) (bool, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM projects WHERE deleted_at IS NULL AND id != ? AND LOWER(name) = LOWER(?)`,
		excludeID, name,
	).Scan(&count)
	if err != nil {
		return false, thurerr.StoreUnavailable("failed to check project name", err)
	}
	return count > 0, nil
}

func validateName(field, name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return thurerr.ValidationFailed(field, "must not be empty")
	}
	if len(trimmed) > 64 {
		return thurerr.ValidationFailed(field, "must be 64 characters or fewer")
	}
	return nil
}

func unixOrNil(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Unix()
}

func nowUnix() int64 {
	return time.Now().Unix()
}

func unixToTime(v int64) time.Time {
	return time.Unix(v, 0).UTC()
}

func timeFromUnix(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := time.Unix(v.Int64, 0).UTC()
	return &t
}
