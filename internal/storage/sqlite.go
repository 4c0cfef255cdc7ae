// Package storage provides SQLite-based persistence for bridge session
// statistics. Uses the pure-Go modernc.org/sqlite driver to avoid CGO
// dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// SessionRecord is one producer or consumer run: how many frames moved,
// what degraded, and why it ended.
type SessionRecord struct {
	ID           int64
	Role         string // "feed" or "view"
	Frames       uint64
	Walls        uint64
	Sprites      uint64
	Truncated    uint64
	DecodeErrors uint64
	EndReason    string // "shutdown", "peer-closed", "error", "interrupted"
	Duration     time.Duration
	CreatedAt    time.Time
}

// Open creates or opens a SQLite database at the given path. It creates
// the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}
	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			role TEXT NOT NULL,
			frames INTEGER NOT NULL DEFAULT 0,
			walls INTEGER NOT NULL DEFAULT 0,
			sprites INTEGER NOT NULL DEFAULT 0,
			truncated INTEGER NOT NULL DEFAULT 0,
			decode_errors INTEGER NOT NULL DEFAULT 0,
			end_reason TEXT NOT NULL DEFAULT '',
			duration_secs INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_role ON sessions(role);
		CREATE INDEX IF NOT EXISTS idx_sessions_recent ON sessions(created_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveSession persists one finished session and returns its id.
func (s *Store) SaveSession(rec SessionRecord) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO sessions (role, frames, walls, sprites, truncated, decode_errors, end_reason, duration_secs)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Role, rec.Frames, rec.Walls, rec.Sprites, rec.Truncated,
		rec.DecodeErrors, rec.EndReason, int64(rec.Duration.Seconds()),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: save session: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: session id: %w", err)
	}
	return id, nil
}

// RecentSessions returns the newest sessions, most recent first.
func (s *Store) RecentSessions(limit int) ([]SessionRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT id, role, frames, walls, sprites, truncated, decode_errors, end_reason, duration_secs, created_at
		 FROM sessions ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("storage: recent sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionRecord
	for rows.Next() {
		var rec SessionRecord
		var secs int64
		if err := rows.Scan(&rec.ID, &rec.Role, &rec.Frames, &rec.Walls, &rec.Sprites,
			&rec.Truncated, &rec.DecodeErrors, &rec.EndReason, &secs, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("storage: scan session: %w", err)
		}
		rec.Duration = time.Duration(secs) * time.Second
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
