package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/sushantdwivedi/Frame-io/internal/state"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);`

// SQLite stores each list as one JSON value in a key/value table.
type SQLite struct {
	db *sql.DB
}

// DefaultDBPath returns the default database path under the XDG data dir.
// Without XDG_DATA_HOME or a home directory it falls back to the user cache
// dir, then to the system temp dir, so the path is always absolute.
func DefaultDBPath() string {
	return filepath.Join(dataDir(), "frameio", "annotations.sqlite")
}

func dataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return dir
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share")
	}
	if dir, err := os.UserCacheDir(); err == nil {
		return dir
	}
	return os.TempDir()
}

// OpenSQLite opens (creating if needed) the database at path. The special
// path ":memory:" gives a private in-memory database.
func OpenSQLite(path string) (*SQLite, error) {
	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		dsn = fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection keeps ":memory:" a single database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return []byte(value), nil
}

func (s *SQLite) put(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, string(value))
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (s *SQLite) LoadComments(ctx context.Context) ([]state.Comment, error) {
	raw, err := s.get(ctx, CommentsKey)
	if err != nil {
		return nil, err
	}
	return decodeList[state.Comment](CommentsKey, raw)
}

func (s *SQLite) LoadDrawings(ctx context.Context) ([]state.Stroke, error) {
	raw, err := s.get(ctx, DrawingsKey)
	if err != nil {
		return nil, err
	}
	return decodeList[state.Stroke](DrawingsKey, raw)
}

func (s *SQLite) SaveComments(ctx context.Context, comments []state.Comment) error {
	data, err := encodeList(CommentsKey, comments)
	if err != nil {
		return err
	}
	return s.put(ctx, CommentsKey, data)
}

func (s *SQLite) SaveDrawings(ctx context.Context, drawings []state.Stroke) error {
	data, err := encodeList(DrawingsKey, drawings)
	if err != nil {
		return err
	}
	return s.put(ctx, DrawingsKey, data)
}

func (s *SQLite) ClearAll(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key IN (?, ?)`, CommentsKey, DrawingsKey)
	if err != nil {
		return fmt.Errorf("clear annotations: %w", err)
	}
	return nil
}
