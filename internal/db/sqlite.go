package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

// Schema of the posts table. Content is stored zstd-compressed and position
// keeps the insertion order of the source document.
const schema = `
CREATE TABLE IF NOT EXISTS posts (
    position INTEGER PRIMARY KEY,
    id TEXT,
    title TEXT,
    summary TEXT,
    content BLOB,
    content_hash TEXT,
    date TEXT
);`

type SQLite struct {
	path string

	mu   sync.RWMutex
	conn *sql.DB
}

func NewSQLite(path string) *SQLite {
	return &SQLite{
		path: path,
		conn: nil,
	}
}

func (s *SQLite) InitDB() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		conn, err := sql.Open("sqlite3", s.path)
		if err != nil {
			return fmt.Errorf("opening %s: %w", s.path, err)
		}
		s.conn = conn
	}

	res, err := s.conn.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema in %s: %w", s.path, err)
	}

	dbLogger.Debug().Str("path", s.path).Any("db_result", res).Msg("Database initialized")
	return nil
}

// OpenReadOnly connects without creating the file or the schema. It is a
// no-op when a connection is already open.
func (s *SQLite) OpenReadOnly() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn != nil {
		return nil
	}

	if _, err := os.Stat(s.path); err != nil {
		return fmt.Errorf("opening %s: %w", s.path, err)
	}

	conn, err := sql.Open("sqlite3", "file:"+s.path+"?mode=ro")
	if err != nil {
		return fmt.Errorf("opening %s: %w", s.path, err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return fmt.Errorf("opening %s: %w", s.path, err)
	}

	s.conn = conn
	dbLogger.Debug().Str("path", s.path).Msg("Database opened read-only")
	return nil
}

func (s *SQLite) Path() string {
	return s.path
}

func (s *SQLite) Get() *sql.DB {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.conn
}

func (s *SQLite) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}

func (s *SQLite) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	conn := s.Get()
	if conn == nil {
		return nil, fmt.Errorf("database %s not initialized", s.path)
	}
	dbLogger.Debug().Str("query", query).Msg("Query")
	return conn.QueryContext(ctx, query, args...)
}

func (s *SQLite) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	conn := s.Get()
	if conn == nil {
		return nil, fmt.Errorf("database %s not initialized", s.path)
	}
	dbLogger.Debug().Str("query", query).Msg("Exec")
	return conn.ExecContext(ctx, query, args...)
}
