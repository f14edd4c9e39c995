package db

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS reports (
	id           TEXT PRIMARY KEY,
	filename     TEXT NOT NULL,
	subject      TEXT NOT NULL DEFAULT '',
	content      TEXT NOT NULL,
	type         TEXT NOT NULL,
	league       TEXT NOT NULL DEFAULT '',
	content_hash TEXT NOT NULL,
	ast          TEXT NOT NULL,
	flat_ast     TEXT,
	created_at   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS reports_content_hash_idx ON reports (content_hash);`

// SQLiteStore keeps reports in a single local database file.
type SQLiteStore struct {
	db *sql.DB

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// SQLitePath strips the sqlite:// or file: prefix from dsn.
func SQLitePath(dsn string) string {
	for _, prefix := range []string{"sqlite://", "sqlite:", "file:"} {
		if strings.HasPrefix(dsn, prefix) {
			return strings.TrimPrefix(dsn, prefix)
		}
	}
	return dsn
}

// OpenSQLite opens or creates the database at path, creating its directory.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create reports table: %w", err)
	}

	return &SQLiteStore{db: db, entropy: ulid.Monotonic(rand.Reader, 0)}, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) newID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Now(), s.entropy).String()
}

// InsertReport stores r as a new row and returns its ULID.
func (s *SQLiteStore) InsertReport(ctx context.Context, r *Report) (string, error) {
	id := s.newID()
	createdAt := time.Now().UTC()

	var flat sql.NullString
	if r.FlatAST != nil {
		flat = sql.NullString{String: string(r.FlatAST), Valid: true}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO reports (id, filename, subject, content, type, league, content_hash, ast, flat_ast, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, r.Filename, r.Subject, r.Content, r.Type, r.League, r.ContentHash,
		string(r.AST), flat, createdAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert report %s: %w", r.Filename, err)
	}
	r.ID = id
	r.CreatedAt = createdAt
	return id, nil
}

// GetReport loads a report by id. It returns nil, nil when no row matches.
func (s *SQLiteStore) GetReport(ctx context.Context, id string) (*Report, error) {
	var r Report
	var ast, createdAt string
	var flat sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT id, filename, subject, content, type, league, content_hash, ast, flat_ast, created_at
		 FROM reports WHERE id = ?`, id,
	).Scan(&r.ID, &r.Filename, &r.Subject, &r.Content, &r.Type, &r.League, &r.ContentHash, &ast, &flat, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get report %s: %w", id, err)
	}

	r.AST = []byte(ast)
	if flat.Valid {
		r.FlatAST = []byte(flat.String)
	}
	if r.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("report %s has bad created_at %q: %w", id, createdAt, err)
	}
	return &r, nil
}

// CountReports returns the number of rows, optionally restricted to one content hash.
func (s *SQLiteStore) CountReports(ctx context.Context, contentHash string) (int, error) {
	query := `SELECT COUNT(*) FROM reports`
	var args []any
	if contentHash != "" {
		query += ` WHERE content_hash = ?`
		args = append(args, contentHash)
	}
	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count reports: %w", err)
	}
	return n, nil
}
