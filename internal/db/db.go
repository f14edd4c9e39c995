// Package db stores parsed reports in PostgreSQL or in a local SQLite file.
package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS reports (
	id           UUID PRIMARY KEY,
	filename     TEXT NOT NULL,
	subject      TEXT NOT NULL DEFAULT '',
	content      TEXT NOT NULL,
	type         TEXT NOT NULL,
	league       TEXT NOT NULL DEFAULT '',
	content_hash TEXT NOT NULL,
	ast          JSONB NOT NULL,
	flat_ast     JSONB,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS reports_content_hash_idx ON reports (content_hash);`

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Open connects to the store named by dsn: postgres:// and postgresql:// URLs go to
// PostgreSQL, sqlite:// URLs and bare paths to SQLite. The schema is created if
// missing. Any failure is a StoreUnavailableError.
func Open(ctx context.Context, dsn string) (ReportStore, error) {
	switch {
	case dsn == "":
		return nil, unavailable(dsn, "no database URL configured", nil)
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		db, err := Connect(ctx, dsn)
		if err != nil {
			return nil, unavailable(dsn, "connect failed", err)
		}
		if err := db.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, unavailable(dsn, "schema setup failed", err)
		}
		return db, nil
	default:
		s, err := OpenSQLite(ctx, SQLitePath(dsn))
		if err != nil {
			return nil, unavailable(dsn, "open failed", err)
		}
		return s, nil
	}
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() error {
	if db.pool != nil {
		db.pool.Close()
	}
	return nil
}

// EnsureSchema creates the reports table.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("failed to create reports table: %w", err)
	}
	return nil
}

// InsertReport stores r as a new row and returns its id.
func (db *DB) InsertReport(ctx context.Context, r *Report) (string, error) {
	id := uuid.New()
	var flat any
	if r.FlatAST != nil {
		flat = []byte(r.FlatAST)
	}

	err := db.pool.QueryRow(ctx,
		`INSERT INTO reports (id, filename, subject, content, type, league, content_hash, ast, flat_ast)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING created_at`,
		id, r.Filename, r.Subject, r.Content, r.Type, r.League, r.ContentHash, []byte(r.AST), flat,
	).Scan(&r.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("failed to insert report %s: %w", r.Filename, err)
	}
	r.ID = id.String()
	return r.ID, nil
}

// GetReport loads a report by id. It returns nil, nil when no row matches.
func (db *DB) GetReport(ctx context.Context, id string) (*Report, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid report id %q: %w", id, err)
	}

	var r Report
	var ast, flat []byte
	err = db.pool.QueryRow(ctx,
		`SELECT id, filename, subject, content, type, league, content_hash, ast, flat_ast, created_at
		 FROM reports WHERE id = $1`,
		parsed,
	).Scan(&parsed, &r.Filename, &r.Subject, &r.Content, &r.Type, &r.League, &r.ContentHash, &ast, &flat, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get report %s: %w", id, err)
	}
	r.ID = parsed.String()
	r.AST = ast
	if flat != nil {
		r.FlatAST = flat
	}
	return &r, nil
}
