package db

import (
	"context"
	"encoding/json"
	"time"
)

// Report is one stored parse result. FlatAST is nil for runs that skipped
// normalization.
type Report struct {
	ID          string          `json:"id"`
	Filename    string          `json:"filename"`
	Subject     string          `json:"subject"`
	Content     string          `json:"content"`
	Type        string          `json:"type"`
	League      string          `json:"league"`
	ContentHash string          `json:"content_hash"`
	AST         json.RawMessage `json:"ast"`
	FlatAST     json.RawMessage `json:"flat_ast,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ReportStore persists reports. Every insert creates a new record.
type ReportStore interface {
	InsertReport(ctx context.Context, r *Report) (string, error)
	GetReport(ctx context.Context, id string) (*Report, error)
	Close() error
}
