package output

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redshirtrob/blb-extractor/internal/db"
	"github.com/redshirtrob/blb-extractor/internal/ingestion"
)

// StoreSink inserts the payload as a new document store record. The connection
// is opened on Emit and closed before it returns.
type StoreSink struct {
	URL    string
	Open   func(ctx context.Context, dsn string) (db.ReportStore, error)
	logger *slog.Logger
}

func (s *StoreSink) Name() string { return "store" }

func (s *StoreSink) Emit(ctx context.Context, p *Payload) (string, error) {
	record, err := newRecord(p)
	if err != nil {
		return "", err
	}

	store, err := s.Open(ctx, s.URL)
	if err != nil {
		var unavailable *db.StoreUnavailableError
		if errors.As(err, &unavailable) {
			return "", err
		}
		return "", &db.StoreUnavailableError{URL: db.Redact(s.URL), Message: "open failed", Cause: err}
	}
	defer store.Close()

	id, err := store.InsertReport(ctx, record)
	if err != nil {
		return "", &db.StoreUnavailableError{URL: db.Redact(s.URL), Message: "insert failed", Cause: err}
	}
	if s.logger != nil {
		s.logger.Info("stored report", slog.String("id", id), slog.String("filename", record.Filename))
	}
	return fmt.Sprintf("%s#%s", db.Redact(s.URL), id), nil
}

func newRecord(p *Payload) (*db.Report, error) {
	doc := p.Document()
	meta := doc.Meta()

	ast, err := json.Marshal(doc.RawAST())
	if err != nil {
		return nil, fmt.Errorf("failed to encode ast: %w", err)
	}
	record := &db.Report{
		Filename:    meta.Filename,
		Subject:     meta.Subject,
		Content:     meta.Content,
		Type:        meta.Type.String(),
		League:      p.League,
		ContentHash: ingestion.ContentHash(p.Report.Content),
		AST:         ast,
	}
	if flat, ok := doc.FlatAST(); ok {
		if record.FlatAST, err = json.Marshal(flat); err != nil {
			return nil, fmt.Errorf("failed to encode flat_ast: %w", err)
		}
	}
	return record, nil
}
