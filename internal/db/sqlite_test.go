package db

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "reports.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleReport() *Report {
	return &Report{
		Filename:    "west-daily-2021-04-10.txt",
		Content:     "LEAGUE DAILY REPORT 04/10/2021",
		Type:        "league-daily",
		League:      "blb",
		ContentHash: "abc123",
		AST:         json.RawMessage(`{"games":[]}`),
		FlatAST:     json.RawMessage(`{"boxscores":[]}`),
	}
}

func TestSQLiteStore_InsertAndGet(t *testing.T) {
	s := openTestSQLite(t)
	ctx := context.Background()

	r := sampleReport()
	id, err := s.InsertReport(ctx, r)
	require.NoError(t, err)
	assert.Len(t, id, 26, "ULID string")
	assert.Equal(t, id, r.ID)
	assert.False(t, r.CreatedAt.IsZero())

	got, err := s.GetReport(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "west-daily-2021-04-10.txt", got.Filename)
	assert.Equal(t, "", got.Subject)
	assert.Equal(t, "league-daily", got.Type)
	assert.Equal(t, "blb", got.League)
	assert.JSONEq(t, `{"games":[]}`, string(got.AST))
	assert.JSONEq(t, `{"boxscores":[]}`, string(got.FlatAST))
	assert.True(t, got.CreatedAt.Equal(r.CreatedAt))
}

func TestSQLiteStore_RawOnlyReport(t *testing.T) {
	s := openTestSQLite(t)
	ctx := context.Background()

	r := sampleReport()
	r.FlatAST = nil
	id, err := s.InsertReport(ctx, r)
	require.NoError(t, err)

	got, err := s.GetReport(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got.FlatAST)
}

func TestSQLiteStore_InsertNeverUpserts(t *testing.T) {
	s := openTestSQLite(t)
	ctx := context.Background()

	first, err := s.InsertReport(ctx, sampleReport())
	require.NoError(t, err)
	second, err := s.InsertReport(ctx, sampleReport())
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Less(t, first, second, "monotonic ids sort by insertion")

	n, err := s.CountReports(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = s.CountReports(ctx, "other")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestSQLiteStore_GetMissing(t *testing.T) {
	s := openTestSQLite(t)

	got, err := s.GetReport(context.Background(), "01ARZ3NDEKTSV4RRFFQ69G5FAV")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestOpen_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "reports.db")

	store, err := Open(context.Background(), "sqlite://"+path)
	require.NoError(t, err)
	defer store.Close()

	_, ok := store.(*SQLiteStore)
	assert.True(t, ok)
	assert.FileExists(t, path)
}
