package output

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redshirtrob/blb-extractor/internal/config"
	"github.com/redshirtrob/blb-extractor/internal/db"
	"github.com/redshirtrob/blb-extractor/internal/types"
)

func TestNew_Precedence(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		cfg  config.Config
		want string
	}{
		{"terminal by default", config.Config{}, "terminal"},
		{"store", config.Config{UseDB: true, DatabaseURL: "reports.db"}, "store"},
		{"stash", config.Config{Stash: dir}, "stash"},
		{"stash over store", config.Config{Stash: dir, UseDB: true, DatabaseURL: "reports.db"}, "stash"},
		{"s3 stash", config.Config{Stash: "s3://reports/blb", ObjectStore: config.ObjectStoreConfig{Endpoint: "localhost:9000"}}, "stash"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink, err := New(&tt.cfg, &bytes.Buffer{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, sink.Name())
		})
	}
}

func TestNew_BadCollisionPolicy(t *testing.T) {
	_, err := New(&config.Config{Stash: t.TempDir(), OnCollision: "rename"}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestNew_S3StashUsesObjectTarget(t *testing.T) {
	sink, err := New(&config.Config{
		Stash:       "s3://reports/blb/daily",
		ObjectStore: config.ObjectStoreConfig{Endpoint: "localhost:9000"},
	}, &bytes.Buffer{})
	require.NoError(t, err)

	stash := sink.(*StashSink)
	target, ok := stash.Target.(*ObjectTarget)
	require.True(t, ok)
	assert.Equal(t, "reports", target.bucket)
	assert.Equal(t, "blb/daily/x-ast.dat", target.key("x-ast.dat"))
}

func TestNewObjectTarget_Validation(t *testing.T) {
	_, err := NewObjectTarget(ObjectTargetConfig{Bucket: "reports"})
	assert.ErrorContains(t, err, "endpoint is required")

	_, err = NewObjectTarget(ObjectTargetConfig{Endpoint: "localhost:9000"})
	assert.ErrorContains(t, err, "bucket is required")

	target, err := NewObjectTarget(ObjectTargetConfig{Endpoint: "localhost:9000", Bucket: "reports"})
	require.NoError(t, err)
	assert.Equal(t, "a-ast.dat", target.key("a-ast.dat"))
	assert.Equal(t, "us-east-1", target.region)
}

func TestTerminalSink(t *testing.T) {
	var out bytes.Buffer
	sink := &TerminalSink{Out: &out}

	location, err := sink.Emit(context.Background(), testPayload(true))
	require.NoError(t, err)
	assert.Equal(t, "stdout", location)

	var got types.Tree
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Contains(t, got, "boxscores")
	assert.True(t, bytes.HasSuffix(out.Bytes(), []byte("}\n")))
}

func TestTerminalSink_SkipClean(t *testing.T) {
	var out bytes.Buffer
	_, err := (&TerminalSink{Out: &out}).Emit(context.Background(), testPayload(false))
	require.NoError(t, err)
	assert.Contains(t, out.String(), `"games"`)
}

func TestStoreSink_InsertsCleanDocument(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "reports.db")
	sink := &StoreSink{URL: dsn, Open: db.Open}

	location, err := sink.Emit(context.Background(), testPayload(true))
	require.NoError(t, err)
	assert.Contains(t, location, dsn+"#")

	store, err := db.OpenSQLite(context.Background(), dsn)
	require.NoError(t, err)
	defer store.Close()

	id := location[len(dsn)+1:]
	got, err := store.GetReport(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "west-daily-2021-04-10.txt", got.Filename)
	assert.Equal(t, "league-daily", got.Type)
	assert.Equal(t, "blb", got.League)
	assert.Equal(t, "", got.Subject)
	assert.NotNil(t, got.FlatAST)
	assert.Len(t, got.ContentHash, 64)
}

func TestStoreSink_RawDocumentHasNoFlatAST(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "reports.db")
	sink := &StoreSink{URL: dsn, Open: db.Open}

	location, err := sink.Emit(context.Background(), testPayload(false))
	require.NoError(t, err)

	store, err := db.OpenSQLite(context.Background(), dsn)
	require.NoError(t, err)
	defer store.Close()

	got, err := store.GetReport(context.Background(), location[len(dsn)+1:])
	require.NoError(t, err)
	assert.Nil(t, got.FlatAST)
}

func TestStoreSink_Unavailable(t *testing.T) {
	sink := &StoreSink{
		URL: "postgres://blb:secret@db/blb",
		Open: func(context.Context, string) (db.ReportStore, error) {
			return nil, errors.New("connection refused")
		},
	}

	_, err := sink.Emit(context.Background(), testPayload(true))

	var unavailable *db.StoreUnavailableError
	require.True(t, errors.As(err, &unavailable))
	assert.NotContains(t, err.Error(), "secret")
}
