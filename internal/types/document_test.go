package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOutputDocument_Shapes(t *testing.T) {
	report := &RawReport{Filename: "/tmp/reports/west-daily.txt", Content: "LEAGUE DAILY REPORT"}
	raw := Tree{"games": []any{}}
	flat := Tree{"boxscores": []any{}}

	t.Run("skip clean yields raw document", func(t *testing.T) {
		doc := NewOutputDocument(report, KindLeagueDaily, raw, nil)
		_, ok := doc.(*RawDocument)
		require.True(t, ok)

		_, hasFlat := doc.FlatAST()
		assert.False(t, hasFlat)
		assert.Equal(t, "west-daily.txt", doc.Meta().Filename)
		assert.Equal(t, "", doc.Meta().Subject)
		assert.Equal(t, KindLeagueDaily, doc.Meta().Type)
	})

	t.Run("clean yields both trees", func(t *testing.T) {
		doc := NewOutputDocument(report, KindLeagueDaily, raw, flat)
		clean, ok := doc.(*CleanDocument)
		require.True(t, ok)

		got, hasFlat := doc.FlatAST()
		assert.True(t, hasFlat)
		assert.Equal(t, flat, got)
		assert.Equal(t, raw, clean.RawAST())
	})
}

func TestOutputDocument_JSONFields(t *testing.T) {
	report := &RawReport{Filename: "g.txt", Content: "body"}

	rawJSON, err := json.Marshal(NewOutputDocument(report, KindGameDaily, Tree{"a": 1}, nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"filename":"g.txt","subject":"","content":"body","type":"game-daily","ast":{"a":1}}`, string(rawJSON))

	cleanJSON, err := json.Marshal(NewOutputDocument(report, KindGameDaily, Tree{"a": 1}, Tree{"b": 2}))
	require.NoError(t, err)
	assert.Contains(t, string(cleanJSON), `"flat_ast":{"b":2}`)
}

func TestRawReport_Names(t *testing.T) {
	report := &RawReport{Filename: "/data/in/west-daily-2021-04-10.txt"}
	assert.Equal(t, "west-daily-2021-04-10.txt", report.Basename())
	assert.Equal(t, "west-daily-2021-04-10", report.Rootname())

	noExt := &RawReport{Filename: "report"}
	assert.Equal(t, "report", noExt.Rootname())
}
