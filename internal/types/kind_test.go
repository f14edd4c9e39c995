package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportKind_String(t *testing.T) {
	tests := []struct {
		kind     ReportKind
		expected string
	}{
		{KindLeagueDaily, "league-daily"},
		{KindGameDaily, "game-daily"},
		{KindUnknown, "unknown"},
		{ReportKind(42), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.kind.String())
		})
	}
}

func TestParseReportKind_RoundTrip(t *testing.T) {
	for _, kind := range append(ParseableKinds(), KindUnknown) {
		parsed, err := ParseReportKind(kind.String())
		require.NoError(t, err)
		assert.Equal(t, kind, parsed)
	}

	_, err := ParseReportKind("weekly")
	assert.Error(t, err)
}

func TestParseableKinds_ExcludesUnknown(t *testing.T) {
	for _, kind := range ParseableKinds() {
		assert.True(t, kind.Known(), "%s should be parseable", kind)
	}
	assert.False(t, KindUnknown.Known())
}

func TestReportKind_JSON(t *testing.T) {
	data, err := json.Marshal(map[string]ReportKind{"type": KindGameDaily})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"game-daily"}`, string(data))

	var decoded map[string]ReportKind
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, KindGameDaily, decoded["type"])
}
