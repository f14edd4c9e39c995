package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/redshirtrob/blb-extractor/internal/types"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected types.ReportKind
	}{
		{"league daily header", "LEAGUE DAILY REPORT   04/10/2021\nBoston Blues 5, Miami Toros 3", types.KindLeagueDaily},
		{"game daily header", "GAME DAILY REPORT 04/10/2021\n", types.KindGameDaily},
		{"case and spacing", "  league   daily\treport\n", types.KindLeagueDaily},
		{"html title only", "<html><head><title>Game Daily Report</title></head><body><pre>Boston Blues 5, Miami Toros 3</pre></body></html>", types.KindGameDaily},
		{"html pre header", "<html><body><pre>LEAGUE DAILY REPORT\n</pre></body></html>", types.KindLeagueDaily},
		{"no marker", "WEEKLY STANDINGS REPORT\nBoston Blues 50-40", types.KindUnknown},
		{"partial marker", "LEAGUE DAILY\nREPORT", types.KindUnknown},
		{"marker inside word", "LEAGUE DAILY REPORTS ARCHIVE", types.KindUnknown},
		{"both markers", "LEAGUE DAILY REPORT\nGAME DAILY REPORT", types.KindUnknown},
		{"empty", "", types.KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.content))
		})
	}
}

func TestClassify_Deterministic(t *testing.T) {
	content := "GAME DAILY REPORT\nChicago Northsiders 2, Detroit Clutch 1"
	first := Classify(content)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Classify(content))
	}
}

func TestMarkers_CoverParseableKinds(t *testing.T) {
	covered := make(map[types.ReportKind]bool)
	for _, m := range markers {
		covered[m.kind] = true
		assert.True(t, m.kind.Known(), "marker for %s must name a parseable kind", m.kind)
	}
	for _, kind := range types.ParseableKinds() {
		assert.True(t, covered[kind], "no marker for %s", kind)
	}
}

func TestMarkerKind(t *testing.T) {
	kind, ok := MarkerKind("   GAME DAILY REPORT   ")
	assert.True(t, ok)
	assert.Equal(t, types.KindGameDaily, kind)

	_, ok = MarkerKind("")
	assert.False(t, ok)

	_, ok = MarkerKind("LEAGUE DAILY REPORT / GAME DAILY REPORT")
	assert.False(t, ok)
}
