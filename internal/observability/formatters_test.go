package observability

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redshirtrob/blb-extractor/internal/flatten"
	"github.com/redshirtrob/blb-extractor/internal/ingestion"
	"github.com/redshirtrob/blb-extractor/internal/parsing"
	"github.com/redshirtrob/blb-extractor/internal/registry"
	"github.com/redshirtrob/blb-extractor/internal/types"
)

func flatBox(date, away string, awayRuns int, home string, homeRuns int) types.Tree {
	matchup := types.Tree{"away": away, "home": home}
	if date != "" {
		matchup["date"] = date
	}
	return types.Tree{
		"matchup": matchup,
		"away":    types.Tree{"runs": awayRuns},
		"home":    types.Tree{"runs": homeRuns},
	}
}

func TestPrintBoxscores(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintBoxscores(types.Tree{
		"title": "BLB 2021 LEAGUE DAILY REPORT",
		"boxscores": []any{
			flatBox("04/10/2021", "Boston Blues", 5, "Chicago Northsiders", 3),
			flatBox("", "New Orleans Mudbugs", 1, "New York Knights", 2),
		},
	})
	output := buf.String()

	assert.Contains(t, output, "PARSED BOXSCORES (2)")
	assert.Contains(t, output, "BLB 2021 LEAGUE DAILY REPORT")
	assert.Contains(t, output, "04/10/2021  Boston Blues 5 @ Chicago Northsiders 3")
	assert.Contains(t, output, "(undated)  New Orleans Mudbugs 1 @ New York Knights 2")
}

func TestPrintBoxscores_TruncatesList(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	var boxscores []any
	for i := 0; i < maxItemsToShow+2; i++ {
		boxscores = append(boxscores, flatBox("04/10/2021", fmt.Sprintf("Away %d", i), 1, "Home", 0))
	}
	p.PrintBoxscores(types.Tree{"boxscores": boxscores})

	assert.Contains(t, buf.String(), "... and 2 more")
	assert.NotContains(t, buf.String(), "Away 6")
}

func TestPrintBoxscores_NotFlat(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintBoxscores(types.Tree{"games": []any{}})

	assert.Empty(t, buf.String())
}

func TestPrintBoxscores_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintBoxscores(types.Tree{"boxscores": []any{}})

	assert.Contains(t, buf.String(), "No games")
}

func TestPrintClassification(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintClassification("west-daily-2021-04-10.txt", types.KindLeagueDaily)

	assert.Contains(t, buf.String(), "REPORT CLASSIFICATION")
	assert.Contains(t, buf.String(), "league-daily")
}

func TestPrintBox_LongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintDestination("stash", "/a/very/long/stash/directory/path/that/will/not/fit/in/the/box/2021-04-10-league-daily-west-ast.dat")
	output := buf.String()

	assert.Contains(t, output, "┌")
	assert.Contains(t, output, "└")
	assert.Contains(t, output, "...")
}

func TestPrintBoxscores_FixtureLinesFit(t *testing.T) {
	report, _, err := ingestion.ReadReport(filepath.Join("..", "..", "testdata", "reports", "west-daily-2021-04-10.txt"))
	require.NoError(t, err)
	reg, err := registry.NewCatalog().Lookup(registry.LeagueBLB)
	require.NoError(t, err)
	raw, err := parsing.Parse(report.Content, types.KindLeagueDaily, reg)
	require.NoError(t, err)

	var buf bytes.Buffer
	NewPrinter(&buf).PrintBoxscores(flatten.Normalize(raw))
	output := buf.String()

	assert.Contains(t, output, "04/10/2021  Boston Blues 5 @ Chicago Northsiders 3")
	assert.Contains(t, output, "04/10/2021  New Orleans Mudbugs 1 @ New York Knights 2")
	assert.NotContains(t, output, "...")
	for _, line := range strings.Split(strings.TrimRight(output, "\n"), "\n") {
		assert.Equal(t, boxWidth, len([]rune(line)), "line %q", line)
	}
}

func TestPrintIngest(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintIngest(&ingestion.Metadata{
		Filename: "west-daily-2021-04-10.txt",
		Hash:     "abcd1234",
		Encoding: "utf-8",
		Bytes:    812,
	})
	output := buf.String()

	assert.Contains(t, output, "REPORT METADATA")
	assert.Contains(t, output, `"filename": "west-daily-2021-04-10.txt"`)
	assert.Contains(t, output, `"encoding": "utf-8"`)
	assert.Contains(t, output, `"bytes": 812`)
}
