// Package classify decides which kind of report a document is from its content alone.
package classify

import (
	"regexp"
	"strings"

	"github.com/redshirtrob/blb-extractor/internal/ingestion"
	"github.com/redshirtrob/blb-extractor/internal/types"
)

type marker struct {
	kind    types.ReportKind
	pattern *regexp.Regexp
}

// markers must cover every parseable kind; see TestMarkers_CoverParseableKinds.
var markers = []marker{
	{kind: types.KindLeagueDaily, pattern: regexp.MustCompile(`\bLEAGUE DAILY REPORT\b`)},
	{kind: types.KindGameDaily, pattern: regexp.MustCompile(`\bGAME DAILY REPORT\b`)},
}

var spaceRun = regexp.MustCompile(`\s+`)

// Classify returns the kind of report content holds. It returns KindUnknown when no
// marker is present and also when markers for more than one kind are present.
func Classify(content string) types.ReportKind {
	found := make(map[types.ReportKind]bool)

	if kind, ok := MarkerKind(ingestion.ReportTitle(content)); ok {
		found[kind] = true
	}
	for _, line := range ingestion.ReportLines(content) {
		if kind, ok := MarkerKind(line); ok {
			found[kind] = true
		}
	}

	if len(found) != 1 {
		return types.KindUnknown
	}
	for kind := range found {
		return kind
	}
	return types.KindUnknown
}

// MarkerKind reports which kind's marker appears in line, if exactly one does.
func MarkerKind(line string) (types.ReportKind, bool) {
	normalized := strings.ToUpper(spaceRun.ReplaceAllString(strings.TrimSpace(line), " "))
	if normalized == "" {
		return types.KindUnknown, false
	}

	matched := types.KindUnknown
	count := 0
	for _, m := range markers {
		if m.pattern.MatchString(normalized) {
			matched = m.kind
			count++
		}
	}
	if count != 1 {
		return types.KindUnknown, false
	}
	return matched, true
}
