package parsing

import (
	"regexp"
	"strings"

	"github.com/redshirtrob/blb-extractor/internal/classify"
	"github.com/redshirtrob/blb-extractor/internal/types"
)

var (
	datePattern = regexp.MustCompile(`\b(\d{1,2}/\d{1,2}/\d{4})\b`)
	// resultPattern accepts any team text; names are resolved later so an unknown
	// team is a parse error.
	resultPattern = regexp.MustCompile(`^\S.*?\s+\d+,\s+\S.*?\s+\d+$`)
	labelPattern  = regexp.MustCompile(`^([A-Za-z0-9]+):\s*(.*)$`)
	spaces        = regexp.MustCompile(`\s+`)
)

type line struct {
	num  int
	text string
}

// block is one game: a result line and everything up to the next result line.
type block struct {
	lines []line
}

type reportDoc struct {
	title  string
	date   string
	blocks []block
}

// splitReport finds the header fields and cuts the remaining lines into game blocks.
func splitReport(kind types.ReportKind, lines []string) (*reportDoc, error) {
	doc := &reportDoc{}
	var current *block

	for i, text := range lines {
		l := line{num: i + 1, text: text}
		trimmed := strings.TrimSpace(text)

		if resultPattern.MatchString(trimmed) && !labelPattern.MatchString(trimmed) {
			doc.blocks = append(doc.blocks, block{})
			current = &doc.blocks[len(doc.blocks)-1]
			current.lines = append(current.lines, l)
			continue
		}

		if current != nil {
			current.lines = append(current.lines, l)
			continue
		}

		// Header region
		if markerKind, ok := classify.MarkerKind(trimmed); ok {
			if markerKind != kind {
				return nil, &ParseError{Kind: kind, Line: l.num, Message: "header names a different report kind"}
			}
			if doc.title == "" {
				doc.title = headerTitle(trimmed)
			}
			if doc.date == "" {
				if m := datePattern.FindStringSubmatch(trimmed); m != nil {
					doc.date = m[1]
				}
			}
			continue
		}
		if m := labelPattern.FindStringSubmatch(trimmed); m != nil && strings.EqualFold(m[1], "date") && doc.date == "" {
			if d := datePattern.FindStringSubmatch(m[2]); d != nil {
				doc.date = d[1]
			}
		}
	}

	return doc, nil
}

func (d *reportDoc) headerTree() types.Tree {
	tree := types.Tree{"title": d.title}
	if d.date != "" {
		tree["date"] = d.date
	}
	return tree
}

// headerTitle is the header line with any date removed and whitespace collapsed.
func headerTitle(header string) string {
	title := datePattern.ReplaceAllString(header, "")
	return strings.TrimSpace(spaces.ReplaceAllString(title, " "))
}
