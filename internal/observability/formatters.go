// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/redshirtrob/blb-extractor/internal/ingestion"
	"github.com/redshirtrob/blb-extractor/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 80
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stderr; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	for _, line := range lines {
		if len([]rune(line)) > boxWidth-4 {
			line = string([]rune(line)[:boxWidth-7]) + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintIngest outputs the metadata recorded while reading a report.
func (p *Printer) PrintIngest(metadata *ingestion.Metadata) {
	content, err := metadata.ToJSON()
	if err != nil {
		p.printBox("REPORT METADATA", err.Error())
		return
	}
	p.printBox("REPORT METADATA", string(content))
}

// PrintClassification outputs the detected report kind.
func (p *Printer) PrintClassification(filename string, kind types.ReportKind) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("File:  %s\n", filename))
	sb.WriteString(fmt.Sprintf("Kind:  %s\n", kind))
	p.printBox("REPORT CLASSIFICATION", sb.String())
}

// PrintBoxscores outputs one line per game of a flat tree.
func (p *Printer) PrintBoxscores(flat types.Tree) {
	boxscores, ok := types.SliceAt(flat, "boxscores")
	if !ok {
		return
	}

	var sb strings.Builder
	if title, ok := types.StringAt(flat, "title"); ok && title != "" {
		sb.WriteString(title + "\n\n")
	}
	if len(boxscores) == 0 {
		sb.WriteString("No games\n")
	}

	count := min(len(boxscores), maxItemsToShow)
	for i := 0; i < count; i++ {
		box, ok := boxscores[i].(map[string]any)
		if !ok {
			continue
		}
		sb.WriteString(fmt.Sprintf("  • %s\n", gameLine(box)))
	}
	if len(boxscores) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(boxscores)-maxItemsToShow))
	}

	p.printBox(fmt.Sprintf("PARSED BOXSCORES (%d)", len(boxscores)), sb.String())
}

// PrintDestination outputs where the payload went.
func (p *Printer) PrintDestination(sink, destination string) {
	p.printBox("OUTPUT", fmt.Sprintf("Sink:  %s\nTo:    %s\n", sink, destination))
}

func gameLine(box types.Tree) string {
	matchup, _ := types.MapAt(box, "matchup")
	date, _ := types.StringAt(matchup, "date")
	if date == "" {
		date = "(undated)"
	}
	return fmt.Sprintf("%s  %s @ %s", date, teamScore(box, matchup, "away"), teamScore(box, matchup, "home"))
}

func teamScore(box, matchup types.Tree, side string) string {
	name, _ := types.StringAt(matchup, side)
	if name == "" {
		name = "?"
	}
	if team, ok := types.MapAt(box, side); ok {
		if runs, ok := team["runs"]; ok {
			return fmt.Sprintf("%s %v", name, runs)
		}
	}
	return name
}
