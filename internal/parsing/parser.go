// Package parsing turns report text into a raw tree. Each parseable report kind has
// exactly one entry in the dispatch table.
package parsing

import (
	"fmt"

	"github.com/redshirtrob/blb-extractor/internal/ingestion"
	"github.com/redshirtrob/blb-extractor/internal/registry"
	"github.com/redshirtrob/blb-extractor/internal/types"
)

// Func parses the visible lines of one kind of report.
type Func func(lines []string, reg registry.Registry) (types.Tree, error)

var dispatch = map[types.ReportKind]Func{
	types.KindLeagueDaily: parseLeagueDaily,
	types.KindGameDaily:   parseGameDaily,
}

func init() {
	if err := checkDispatch(dispatch); err != nil {
		panic(err)
	}
}

// checkDispatch fails unless every parseable kind, and nothing else, has a parser.
func checkDispatch(table map[types.ReportKind]Func) error {
	for _, kind := range types.ParseableKinds() {
		if table[kind] == nil {
			return fmt.Errorf("parsing: no parser registered for %s", kind)
		}
	}
	if len(table) != len(types.ParseableKinds()) {
		return fmt.Errorf("parsing: dispatch table has %d entries for %d parseable kinds", len(table), len(types.ParseableKinds()))
	}
	return nil
}

// Parse builds the raw tree for content of the given kind. reg is used as given to
// resolve team names.
func Parse(content string, kind types.ReportKind, reg registry.Registry) (types.Tree, error) {
	fn, ok := dispatch[kind]
	if !ok {
		return nil, &ParseError{Kind: kind, Message: "no parser for report kind"}
	}

	tree, err := fn(ingestion.ReportLines(content), reg)
	if err != nil {
		return nil, err
	}
	tree["league"] = reg.League
	return tree, nil
}

func parseLeagueDaily(lines []string, reg registry.Registry) (types.Tree, error) {
	const kind = types.KindLeagueDaily

	doc, err := splitReport(kind, lines)
	if err != nil {
		return nil, err
	}
	if len(doc.blocks) == 0 {
		return nil, &ParseError{Kind: kind, Message: "no games found"}
	}

	teams := newTeamMatcher(reg)
	games := make([]any, 0, len(doc.blocks))
	for _, b := range doc.blocks {
		game, err := parseGame(kind, b, teams)
		if err != nil {
			return nil, err
		}
		games = append(games, game)
	}

	tree := doc.headerTree()
	tree["games"] = games
	return tree, nil
}

func parseGameDaily(lines []string, reg registry.Registry) (types.Tree, error) {
	const kind = types.KindGameDaily

	doc, err := splitReport(kind, lines)
	if err != nil {
		return nil, err
	}
	if len(doc.blocks) != 1 {
		return nil, &ParseError{Kind: kind, Message: fmt.Sprintf("expected exactly one game, found %d", len(doc.blocks))}
	}

	game, err := parseGame(kind, doc.blocks[0], newTeamMatcher(reg))
	if err != nil {
		return nil, err
	}

	tree := doc.headerTree()
	tree["game"] = game
	return tree, nil
}
