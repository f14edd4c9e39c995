package parsing

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/redshirtrob/blb-extractor/internal/types"
)

type sectionKind int

const (
	sectionBatting sectionKind = iota
	sectionPitching
)

var (
	battingColumns  = []string{"AB", "R", "H", "RBI", "BB", "SO"}
	pitchingColumns = []string{"IP", "H", "R", "ER", "BB", "SO"}

	battingRowPattern  = regexp.MustCompile(`^(.+?)\s{2,}([A-Z0-9]{1,2}(?:-[A-Z0-9]{1,2})*)\s+(\d+)\s+(\d+)\s+(\d+)\s+(\d+)\s+(\d+)\s+(\d+)$`)
	pitchingRowPattern = regexp.MustCompile(`^(.+?)\s{2,}(\d+(?:\.[012])?)\s+(\d+)\s+(\d+)\s+(\d+)\s+(\d+)\s+(\d+)$`)
)

// statSection is one team's batting or pitching table in a game-daily report.
type statSection struct {
	kind sectionKind
	team team
	rows []any
}

// newStatSection returns a section when rest is a batting or pitching column header.
func newStatSection(t team, rest string) *statSection {
	fields := strings.Fields(rest)
	switch {
	case equalFields(fields, battingColumns):
		return &statSection{kind: sectionBatting, team: t}
	case equalFields(fields, pitchingColumns):
		return &statSection{kind: sectionPitching, team: t}
	default:
		return nil
	}
}

func (s *statSection) parseRow(text string) (types.Tree, error) {
	if s.kind == sectionBatting {
		m := battingRowPattern.FindStringSubmatch(text)
		if m == nil {
			return nil, fmt.Errorf("malformed batting line for %s: %q", s.team.Name(), text)
		}
		return types.Tree{
			"name":     m[1],
			"position": m[2],
			"ab":       atoi(m[3]),
			"r":        atoi(m[4]),
			"h":        atoi(m[5]),
			"rbi":      atoi(m[6]),
			"bb":       atoi(m[7]),
			"so":       atoi(m[8]),
		}, nil
	}

	m := pitchingRowPattern.FindStringSubmatch(text)
	if m == nil {
		return nil, fmt.Errorf("malformed pitching line for %s: %q", s.team.Name(), text)
	}
	return types.Tree{
		"name": m[1],
		"ip":   m[2],
		"h":    atoi(m[3]),
		"r":    atoi(m[4]),
		"er":   atoi(m[5]),
		"bb":   atoi(m[6]),
		"so":   atoi(m[7]),
	}, nil
}

func (s *statSection) tree() types.Tree {
	key := "players"
	if s.kind == sectionPitching {
		key = "pitchers"
	}
	rows := s.rows
	if rows == nil {
		rows = []any{}
	}
	return types.Tree{"team": s.team.tree(), key: rows}
}

func sectionTrees(sections []*statSection) []any {
	out := make([]any, 0, len(sections))
	for _, s := range sections {
		out = append(out, s.tree())
	}
	return out
}

func equalFields(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if !strings.EqualFold(got[i], want[i]) {
			return false
		}
	}
	return true
}
