package parsing

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/redshirtrob/blb-extractor/internal/registry"
	"github.com/redshirtrob/blb-extractor/internal/types"
)

// team is a resolved "<city> <nickname>" pair.
type team struct {
	City     string
	Nickname string
}

func (t team) Name() string {
	return t.City + " " + t.Nickname
}

func (t team) tree() types.Tree {
	return types.Tree{"city": t.City, "nickname": t.Nickname}
}

// teamMatcher finds team names at the start of free text. Candidates are tried
// longest first so "New York" wins over "New" style prefixes.
type teamMatcher struct {
	cities    []string
	nicknames []string
}

func newTeamMatcher(reg registry.Registry) *teamMatcher {
	return &teamMatcher{
		cities:    byLengthDesc(reg.Cities),
		nicknames: byLengthDesc(reg.Nicknames),
	}
}

// matchPrefix resolves the team named at the start of s and returns the remainder.
func (m *teamMatcher) matchPrefix(s string) (team, string, bool) {
	s = strings.TrimLeft(s, " \t")
	for _, city := range m.cities {
		rest, ok := cutWord(s, city)
		if !ok {
			continue
		}
		rest = strings.TrimLeft(rest, " \t")
		for _, nickname := range m.nicknames {
			if after, ok := cutWord(rest, nickname); ok {
				return team{City: city, Nickname: nickname}, after, true
			}
		}
	}
	return team{}, s, false
}

// cutWord strips prefix from s when it is followed by a non-letter or the end of s.
func cutWord(s, prefix string) (string, bool) {
	if !strings.HasPrefix(s, prefix) {
		return s, false
	}
	rest := s[len(prefix):]
	if rest == "" {
		return rest, true
	}
	r, _ := utf8.DecodeRuneInString(rest)
	if unicode.IsLetter(r) {
		return s, false
	}
	return rest, true
}

func byLengthDesc(names []string) []string {
	sorted := append([]string(nil), names...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i]) > len(sorted[j])
	})
	return sorted
}
