// Package flatten normalizes raw report trees into the canonical flat shape: a
// "boxscores" list with one entry per game, each carrying a "matchup".
//
// Normalize is pure and idempotent. The matchup date is copied verbatim from the raw
// tree and never reformatted, because stash filenames are derived from it.
package flatten

import (
	"strconv"
	"strings"

	"github.com/redshirtrob/blb-extractor/internal/types"
)

// Top-level keys copied through unchanged.
var passthroughKeys = []string{"title", "league"}

// Normalize returns the flat form of tree. A tree that is already flat is
// re-canonicalized, so Normalize(Normalize(t)) equals Normalize(t). Trees with no
// games yield an empty boxscores list.
func Normalize(tree types.Tree) types.Tree {
	flat := types.Tree{}
	for _, key := range passthroughKeys {
		if v, ok := tree[key]; ok {
			flat[key] = deepCopy(v)
		}
	}

	var boxscores []any
	switch {
	case isFlat(tree):
		entries, _ := types.SliceAt(tree, "boxscores")
		boxscores = make([]any, 0, len(entries))
		for _, entry := range entries {
			if m, ok := entry.(map[string]any); ok {
				boxscores = append(boxscores, canonicalize(m))
			}
		}
	default:
		date, _ := types.StringAt(tree, "date")
		games := rawGames(tree)
		boxscores = make([]any, 0, len(games))
		for _, game := range games {
			boxscores = append(boxscores, canonicalize(flattenGame(game, date)))
		}
	}

	flat["boxscores"] = boxscores
	return flat
}

func isFlat(tree types.Tree) bool {
	_, ok := types.SliceAt(tree, "boxscores")
	return ok
}

// rawGames collects "games" (league daily) and "game" (game daily).
func rawGames(tree types.Tree) []types.Tree {
	var games []types.Tree
	if list, ok := types.SliceAt(tree, "games"); ok {
		for _, g := range list {
			if m, ok := g.(map[string]any); ok {
				games = append(games, m)
			}
		}
	}
	if g, ok := types.MapAt(tree, "game"); ok {
		games = append(games, g)
	}
	return games
}

// flattenGame builds one boxscore from a raw game. reportDate applies when the game
// carries no date of its own.
func flattenGame(game types.Tree, reportDate string) types.Tree {
	box := types.Tree{}

	lineScore, _ := types.SliceAt(game, "linescore")
	var away, home types.Tree
	if len(lineScore) > 0 {
		away, _ = lineScore[0].(map[string]any)
	}
	if len(lineScore) > 1 {
		home, _ = lineScore[1].(map[string]any)
	}

	matchup := types.Tree{}
	if date, ok := types.StringAt(game, "date"); ok && date != "" {
		matchup["date"] = date
	} else if reportDate != "" {
		matchup["date"] = reportDate
	}
	if away != nil {
		matchup["away"] = teamName(away)
		box["away"] = deepCopy(away)
	}
	if home != nil {
		matchup["home"] = teamName(home)
		box["home"] = deepCopy(home)
	}
	box["matchup"] = matchup

	if decisions, ok := types.MapAt(game, "decisions"); ok {
		box["decisions"] = deepCopy(decisions)
	}
	if notes, ok := types.SliceAt(game, "notes"); ok {
		box["notes"] = deepCopy(notes)
	}
	if info, ok := types.MapAt(game, "info"); ok {
		for _, key := range []string{"attendance", "weather", "time_of_day"} {
			if v, ok := info[key]; ok {
				box[key] = deepCopy(v)
			}
		}
		if t, ok := types.StringAt(info, "time"); ok {
			if minutes, ok := durationMinutes(t); ok {
				box["duration"] = minutes
			}
		}
	}

	if batting, ok := types.SliceAt(game, "batting"); ok {
		box["batting"] = bySide(batting, "players", away, home)
	}
	if pitching, ok := types.SliceAt(game, "pitching"); ok {
		box["pitching"] = bySide(pitching, "pitchers", away, home)
	}

	return box
}

// bySide files each team's stat rows under "away" or "home".
func bySide(sections []any, rowsKey string, away, home types.Tree) types.Tree {
	sides := types.Tree{}
	for _, s := range sections {
		section, ok := s.(map[string]any)
		if !ok {
			continue
		}
		teamTree, _ := types.MapAt(section, "team")
		side := ""
		switch {
		case away != nil && sameTeam(teamTree, away):
			side = "away"
		case home != nil && sameTeam(teamTree, home):
			side = "home"
		default:
			continue
		}
		rows, _ := types.SliceAt(section, rowsKey)
		sides[side] = deepCopy(rows)
	}
	return sides
}

// canonicalize applies the transformations that must hold for every flat boxscore.
// Each step is a no-op on its own output.
func canonicalize(box types.Tree) types.Tree {
	out := make(types.Tree, len(box))
	for k, v := range box {
		out[k] = deepCopy(v)
	}

	if notes, ok := types.SliceAt(out, "notes"); ok {
		out["notes"] = dedupeNotes(notes)
	}
	if pitching, ok := types.MapAt(out, "pitching"); ok {
		for _, side := range []string{"away", "home"} {
			if rows, ok := types.SliceAt(pitching, side); ok {
				for _, row := range rows {
					if pitcher, ok := row.(map[string]any); ok {
						addOuts(pitcher)
					}
				}
			}
		}
	}
	return out
}

func dedupeNotes(notes []any) []any {
	seen := make(map[string]bool, len(notes))
	out := make([]any, 0, len(notes))
	for _, n := range notes {
		note, ok := n.(map[string]any)
		if !ok {
			out = append(out, n)
			continue
		}
		label, _ := types.StringAt(note, "label")
		text, _ := types.StringAt(note, "text")
		key := label + "\x00" + text
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, note)
	}
	return out
}

// addOuts records innings pitched as outs: "6.1" is 19 outs.
func addOuts(pitcher types.Tree) {
	if _, ok := pitcher["outs"]; ok {
		return
	}
	ip, ok := types.StringAt(pitcher, "ip")
	if !ok {
		return
	}
	if outs, ok := inningsToOuts(ip); ok {
		pitcher["outs"] = outs
	}
}

func inningsToOuts(ip string) (int, bool) {
	whole, frac, _ := strings.Cut(ip, ".")
	innings, err := strconv.Atoi(whole)
	if err != nil {
		return 0, false
	}
	thirds := 0
	if frac != "" {
		thirds, err = strconv.Atoi(frac)
		if err != nil || thirds > 2 {
			return 0, false
		}
	}
	return innings*3 + thirds, true
}

// durationMinutes converts "h:mm" to minutes.
func durationMinutes(s string) (int, bool) {
	h, m, ok := strings.Cut(s, ":")
	if !ok {
		return 0, false
	}
	hours, err := strconv.Atoi(h)
	if err != nil {
		return 0, false
	}
	minutes, err := strconv.Atoi(m)
	if err != nil || minutes >= 60 {
		return 0, false
	}
	return hours*60 + minutes, true
}

func teamName(t types.Tree) string {
	city, _ := types.StringAt(t, "city")
	nickname, _ := types.StringAt(t, "nickname")
	return strings.TrimSpace(city + " " + nickname)
}

func sameTeam(a, b types.Tree) bool {
	return a != nil && b != nil && teamName(a) == teamName(b)
}

func deepCopy(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = deepCopy(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = deepCopy(item)
		}
		return out
	default:
		return v
	}
}
