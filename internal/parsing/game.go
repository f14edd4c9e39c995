package parsing

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/redshirtrob/blb-extractor/internal/types"
)

var (
	resultRunsPattern = regexp.MustCompile(`^\s+(\d+),\s+(.*)$`)
	finalRunsPattern  = regexp.MustCompile(`^\s+(\d+)$`)
	lineScorePattern  = regexp.MustCompile(`^((?:[0-9xX]|\(\d+\)|\s)+?)\s+-\s+(\d+)\s+(\d+)\s+(\d+)$`)
	decisionPattern   = regexp.MustCompile(`\b([WLS]):\s*([^()]+?)\s*\(([^)]*)\)`)
	attendancePattern = regexp.MustCompile(`Attendance:\s*([\d,]+)`)
	timePattern       = regexp.MustCompile(`Time:\s*(\d{1,2}:\d{2})`)
	weatherPattern    = regexp.MustCompile(`Weather:\s*([A-Za-z]+)`)
	dayNightPattern   = regexp.MustCompile(`(?i)\b(day|night)\b`)
	noteLabelPattern  = regexp.MustCompile(`^[A-Z0-9]{1,4}$`)
)

var decisionKeys = map[string]string{"W": "win", "L": "loss", "S": "save"}

// gameParser accumulates one game block into a raw tree.
type gameParser struct {
	kind  types.ReportKind
	teams *teamMatcher

	result    []team
	runs      []int
	lineScore []any
	lineTeams []team
	lineRuns  []int
	decisions types.Tree
	info      types.Tree
	notes     []any
	batting   []*statSection
	pitching  []*statSection
	date      string

	section *statSection
}

func parseGame(kind types.ReportKind, b block, teams *teamMatcher) (types.Tree, error) {
	p := &gameParser{
		kind:      kind,
		teams:     teams,
		decisions: types.Tree{},
		info:      types.Tree{},
	}

	header := b.lines[0]
	if err := p.parseResult(header); err != nil {
		return nil, err
	}
	for _, l := range b.lines[1:] {
		if err := p.parseLine(l); err != nil {
			return nil, err
		}
	}
	if err := p.check(header); err != nil {
		return nil, err
	}

	return p.tree(header), nil
}

func (p *gameParser) errorf(l line, format string, args ...any) error {
	return &ParseError{Kind: p.kind, Line: l.num, Message: fmt.Sprintf(format, args...)}
}

// parseResult handles "<Team> <runs>, <Team> <runs>".
func (p *gameParser) parseResult(l line) error {
	text := strings.TrimSpace(l.text)

	first, rest, ok := p.teams.matchPrefix(text)
	if !ok {
		return p.errorf(l, "unknown team in result %q", text)
	}
	m := resultRunsPattern.FindStringSubmatch(rest)
	if m == nil {
		return p.errorf(l, "malformed result %q", text)
	}
	second, rest, ok := p.teams.matchPrefix(m[2])
	if !ok {
		return p.errorf(l, "unknown team in result %q", text)
	}
	final := finalRunsPattern.FindStringSubmatch(rest)
	if final == nil {
		return p.errorf(l, "malformed result %q", text)
	}

	p.result = []team{first, second}
	p.runs = []int{atoi(m[1]), atoi(final[1])}
	return nil
}

func (p *gameParser) parseLine(l line) error {
	text := strings.TrimSpace(l.text)
	if text == "" {
		p.section = nil
		return nil
	}

	if m := labelPattern.FindStringSubmatch(text); m != nil {
		p.section = nil
		return p.parseLabeled(l, m[1], text)
	}

	if t, rest, ok := p.teams.matchPrefix(text); ok {
		return p.parseTeamLine(l, t, strings.TrimSpace(rest))
	}

	if p.section != nil {
		row, err := p.section.parseRow(text)
		if err != nil {
			return p.errorf(l, "%v", err)
		}
		p.section.rows = append(p.section.rows, row)
	}
	// Free text outside a section (page footers, banners) carries no data.
	return nil
}

func (p *gameParser) parseLabeled(l line, label, text string) error {
	switch {
	case decisionKeys[label] != "":
		matches := decisionPattern.FindAllStringSubmatch(text, -1)
		if len(matches) == 0 {
			return p.errorf(l, "malformed decisions %q", text)
		}
		for _, m := range matches {
			p.decisions[decisionKeys[m[1]]] = types.Tree{
				"pitcher": strings.TrimSpace(m[2]),
				"record":  strings.TrimSpace(m[3]),
			}
		}
	case label == "Attendance" || label == "Time" || label == "Weather":
		p.parseInfo(text)
	case strings.EqualFold(label, "date"):
		if m := datePattern.FindStringSubmatch(text); m != nil {
			p.date = m[1]
		}
	case noteLabelPattern.MatchString(label):
		body := strings.TrimSpace(strings.TrimPrefix(text, label+":"))
		p.notes = append(p.notes, types.Tree{"label": label, "text": body})
	}
	return nil
}

func (p *gameParser) parseInfo(text string) {
	if m := attendancePattern.FindStringSubmatch(text); m != nil {
		p.info["attendance"] = atoi(strings.ReplaceAll(m[1], ",", ""))
	}
	if m := timePattern.FindStringSubmatch(text); m != nil {
		p.info["time"] = m[1]
	}
	if m := weatherPattern.FindStringSubmatch(text); m != nil {
		p.info["weather"] = m[1]
	}
	rest := weatherPattern.ReplaceAllString(text, "")
	if m := dayNightPattern.FindStringSubmatch(rest); m != nil {
		p.info["time_of_day"] = strings.ToLower(m[1])
	}
}

// parseTeamLine handles line score rows and stat section headers.
func (p *gameParser) parseTeamLine(l line, t team, rest string) error {
	if !p.inGame(t) {
		return p.errorf(l, "%s did not play in this game", t.Name())
	}

	if section := newStatSection(t, rest); section != nil {
		if section.kind == sectionBatting {
			p.batting = append(p.batting, section)
		} else {
			p.pitching = append(p.pitching, section)
		}
		p.section = section
		return nil
	}

	p.section = nil
	m := lineScorePattern.FindStringSubmatch(rest)
	if m == nil {
		return p.errorf(l, "malformed line score for %s", t.Name())
	}
	innings, err := parseInnings(m[1])
	if err != nil {
		return p.errorf(l, "line score for %s: %v", t.Name(), err)
	}

	row := t.tree()
	row["innings"] = innings
	row["runs"] = atoi(m[2])
	row["hits"] = atoi(m[3])
	row["errors"] = atoi(m[4])

	p.lineScore = append(p.lineScore, row)
	p.lineTeams = append(p.lineTeams, t)
	p.lineRuns = append(p.lineRuns, atoi(m[2]))
	return nil
}

func (p *gameParser) inGame(t team) bool {
	for _, r := range p.result {
		if r == t {
			return true
		}
	}
	return false
}

// check verifies the line score agrees with the result line.
func (p *gameParser) check(header line) error {
	if len(p.lineScore) != 2 {
		return p.errorf(header, "expected 2 line score rows, found %d", len(p.lineScore))
	}
	if p.lineTeams[0] == p.lineTeams[1] {
		return p.errorf(header, "line score lists %s twice", p.lineTeams[0].Name())
	}
	for i, r := range p.result {
		for j, lt := range p.lineTeams {
			if r == lt && p.runs[i] != p.lineRuns[j] {
				return p.errorf(header, "%s scored %d in the result but %d in the line score", r.Name(), p.runs[i], p.lineRuns[j])
			}
		}
	}
	return nil
}

func (p *gameParser) tree(header line) types.Tree {
	resultTeams := make([]any, 0, len(p.result))
	for i, t := range p.result {
		entry := t.tree()
		entry["runs"] = p.runs[i]
		resultTeams = append(resultTeams, entry)
	}

	game := types.Tree{
		"result": types.Tree{
			"text":  strings.TrimSpace(header.text),
			"teams": resultTeams,
		},
		"linescore": p.lineScore,
	}
	if p.date != "" {
		game["date"] = p.date
	}
	if len(p.decisions) > 0 {
		game["decisions"] = p.decisions
	}
	if len(p.info) > 0 {
		game["info"] = p.info
	}
	if len(p.notes) > 0 {
		game["notes"] = p.notes
	}
	if len(p.batting) > 0 {
		game["batting"] = sectionTrees(p.batting)
	}
	if len(p.pitching) > 0 {
		game["pitching"] = sectionTrees(p.pitching)
	}
	return game
}

// parseInnings reads "010 200 (10)x" style inning runs; x (not batted) becomes nil.
func parseInnings(s string) ([]any, error) {
	innings := make([]any, 0, 9)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == ' ' || c == '\t':
		case c >= '0' && c <= '9':
			innings = append(innings, int(c-'0'))
		case c == 'x' || c == 'X':
			innings = append(innings, nil)
		case c == '(':
			end := strings.IndexByte(s[i:], ')')
			if end < 0 {
				return nil, fmt.Errorf("unclosed inning group in %q", s)
			}
			innings = append(innings, atoi(s[i+1:i+end]))
			i += end
		default:
			return nil, fmt.Errorf("unexpected %q in innings", c)
		}
	}
	if len(innings) == 0 {
		return nil, fmt.Errorf("no innings")
	}
	return innings, nil
}

// atoi is only called on strings already matched as digits.
func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
