// Package types provides type definitions for the report data flowing through the extractor pipeline.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "fmt"

// ReportKind is the closed set of report subtypes the classifier can produce.
type ReportKind int

const (
	// KindUnknown means no recognized report marker was found.
	KindUnknown ReportKind = iota
	// KindLeagueDaily is a league-wide daily report with one boxscore per game played.
	KindLeagueDaily
	// KindGameDaily is a single-game report with batting and pitching lines.
	KindGameDaily
)

// ParseableKinds lists every kind that has a parser. KindUnknown is not one of them.
func ParseableKinds() []ReportKind {
	return []ReportKind{KindLeagueDaily, KindGameDaily}
}

// String returns the kind string used in stash filenames and stored documents.
func (k ReportKind) String() string {
	switch k {
	case KindLeagueDaily:
		return "league-daily"
	case KindGameDaily:
		return "game-daily"
	default:
		return "unknown"
	}
}

// Known reports whether k is one of the parseable kinds.
func (k ReportKind) Known() bool {
	return k == KindLeagueDaily || k == KindGameDaily
}

// MarshalText implements encoding.TextMarshaler.
func (k ReportKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *ReportKind) UnmarshalText(text []byte) error {
	parsed, err := ParseReportKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseReportKind converts a kind string back into a ReportKind.
func ParseReportKind(s string) (ReportKind, error) {
	switch s {
	case "league-daily":
		return KindLeagueDaily, nil
	case "game-daily":
		return KindGameDaily, nil
	case "unknown":
		return KindUnknown, nil
	default:
		return KindUnknown, fmt.Errorf("unrecognized report kind %q", s)
	}
}
