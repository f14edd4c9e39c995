package output

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redshirtrob/blb-extractor/internal/types"
)

const (
	stashSuffix = "-ast.dat"
	// Matchup dates are mm/dd/yyyy; single-digit month and day are accepted.
	matchupDateLayout = "1/2/2006"
	stashDateLayout   = "2006-01-02"
	maxSuffix         = 999
)

// CollisionPolicy decides what happens when a stash name is already taken.
type CollisionPolicy int

const (
	CollisionOverwrite CollisionPolicy = iota
	CollisionFail
	CollisionSuffix
)

// ParseCollisionPolicy accepts overwrite, fail or suffix. Empty means overwrite.
func ParseCollisionPolicy(s string) (CollisionPolicy, error) {
	switch s {
	case "", "overwrite":
		return CollisionOverwrite, nil
	case "fail":
		return CollisionFail, nil
	case "suffix":
		return CollisionSuffix, nil
	default:
		return CollisionOverwrite, fmt.Errorf("unknown collision policy %q (want overwrite, fail or suffix)", s)
	}
}

// Target is where stashed files are written.
type Target interface {
	Exists(ctx context.Context, name string) (bool, error)
	// Write stores data under name, replacing any previous content, and returns the
	// full location written.
	Write(ctx context.Context, name string, data []byte) (string, error)
}

// StashFilename builds {yyyy-mm-dd}-{kind}-{rootname}-ast.dat from the first
// boxscore's matchup date in view.
func StashFilename(view types.Tree, kind types.ReportKind, report *types.RawReport) (string, error) {
	date, err := matchupDate(view)
	if err != nil {
		return "", &MissingDateError{Filename: report.Basename(), Message: err.Error()}
	}
	return fmt.Sprintf("%s-%s-%s%s", date.Format(stashDateLayout), kind, report.Rootname(), stashSuffix), nil
}

func matchupDate(view types.Tree) (time.Time, error) {
	boxscores, _ := types.SliceAt(view, "boxscores")
	if len(boxscores) == 0 {
		return time.Time{}, errors.New("report has no boxscores")
	}
	first, _ := boxscores[0].(map[string]any)
	matchup, _ := types.MapAt(first, "matchup")
	raw, ok := types.StringAt(matchup, "date")
	if !ok || strings.TrimSpace(raw) == "" {
		return time.Time{}, errors.New("first boxscore has no matchup date")
	}
	date, err := time.Parse(matchupDateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("matchup date %q is not mm/dd/yyyy", raw)
	}
	return date, nil
}

// StashSink writes the payload as a JSON file named after the report date.
type StashSink struct {
	Target Target
	Policy CollisionPolicy
	logger *slog.Logger
}

func (s *StashSink) Name() string { return "stash" }

// Emit computes the name before encoding anything, so a MissingDateError leaves
// the stash untouched.
func (s *StashSink) Emit(ctx context.Context, p *Payload) (string, error) {
	name, err := StashFilename(p.DateView, p.Kind, p.Report)
	if err != nil {
		return "", err
	}

	name, err = s.resolve(ctx, name)
	if err != nil {
		return "", err
	}

	data, err := Encode(p.Body())
	if err != nil {
		return "", err
	}

	location, err := s.Target.Write(ctx, name, data)
	if err != nil {
		return "", fmt.Errorf("failed to stash %s: %w", name, err)
	}
	if s.logger != nil {
		s.logger.Info("stashed report", slog.String("location", location), slog.Int("bytes", len(data)))
	}
	return location, nil
}

func (s *StashSink) resolve(ctx context.Context, name string) (string, error) {
	if s.Policy == CollisionOverwrite {
		return name, nil
	}

	exists, err := s.Target.Exists(ctx, name)
	if err != nil {
		return "", fmt.Errorf("failed to check stash for %s: %w", name, err)
	}
	if !exists {
		return name, nil
	}
	if s.Policy == CollisionFail {
		return "", &CollisionError{Name: name}
	}

	stem := strings.TrimSuffix(name, stashSuffix)
	for i := 1; i <= maxSuffix; i++ {
		candidate := fmt.Sprintf("%s-%d%s", stem, i, stashSuffix)
		exists, err := s.Target.Exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check stash for %s: %w", candidate, err)
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", &CollisionError{Name: fmt.Sprintf("%s-%d%s", stem, maxSuffix, stashSuffix)}
}
