package parsing

import (
	"fmt"

	"github.com/redshirtrob/blb-extractor/internal/types"
)

// ParseError reports report content that is structurally invalid for its kind.
type ParseError struct {
	Kind    types.ReportKind
	Line    int // 1-based; 0 when the error is not tied to a line
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	where := e.Kind.String()
	if e.Line > 0 {
		where = fmt.Sprintf("%s line %d", where, e.Line)
	}
	if e.Cause != nil {
		return fmt.Sprintf("parse error (%s): %s: %v", where, e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error (%s): %s", where, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
