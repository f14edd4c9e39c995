package output

import (
	"encoding/json"
	"fmt"

	"github.com/redshirtrob/blb-extractor/internal/types"
)

// Payload is everything a sink may need from one pipeline run.
type Payload struct {
	Report *types.RawReport
	Kind   types.ReportKind
	League string
	Raw    types.Tree
	// Flat is nil when normalization was skipped.
	Flat types.Tree
	// DateView is the normalized view of Raw. Stash names are always derived from
	// it so they do not depend on whether Flat was produced.
	DateView types.Tree
}

// Body is the tree a run emits: the flat tree, or the raw one in skip-clean mode.
func (p *Payload) Body() types.Tree {
	if p.Flat != nil {
		return p.Flat
	}
	return p.Raw
}

// Document wraps the payload in the record shape used by the document store.
func (p *Payload) Document() types.OutputDocument {
	return types.NewOutputDocument(p.Report, p.Kind, p.Raw, p.Flat)
}

// Encode renders a tree as JSON indented by two spaces, with a trailing newline.
func Encode(tree types.Tree) ([]byte, error) {
	data, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode tree: %w", err)
	}
	return append(data, '\n'), nil
}
