package types

// DocumentMeta holds the fields every stored report carries regardless of shape.
type DocumentMeta struct {
	Filename string     `json:"filename"`
	Subject  string     `json:"subject"` // reserved, always empty today
	Content  string     `json:"content"`
	Type     ReportKind `json:"type"`
}

// OutputDocument is what the document store persists for one run. It is one of
// RawDocument or CleanDocument; the unexported method closes the set.
type OutputDocument interface {
	Meta() DocumentMeta
	RawAST() Tree
	// FlatAST returns the normalized tree and true for clean documents.
	FlatAST() (Tree, bool)
	isOutputDocument()
}

// RawDocument is persisted when normalization was skipped.
type RawDocument struct {
	DocumentMeta
	AST Tree `json:"ast"`
}

// CleanDocument is persisted when normalization ran; it carries both trees.
type CleanDocument struct {
	DocumentMeta
	AST  Tree `json:"ast"`
	Flat Tree `json:"flat_ast"`
}

func (d *RawDocument) Meta() DocumentMeta    { return d.DocumentMeta }
func (d *RawDocument) RawAST() Tree          { return d.AST }
func (d *RawDocument) FlatAST() (Tree, bool) { return nil, false }
func (d *RawDocument) isOutputDocument()     {}

func (d *CleanDocument) Meta() DocumentMeta    { return d.DocumentMeta }
func (d *CleanDocument) RawAST() Tree          { return d.AST }
func (d *CleanDocument) FlatAST() (Tree, bool) { return d.Flat, true }
func (d *CleanDocument) isOutputDocument()     {}

// NewOutputDocument builds the document for a run. A nil flat tree means
// normalization was skipped and yields a RawDocument.
func NewOutputDocument(report *RawReport, kind ReportKind, raw, flat Tree) OutputDocument {
	meta := DocumentMeta{
		Filename: report.Basename(),
		Content:  report.Content,
		Type:     kind,
	}
	if flat == nil {
		return &RawDocument{DocumentMeta: meta, AST: raw}
	}
	return &CleanDocument{DocumentMeta: meta, AST: raw, Flat: flat}
}
