package types

import "path/filepath"

// RawReport is a report document as read from disk. It is not modified after loading.
type RawReport struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

// Basename returns the final path element of the report filename.
func (r *RawReport) Basename() string {
	return filepath.Base(r.Filename)
}

// Rootname returns the basename with its extension removed.
func (r *RawReport) Rootname() string {
	base := r.Basename()
	return base[:len(base)-len(filepath.Ext(base))]
}
