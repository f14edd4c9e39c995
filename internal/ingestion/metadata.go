package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redshirtrob/blb-extractor/internal/types"
)

// Metadata describes an ingested report file
type Metadata struct {
	Filename  string `json:"filename"`
	Timestamp string `json:"timestamp"` // RFC3339 format
	Hash      string `json:"hash"`      // SHA256 hex digest of the decoded content
	Encoding  string `json:"encoding"`  // charset the content was decoded from
	Bytes     int    `json:"bytes"`
}

// NewMetadata creates a new Metadata instance with current timestamp
func NewMetadata(report *types.RawReport, encoding string) *Metadata {
	return &Metadata{
		Filename:  report.Basename(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Hash:      ContentHash(report.Content),
		Encoding:  encoding,
		Bytes:     len(report.Content),
	}
}

// ContentHash computes SHA256 hash of content and returns hex string
func ContentHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}

// ToJSON marshals Metadata to pretty-printed JSON
func (m *Metadata) ToJSON() ([]byte, error) {
	jsonBytes, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata to JSON: %w", err)
	}
	return jsonBytes, nil
}
