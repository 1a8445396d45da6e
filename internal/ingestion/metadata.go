package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Source says where a job description came from.
type Source string

// Job description sources
const (
	SourceFile Source = "file"
	SourceURL  Source = "url"
	SourceText Source = "text"
)

// Metadata describes an ingested job description.
type Metadata struct {
	Source    Source    `json:"source"`
	Location  string    `json:"location,omitempty"` // path or URL
	Platform  string    `json:"platform,omitempty"` // detected job board
	Rendered  bool      `json:"rendered,omitempty"` // fetched through the headless browser
	Timestamp time.Time `json:"timestamp"`
	Hash      string    `json:"hash"` // SHA256 hex digest of the cleaned text
	Chars     int       `json:"chars"`
}

func newMetadata(source Source, location, cleaned string) *Metadata {
	return &Metadata{
		Source:    source,
		Location:  location,
		Timestamp: time.Now().UTC(),
		Hash:      computeHash(cleaned),
		Chars:     len([]rune(cleaned)),
	}
}

// computeHash computes SHA256 hash of content and returns hex string
func computeHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}
