package domain

import (
	"io"
	"strings"
)

// Source tag prefixes encode where a record's underlying document came from.
const (
	SourceTagFile = "File: "
	SourceTagURL  = "URL: "
)

// Whitepaper is the single persisted entity of the library. Records are
// immutable after creation; the only mutation path is deletion.
type Whitepaper struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Source       string `json:"source"`
	MainCategory string `json:"main_category"`
	Industry     string `json:"industry"`
	ShortSummary string `json:"short_summary"`
	FilePath     string `json:"file_path,omitempty"`
	CreatedAt    string `json:"created_at"`
}

// SourceURL returns the embedded URL for URL-origin records, or "" otherwise.
func (w Whitepaper) SourceURL() string {
	if strings.HasPrefix(w.Source, SourceTagURL) {
		return strings.TrimPrefix(w.Source, SourceTagURL)
	}
	return ""
}

// Classification is the structured result of a model call. Audience,
// AudienceConfidence and AudienceRationale are informational; MainCategory is
// the coerced closed-set value that gets persisted.
type Classification struct {
	Title              string `json:"title"`
	Audience           string `json:"audience"`
	AudienceConfidence int    `json:"audience_confidence"`
	AudienceRationale  string `json:"audience_rationale"`
	Industry           string `json:"industry"`
	ShortSummary       string `json:"short_summary"`
	MainCategory       string `json:"main_category"`
}

// IngestInput carries one upload request through the pipeline. Exactly one of
// File or URL must be set; APIKey is forwarded to the classifier per call.
type IngestInput struct {
	APIKey   string
	Filename string
	File     io.Reader
	URL      string
}

// SortOrder selects the listing sort direction over creation time.
type SortOrder string

const (
	SortNewest SortOrder = "newest"
	SortOldest SortOrder = "oldest"
)

// ParseSortOrder maps arbitrary user input onto a valid sort order,
// defaulting to newest-first.
func ParseSortOrder(raw string) SortOrder {
	if SortOrder(strings.TrimSpace(raw)) == SortOldest {
		return SortOldest
	}
	return SortNewest
}

// ListFilter narrows and orders the library listing. Empty filter fields
// pass every record through.
type ListFilter struct {
	MainCategory string
	Industry     string
	Sort         SortOrder
}

func (f ListFilter) Matches(w Whitepaper) bool {
	if f.MainCategory != "" && w.MainCategory != f.MainCategory {
		return false
	}
	if f.Industry != "" && w.Industry != f.Industry {
		return false
	}
	return true
}
