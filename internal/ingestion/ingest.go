// Package ingestion loads the job description a CV is scored against, from a
// text file, pasted text or a job board URL.
package ingestion

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jonathan/resume-studio/internal/fetch"
)

// ErrEmptyPosting is returned when cleaning leaves no text.
var ErrEmptyPosting = errors.New("job description is empty")

// Posting is a cleaned job description.
type Posting struct {
	Text     string
	Metadata *Metadata
}

// PostingFetcher downloads a job posting page. *fetch.Fetcher implements it.
type PostingFetcher interface {
	FetchPosting(ctx context.Context, url string) (*fetch.Posting, error)
}

// FromText cleans pasted text.
func FromText(text string) (*Posting, error) {
	return build(SourceText, "", text)
}

// FromFile reads and cleans a text file.
func FromFile(path string) (*Posting, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %w", err)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return build(SourceFile, path, string(content))
}

// FromURL fetches a posting page and cleans its main text.
func FromURL(ctx context.Context, f PostingFetcher, url string) (*Posting, error) {
	page, err := f.FetchPosting(ctx, url)
	if err != nil {
		return nil, err
	}
	p, err := build(SourceURL, url, page.Text)
	if err != nil {
		return nil, err
	}
	p.Metadata.Platform = string(page.Platform)
	p.Metadata.Rendered = page.Result != nil && page.Result.Rendered
	return p, nil
}

func build(source Source, location, raw string) (*Posting, error) {
	cleaned := CleanText(raw)
	if cleaned == "" {
		return nil, ErrEmptyPosting
	}
	return &Posting{Text: cleaned, Metadata: newMetadata(source, location, cleaned)}, nil
}
