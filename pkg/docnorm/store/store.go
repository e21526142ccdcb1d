package store

import (
	"context"
	"time"

	"github.com/cognicore/docnorm/pkg/docnorm/document"
	"github.com/cognicore/docnorm/pkg/docnorm/internalerr"
)

// ErrNotFound is returned when a document ID is unknown.
var ErrNotFound = internalerr.ErrNotFound

// Store persists normalized documents.
type Store interface {
	Close() error

	// PutDocument inserts or replaces a document, keyed by ID.
	PutDocument(ctx context.Context, d *document.Document) error
	// GetDocument returns the document with id, or ErrNotFound.
	GetDocument(ctx context.Context, id string) (*document.Document, error)
	// ListDocuments returns summaries in creation order.
	ListDocuments(ctx context.Context, opts ListOptions) ([]Summary, error)
	// DeleteDocument removes a document. Unknown IDs yield ErrNotFound.
	DeleteDocument(ctx context.Context, id string) error
}

// ListOptions filters ListDocuments. Zero values match everything.
type ListOptions struct {
	Language  string
	InputFile string
	Limit     int
}

// Summary describes a stored document without its sentences.
type Summary struct {
	ID        string    `json:"id"`
	InputFile string    `json:"input_file,omitempty"`
	Language  string    `json:"language"`
	CreatedAt time.Time `json:"created_at"`
	Sentences int       `json:"sentences"`
	Tokens    int       `json:"tokens"`
}

// Summarize builds the Summary of d.
func Summarize(d *document.Document) Summary {
	return Summary{
		ID:        d.ID,
		InputFile: d.InputFile,
		Language:  d.Language,
		CreatedAt: d.CreatedAt,
		Sentences: d.Len(),
		Tokens:    d.Tokens(),
	}
}

// Matches reports whether s passes the filters in o (Limit is not checked).
func (o ListOptions) Matches(s Summary) bool {
	if o.Language != "" && s.Language != o.Language {
		return false
	}
	if o.InputFile != "" && s.InputFile != o.InputFile {
		return false
	}
	return true
}
