// Package docnorm normalizes annotated and raw-text inputs into documents of
// aligned sentence records.
package docnorm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cognicore/docnorm/internal/textsrc"
	"github.com/cognicore/docnorm/pkg/docnorm/document"
	"github.com/cognicore/docnorm/pkg/docnorm/internalerr"
	"github.com/cognicore/docnorm/pkg/docnorm/rawtext"
	"github.com/cognicore/docnorm/pkg/docnorm/store"
)

// FileReader reads a pre-annotated file into a document.
type FileReader interface {
	Read(path string) (*document.Document, error)
}

// TextReader normalizes raw text into a document.
type TextReader interface {
	Language() string
	Read(text string, ro rawtext.ReadOptions) (*document.Document, error)
}

// Engine is the normalization facade: it reads inputs through the configured
// readers and persists the resulting documents.
type Engine struct {
	store  store.Store
	files  FileReader
	raw    TextReader
	rawFor func(language string) *rawtext.Reader
	logger *zap.Logger
}

// Options configures an Engine. Store may be nil, in which case documents are
// returned but not persisted.
type Options struct {
	Store   store.Store
	CoreNLP FileReader
	Raw     TextReader
	// RawFor returns a raw-text reader for a language other than Raw's.
	RawFor  func(language string) *rawtext.Reader
	Logger  *zap.Logger
}

// New creates an Engine with the given dependencies.
func New(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		store:  opts.Store,
		files:  opts.CoreNLP,
		raw:    opts.Raw,
		rawFor: opts.RawFor,
		logger: logger,
	}
}

// Close releases the store.
func (e *Engine) Close() error {
	if e.store == nil {
		return nil
	}
	return e.store.Close()
}

// TextRequest describes one raw-text input.
type TextRequest struct {
	Language  string // empty means the default reader's language
	MaxLength int
	InputFile string
}

// IngestFile reads an annotation file and stores the document.
func (e *Engine) IngestFile(ctx context.Context, path string) (*document.Document, error) {
	if e.files == nil {
		return nil, fmt.Errorf("%w: no annotation file reader configured", internalerr.ErrInvalidConfig)
	}
	doc, err := e.files.Read(path)
	if err != nil {
		return nil, err
	}
	if err := e.persist(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// IngestText normalizes text and stores the document.
func (e *Engine) IngestText(ctx context.Context, text string, req TextRequest) (*document.Document, error) {
	r, err := e.textReader(req.Language)
	if err != nil {
		return nil, err
	}
	doc, err := r.Read(text, rawtext.ReadOptions{MaxLength: req.MaxLength, InputFile: req.InputFile})
	if err != nil {
		return nil, err
	}
	if err := e.persist(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// IngestTextFile loads a text or HTML file and ingests its content. The path
// is recorded as the document's input file unless req names one.
func (e *Engine) IngestTextFile(ctx context.Context, path string, req TextRequest, src textsrc.Options) (*document.Document, error) {
	text, err := textsrc.Load(path, src)
	if err != nil {
		return nil, err
	}
	if req.InputFile == "" {
		req.InputFile = path
	}
	return e.IngestText(ctx, text, req)
}

// Document returns a stored document.
func (e *Engine) Document(ctx context.Context, id string) (*document.Document, error) {
	if e.store == nil {
		return nil, fmt.Errorf("document %s: %w", id, store.ErrNotFound)
	}
	return e.store.GetDocument(ctx, id)
}

// Documents lists stored documents.
func (e *Engine) Documents(ctx context.Context, opts store.ListOptions) ([]store.Summary, error) {
	if e.store == nil {
		return []store.Summary{}, nil
	}
	return e.store.ListDocuments(ctx, opts)
}

func (e *Engine) textReader(language string) (TextReader, error) {
	if e.raw != nil && (language == "" || language == e.raw.Language()) {
		return e.raw, nil
	}
	if e.rawFor != nil {
		return e.rawFor(language), nil
	}
	if language == "" {
		language = rawtext.DefaultLanguage
	}
	return nil, &internalerr.UnsupportedLanguageError{Language: language}
}

func (e *Engine) persist(ctx context.Context, doc *document.Document) error {
	if e.store == nil {
		return nil
	}
	if err := e.store.PutDocument(ctx, doc); err != nil {
		return fmt.Errorf("store document %s: %w", doc.ID, err)
	}
	e.logger.Debug("stored document",
		zap.String("id", doc.ID),
		zap.String("input_file", doc.InputFile),
		zap.Int("sentences", doc.Len()))
	return nil
}
