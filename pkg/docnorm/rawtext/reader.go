// Package rawtext turns unannotated text into normalized documents. The
// processing path is chosen per language code: registered codes get their
// own Strategy, everything else goes through the generic pipeline.
package rawtext

import (
	"errors"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/cognicore/docnorm/pkg/docnorm/document"
	"github.com/cognicore/docnorm/pkg/docnorm/internalerr"
)

const (
	// DefaultLanguage is used when a reader is created without a language.
	DefaultLanguage = "en"
	// DefaultMaxLength caps the generic pipeline input, in code points.
	DefaultMaxLength = 1_000_000
)

// ReadOptions are per-call parameters of Read.
type ReadOptions struct {
	MaxLength int    // generic strategy only; <= 0 means DefaultMaxLength
	InputFile string // provenance recorded on the document
}

// Reader normalizes raw text for one language.
type Reader struct {
	language   string
	generic    Strategy
	strategies map[string]Strategy
	logger     *zap.Logger
}

// Option configures a Reader.
type Option func(*Reader)

// WithStrategy routes language code to s.
func WithStrategy(code string, s Strategy) Option {
	return func(r *Reader) {
		if code != "" && s != nil {
			r.strategies[code] = s
		}
	}
}

// WithGeneric sets the strategy used for codes without a registered one.
func WithGeneric(s Strategy) Option {
	return func(r *Reader) {
		if s != nil {
			r.generic = s
		}
	}
}

// WithProvider is shorthand for WithGeneric(&GenericStrategy{Provider: p}).
func WithProvider(p PipelineProvider) Option {
	return func(r *Reader) {
		if p != nil {
			r.generic = &GenericStrategy{Provider: p}
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *zap.Logger) Option {
	return func(r *Reader) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates a Reader for language. An empty language means DefaultLanguage.
// Without WithProvider or WithGeneric every unregistered code fails with
// ErrUnsupportedLanguage.
func New(language string, opts ...Option) *Reader {
	if language == "" {
		language = DefaultLanguage
	}
	r := &Reader{
		language:   language,
		generic:    &GenericStrategy{},
		strategies: make(map[string]Strategy),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Language returns the reader's language code.
func (r *Reader) Language() string {
	return r.language
}

// Strategy returns the strategy handling the reader's language.
func (r *Reader) Strategy() Strategy {
	if s, ok := r.strategies[r.language]; ok {
		return s
	}
	return r.generic
}

// Read normalizes text into a document. No partial document is returned on
// error.
func (r *Reader) Read(text string, ro ReadOptions) (*document.Document, error) {
	maxLength := ro.MaxLength
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}

	s := r.Strategy()
	_, specialized := r.strategies[r.language]
	r.logger.Debug("reading raw text",
		zap.String("language", r.language),
		zap.Bool("specialized", specialized),
		zap.Int("length", utf8.RuneCountInString(text)),
		zap.String("input_file", ro.InputFile))

	records, err := s.Sentences(text, Config{Language: r.language, MaxLength: maxLength})
	if err != nil {
		var ae *internalerr.AlignmentError
		if errors.As(err, &ae) && ae.Source == "" {
			return nil, ae.WithLocation(source(ro.InputFile), ae.Sentence)
		}
		return nil, err
	}

	r.logger.Debug("normalized raw text",
		zap.String("language", r.language),
		zap.Int("sentences", len(records)))

	return document.FromSentences(records, document.Provenance{
		InputFile: ro.InputFile,
		Language:  r.language,
	})
}

func source(inputFile string) string {
	if inputFile == "" {
		return "<text>"
	}
	return inputFile
}
