package internalerr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for common cases
var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidConfig       = errors.New("invalid configuration")
	ErrAlignment           = errors.New("annotation streams misaligned")
	ErrParse               = errors.New("malformed annotation file")
	ErrInputTooLarge       = errors.New("input too large")
	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrTagging             = errors.New("tagging failed")
)

// AlignmentError reports parallel annotation streams of different lengths.
// Lengths maps a stream name (words, lemmas, POS, starts, ends) to the
// number of values observed for it.
type AlignmentError struct {
	Source   string
	Sentence int // 0-based, -1 when unknown
	Lengths  map[string]int
	Reason   string
}

func (e *AlignmentError) Error() string {
	var b strings.Builder
	if e.Source != "" {
		fmt.Fprintf(&b, "%s: ", e.Source)
	}
	if e.Sentence >= 0 {
		fmt.Fprintf(&b, "sentence %d: ", e.Sentence)
	}
	b.WriteString(ErrAlignment.Error())
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	if len(e.Lengths) > 0 {
		keys := make([]string, 0, len(e.Lengths))
		for k := range e.Lengths {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%s=%d", k, e.Lengths[k])
		}
		fmt.Fprintf(&b, " (%s)", strings.Join(parts, " "))
	}
	return b.String()
}

func (e *AlignmentError) Unwrap() error { return ErrAlignment }

// WithLocation returns a copy of e attributed to the given source and sentence.
func (e *AlignmentError) WithLocation(source string, sentence int) *AlignmentError {
	c := *e
	c.Source = source
	c.Sentence = sentence
	return &c
}

// ParseError reports input that is not well-formed annotation markup.
type ParseError struct {
	Source string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Source, ErrParse)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrParse}
	}
	return []error{ErrParse, e.Err}
}

// InputTooLargeError reports text exceeding a pipeline's character cap.
type InputTooLargeError struct {
	Language string
	Length   int
	Limit    int
}

func (e *InputTooLargeError) Error() string {
	return fmt.Sprintf("%v: text of %d characters exceeds max_length %d for language %q",
		ErrInputTooLarge, e.Length, e.Limit, e.Language)
}

func (e *InputTooLargeError) Unwrap() error { return ErrInputTooLarge }

// UnsupportedLanguageError reports a language code without pipeline resources.
type UnsupportedLanguageError struct {
	Language string
}

func (e *UnsupportedLanguageError) Error() string {
	return fmt.Sprintf("%v: no pipeline resources for %q", ErrUnsupportedLanguage, e.Language)
}

func (e *UnsupportedLanguageError) Unwrap() error { return ErrUnsupportedLanguage }

// TaggingError reports a sequence tagger failure on one sentence.
type TaggingError struct {
	Sentence int
	Tokens   int
	Err      error
}

func (e *TaggingError) Error() string {
	msg := fmt.Sprintf("sentence %d (%d tokens): %v", e.Sentence, e.Tokens, ErrTagging)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *TaggingError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrTagging}
	}
	return []error{ErrTagging, e.Err}
}
