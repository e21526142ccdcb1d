// Package corenlp reads annotation files in the CoreNLP XML layout
// (document/sentences/sentence/tokens/token) into normalized documents.
package corenlp

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html/charset"

	"github.com/cognicore/docnorm/pkg/docnorm/document"
	"github.com/cognicore/docnorm/pkg/docnorm/internalerr"
	"github.com/cognicore/docnorm/pkg/docnorm/sentence"
)

// DefaultLanguage is recorded on documents when the reader has no language set.
const DefaultLanguage = "en"

type xmlFile struct {
	Document struct {
		Sentences []xmlSentence `xml:"sentences>sentence"`
	} `xml:"document"`
}

type xmlSentence struct {
	Attrs  []xml.Attr `xml:",any,attr"`
	Tokens []xmlToken `xml:"tokens>token"`
}

// Pointer fields distinguish a missing child from an empty one.
type xmlToken struct {
	Word  *string `xml:"word"`
	Lemma *string `xml:"lemma"`
	POS   *string `xml:"POS"`
	Begin *string `xml:"CharacterOffsetBegin"`
	End   *string `xml:"CharacterOffsetEnd"`
}

// Reader parses pre-annotated XML files.
type Reader struct {
	language string
	logger   *zap.Logger
}

// Option configures a Reader.
type Option func(*Reader)

// WithLanguage sets the language recorded on produced documents.
func WithLanguage(lang string) Option {
	return func(r *Reader) {
		if lang != "" {
			r.language = lang
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

// New creates a Reader.
func New(opts ...Option) *Reader {
	r := &Reader{language: DefaultLanguage, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Language returns the language recorded on documents.
func (r *Reader) Language() string {
	return r.language
}

// Read parses the annotation file at path. A missing or unreadable file
// yields internalerr.ErrNotFound; nothing is returned on partial failure.
func (r *Reader) Read(path string) (*document.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
			return nil, fmt.Errorf("read %s: %w: %v", path, internalerr.ErrNotFound, err)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	defer f.Close()

	return r.ReadFrom(f, path)
}

// ReadFrom parses annotation XML from rd; name is used as provenance.
func (r *Reader) ReadFrom(rd io.Reader, name string) (*document.Document, error) {
	r.logger.Debug("reading annotation file", zap.String("path", name))

	dec := xml.NewDecoder(rd)
	dec.CharsetReader = charset.NewReaderLabel

	var parsed xmlFile
	if err := dec.Decode(&parsed); err != nil {
		if err == io.EOF {
			return nil, &internalerr.ParseError{Source: name, Reason: "empty file"}
		}
		return nil, &internalerr.ParseError{Source: name, Err: err}
	}
	// Trailing garbage after the root element means the file is not well formed.
	if err := ensureEOF(dec); err != nil {
		return nil, &internalerr.ParseError{Source: name, Reason: "content after root element", Err: err}
	}

	records := make([]sentence.Record, 0, len(parsed.Document.Sentences))
	for i, s := range parsed.Document.Sentences {
		rec, err := buildRecord(s)
		if err != nil {
			var ae *internalerr.AlignmentError
			if errors.As(err, &ae) {
				return nil, ae.WithLocation(name, i)
			}
			var pe *internalerr.ParseError
			if errors.As(err, &pe) {
				pe.Source = fmt.Sprintf("%s: sentence %d", name, i)
				return nil, pe
			}
			return nil, err
		}
		records = append(records, rec)
	}

	r.logger.Debug("parsed annotation file",
		zap.String("path", name),
		zap.Int("sentences", len(records)))

	return document.FromSentences(records, document.Provenance{
		InputFile: name,
		Language:  r.language,
	})
}

func buildRecord(s xmlSentence) (sentence.Record, error) {
	var words, lemmas, pos []string
	var starts, ends []int

	for _, tok := range s.Tokens {
		if tok.Word != nil {
			words = append(words, *tok.Word)
		}
		if tok.Lemma != nil {
			lemmas = append(lemmas, *tok.Lemma)
		}
		if tok.POS != nil {
			pos = append(pos, *tok.POS)
		}
		if tok.Begin != nil {
			n, err := parseOffset(*tok.Begin)
			if err != nil {
				return sentence.Record{}, err
			}
			starts = append(starts, n)
		}
		if tok.End != nil {
			n, err := parseOffset(*tok.End)
			if err != nil {
				return sentence.Record{}, err
			}
			ends = append(ends, n)
		}
	}

	// Offsets are always expected in this format, even for an empty sentence.
	if starts == nil {
		starts = []int{}
	}
	if ends == nil {
		ends = []int{}
	}

	rec, err := sentence.Align(words, lemmas, pos, starts, ends)
	if err != nil {
		return sentence.Record{}, err
	}

	if len(s.Attrs) > 0 {
		rec.Meta = make(map[string]string, len(s.Attrs))
		for _, a := range s.Attrs {
			rec.Meta[attrName(a.Name)] = a.Value
		}
	}
	return rec, nil
}

func parseOffset(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, &internalerr.ParseError{Reason: fmt.Sprintf("character offset %q is not an integer", s)}
	}
	return n, nil
}

func attrName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

func ensureEOF(dec *xml.Decoder) error {
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.CharData:
			if len(strings.TrimSpace(string(t))) > 0 {
				return fmt.Errorf("unexpected text %q", strings.TrimSpace(string(t)))
			}
		case xml.Comment, xml.ProcInst, xml.Directive:
		default:
			return fmt.Errorf("unexpected token %T", tok)
		}
	}
}
