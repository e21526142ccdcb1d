// Package document assembles normalized sentence records into the Document
// consumed by downstream extraction stages.
package document

import (
	"crypto/rand"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/docnorm/pkg/docnorm/internalerr"
	"github.com/cognicore/docnorm/pkg/docnorm/sentence"
)

// Provenance describes where a document came from.
type Provenance struct {
	InputFile string // path or identifier, empty when unknown
	Language  string
}

// Sentence is one sentence of a Document.
type Sentence struct {
	Words   []string          `json:"words"`
	Lemmas  []string          `json:"lemmas"`
	POS     []string          `json:"pos"`
	Offsets sentence.Offsets  `json:"offsets"`
	Meta    map[string]string `json:"meta,omitempty"`
	Length  int               `json:"length"`
}

// Document is the canonical normalized representation of one input.
type Document struct {
	ID        string     `json:"id"`
	InputFile string     `json:"input_file,omitempty"`
	Language  string     `json:"language"`
	CreatedAt time.Time  `json:"created_at"`
	Sentences []Sentence `json:"sentences"`
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

func newID(now time.Time) string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(now), entropy).String()
}

// FromSentences builds a Document from records in order. Every record is
// validated and deep-copied; a misaligned record fails the whole document.
func FromSentences(records []sentence.Record, prov Provenance) (*Document, error) {
	now := time.Now().UTC()
	doc := &Document{
		ID:        newID(now),
		InputFile: prov.InputFile,
		Language:  prov.Language,
		CreatedAt: now,
		Sentences: make([]Sentence, 0, len(records)),
	}

	for i, rec := range records {
		if err := rec.Validate(); err != nil {
			if ae, ok := err.(*internalerr.AlignmentError); ok {
				return nil, ae.WithLocation(prov.InputFile, i)
			}
			return nil, err
		}
		c := rec.Clone()
		doc.Sentences = append(doc.Sentences, Sentence{
			Words:   c.Words,
			Lemmas:  c.Lemmas,
			POS:     c.POS,
			Offsets: c.CharOffsets,
			Meta:    c.Meta,
			Length:  c.Len(),
		})
	}

	return doc, nil
}

// Validate checks if the document has required fields
func (d *Document) Validate() error {
	if strings.TrimSpace(d.ID) == "" {
		return fmt.Errorf("%w: document ID is required", internalerr.ErrInvalidInput)
	}
	if strings.TrimSpace(d.Language) == "" {
		return fmt.Errorf("%w: document language is required", internalerr.ErrInvalidInput)
	}
	for i, s := range d.Sentences {
		if err := s.Record().Validate(); err != nil {
			if ae, ok := err.(*internalerr.AlignmentError); ok {
				return ae.WithLocation(d.InputFile, i)
			}
			return err
		}
	}
	return nil
}

// Len returns the number of sentences.
func (d *Document) Len() int {
	return len(d.Sentences)
}

// Tokens returns the total number of tokens across sentences.
func (d *Document) Tokens() int {
	n := 0
	for _, s := range d.Sentences {
		n += s.Length
	}
	return n
}

// HasOffsets reports whether every sentence carries character offsets.
// An empty document has none.
func (d *Document) HasOffsets() bool {
	if len(d.Sentences) == 0 {
		return false
	}
	for _, s := range d.Sentences {
		if !s.Offsets.Present {
			return false
		}
	}
	return true
}

// Record converts the sentence back into a sentence.Record.
func (s Sentence) Record() sentence.Record {
	return sentence.Record{
		Words:       s.Words,
		Lemmas:      s.Lemmas,
		POS:         s.POS,
		CharOffsets: s.Offsets,
		Meta:        s.Meta,
	}
}

// Records returns the document's sentences as records, deep-copied.
func (d *Document) Records() []sentence.Record {
	out := make([]sentence.Record, len(d.Sentences))
	for i, s := range d.Sentences {
		out[i] = s.Record().Clone()
	}
	return out
}

// Clone returns a deep copy of d.
func (d *Document) Clone() *Document {
	c := *d
	c.Sentences = make([]Sentence, len(d.Sentences))
	for i, s := range d.Sentences {
		r := s.Record().Clone()
		c.Sentences[i] = Sentence{
			Words:   r.Words,
			Lemmas:  r.Lemmas,
			POS:     r.POS,
			Offsets: r.CharOffsets,
			Meta:    r.Meta,
			Length:  s.Length,
		}
	}
	return &c
}
