// Package sentence holds the per-sentence annotation record shared by every
// ingestion path, and the aligner that builds it from parallel token streams.
package sentence

import (
	"fmt"

	"github.com/cognicore/docnorm/pkg/docnorm/internalerr"
)

// Span is a token's character range in the source text, in code points.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Offsets is the optional character offset stream of a Record.
// Present is false when the producing strategy cannot track source positions.
type Offsets struct {
	Spans   []Span `json:"spans,omitempty"`
	Present bool   `json:"present"`
}

// Record is one sentence of aligned token annotations.
type Record struct {
	Words       []string          `json:"words"`
	Lemmas      []string          `json:"lemmas"`
	POS         []string          `json:"pos"`
	CharOffsets Offsets           `json:"char_offsets"`
	Meta        map[string]string `json:"meta,omitempty"`
}

// Len returns the number of tokens in the sentence.
func (r Record) Len() int {
	return len(r.Words)
}

// Offsets returns the character spans and whether the record carries them.
func (r Record) Offsets() ([]Span, bool) {
	return r.CharOffsets.Spans, r.CharOffsets.Present
}

// Validate checks that all present streams have the same length.
func (r Record) Validate() error {
	lengths := map[string]int{
		"words":  len(r.Words),
		"lemmas": len(r.Lemmas),
		"POS":    len(r.POS),
	}
	if r.CharOffsets.Present {
		lengths["offsets"] = len(r.CharOffsets.Spans)
	} else if len(r.CharOffsets.Spans) > 0 {
		return &internalerr.AlignmentError{
			Sentence: -1,
			Reason:   "spans set on a record without offsets",
		}
	}
	if !sameLength(lengths) {
		return &internalerr.AlignmentError{Sentence: -1, Lengths: lengths}
	}
	return nil
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	c := Record{
		Words:  cloneStrings(r.Words),
		Lemmas: cloneStrings(r.Lemmas),
		POS:    cloneStrings(r.POS),
		CharOffsets: Offsets{
			Present: r.CharOffsets.Present,
		},
	}
	if r.CharOffsets.Spans != nil {
		c.CharOffsets.Spans = append(make([]Span, 0, len(r.CharOffsets.Spans)), r.CharOffsets.Spans...)
	}
	if r.Meta != nil {
		c.Meta = make(map[string]string, len(r.Meta))
		for k, v := range r.Meta {
			c.Meta[k] = v
		}
	}
	return c
}

func (s Span) String() string {
	return fmt.Sprintf("[%d,%d)", s.Start, s.End)
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append(make([]string, 0, len(s)), s...)
}

func sameLength(lengths map[string]int) bool {
	want := -1
	for _, n := range lengths {
		if want == -1 {
			want = n
			continue
		}
		if n != want {
			return false
		}
	}
	return true
}
