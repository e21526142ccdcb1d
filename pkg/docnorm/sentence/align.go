package sentence

import (
	"fmt"

	"github.com/cognicore/docnorm/pkg/docnorm/internalerr"
)

// Align zips parallel per-token annotation streams into a Record.
//
// words, lemmas and pos must have equal length. starts and ends are optional:
// when both are nil the record carries no offsets, otherwise they must match
// each other and words in length. Mismatches are reported as
// *internalerr.AlignmentError; nothing is truncated or padded.
func Align(words, lemmas, pos []string, starts, ends []int) (Record, error) {
	lengths := map[string]int{
		"words":  len(words),
		"lemmas": len(lemmas),
		"POS":    len(pos),
	}
	if !sameLength(lengths) {
		return Record{}, &internalerr.AlignmentError{Sentence: -1, Lengths: lengths}
	}

	rec := Record{
		Words:  append([]string{}, words...),
		Lemmas: append([]string{}, lemmas...),
		POS:    append([]string{}, pos...),
	}

	if starts == nil && ends == nil {
		return rec, nil
	}

	if len(starts) != len(ends) || len(starts) != len(words) {
		lengths["starts"] = len(starts)
		lengths["ends"] = len(ends)
		return Record{}, &internalerr.AlignmentError{Sentence: -1, Lengths: lengths}
	}

	spans := make([]Span, len(starts))
	for i := range starts {
		if ends[i] < starts[i] {
			return Record{}, &internalerr.AlignmentError{
				Sentence: -1,
				Reason:   fmt.Sprintf("token %d ends at %d before it starts at %d", i, ends[i], starts[i]),
			}
		}
		spans[i] = Span{Start: starts[i], End: ends[i]}
	}
	rec.CharOffsets = Offsets{Spans: spans, Present: true}
	return rec, nil
}

// AlignTokens builds a Record without character offsets.
func AlignTokens(words, lemmas, pos []string) (Record, error) {
	return Align(words, lemmas, pos, nil, nil)
}
