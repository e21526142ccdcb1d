package internalerr

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAlignmentErrorMessage(t *testing.T) {
	err := &AlignmentError{
		Source:   "doc.xml",
		Sentence: 2,
		Lengths:  map[string]int{"words": 3, "lemmas": 3, "POS": 2},
	}

	assert.Equal(t, "doc.xml: sentence 2: annotation streams misaligned (POS=2 lemmas=3 words=3)", err.Error())
	assert.ErrorIs(t, fmt.Errorf("read: %w", err), ErrAlignment)

	var ae *AlignmentError
	assert.True(t, errors.As(fmt.Errorf("wrapped: %w", err), &ae))
	assert.Equal(t, 2, ae.Lengths["POS"])
}

func TestAlignmentErrorWithLocation(t *testing.T) {
	base := &AlignmentError{Sentence: -1, Reason: "end before start"}
	located := base.WithLocation("a.xml", 4)

	assert.Equal(t, -1, base.Sentence)
	assert.Equal(t, "a.xml: sentence 4: annotation streams misaligned: end before start", located.Error())
}

func TestParseErrorUnwrapsCause(t *testing.T) {
	err := &ParseError{Source: "x.xml", Err: io.ErrUnexpectedEOF}

	assert.ErrorIs(t, err, ErrParse)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Contains(t, err.Error(), "x.xml")
}

func TestDetailErrorsMatchSentinels(t *testing.T) {
	assert.ErrorIs(t, &InputTooLargeError{Language: "en", Length: 11, Limit: 10}, ErrInputTooLarge)
	assert.ErrorIs(t, &UnsupportedLanguageError{Language: "xx"}, ErrUnsupportedLanguage)
	assert.ErrorIs(t, &TaggingError{Sentence: 1, Tokens: 3}, ErrTagging)

	msg := (&InputTooLargeError{Language: "en", Length: 11, Limit: 10}).Error()
	assert.Contains(t, msg, "11")
	assert.Contains(t, msg, "10")
	assert.Contains(t, (&UnsupportedLanguageError{Language: "xx"}).Error(), `"xx"`)
}
