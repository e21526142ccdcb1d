package corenlp

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/docnorm/pkg/docnorm/internalerr"
	"github.com/cognicore/docnorm/pkg/docnorm/sentence"
)

func TestReadSample(t *testing.T) {
	path := filepath.Join("testdata", "sample.xml")

	doc, err := New().Read(path)
	require.NoError(t, err)

	assert.Equal(t, path, doc.InputFile)
	assert.Equal(t, DefaultLanguage, doc.Language)
	require.Equal(t, 2, doc.Len())

	first := doc.Sentences[0]
	assert.Equal(t, []string{"Keyphrases", "matter", "."}, first.Words)
	assert.Equal(t, []string{"keyphrase", "matter", "."}, first.Lemmas)
	assert.Equal(t, []string{"NNS", "VBP", "."}, first.POS)
	assert.True(t, first.Offsets.Present)
	assert.Equal(t, []sentence.Span{{Start: 0, End: 10}, {Start: 11, End: 17}, {Start: 17, End: 18}}, first.Offsets.Spans)
	assert.Equal(t, map[string]string{"id": "1", "sentimentValue": "2"}, first.Meta)

	second := doc.Sentences[1]
	assert.Equal(t, 4, second.Length)
	assert.Equal(t, "2", second.Meta["id"])
	assert.Equal(t, sentence.Span{Start: 34, End: 43}, second.Offsets.Spans[2])
}

func TestReadIsIdempotent(t *testing.T) {
	path := filepath.Join("testdata", "sample.xml")
	r := New()

	a, err := r.Read(path)
	require.NoError(t, err)
	b, err := r.Read(path)
	require.NoError(t, err)

	assert.Equal(t, a.Records(), b.Records())
	assert.NotEqual(t, a.ID, b.ID)
}

func TestReadMissingOffsetEnd(t *testing.T) {
	doc, err := New().Read(filepath.Join("testdata", "missing_end.xml"))
	assert.Nil(t, doc)
	require.ErrorIs(t, err, internalerr.ErrAlignment)

	var ae *internalerr.AlignmentError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, 0, ae.Sentence)
	assert.Equal(t, 2, ae.Lengths["starts"])
	assert.Equal(t, 1, ae.Lengths["ends"])
	assert.Contains(t, err.Error(), "missing_end.xml")
}

func TestReadMalformed(t *testing.T) {
	doc, err := New().Read(filepath.Join("testdata", "malformed.xml"))
	assert.Nil(t, doc)
	assert.ErrorIs(t, err, internalerr.ErrParse)
	assert.Contains(t, err.Error(), "malformed.xml")
}

func TestReadNotFound(t *testing.T) {
	_, err := New().Read(filepath.Join(t.TempDir(), "nope.xml"))
	assert.ErrorIs(t, err, internalerr.ErrNotFound)
	assert.Contains(t, err.Error(), "nope.xml")
}

func TestReadEmptyAndTrailing(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.xml")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	_, err := New().Read(empty)
	assert.ErrorIs(t, err, internalerr.ErrParse)

	trailing := filepath.Join(dir, "trailing.xml")
	require.NoError(t, os.WriteFile(trailing, []byte("<root><document/></root><root/>"), 0o644))
	_, err = New().Read(trailing)
	assert.ErrorIs(t, err, internalerr.ErrParse)
}

func TestReadBadOffset(t *testing.T) {
	src := `<root><document><sentences><sentence><tokens><token>
<word>a</word><lemma>a</lemma><POS>DT</POS>
<CharacterOffsetBegin>zero</CharacterOffsetBegin><CharacterOffsetEnd>1</CharacterOffsetEnd>
</token></tokens></sentence></sentences></document></root>`

	_, err := New().ReadFrom(strings.NewReader(src), "inline")
	require.ErrorIs(t, err, internalerr.ErrParse)
	assert.Contains(t, err.Error(), "inline: sentence 0")
	assert.Contains(t, err.Error(), `"zero"`)
}

func TestReadFromEmptySentence(t *testing.T) {
	src := `<root><document><sentences><sentence id="s0"><tokens/></sentence></sentences></document></root>`

	doc, err := New(WithLanguage("fr")).ReadFrom(strings.NewReader(src), "inline")
	require.NoError(t, err)
	require.Equal(t, 1, doc.Len())
	assert.Equal(t, 0, doc.Sentences[0].Length)
	assert.Equal(t, "fr", doc.Language)
	assert.Equal(t, "s0", doc.Sentences[0].Meta["id"])
}

func TestReadDeclaredCharset(t *testing.T) {
	doc, err := New().Read(filepath.Join("testdata", "latin1.xml"))
	require.NoError(t, err)
	assert.Equal(t, "café", doc.Sentences[0].Words[0])
}
