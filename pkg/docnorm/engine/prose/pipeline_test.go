package prose

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/docnorm/pkg/docnorm/internalerr"
)

func TestSupported(t *testing.T) {
	assert.True(t, Supported("en"))
	assert.True(t, Supported("EN"))
	assert.True(t, Supported("en-GB"))
	assert.True(t, Supported("en_core_web_sm"))
	assert.False(t, Supported("id"))
	assert.False(t, Supported(""))
}

func TestProviderLoad(t *testing.T) {
	p := NewProvider()

	_, err := p.Load("id", 100)
	assert.ErrorIs(t, err, internalerr.ErrUnsupportedLanguage)

	a, err := p.Load("en", 100)
	require.NoError(t, err)
	b, err := p.Load("en", 100)
	require.NoError(t, err)
	assert.Same(t, a, b)

	c, err := p.Load("en", 200)
	require.NoError(t, err)
	assert.NotSame(t, a, c)
}

func TestAnnotate(t *testing.T) {
	pl, err := NewProvider().Load("en", 1000)
	require.NoError(t, err)

	text := "Hello world. It works."
	sents, err := pl.Annotate(text)
	require.NoError(t, err)
	require.Len(t, sents, 2)

	runes := []rune(text)
	last := -1
	var words []string
	for _, s := range sents {
		require.NotEmpty(t, s.Tokens)
		for _, tok := range s.Tokens {
			assert.Greater(t, tok.Start, last)
			end := tok.Start + utf8.RuneCountInString(tok.Text)
			assert.Equal(t, tok.Text, string(runes[tok.Start:end]))
			assert.NotEmpty(t, tok.Lemma)
			assert.NotEmpty(t, tok.POS)
			last = end - 1
			words = append(words, tok.Text)
		}
	}
	assert.Equal(t, "Hello world . It works .", strings.Join(words, " "))

	final := sents[1].Tokens[len(sents[1].Tokens)-1]
	assert.Equal(t, "PUNCT", final.POS)
	assert.Equal(t, "work", sents[1].Tokens[1].Lemma)
}

func TestAnnotateMultibyte(t *testing.T) {
	pl, err := NewProvider().Load("en", 1000)
	require.NoError(t, err)

	sents, err := pl.Annotate("The café opened today.")
	require.NoError(t, err)
	require.Len(t, sents, 1)

	toks := sents[0].Tokens
	require.GreaterOrEqual(t, len(toks), 3)
	assert.Equal(t, "café", toks[1].Text)
	assert.Equal(t, 4, toks[1].Start)
	assert.Equal(t, 9, toks[2].Start)
}

func TestAnnotateLimits(t *testing.T) {
	pl, err := NewProvider().Load("en", 5)
	require.NoError(t, err)

	_, err = pl.Annotate("toolong")
	assert.ErrorIs(t, err, internalerr.ErrInputTooLarge)

	sents, err := pl.Annotate("   ")
	require.NoError(t, err)
	assert.Empty(t, sents)
}

func TestUniversalTag(t *testing.T) {
	cases := map[string]string{
		"NN": "NOUN", "NNPS": "PROPN", "VBZ": "VERB", "MD": "AUX", "JJR": "ADJ",
		"RB": "ADV", "PRP": "PRON", "DT": "DET", "IN": "ADP", "CC": "CCONJ",
		"CD": "NUM", "UH": "INTJ", "TO": "PART", "$": "SYM", ".": "PUNCT",
		"``": "PUNCT", "FW": "X", "???": "X", "": "X",
	}
	for in, want := range cases {
		assert.Equal(t, want, UniversalTag(in), "tag %q", in)
	}
}

func TestSegmenter(t *testing.T) {
	s := NewSegmenter()

	sents, err := s.Split("Saya makan nasi. Dia minum kopi.")
	require.NoError(t, err)
	assert.Equal(t, []string{"Saya makan nasi.", "Dia minum kopi."}, sents)

	sents, err = s.Split("  ")
	require.NoError(t, err)
	assert.Empty(t, sents)
}
