package rawtext

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"unicode"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/docnorm/pkg/docnorm/internalerr"
	"github.com/cognicore/docnorm/pkg/docnorm/sentence"
)

// scanPipeline splits on '.' and treats letter runs and single punctuation
// marks as tokens.
type scanPipeline struct{}

func (scanPipeline) Annotate(text string) ([]AnnotatedSentence, error) {
	var out []AnnotatedSentence
	var cur AnnotatedSentence
	runes := []rune(text)
	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case unicode.IsLetter(r):
			j := i
			for j < len(runes) && unicode.IsLetter(runes[j]) {
				j++
			}
			w := string(runes[i:j])
			cur.Tokens = append(cur.Tokens, Token{Text: w, Lemma: strings.ToLower(w), POS: "X", Start: i})
			i = j
		default:
			cur.Tokens = append(cur.Tokens, Token{Text: string(r), Lemma: string(r), POS: "PUNCT", Start: i})
			i++
			if r == '.' {
				out = append(out, cur)
				cur = AnnotatedSentence{}
			}
		}
	}
	if len(cur.Tokens) > 0 {
		out = append(out, cur)
	}
	return out, nil
}

type fakeProvider struct {
	loads     int
	languages map[string]bool
}

func (p *fakeProvider) Load(language string, maxLength int) (Pipeline, error) {
	p.loads++
	if !p.languages[language] {
		return nil, &internalerr.UnsupportedLanguageError{Language: language}
	}
	return scanPipeline{}, nil
}

type splitFunc func(string) ([]string, error)

func (f splitFunc) Split(s string) ([]string, error) { return f(s) }

type tokenizeFunc func(string) []string

func (f tokenizeFunc) Tokenize(s string) []string { return f(s) }

type stemFunc func(string) string

func (f stemFunc) Stem(s string) string { return f(s) }

type recordingTagger struct {
	mu    sync.Mutex
	calls [][][]string
	short bool
	err   error
}

func (t *recordingTagger) TagSents(sents [][]string) ([][]string, error) {
	t.mu.Lock()
	t.calls = append(t.calls, sents)
	t.mu.Unlock()
	if t.err != nil {
		return nil, t.err
	}
	out := make([][]string, len(sents))
	for i, s := range sents {
		n := len(s)
		if t.short {
			n--
		}
		out[i] = make([]string, n)
		for j := range out[i] {
			out[i][j] = "NN"
		}
	}
	return out, nil
}

func splitSentences(s string) ([]string, error) {
	var out []string
	for _, part := range strings.SplitAfter(s, ".") {
		if strings.TrimSpace(part) != "" {
			out = append(out, strings.TrimSpace(part))
		}
	}
	return out, nil
}

func tokenizeWords(s string) []string {
	out := []string{}
	for _, f := range strings.Fields(s) {
		if strings.HasSuffix(f, ".") && len(f) > 1 {
			out = append(out, strings.TrimSuffix(f, "."), ".")
			continue
		}
		out = append(out, f)
	}
	return out
}

func newMorphology(tagger SequenceTagger) *MorphologyStrategy {
	return &MorphologyStrategy{
		Splitter:  splitFunc(splitSentences),
		Tokenizer: tokenizeFunc(tokenizeWords),
		Tagger:    tagger,
		Stemmer:   stemFunc(func(s string) string { return strings.TrimPrefix(s, "me") }),
	}
}

func TestReadGeneric(t *testing.T) {
	prov := &fakeProvider{languages: map[string]bool{"en": true}}
	r := New("", WithProvider(prov))
	assert.Equal(t, DefaultLanguage, r.Language())

	doc, err := r.Read("Hello world. It works.", ReadOptions{InputFile: "hello.txt"})
	require.NoError(t, err)
	require.Len(t, doc.Sentences, 2)
	assert.Equal(t, "en", doc.Language)
	assert.Equal(t, "hello.txt", doc.InputFile)
	assert.Equal(t, 1, prov.loads)

	last := -1
	for _, s := range doc.Sentences {
		require.NotEmpty(t, s.Words)
		assert.Len(t, s.Lemmas, len(s.Words))
		assert.Len(t, s.POS, len(s.Words))
		require.True(t, s.Offsets.Present)
		require.Len(t, s.Offsets.Spans, len(s.Words))
		for _, sp := range s.Offsets.Spans {
			assert.Greater(t, sp.Start, last)
			assert.Greater(t, sp.End, sp.Start)
			last = sp.End - 1
		}
	}
	assert.Equal(t, []string{"Hello", "world", "."}, doc.Sentences[0].Words)
	assert.Equal(t, 13, doc.Sentences[1].Offsets.Spans[0].Start)
}

func TestReadGenericOffsetsAreCodePoints(t *testing.T) {
	prov := &fakeProvider{languages: map[string]bool{"en": true}}
	doc, err := New("en", WithProvider(prov)).Read("Café noir.", ReadOptions{})
	require.NoError(t, err)
	require.Len(t, doc.Sentences, 1)

	spans := doc.Sentences[0].Offsets.Spans
	assert.Equal(t, 0, spans[0].Start)
	assert.Equal(t, 4, spans[0].End)
	assert.Equal(t, 5, spans[1].Start)
}

func TestReadGenericMaxLength(t *testing.T) {
	prov := &fakeProvider{languages: map[string]bool{"en": true}}
	r := New("en", WithProvider(prov))

	text := strings.Repeat("a", 10)
	doc, err := r.Read(text, ReadOptions{MaxLength: 10})
	require.NoError(t, err)
	assert.NotNil(t, doc)

	doc, err = r.Read(text+"é", ReadOptions{MaxLength: 10})
	require.Error(t, err)
	assert.Nil(t, doc)
	assert.ErrorIs(t, err, internalerr.ErrInputTooLarge)

	var tooLarge *internalerr.InputTooLargeError
	require.ErrorAs(t, err, &tooLarge)
	assert.Equal(t, 11, tooLarge.Length)
	assert.Equal(t, 10, tooLarge.Limit)
}

func TestReadGenericUnsupportedLanguage(t *testing.T) {
	prov := &fakeProvider{languages: map[string]bool{"en": true}}
	doc, err := New("xx", WithProvider(prov)).Read("text", ReadOptions{})
	assert.Nil(t, doc)
	assert.ErrorIs(t, err, internalerr.ErrUnsupportedLanguage)

	_, err = New("en").Read("text", ReadOptions{})
	assert.ErrorIs(t, err, internalerr.ErrUnsupportedLanguage)
}

func TestReadSpecialized(t *testing.T) {
	tagger := &recordingTagger{}
	prov := &fakeProvider{languages: map[string]bool{"en": true}}
	r := New("id", WithProvider(prov), WithStrategy("id", newMorphology(tagger)))

	doc, err := r.Read("Saya makan nasi.", ReadOptions{InputFile: "Makan.TXT"})
	require.NoError(t, err)
	require.Len(t, doc.Sentences, 1)
	assert.Zero(t, prov.loads)

	s := doc.Sentences[0]
	assert.Equal(t, []string{"saya", "makan", "nasi", "."}, s.Words)
	assert.Equal(t, s.Words, s.Lemmas)
	assert.Len(t, s.POS, 4)
	assert.False(t, s.Offsets.Present)
	assert.False(t, doc.HasOffsets())
	assert.Equal(t, "Makan.TXT", doc.InputFile)
	assert.Equal(t, "id", doc.Language)
	assert.Len(t, tagger.calls, 1)
}

func TestReadSpecializedIgnoresMaxLength(t *testing.T) {
	r := New("id", WithStrategy("id", newMorphology(&recordingTagger{})))

	doc, err := r.Read("Dia memasak nasi. Kami makan.", ReadOptions{MaxLength: 3})
	require.NoError(t, err)
	require.Len(t, doc.Sentences, 2)
	assert.Equal(t, []string{"dia", "masak", "nasi", "."}, doc.Sentences[0].Lemmas)
}

func TestReadSpecializedEmptySequence(t *testing.T) {
	tagger := &recordingTagger{}
	m := newMorphology(tagger)
	m.Splitter = splitFunc(func(string) ([]string, error) { return []string{"saya makan", "", "nasi"}, nil })

	doc, err := New("id", WithStrategy("id", m)).Read("ignored", ReadOptions{})
	require.NoError(t, err)
	require.Len(t, doc.Sentences, 3)
	assert.Empty(t, doc.Sentences[1].Words)
	assert.Empty(t, doc.Sentences[1].POS)

	require.Len(t, tagger.calls, 1)
	assert.Len(t, tagger.calls[0], 2)
}

func TestReadSpecializedAllEmpty(t *testing.T) {
	tagger := &recordingTagger{}
	doc, err := New("id", WithStrategy("id", newMorphology(tagger))).Read("   ", ReadOptions{})
	require.NoError(t, err)
	assert.Zero(t, doc.Len())
	assert.Empty(t, tagger.calls)
}

func TestReadSpecializedTaggerFailures(t *testing.T) {
	t.Run("short output", func(t *testing.T) {
		r := New("id", WithStrategy("id", newMorphology(&recordingTagger{short: true})))
		doc, err := r.Read("Saya makan.", ReadOptions{})
		assert.Nil(t, doc)
		assert.ErrorIs(t, err, internalerr.ErrTagging)

		var te *internalerr.TaggingError
		require.ErrorAs(t, err, &te)
		assert.Equal(t, 0, te.Sentence)
		assert.Equal(t, 3, te.Tokens)
	})

	t.Run("tagger error", func(t *testing.T) {
		boom := errors.New("model exploded")
		r := New("id", WithStrategy("id", newMorphology(&recordingTagger{err: boom})))
		_, err := r.Read("Saya makan.", ReadOptions{})
		assert.ErrorIs(t, err, internalerr.ErrTagging)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("remapped index", func(t *testing.T) {
		m := newMorphology(&recordingTagger{err: &internalerr.TaggingError{Sentence: 1, Tokens: 1, Err: errors.New("bad")}})
		m.Splitter = splitFunc(func(string) ([]string, error) { return []string{"a", "", "b"}, nil })
		_, err := New("id", WithStrategy("id", m)).Read("x", ReadOptions{})

		var te *internalerr.TaggingError
		require.ErrorAs(t, err, &te)
		assert.Equal(t, 2, te.Sentence)
	})
}

func TestMorphologyStrategyMissingService(t *testing.T) {
	_, err := (&MorphologyStrategy{}).Sentences("x", Config{Language: "id"})
	assert.ErrorIs(t, err, internalerr.ErrInvalidConfig)
}

func TestMorphologyStrategyConcurrent(t *testing.T) {
	tagger := &recordingTagger{}
	r := New("id", WithStrategy("id", newMorphology(tagger)))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.Read("Saya makan nasi.", ReadOptions{})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Len(t, tagger.calls, 8)
}

type misalignedStrategy struct{}

func (misalignedStrategy) Sentences(string, Config) ([]sentence.Record, error) {
	return nil, &internalerr.AlignmentError{Sentence: 3, Lengths: map[string]int{"words": 2, "pos": 1}}
}

func TestReadAttachesSourceToAlignmentErrors(t *testing.T) {
	_, err := New("en", WithGeneric(misalignedStrategy{})).Read("x", ReadOptions{InputFile: "in.txt"})

	var ae *internalerr.AlignmentError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "in.txt", ae.Source)
	assert.Equal(t, 3, ae.Sentence)
}

func TestLowerIsLanguageAware(t *testing.T) {
	assert.Equal(t, "saya makan", lower("SAYA MAKAN", "id"))
	assert.Equal(t, "ıstanbul", lower("ISTANBUL", "tr"))
	assert.Equal(t, "abc", lower("ABC", "not a tag!"))
	assert.True(t, utf8.ValidString(lower("ÀÉÎ", "fr")))
}
