package rawtext

import (
	"errors"
	"fmt"
	"sync"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/cognicore/docnorm/pkg/docnorm/internalerr"
	"github.com/cognicore/docnorm/pkg/docnorm/sentence"
)

// Config is the per-call processing configuration handed to a Strategy.
type Config struct {
	Language  string
	MaxLength int
}

// Strategy turns raw text into sentence records for one family of languages.
type Strategy interface {
	Sentences(text string, cfg Config) ([]sentence.Record, error)
}

// GenericStrategy runs text through a general-purpose pipeline. Every record
// carries character offsets.
type GenericStrategy struct {
	Provider PipelineProvider
}

// Sentences implements Strategy.
func (g *GenericStrategy) Sentences(text string, cfg Config) ([]sentence.Record, error) {
	if g.Provider == nil {
		return nil, &internalerr.UnsupportedLanguageError{Language: cfg.Language}
	}
	p, err := g.Provider.Load(cfg.Language, cfg.MaxLength)
	if err != nil {
		return nil, err
	}

	if n := utf8.RuneCountInString(text); n > cfg.MaxLength {
		return nil, &internalerr.InputTooLargeError{Language: cfg.Language, Length: n, Limit: cfg.MaxLength}
	}

	annotated, err := p.Annotate(text)
	if err != nil {
		return nil, err
	}

	records := make([]sentence.Record, 0, len(annotated))
	for i, as := range annotated {
		n := len(as.Tokens)
		words := make([]string, n)
		lemmas := make([]string, n)
		pos := make([]string, n)
		starts := make([]int, n)
		ends := make([]int, n)
		for j, tok := range as.Tokens {
			words[j] = tok.Text
			lemmas[j] = tok.Lemma
			pos[j] = tok.POS
			starts[j] = tok.Start
			ends[j] = tok.Start + utf8.RuneCountInString(tok.Text)
		}
		rec, err := sentence.Align(words, lemmas, pos, starts, ends)
		if err != nil {
			if ae, ok := err.(*internalerr.AlignmentError); ok {
				return nil, ae.WithLocation("", i)
			}
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// MorphologyStrategy handles morphologically rich languages with a dedicated
// splitter, tokenizer, statistical tagger and stemmer. The working text is
// lower-cased first and records carry no character offsets.
//
// Calls into the tagger are serialized, so one strategy may be shared by
// concurrent readers even when the tagger itself is not goroutine safe.
type MorphologyStrategy struct {
	Splitter  SentenceSplitter
	Tokenizer WordTokenizer
	Tagger    SequenceTagger
	Stemmer   Stemmer

	mu sync.Mutex
}

// Sentences implements Strategy. cfg.MaxLength is ignored: text is never
// truncated on this path.
func (m *MorphologyStrategy) Sentences(text string, cfg Config) ([]sentence.Record, error) {
	if m.Splitter == nil || m.Tokenizer == nil || m.Tagger == nil || m.Stemmer == nil {
		return nil, fmt.Errorf("%w: morphology strategy for %q is missing a service", internalerr.ErrInvalidConfig, cfg.Language)
	}

	lowered := lower(text, cfg.Language)

	sents, err := m.Splitter.Split(lowered)
	if err != nil {
		return nil, fmt.Errorf("split sentences: %w", err)
	}

	tokens := make([][]string, len(sents))
	for i, s := range sents {
		tokens[i] = m.Tokenizer.Tokenize(s)
	}

	tags, err := m.tag(tokens)
	if err != nil {
		return nil, err
	}

	records := make([]sentence.Record, 0, len(tokens))
	for i, words := range tokens {
		lemmas := make([]string, len(words))
		for j, w := range words {
			lemmas[j] = m.Stemmer.Stem(w)
		}
		rec, err := sentence.AlignTokens(words, lemmas, tags[i])
		if err != nil {
			if ae, ok := err.(*internalerr.AlignmentError); ok {
				return nil, ae.WithLocation("", i)
			}
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// tag batch-tags every non-empty sequence. Empty sequences get an empty tag
// list without reaching the tagger.
func (m *MorphologyStrategy) tag(tokens [][]string) ([][]string, error) {
	var batch [][]string
	var index []int
	for i, seq := range tokens {
		if len(seq) > 0 {
			batch = append(batch, seq)
			index = append(index, i)
		}
	}

	out := make([][]string, len(tokens))
	for i := range out {
		out[i] = []string{}
	}
	if len(batch) == 0 {
		return out, nil
	}

	m.mu.Lock()
	tagged, err := m.Tagger.TagSents(batch)
	m.mu.Unlock()
	if err != nil {
		var te *internalerr.TaggingError
		if errors.As(err, &te) && te.Sentence >= 0 && te.Sentence < len(index) {
			remapped := *te
			remapped.Sentence = index[te.Sentence]
			return nil, &remapped
		}
		return nil, &internalerr.TaggingError{Sentence: -1, Tokens: countTokens(batch), Err: err}
	}
	if len(tagged) != len(batch) {
		return nil, &internalerr.TaggingError{
			Sentence: -1,
			Tokens:   countTokens(batch),
			Err:      fmt.Errorf("tagger returned %d sequences for %d sentences", len(tagged), len(batch)),
		}
	}

	for k, tags := range tagged {
		i := index[k]
		if len(tags) != len(tokens[i]) {
			return nil, &internalerr.TaggingError{
				Sentence: i,
				Tokens:   len(tokens[i]),
				Err:      fmt.Errorf("tagger returned %d tags", len(tags)),
			}
		}
		out[i] = tags
	}
	return out, nil
}

func countTokens(seqs [][]string) int {
	n := 0
	for _, s := range seqs {
		n += len(s)
	}
	return n
}

// lower returns the language-aware lower-cased copy of text. cases.Caser is
// stateful, so one is built per call.
func lower(text, code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		tag = language.Und
	}
	return cases.Lower(tag).String(text)
}
