// Package prose provides the generic raw-text pipeline backed by
// github.com/jdkato/prose (segmentation, tokenization, Penn Treebank tagging)
// and github.com/aaaton/golem (lemmatization).
package prose

import (
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
	jdprose "github.com/jdkato/prose/v2"
	"golang.org/x/text/language"

	"github.com/cognicore/docnorm/pkg/docnorm/internalerr"
	"github.com/cognicore/docnorm/pkg/docnorm/rawtext"
)

// Provider loads pipelines by language code and caches them. It is safe for
// concurrent use.
type Provider struct {
	mu        sync.Mutex
	pipelines map[string]*Pipeline

	lemmaOnce  sync.Once
	lemmatizer *golem.Lemmatizer
	lemmaErr   error
}

// NewProvider creates an empty provider. Resources are loaded on first use.
func NewProvider() *Provider {
	return &Provider{pipelines: make(map[string]*Pipeline)}
}

// Supported reports whether code names a language this provider can load.
func Supported(code string) bool {
	return baseLanguage(code) == "en"
}

// Load implements rawtext.PipelineProvider.
func (p *Provider) Load(code string, maxLength int) (rawtext.Pipeline, error) {
	if !Supported(code) {
		return nil, &internalerr.UnsupportedLanguageError{Language: code}
	}

	key := fmt.Sprintf("%s/%d", code, maxLength)

	p.mu.Lock()
	defer p.mu.Unlock()
	if pl, ok := p.pipelines[key]; ok {
		return pl, nil
	}

	lm, err := p.loadLemmatizer()
	if err != nil {
		return nil, fmt.Errorf("load lemmatizer for %q: %w", code, err)
	}
	pl := &Pipeline{maxLength: maxLength, lemmatizer: lm}
	p.pipelines[key] = pl
	return pl, nil
}

func (p *Provider) loadLemmatizer() (*golem.Lemmatizer, error) {
	p.lemmaOnce.Do(func() {
		p.lemmatizer, p.lemmaErr = golem.New(en.New())
	})
	return p.lemmatizer, p.lemmaErr
}

// Pipeline annotates English text. Token starts are code point indices into
// the annotated text.
type Pipeline struct {
	maxLength  int
	lemmatizer *golem.Lemmatizer
}

// Annotate implements rawtext.Pipeline.
func (p *Pipeline) Annotate(text string) ([]rawtext.AnnotatedSentence, error) {
	if n := utf8.RuneCountInString(text); p.maxLength > 0 && n > p.maxLength {
		return nil, &internalerr.InputTooLargeError{Language: "en", Length: n, Limit: p.maxLength}
	}
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	doc, err := jdprose.NewDocument(text, jdprose.WithExtraction(false))
	if err != nil {
		return nil, fmt.Errorf("annotate text: %w", err)
	}

	bounds := sentenceEnds(text, doc.Sentences())

	var out []rawtext.AnnotatedSentence
	var cur rawtext.AnnotatedSentence
	s := 0
	cursor, runePos := 0, 0
	for i, tok := range doc.Tokens() {
		idx := strings.Index(text[cursor:], tok.Text)
		if idx < 0 {
			return nil, &internalerr.AlignmentError{
				Sentence: len(out),
				Reason:   fmt.Sprintf("token %d %q not found after code point %d", i, tok.Text, runePos),
			}
		}
		byteStart := cursor + idx
		start := runePos + utf8.RuneCountInString(text[cursor:byteStart])

		for s < len(bounds)-1 && byteStart >= bounds[s] {
			if len(cur.Tokens) > 0 {
				out = append(out, cur)
				cur = rawtext.AnnotatedSentence{}
			}
			s++
		}

		cur.Tokens = append(cur.Tokens, rawtext.Token{
			Text:  tok.Text,
			Lemma: p.lemma(tok.Text, tok.Tag),
			POS:   UniversalTag(tok.Tag),
			Start: start,
		})

		cursor = byteStart + len(tok.Text)
		runePos = start + utf8.RuneCountInString(tok.Text)
	}
	if len(cur.Tokens) > 0 {
		out = append(out, cur)
	}
	return out, nil
}

func (p *Pipeline) lemma(word, tag string) string {
	if p.lemmatizer == nil || UniversalTag(tag) == "PUNCT" {
		return word
	}
	if tag == "NNP" || tag == "NNPS" {
		return word
	}
	return p.lemmatizer.Lemma(strings.ToLower(word))
}

// sentenceEnds returns the byte offset at which each sentence ends. Sentences
// the segmenter rewrote and that cannot be found verbatim are merged into the
// following one.
func sentenceEnds(text string, sents []jdprose.Sentence) []int {
	var ends []int
	cursor := 0
	for _, s := range sents {
		st := strings.TrimSpace(s.Text)
		if st == "" {
			continue
		}
		idx := strings.Index(text[cursor:], st)
		if idx < 0 {
			continue
		}
		cursor += idx + len(st)
		ends = append(ends, cursor)
	}
	if len(ends) == 0 || ends[len(ends)-1] < len(text) {
		ends = append(ends, len(text))
	}
	return ends
}

func baseLanguage(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return ""
	}
	if tag, err := language.Parse(code); err == nil {
		base, _ := tag.Base()
		return base.String()
	}
	// Model-style names such as "en_core_web_sm".
	head, _, _ := strings.Cut(code, "_")
	return strings.ToLower(head)
}
