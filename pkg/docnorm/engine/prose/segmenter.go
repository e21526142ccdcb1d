package prose

import (
	"fmt"
	"strings"

	jdprose "github.com/jdkato/prose/v2"
)

// Segmenter splits text into sentences without tokenizing or tagging it. It
// serves as the sentence splitter for languages handled outside the generic
// pipeline.
type Segmenter struct{}

// NewSegmenter creates a Segmenter.
func NewSegmenter() *Segmenter {
	return &Segmenter{}
}

// Split implements rawtext.SentenceSplitter.
func (s *Segmenter) Split(text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	doc, err := jdprose.NewDocument(text,
		jdprose.WithTokenization(false),
		jdprose.WithTagging(false),
		jdprose.WithExtraction(false))
	if err != nil {
		return nil, fmt.Errorf("segment text: %w", err)
	}

	sents := doc.Sentences()
	out := make([]string, 0, len(sents))
	for _, sent := range sents {
		if t := strings.TrimSpace(sent.Text); t != "" {
			out = append(out, t)
		}
	}
	return out, nil
}
