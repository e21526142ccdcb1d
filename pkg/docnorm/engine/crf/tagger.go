package crf

import (
	"fmt"
	"math"
	"unicode"

	"github.com/cognicore/docnorm/pkg/docnorm/internalerr"
)

// Tagger decodes the most likely label sequence for a token sequence.
// It is read-only after construction and safe for concurrent use.
type Tagger struct {
	labels []string
	trans  [][]float64          // trans[prev][cur]
	state  map[string][]float64 // feature -> weight per label index
}

// NewTagger indexes a validated model for decoding.
func NewTagger(m *Model) (*Tagger, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	index := make(map[string]int, len(m.Labels))
	for i, l := range m.Labels {
		index[l] = i
	}

	t := &Tagger{
		labels: append([]string(nil), m.Labels...),
		trans:  make([][]float64, len(m.Labels)),
		state:  make(map[string][]float64, len(m.State)),
	}
	for i := range t.trans {
		t.trans[i] = make([]float64, len(m.Labels))
	}
	for from, row := range m.Transitions {
		for to, w := range row {
			t.trans[index[from]][index[to]] = w
		}
	}
	for feat, row := range m.State {
		ws := make([]float64, len(m.Labels))
		for l, w := range row {
			ws[index[l]] = w
		}
		t.state[feat] = ws
	}
	return t, nil
}

// Open loads a model file and builds a Tagger from it.
func Open(path string) (*Tagger, error) {
	m, err := LoadModel(path)
	if err != nil {
		return nil, err
	}
	return NewTagger(m)
}

// Labels returns the label set in model order.
func (t *Tagger) Labels() []string {
	return append([]string(nil), t.labels...)
}

// Tag labels one token sequence. An empty sequence yields an empty result.
func (t *Tagger) Tag(tokens []string) []string {
	n := len(tokens)
	if n == 0 {
		return []string{}
	}
	k := len(t.labels)

	emit := make([][]float64, n)
	for i, tok := range tokens {
		row := make([]float64, k)
		for _, f := range Features(tok) {
			if ws, ok := t.state[f]; ok {
				for j, w := range ws {
					row[j] += w
				}
			}
		}
		emit[i] = row
	}

	score := make([][]float64, n)
	back := make([][]int, n)
	score[0] = append([]float64(nil), emit[0]...)
	back[0] = make([]int, k)
	for i := 1; i < n; i++ {
		score[i] = make([]float64, k)
		back[i] = make([]int, k)
		for cur := 0; cur < k; cur++ {
			best, arg := math.Inf(-1), 0
			for prev := 0; prev < k; prev++ {
				s := score[i-1][prev] + t.trans[prev][cur]
				if s > best {
					best, arg = s, prev
				}
			}
			score[i][cur] = best + emit[i][cur]
			back[i][cur] = arg
		}
	}

	last, best := 0, math.Inf(-1)
	for j, s := range score[n-1] {
		if s > best {
			best, last = s, j
		}
	}

	out := make([]string, n)
	for i := n - 1; i >= 0; i-- {
		out[i] = t.labels[last]
		last = back[i][last]
	}
	return out
}

// TagSents labels every sequence in order.
func (t *Tagger) TagSents(sents [][]string) ([][]string, error) {
	out := make([][]string, len(sents))
	for i, s := range sents {
		tags := t.Tag(s)
		if len(tags) != len(s) {
			return nil, &internalerr.TaggingError{
				Sentence: i,
				Tokens:   len(s),
				Err:      fmt.Errorf("decoded %d labels", len(tags)),
			}
		}
		out[i] = tags
	}
	return out, nil
}

// Features returns the feature names fired by a token: capitalization,
// digits, all-punctuation, suffixes of length 1 to 3 and the word itself.
func Features(token string) []string {
	if token == "" {
		return nil
	}
	runes := []rune(token)
	var feats []string

	if unicode.IsUpper(runes[0]) {
		feats = append(feats, "CAPITALIZATION")
	}

	allPunct := true
	for _, r := range runes {
		if unicode.IsDigit(r) {
			feats = append(feats, "HAS_NUM")
			break
		}
	}
	for _, r := range runes {
		if !unicode.IsPunct(r) {
			allPunct = false
			break
		}
	}
	if allPunct {
		feats = append(feats, "PUNCTUATION")
	}

	for n := 1; n <= 3; n++ {
		if len(runes) > n {
			feats = append(feats, "SUF_"+string(runes[len(runes)-n:]))
		}
	}

	return append(feats, "WORD_"+token)
}
