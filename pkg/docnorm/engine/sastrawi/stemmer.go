// Package sastrawi implements a dictionary-backed confix-stripping stemmer
// for Indonesian. Affixes are removed in the order particle, possessive,
// derivational suffix, then up to three prefixes, and a candidate is only
// accepted when it is a known root word.
package sastrawi

import (
	"strings"
	"unicode"
)

const maxPrefixes = 3

var (
	particles   = []string{"lah", "kah", "tah", "pun"}
	possessives = []string{"nya", "ku", "mu"}
)

// Prefix/suffix combinations that never form a valid confix.
var disallowedConfix = map[string]map[string]bool{
	"be": {"i": true},
	"di": {"an": true},
	"ke": {"i": true, "kan": true},
	"me": {"an": true},
	"se": {"i": true, "kan": true},
	"te": {"an": true},
}

// Stemmer reduces Indonesian words to their root form. It is read-only after
// construction and safe for concurrent use.
type Stemmer struct {
	dict Dictionary
}

// New creates a stemmer over dict. A nil dict uses DefaultDictionary.
func New(dict Dictionary) *Stemmer {
	if dict == nil {
		dict = DefaultDictionary()
	}
	return &Stemmer{dict: dict}
}

// Stem returns the root of word, or the lower-cased word when no root is found.
// Reduplicated words ("anak-anak") stem to the shared root.
func (s *Stemmer) Stem(word string) string {
	w := strings.ToLower(strings.TrimSpace(word))
	if w == "" || !hasLetter(w) {
		return w
	}

	if left, right, ok := strings.Cut(w, "-"); ok && left != "" && right != "" {
		l, r := s.stemSingular(left), s.stemSingular(right)
		if l == r {
			return l
		}
		return w
	}
	return s.stemSingular(w)
}

type stage struct {
	word   string
	suffix string // derivational suffix removed to reach word
}

func (s *Stemmer) stemSingular(w string) string {
	if s.dict.Has(w) {
		return w
	}

	stages := suffixStages(w)
	for _, st := range stages[1:] {
		if s.dict.Has(st.word) {
			return st.word
		}
	}

	// Most stripped first.
	for i := len(stages) - 1; i >= 0; i-- {
		st := stages[i]
		if root, ok := s.stripPrefixes(st.word, st.suffix, "", maxPrefixes); ok {
			return root
		}
	}
	return w
}

func suffixStages(w string) []stage {
	stages := []stage{{word: w}}
	cur := w

	if base, ok := trimAny(cur, particles); ok {
		cur = base
		stages = append(stages, stage{word: cur})
	}
	if base, ok := trimAny(cur, possessives); ok {
		cur = base
		stages = append(stages, stage{word: cur})
	}

	switch {
	case strings.HasSuffix(cur, "kan") && runeLen(cur) > 5:
		stages = append(stages,
			stage{word: strings.TrimSuffix(cur, "an"), suffix: "an"},
			stage{word: strings.TrimSuffix(cur, "kan"), suffix: "kan"})
	case strings.HasSuffix(cur, "an") && runeLen(cur) > 4:
		stages = append(stages, stage{word: strings.TrimSuffix(cur, "an"), suffix: "an"})
	case strings.HasSuffix(cur, "i") && runeLen(cur) > 3:
		stages = append(stages, stage{word: strings.TrimSuffix(cur, "i"), suffix: "i"})
	}
	return stages
}

func trimAny(w string, suffixes []string) (string, bool) {
	for _, suf := range suffixes {
		if strings.HasSuffix(w, suf) && runeLen(w)-runeLen(suf) >= 2 {
			return strings.TrimSuffix(w, suf), true
		}
	}
	return w, false
}

// stripPrefixes tries prefix removals recursively. prev is the kind of the
// prefix removed one level up; it is empty for the outermost prefix, which is
// the one checked against the suffix for an invalid confix.
func (s *Stemmer) stripPrefixes(w, suffix, prev string, depth int) (string, bool) {
	if depth == 0 {
		return "", false
	}
	for _, c := range prefixCuts(w) {
		if c.kind == prev {
			continue
		}
		if prev == "" && disallowedConfix[c.kind][suffix] {
			continue
		}
		if runeLen(c.rest) < 2 {
			continue
		}
		if s.dict.Has(c.rest) {
			return c.rest, true
		}
		if root, ok := s.stripPrefixes(c.rest, suffix, c.kind, depth-1); ok {
			return root, true
		}
	}
	return "", false
}

type cut struct {
	kind string
	rest string
}

// prefixCuts lists candidate remainders after removing one prefix of w, with
// the recoded initial letter where a nasal prefix replaced it.
func prefixCuts(w string) []cut {
	var cuts []cut
	add := func(kind string, rests ...string) {
		for _, r := range rests {
			cuts = append(cuts, cut{kind: kind, rest: r})
		}
	}

	switch {
	case strings.HasPrefix(w, "di"):
		add("di", w[2:])
	case strings.HasPrefix(w, "ke"):
		add("ke", w[2:])
	case strings.HasPrefix(w, "se"):
		add("se", w[2:])
	}

	switch {
	case w == "belajar" || w == "pelajar":
		add(w[:2], "ajar")
	case strings.HasPrefix(w, "ber"):
		rest := w[3:]
		if startsVowel(rest) {
			add("be", rest, "r"+rest)
		} else {
			add("be", rest)
		}
	case strings.HasPrefix(w, "be") && len(w) > 4 && !isVowel(w[2]) && w[3:5] == "er":
		add("be", w[2:])
	}

	switch {
	case strings.HasPrefix(w, "ter"):
		rest := w[3:]
		if startsVowel(rest) {
			add("te", rest, "r"+rest)
		} else {
			add("te", rest)
		}
	case strings.HasPrefix(w, "te") && len(w) > 4 && !isVowel(w[2]) && w[3:5] == "er":
		add("te", w[2:])
	}

	if strings.HasPrefix(w, "me") {
		nasalCuts("me", w[2:], add)
	}

	if strings.HasPrefix(w, "pe") {
		rest := w[2:]
		switch {
		case strings.HasPrefix(rest, "r") && len(rest) > 1:
			r := rest[1:]
			if startsVowel(r) {
				add("pe", r, rest)
			} else {
				add("pe", r)
			}
		case strings.HasPrefix(rest, "ng"), strings.HasPrefix(rest, "ny"),
			strings.HasPrefix(rest, "m"), strings.HasPrefix(rest, "n"):
			nasalCuts("pe", rest, add)
		case len(rest) > 0 && !isVowel(rest[0]):
			add("pe", rest)
		}
	}

	return cuts
}

// nasalCuts handles the meN-/peN- prefix allomorphs. rest is the word after
// "me" or "pe".
func nasalCuts(kind, rest string, add func(string, ...string)) {
	switch {
	case strings.HasPrefix(rest, "ng"):
		r := rest[2:]
		switch {
		case startsVowel(r):
			add(kind, r, "k"+r)
		case strings.HasPrefix(r, "g"), strings.HasPrefix(r, "h"),
			strings.HasPrefix(r, "k"), strings.HasPrefix(r, "q"):
			add(kind, r)
		}
	case strings.HasPrefix(rest, "ny"):
		r := rest[2:]
		if startsVowel(r) {
			add(kind, "s"+r)
		}
	case strings.HasPrefix(rest, "m"):
		r := rest[1:]
		switch {
		case startsVowel(r):
			add(kind, "m"+r, "p"+r)
		case strings.HasPrefix(r, "b"), strings.HasPrefix(r, "f"),
			strings.HasPrefix(r, "v"), strings.HasPrefix(r, "p"):
			add(kind, r)
		}
	case strings.HasPrefix(rest, "n"):
		r := rest[1:]
		switch {
		case startsVowel(r):
			add(kind, "n"+r, "t"+r)
		case len(r) > 0 && strings.ContainsRune("cdjstz", rune(r[0])):
			add(kind, r)
		}
	case len(rest) > 0 && strings.ContainsRune("lrwy", rune(rest[0])):
		add(kind, rest)
	}
}

func isVowel(b byte) bool {
	return strings.IndexByte("aiueo", b) >= 0
}

func startsVowel(s string) bool {
	return len(s) > 0 && isVowel(s[0])
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func runeLen(s string) int {
	return len([]rune(s))
}
