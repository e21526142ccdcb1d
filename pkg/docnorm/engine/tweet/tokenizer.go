// Package tweet implements a tokenizer for informal social text: it keeps
// URLs, emoticons, handles, hashtags, e-mail addresses, phone numbers and
// hyphenated words intact instead of splitting them on punctuation.
package tweet

import (
	"strings"

	"github.com/dlclark/regexp2"
	"golang.org/x/net/html"
)

const (
	urlPattern = `(?:https?://|www\d{0,3}[.]|[a-z0-9.\-]+[.][a-z]{2,4}/)` +
		`(?:[^\s()<>{}\[\]]+|\([^\s()]*?\([^\s()]+\)[^\s()]*?\)|\([^\s]+?\))+` +
		`(?:\([^\s()]*?\([^\s()]+\)[^\s()]*?\)|\([^\s]+?\)|[^\s` + "`" + `!()\[\]{};:'".,<>?«»“”‘’])`

	emoticonPattern = `(?:[<>]?[:;=8][\-o\*']?[\)\]\(\[dDpP/:\}\{@\|\\]` +
		`|[\)\]\(\[dDpP/:\}\{@\|\\][\-o\*']?[:;=8][<>]?` +
		`|</?3)`

	phonePattern = `(?:(?:\+?[01][ *\-.\)]*)?(?:[\(]?\d{3}[ *\-.\)]*)?\d{3}[ *\-.\)]*\d{4})`

	htmlTagPattern = `<[^>\s]+>`
	arrowPattern   = `[\-]+>|<[\-]+`
	handlePattern  = `(?<![\w@])@[\w_]+`
	hashtagPattern = `(?:\#+[\w_]+[\w'_\-]*[\w_]+)`
	emailPattern   = `[\w.+-]+@[\w-]+\.(?:[\w-]\.?)+[\w-]`

	// Words with inner apostrophes or dashes, numbers with separators,
	// plain words, ellipses, then any other non-space character.
	wordPattern = `(?:[^\W\d_](?:[^\W\d_]|['\-_])+[^\W\d_])` +
		`|(?:[+\-]?\d+[,/.:-]\d+[+\-]?)` +
		`|(?:[\w_]+)` +
		`|(?:\.(?:\s*\.){1,})` +
		`|(?:\S)`
)

// Tokenizer splits social text into tokens. It is safe for concurrent use.
type Tokenizer struct {
	words *regexp2.Regexp
	hang  *regexp2.Regexp

	preserveCase bool
}

// Option configures a Tokenizer.
type Option func(*Tokenizer)

// WithPreserveCase controls whether tokens keep their case (default true).
// Emoticons are never lower-cased, so ":D" stays distinct from ":d".
func WithPreserveCase(keep bool) Option {
	return func(t *Tokenizer) { t.preserveCase = keep }
}

// New compiles the token patterns.
func New(opts ...Option) *Tokenizer {
	alts := []string{
		urlPattern,
		phonePattern,
		emoticonPattern,
		htmlTagPattern,
		arrowPattern,
		handlePattern,
		hashtagPattern,
		emailPattern,
		wordPattern,
	}
	t := &Tokenizer{
		words:        regexp2.MustCompile(`(?:`+strings.Join(alts, `)|(?:`)+`)`, regexp2.IgnoreCase),
		hang:         regexp2.MustCompile(`([^a-zA-Z0-9])\1{3,}`, regexp2.None),
		preserveCase: true,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

var emoticonOnly = regexp2.MustCompile(`^`+emoticonPattern+`$`, regexp2.None)

// Tokenize returns the tokens of s in order. HTML entities are decoded first
// and runs of four or more identical non-alphanumeric characters are
// shortened to three.
func (t *Tokenizer) Tokenize(s string) []string {
	text := html.UnescapeString(s)
	if safe, err := t.hang.Replace(text, "$1$1$1", -1, -1); err == nil {
		text = safe
	}

	var tokens []string
	m, err := t.words.FindStringMatch(text)
	for m != nil && err == nil {
		tok := m.String()
		if !t.preserveCase {
			if ok, _ := emoticonOnly.MatchString(tok); !ok {
				tok = strings.ToLower(tok)
			}
		}
		tokens = append(tokens, tok)
		m, err = t.words.FindNextMatch(m)
	}
	return tokens
}
