package rawtext

// Token is one token produced by a generic pipeline.
type Token struct {
	Text  string
	Lemma string
	POS   string // coarse (universal) part-of-speech tag
	Start int    // code point index of the token in the annotated text
}

// AnnotatedSentence is one sentence produced by a generic pipeline.
type AnnotatedSentence struct {
	Tokens []Token
}

// Pipeline segments, tokenizes, lemmatizes and tags text in one pass.
type Pipeline interface {
	Annotate(text string) ([]AnnotatedSentence, error)
}

// PipelineProvider loads the generic pipeline for a language. Implementations
// return *internalerr.UnsupportedLanguageError for codes they have no
// resources for, and are expected to cache loaded pipelines.
type PipelineProvider interface {
	Load(language string, maxLength int) (Pipeline, error)
}

// SentenceSplitter detects sentence boundaries.
type SentenceSplitter interface {
	Split(text string) ([]string, error)
}

// WordTokenizer splits one sentence into tokens.
type WordTokenizer interface {
	Tokenize(sentence string) []string
}

// SequenceTagger labels a batch of token sequences; the result has one tag
// sequence per input, each aligned with its tokens.
type SequenceTagger interface {
	TagSents(sents [][]string) ([][]string, error)
}

// Stemmer reduces a token to its root form.
type Stemmer interface {
	Stem(word string) string
}
