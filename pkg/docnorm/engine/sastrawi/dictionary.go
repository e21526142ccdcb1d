package sastrawi

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cognicore/docnorm/pkg/docnorm/internalerr"
)

//go:embed data/roots.txt
var defaultRoots string

// Dictionary is a set of root words.
type Dictionary map[string]struct{}

// NewDictionary builds a dictionary from words, lower-cased.
func NewDictionary(words []string) Dictionary {
	d := make(Dictionary, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			d[w] = struct{}{}
		}
	}
	return d
}

// DefaultDictionary returns the embedded root word list.
func DefaultDictionary() Dictionary {
	d, _ := parseDictionary(strings.NewReader(defaultRoots))
	return d
}

// LoadDictionary reads a root word file: one word per line, blank lines and
// lines starting with '#' ignored.
func LoadDictionary(path string) (Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("load stem dictionary %s: %w", path, internalerr.ErrNotFound)
		}
		return nil, fmt.Errorf("load stem dictionary %s: %w", path, err)
	}
	defer f.Close()

	d, err := parseDictionary(f)
	if err != nil {
		return nil, fmt.Errorf("load stem dictionary %s: %w", path, err)
	}
	return d, nil
}

func parseDictionary(r io.Reader) (Dictionary, error) {
	var words []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return NewDictionary(words), nil
}

// Has reports whether w is a root word.
func (d Dictionary) Has(w string) bool {
	_, ok := d[w]
	return ok
}

// Add inserts words into the dictionary.
func (d Dictionary) Add(words ...string) {
	for _, w := range words {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			d[w] = struct{}{}
		}
	}
}
